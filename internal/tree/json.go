package tree

import (
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"strconv"
)

// Wire node types of the hast-shaped JSON produced by TOC builders.
const (
	wireElement = "element"
	wireText    = "text"
	wireRoot    = "root"
	wireComment = "comment"
)

// propertyNames maps hast property names to HTML attribute names.
var propertyNames = map[string]string{
	"className": AttrClass,
	"htmlFor":   "for",
}

type wireNode struct {
	Type       string                     `json:"type"`
	TagName    string                     `json:"tagName,omitempty"`
	Properties map[string]json.RawMessage `json:"properties,omitempty"`
	Children   []*Node                    `json:"children,omitempty"`
	Value      string                     `json:"value,omitempty"`
}

// MarshalJSON encodes n in hast form.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := wireNode{Children: n.Children}
	switch n.Kind {
	case KindText:
		w.Type = wireText
		w.Value = n.Value
	case KindComment:
		w.Type = wireComment
		w.Value = n.Value
	case KindRoot:
		w.Type = wireRoot
	case "":
		return n.marshalPassthrough()
	default:
		w.Type = wireElement
		w.TagName = n.Kind
		props, err := encodeProperties(n.Attributes)
		if err != nil {
			return nil, err
		}
		w.Properties = props
	}
	return json.Marshal(w)
}

// marshalPassthrough writes back the fields an opaque node was decoded from,
// with its current children.
func (n *Node) marshalPassthrough() ([]byte, error) {
	fields := maps.Clone(n.passthrough)
	if fields == nil {
		fields = map[string]json.RawMessage{"type": json.RawMessage(`""`)}
		if n.Value != "" {
			raw, err := json.Marshal(n.Value)
			if err != nil {
				return nil, err
			}
			fields["value"] = raw
		}
		props, err := encodeProperties(n.Attributes)
		if err != nil {
			return nil, err
		}
		if props != nil {
			raw, err := json.Marshal(props)
			if err != nil {
				return nil, err
			}
			fields["properties"] = raw
		}
	}
	if n.Children != nil {
		raw, err := json.Marshal(n.Children)
		if err != nil {
			return nil, err
		}
		fields["children"] = raw
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes a hast node. Unknown node types and elements without
// a tag name decode to a node with an empty Kind; their fields are kept so
// they encode back unchanged.
func (n *Node) UnmarshalJSON(data []byte) error {
	var head struct {
		Type    string `json:"type"`
		TagName string `json:"tagName"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	switch {
	case head.Type == wireText, head.Type == wireComment, head.Type == wireRoot:
	case head.Type == wireElement && head.TagName != "":
	default:
		return n.unmarshalPassthrough(data)
	}

	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = Node{Children: w.Children, Value: w.Value}
	switch w.Type {
	case wireText:
		n.Kind = KindText
	case wireComment:
		n.Kind = KindComment
	case wireRoot:
		n.Kind = KindRoot
	default:
		n.Kind = w.TagName
		attrs, err := decodeProperties(w.Properties)
		if err != nil {
			return fmt.Errorf("element %q: %w", w.TagName, err)
		}
		n.Attributes = attrs
	}
	return nil
}

func (n *Node) unmarshalPassthrough(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var children []*Node
	if raw, ok := fields["children"]; ok {
		if err := json.Unmarshal(raw, &children); err != nil {
			return fmt.Errorf("children: %w", err)
		}
		delete(fields, "children")
	}
	var value string
	if raw, ok := fields["value"]; ok {
		// Non-string values stay in the passthrough fields only.
		_ = json.Unmarshal(raw, &value)
	}
	*n = Node{Children: children, Value: value, passthrough: fields}
	return nil
}

func encodeProperties(attrs Attributes) (map[string]json.RawMessage, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	reverse := make(map[string]string, len(propertyNames))
	for prop, attr := range propertyNames {
		reverse[attr] = prop
	}
	out := make(map[string]json.RawMessage, len(attrs))
	for name, v := range attrs {
		key := name
		if prop, ok := reverse[name]; ok {
			key = prop
		}
		var (
			raw []byte
			err error
		)
		if v.IsList() {
			raw, err = json.Marshal(v.Tokens())
		} else {
			raw, err = json.Marshal(v.String())
		}
		if err != nil {
			return nil, err
		}
		out[key] = raw
	}
	return out, nil
}

func decodeProperties(props map[string]json.RawMessage) (Attributes, error) {
	if len(props) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make(Attributes, len(props))
	for _, key := range keys {
		var raw any
		if err := json.Unmarshal(props[key], &raw); err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
		name := key
		if attr, ok := propertyNames[key]; ok {
			name = attr
		}
		switch v := raw.(type) {
		case nil:
		case string:
			attrs[name] = String(v)
		case bool:
			// hast encodes boolean attributes as true/false; false means absent.
			if v {
				attrs[name] = String("")
			}
		case float64:
			attrs[name] = String(strconv.FormatFloat(v, 'f', -1, 64))
		case []any:
			tokens := make([]string, 0, len(v))
			for _, item := range v {
				tokens = append(tokens, fmt.Sprint(item))
			}
			attrs[name] = List(tokens...)
		default:
			return nil, fmt.Errorf("property %q: unsupported value %T", key, raw)
		}
	}
	return attrs, nil
}
