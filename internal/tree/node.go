// Package tree defines the element tree exchanged between the TOC builder,
// the TOC transform and the HTML writer.
package tree

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Well-known node kinds. Element kinds are HTML tag names; the non-element
// kinds start with '#' so no tag name (SVG <text> included) can collide.
const (
	KindText          = "#text"
	KindRoot          = "#root"
	KindComment       = "#comment"
	KindOrderedList   = "ol"
	KindUnorderedList = "ul"
	KindListItem      = "li"
	KindLink          = "a"
	KindNav           = "nav"
	KindDiv           = "div"
)

// AttrClass is the attribute holding class-name tokens.
const AttrClass = "class"

// AttrValue is either a single string or an ordered list of string tokens.
type AttrValue struct {
	tokens []string
	list   bool
}

// String returns a scalar attribute value.
func String(s string) AttrValue {
	return AttrValue{tokens: []string{s}}
}

// List returns a token-list attribute value.
func List(tokens ...string) AttrValue {
	return AttrValue{tokens: slices.Clone(tokens), list: true}
}

// IsList reports whether v holds a token list.
func (v AttrValue) IsList() bool { return v.list }

// Tokens returns a copy of the value's tokens. A scalar yields one token.
func (v AttrValue) Tokens() []string { return slices.Clone(v.tokens) }

// String renders the value the way an HTML attribute carries it.
func (v AttrValue) String() string { return strings.Join(v.tokens, " ") }

// Equal reports whether two values hold the same shape and tokens.
func (v AttrValue) Equal(o AttrValue) bool {
	return v.list == o.list && slices.Equal(v.tokens, o.tokens)
}

// Attributes maps attribute names to values.
type Attributes map[string]AttrValue

// Node is a single node of the tree. Text nodes carry Value and no children.
// A node with an empty Kind is opaque and is carried through untouched.
type Node struct {
	Kind       string
	Attributes Attributes
	Children   []*Node
	Value      string

	// passthrough holds the decoded wire fields, children excepted, of a node
	// whose kind was not understood. They are written back verbatim.
	passthrough map[string]json.RawMessage
}

// Element constructs an element node.
func Element(kind string, attrs Attributes, children ...*Node) *Node {
	return &Node{Kind: kind, Attributes: attrs, Children: children}
}

// Text constructs a text node.
func Text(value string) *Node {
	return &Node{Kind: KindText, Value: value}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n != nil && n.Kind == KindText }

// Classes returns the class tokens of n, or nil.
func (n *Node) Classes() []string {
	if n == nil {
		return nil
	}
	v, ok := n.Attributes[AttrClass]
	if !ok {
		return nil
	}
	return v.Tokens()
}

// Clone returns a deep copy of n.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Value: n.Value, passthrough: maps.Clone(n.passthrough)}
	if n.Attributes != nil {
		out.Attributes = make(Attributes, len(n.Attributes))
		for k, v := range n.Attributes {
			out.Attributes[k] = AttrValue{tokens: slices.Clone(v.tokens), list: v.list}
		}
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = Clone(c)
		}
	}
	return out
}

// Equal reports whether a and b are structurally identical. A nil and an empty
// children slice compare equal.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Value != b.Value {
		return false
	}
	if !maps.EqualFunc(a.passthrough, b.passthrough, func(x, y json.RawMessage) bool { return bytes.Equal(x, y) }) {
		return false
	}
	if len(a.Attributes) != len(b.Attributes) {
		return false
	}
	for k, av := range a.Attributes {
		bv, ok := b.Attributes[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
