package tree

import (
	"bytes"
	"io"
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToHTML converts n into an x/net/html node tree. Root and opaque nodes become
// document fragments: their children are returned in order.
func ToHTML(n *Node) []*html.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindText:
		return []*html.Node{{Type: html.TextNode, Data: n.Value}}
	case KindComment:
		return []*html.Node{{Type: html.CommentNode, Data: n.Value}}
	case KindRoot, "":
		var out []*html.Node
		for _, c := range n.Children {
			out = append(out, ToHTML(c)...)
		}
		return out
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Kind,
		DataAtom: atom.Lookup([]byte(n.Kind)),
		Attr:     htmlAttrs(n.Attributes),
	}
	for _, c := range n.Children {
		for _, hc := range ToHTML(c) {
			el.AppendChild(hc)
		}
	}
	return []*html.Node{el}
}

// htmlAttrs flattens attributes in name order so output is stable.
func htmlAttrs(attrs Attributes) []html.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]html.Attribute, 0, len(names))
	for _, k := range names {
		out = append(out, html.Attribute{Key: k, Val: attrs[k].String()})
	}
	return out
}

// Render writes n as HTML.
func Render(w io.Writer, n *Node) error {
	for _, hn := range ToHTML(n) {
		if err := html.Render(w, hn); err != nil {
			return err
		}
	}
	return nil
}

// RenderString returns n rendered as HTML.
func RenderString(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
