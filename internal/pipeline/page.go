package pipeline

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/tocnav/internal/tree"
)

const pageSkeleton = `<!DOCTYPE html><html><head><meta charset="utf-8"><title></title></head><body></body></html>`

// AssemblePage wraps a rendered body fragment into an HTML document and
// inserts toc at the start of its content. A nil toc leaves the body as is.
func AssemblePage(title, body string, toc *tree.Node) ([]byte, error) {
	doc, err := html.Parse(strings.NewReader(pageSkeleton))
	if err != nil {
		return nil, err
	}
	if t := findElement(doc, atom.Title); t != nil && title != "" {
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	}

	bodyEl := findElement(doc, atom.Body)
	nodes, err := html.ParseFragment(strings.NewReader(body), bodyEl)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		bodyEl.AppendChild(n)
	}

	Insert(doc, toc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Insert places toc as the first content of the document's <main> element,
// falling back to <body> and then to the document itself.
func Insert(doc *html.Node, toc *tree.Node) {
	if toc == nil {
		return
	}
	target := findElement(doc, atom.Main)
	if target == nil {
		target = findElement(doc, atom.Body)
	}
	if target == nil {
		target = doc
	}
	nodes := tree.ToHTML(toc)
	first := target.FirstChild
	for _, n := range nodes {
		target.InsertBefore(n, first)
	}
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
