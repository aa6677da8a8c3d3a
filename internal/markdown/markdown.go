// Package markdown wraps goldmark for the two things the TOC pipeline needs
// from a document: its headings and its HTML.
package markdown

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"
)

// Options controls how Markdown is parsed and rendered.
type Options struct {
	// GFM enables tables, strikethrough, autolinks and task lists.
	GFM bool
	// Unsafe passes raw HTML in the source through to the output.
	Unsafe bool
	// SlugIDs generates transliterated heading IDs ("Über uns" -> "uber-uns")
	// instead of goldmark's defaults.
	SlugIDs bool
}

// Heading is a single document heading in source order.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Document is a parsed Markdown body.
type Document struct {
	source []byte
	root   gmast.Node
	md     goldmark.Markdown
}

func newMarkdown(opts Options) goldmark.Markdown {
	var gmOpts []goldmark.Option
	gmOpts = append(gmOpts, goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithAttribute(),
	))
	if opts.GFM {
		gmOpts = append(gmOpts, goldmark.WithExtensions(extension.GFM))
	}
	if opts.Unsafe {
		gmOpts = append(gmOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	return goldmark.New(gmOpts...)
}

// Parse parses a Markdown body (frontmatter already removed). Headings receive
// generated IDs unless the source sets one with an {#id} attribute.
func Parse(body []byte, opts Options) *Document {
	md := newMarkdown(opts)
	var popts []parser.ParseOption
	if opts.SlugIDs {
		popts = append(popts, parser.WithContext(parser.NewContext(parser.WithIDs(newSlugIDs()))))
	}
	root := md.Parser().Parse(text.NewReader(body), popts...)
	return &Document{source: body, root: root, md: md}
}

// Headings returns all headings of the document in order.
func (d *Document) Headings() []Heading {
	var out []Heading
	_ = gmast.Walk(d.root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		out = append(out, Heading{
			Level: h.Level,
			Text:  headingText(h, d.source),
			ID:    headingID(h),
		})
		return gmast.WalkSkipChildren, nil
	})
	return out
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return d.md.Renderer().Render(w, d.source, d.root)
}

// RenderString returns the document as HTML.
func (d *Document) RenderString() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExtractHeadings parses body and returns its headings.
func ExtractHeadings(body []byte, opts Options) []Heading {
	return Parse(body, opts).Headings()
}

func headingID(h *gmast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// headingText collects the plain text of a heading's inline content.
func headingText(h *gmast.Heading, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(h, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(node.Value)
		case *gmast.RawHTML:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return norm.NFC.String(strings.TrimSpace(b.String()))
}

// slugIDs generates heading IDs with gosimple/slug, suffixing duplicates.
type slugIDs struct {
	seen map[string]struct{}
}

func newSlugIDs() *slugIDs {
	return &slugIDs{seen: make(map[string]struct{})}
}

func (s *slugIDs) Generate(value []byte, kind gmast.NodeKind) []byte {
	base := slug.Make(string(value))
	if base == "" {
		base = "id"
		if kind == gmast.KindHeading {
			base = "heading"
		}
	}
	id := base
	for i := 1; ; i++ {
		if _, dup := s.seen[id]; !dup {
			break
		}
		id = base + "-" + strconv.Itoa(i)
	}
	s.seen[id] = struct{}{}
	return []byte(id)
}

func (s *slugIDs) Put(value []byte) {
	s.seen[string(value)] = struct{}{}
}
