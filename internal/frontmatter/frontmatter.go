// Package frontmatter separates YAML frontmatter from a Markdown document and
// reads the page settings the TOC pipeline honours.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Meta holds the frontmatter fields used by the pipeline. Unknown fields are
// ignored.
type Meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	// TOC disables the table of contents for the page when set to false.
	TOC *bool `yaml:"toc"`
}

// TOCEnabled reports whether the page wants a table of contents.
func (m Meta) TOCEnabled() bool {
	return m.TOC == nil || *m.TOC
}

// Document is a Markdown source split into frontmatter and body.
type Document struct {
	// Raw is the frontmatter text without delimiters; empty when absent.
	Raw  []byte
	Meta Meta
	Body []byte
}

// Parse splits content and decodes its frontmatter.
func Parse(content []byte) (*Document, error) {
	raw, body, err := Split(content)
	if err != nil {
		return nil, err
	}
	doc := &Document{Raw: raw, Body: body}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := yaml.Unmarshal(raw, &doc.Meta); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
// A document without a leading delimiter is returned whole as the body.
func Split(content []byte) (frontmatter []byte, body []byte, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter at end of file has no trailing newline.
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			end := len(content) - len("---")
			return content[start:end], []byte{}, nil
		}
		return nil, nil, ErrMissingClosingDelimiter
	}
	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
