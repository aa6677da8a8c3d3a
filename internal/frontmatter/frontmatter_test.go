package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, err := Split(input)
	require.NoError(t, err)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_CRLF(t *testing.T) {
	fm, body, err := Split([]byte("---\r\ntitle: x\r\n---\r\nbody\r\n"))
	require.NoError(t, err)
	require.Equal(t, []byte("title: x\r\n"), fm)
	require.Equal(t, []byte("body\r\n"), body)
}

func TestSplit_EmptyFrontmatter(t *testing.T) {
	fm, body, err := Split([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	require.Empty(t, fm)
	require.Equal(t, []byte("body\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Empty(t, body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, err := Split([]byte("---\ntitle: x\n# Body\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestParse_Meta(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: Guide\ntoc: false\nauthor: someone\n---\n# Guide\n"))
	require.NoError(t, err)
	require.Equal(t, "Guide", doc.Meta.Title)
	require.False(t, doc.Meta.TOCEnabled())
	require.Equal(t, []byte("# Guide\n"), doc.Body)
}

func TestParse_TOCDefaultsOn(t *testing.T) {
	doc, err := Parse([]byte("# Plain\n"))
	require.NoError(t, err)
	require.True(t, doc.Meta.TOCEnabled())
	require.Empty(t, doc.Raw)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: [unclosed\n---\nbody\n"))
	require.Error(t, err)
}
