package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal_HastElement(t *testing.T) {
	src := `{
	  "type": "element",
	  "tagName": "ol",
	  "properties": {"className": ["toc-level", "toc-level-1"]},
	  "children": [
	    {"type": "element", "tagName": "li", "properties": {}, "children": [
	      {"type": "element", "tagName": "a", "properties": {"href": "#setup", "className": "toc-link"}, "children": [
	        {"type": "text", "value": "Setup"}
	      ]}
	    ]}
	  ]
	}`

	var n Node
	require.NoError(t, json.Unmarshal([]byte(src), &n))

	assert.Equal(t, KindOrderedList, n.Kind)
	assert.Equal(t, []string{"toc-level", "toc-level-1"}, n.Classes())
	require.Len(t, n.Children, 1)

	link := n.Children[0].Children[0]
	assert.Equal(t, KindLink, link.Kind)
	assert.Equal(t, "#setup", link.Attributes["href"].String())
	assert.False(t, link.Attributes[AttrClass].IsList())
	require.Len(t, link.Children, 1)
	assert.True(t, link.Children[0].IsText())
	assert.Equal(t, "Setup", link.Children[0].Value)
}

func TestUnmarshal_ScalarProperties(t *testing.T) {
	src := `{"type":"element","tagName":"input","properties":{"disabled":true,"hidden":false,"tabIndex":2}}`
	var n Node
	require.NoError(t, json.Unmarshal([]byte(src), &n))

	_, hidden := n.Attributes["hidden"]
	assert.False(t, hidden)
	assert.Equal(t, "", n.Attributes["disabled"].String())
	assert.Equal(t, "2", n.Attributes["tabIndex"].String())
}

func TestUnmarshal_UnknownTypeIsCarriedThrough(t *testing.T) {
	src := `{"type":"doctype","value":"html"}`
	var n Node
	require.NoError(t, json.Unmarshal([]byte(src), &n))
	assert.Equal(t, "", n.Kind)

	out, err := json.Marshal(&n)
	require.NoError(t, err)
	assert.JSONEq(t, src, string(out))
}

func TestMarshal_ClassBecomesClassName(t *testing.T) {
	n := Element(KindNav, Attributes{AttrClass: List("toc-container", "mt-5")},
		Element(KindDiv, Attributes{AttrClass: List("toc-header")}, Text("Table of Contents")),
	)
	out, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{
	  "type": "element",
	  "tagName": "nav",
	  "properties": {"className": ["toc-container", "mt-5"]},
	  "children": [
	    {"type": "element", "tagName": "div", "properties": {"className": ["toc-header"]},
	     "children": [{"type": "text", "value": "Table of Contents"}]}
	  ]
	}`, string(out))
}

func TestUnmarshal_RejectsObjectProperty(t *testing.T) {
	src := `{"type":"element","tagName":"div","properties":{"style":{"color":"red"}}}`
	var n Node
	require.Error(t, json.Unmarshal([]byte(src), &n))
}

func TestUnmarshal_TaglessElementKeepsProperties(t *testing.T) {
	src := `{"type":"element","properties":{"className":["x"],"data-n":3}}`
	var n Node
	require.NoError(t, json.Unmarshal([]byte(src), &n))
	assert.Equal(t, "", n.Kind)

	out, err := json.Marshal(&n)
	require.NoError(t, err)
	assert.JSONEq(t, src, string(out))
}

func TestUnmarshal_UnknownTypeKeepsFieldsAndChildren(t *testing.T) {
	src := `{"type":"mdxJsxFlowElement","name":"Aside","attributes":[{"name":"open"}],
	  "children":[{"type":"element","tagName":"ol","properties":{"className":["toc-level"]}}]}`
	var n Node
	require.NoError(t, json.Unmarshal([]byte(src), &n))
	assert.Equal(t, "", n.Kind)
	require.Len(t, n.Children, 1)
	assert.Equal(t, KindOrderedList, n.Children[0].Kind)

	n.Children[0].Kind = KindUnorderedList
	out, err := json.Marshal(&n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"mdxJsxFlowElement","name":"Aside","attributes":[{"name":"open"}],
	  "children":[{"type":"element","tagName":"ul","properties":{"className":["toc-level"]}}]}`, string(out))
}

func TestUnmarshal_PassthroughRejectsMalformedChildren(t *testing.T) {
	var n Node
	require.Error(t, json.Unmarshal([]byte(`{"type":"custom","children":{"a":1}}`), &n))
}

func TestUnmarshal_SVGTextElementStaysElement(t *testing.T) {
	src := `{"type":"element","tagName":"text","properties":{"x":"1"},"children":[{"type":"text","value":"label"}]}`
	var n Node
	require.NoError(t, json.Unmarshal([]byte(src), &n))
	assert.Equal(t, "text", n.Kind)
	assert.False(t, n.IsText())
	assert.Equal(t, "1", n.Attributes["x"].String())
	require.Len(t, n.Children, 1)
	assert.True(t, n.Children[0].IsText())

	out, err := json.Marshal(&n)
	require.NoError(t, err)
	assert.JSONEq(t, src, string(out))
}

func TestClone_KeepsPassthroughFields(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"type":"doctype","value":"html","public":null}`), &n))

	c := Clone(&n)
	assert.True(t, Equal(&n, c))

	var other Node
	require.NoError(t, json.Unmarshal([]byte(`{"type":"doctype","value":"html"}`), &other))
	assert.False(t, Equal(&n, &other))
}
