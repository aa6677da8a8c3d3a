package toc

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/tocnav/internal/tree"
)

func nestedLists() *tree.Node {
	return tree.Element(tree.KindOrderedList, nil,
		tree.Element(tree.KindListItem, nil,
			tree.Element(tree.KindOrderedList, nil),
		),
	)
}

func assertWrapper(t *testing.T, nav *tree.Node) {
	t.Helper()
	require.NotNil(t, nav)
	assert.Equal(t, tree.KindNav, nav.Kind)
	assert.True(t, nav.Attributes[tree.AttrClass].Equal(tree.List("toc-container", "mt-5")))
	require.NotEmpty(t, nav.Children)

	header := nav.Children[0]
	assert.Equal(t, tree.KindDiv, header.Kind)
	assert.True(t, header.Attributes[tree.AttrClass].Equal(tree.List("toc-header")))
	require.Len(t, header.Children, 1)
	assert.True(t, header.Children[0].IsText())
	assert.Equal(t, "Table of Contents", header.Children[0].Value)
}

func TestTransform_NestedListsBecomeUnordered(t *testing.T) {
	out := Transform(nestedLists())
	assertWrapper(t, out)
	require.Len(t, out.Children, 2)

	want := tree.Element(tree.KindUnorderedList, nil,
		tree.Element(tree.KindListItem, nil,
			tree.Element(tree.KindUnorderedList, nil),
		),
	)
	assert.True(t, tree.Equal(want, out.Children[1]))
	assert.Zero(t, tree.Count(out, tree.KindOrderedList))
}

func TestTransform_ChildlessRoot(t *testing.T) {
	out := Transform(&tree.Node{Kind: tree.KindOrderedList})
	assertWrapper(t, out)
	require.Len(t, out.Children, 2)
	assert.True(t, tree.Equal(&tree.Node{Kind: tree.KindUnorderedList}, out.Children[1]))
}

func TestTransform_PreservesEverythingButListKind(t *testing.T) {
	in := tree.Element(tree.KindOrderedList, tree.Attributes{tree.AttrClass: tree.List("toc-sidebar", "toc-level", "toc-level-1")},
		tree.Element(tree.KindListItem, tree.Attributes{tree.AttrClass: tree.List("toc-item", "toc-item-h1")},
			tree.Element(tree.KindLink, tree.Attributes{"href": tree.String("#intro")}, tree.Text("Intro")),
			tree.Element(tree.KindOrderedList, tree.Attributes{tree.AttrClass: tree.List("toc-level", "toc-level-2")}),
		),
	)
	before := tree.Clone(in)

	out := Transform(in)
	got := out.Children[1]

	var kindsBefore, kindsAfter []string
	tree.Walk(before, func(n *tree.Node, _ int) bool { kindsBefore = append(kindsBefore, n.Kind); return true })
	tree.Walk(got, func(n *tree.Node, _ int) bool { kindsAfter = append(kindsAfter, n.Kind); return true })
	require.Len(t, kindsAfter, len(kindsBefore))

	// Restoring the list kinds must give back the original tree exactly.
	restored := tree.Clone(got)
	tree.Walk(restored, func(n *tree.Node, _ int) bool {
		if n.Kind == tree.KindUnorderedList {
			n.Kind = tree.KindOrderedList
		}
		return true
	})
	assert.True(t, tree.Equal(before, restored))
}

func TestTransform_LeavesOtherKindsAlone(t *testing.T) {
	in := tree.Element(tree.KindDiv, nil,
		tree.Element(tree.KindUnorderedList, nil),
		&tree.Node{Value: "opaque"},
		tree.Text("ol"),
	)
	out := Transform(in)
	got := out.Children[1]
	assert.Equal(t, tree.KindDiv, got.Kind)
	assert.Equal(t, tree.KindUnorderedList, got.Children[0].Kind)
	assert.Equal(t, "", got.Children[1].Kind)
	assert.Equal(t, "opaque", got.Children[1].Value)
	assert.Equal(t, "ol", got.Children[2].Value)
}

func TestTransform_NilRoot(t *testing.T) {
	out := Transform(nil)
	assertWrapper(t, out)
	assert.Len(t, out.Children, 1)
}

func TestRewriteLists_Idempotent(t *testing.T) {
	once := RewriteLists(nestedLists())
	twice := RewriteLists(tree.Clone(once))
	assert.True(t, tree.Equal(once, twice))
}

func TestTransformer_CustomOptions(t *testing.T) {
	tr := NewTransformer(Options{
		ContainerClasses: []string{"sidebar"},
		HeaderText:       "On this page",
	})
	out := tr.Transform(nestedLists())
	assert.True(t, out.Attributes[tree.AttrClass].Equal(tree.List("sidebar")))
	assert.True(t, out.Children[0].Attributes[tree.AttrClass].Equal(tree.List("toc-header")))
	assert.Equal(t, "On this page", out.Children[0].Children[0].Value)
}

func TestTransform_FromHastJSON(t *testing.T) {
	src := `{"type":"element","tagName":"ol","properties":{"className":["toc-level","toc-level-1"]},"children":[
	  {"type":"element","tagName":"li","properties":{"className":["toc-item","toc-item-h1"]},"children":[
	    {"type":"element","tagName":"a","properties":{"className":["toc-link","toc-link-h1"],"href":"#intro"},"children":[{"type":"text","value":"Intro"}]}
	  ]}
	]}`
	var root tree.Node
	require.NoError(t, json.Unmarshal([]byte(src), &root))

	html, err := tree.RenderString(Transform(&root))
	require.NoError(t, err)
	assert.Equal(t,
		`<nav class="toc-container mt-5"><div class="toc-header">Table of Contents</div>`+
			`<ul class="toc-level toc-level-1"><li class="toc-item toc-item-h1">`+
			`<a class="toc-link toc-link-h1" href="#intro">Intro</a></li></ul></nav>`,
		html)
}

func TestTransform_ConcurrentIndependentTrees(t *testing.T) {
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := Transform(nestedLists())
			assert.Zero(t, tree.Count(out, tree.KindOrderedList))
		}()
	}
	wg.Wait()
}
