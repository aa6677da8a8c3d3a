package toc

import "git.home.luguber.info/inful/tocnav/internal/tree"

// DefaultHeaderText labels the container header.
const DefaultHeaderText = "Table of Contents"

var (
	defaultContainerClasses = []string{"toc-container", "mt-5"}
	defaultHeaderClasses    = []string{"toc-header"}
)

// Options controls the container produced by Wrap. Zero fields take defaults.
type Options struct {
	ContainerClasses []string
	HeaderClasses    []string
	HeaderText       string
}

func (o Options) withDefaults() Options {
	if len(o.ContainerClasses) == 0 {
		o.ContainerClasses = defaultContainerClasses
	}
	if len(o.HeaderClasses) == 0 {
		o.HeaderClasses = defaultHeaderClasses
	}
	if o.HeaderText == "" {
		o.HeaderText = DefaultHeaderText
	}
	return o
}

// Transformer rewrites TOC lists and wraps them in the header container.
type Transformer struct {
	opts Options
}

// NewTransformer returns a Transformer using opts.
func NewTransformer(opts Options) *Transformer {
	return &Transformer{opts: opts.withDefaults()}
}

// Transform rewrites every ordered list under root into an unordered list and
// returns the wrapping nav node. root is modified in place and becomes the
// second child of the result.
func (t *Transformer) Transform(root *tree.Node) *tree.Node {
	return Wrap(RewriteLists(root), t.opts)
}

// Transform applies a Transformer with default options.
func Transform(root *tree.Node) *tree.Node {
	return NewTransformer(Options{}).Transform(root)
}

// RewriteLists changes the kind of every ordered list in the tree to an
// unordered list. Attributes, children and text are left as they are.
// Applying it twice is the same as applying it once.
func RewriteLists(root *tree.Node) *tree.Node {
	tree.Walk(root, func(n *tree.Node, _ int) bool {
		if n.Kind == tree.KindOrderedList {
			n.Kind = tree.KindUnorderedList
		}
		return true
	})
	return root
}

// Wrap places root below a nav container headed by a text label. A nil root
// yields a container holding only the header.
func Wrap(root *tree.Node, opts Options) *tree.Node {
	opts = opts.withDefaults()
	header := tree.Element(tree.KindDiv,
		tree.Attributes{tree.AttrClass: tree.List(opts.HeaderClasses...)},
		tree.Text(opts.HeaderText),
	)
	nav := tree.Element(tree.KindNav,
		tree.Attributes{tree.AttrClass: tree.List(opts.ContainerClasses...)},
		header,
	)
	if root != nil {
		nav.Children = append(nav.Children, root)
	}
	return nav
}
