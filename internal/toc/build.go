package toc

import (
	"slices"
	"strconv"

	"git.home.luguber.info/inful/tocnav/internal/markdown"
	"git.home.luguber.info/inful/tocnav/internal/tree"
)

// CSSClasses names the class tokens placed on generated TOC elements.
type CSSClasses struct {
	TOC      string
	List     string
	ListItem string
	Link     string
}

// DefaultCSSClasses are used for any empty field of CSSClasses.
var DefaultCSSClasses = CSSClasses{
	TOC:      "toc",
	List:     "toc-level",
	ListItem: "toc-item",
	Link:     "toc-link",
}

// DefaultLevels restricts the TOC to h1 through h3.
var DefaultLevels = []int{1, 2, 3}

// BuildOptions controls Build.
type BuildOptions struct {
	Levels     []int
	CSSClasses CSSClasses
	// Nav wraps the outer list in a nav element carrying the TOC class.
	// Otherwise the TOC class is placed on the outer list itself.
	Nav bool
}

func (o BuildOptions) withDefaults() BuildOptions {
	if len(o.Levels) == 0 {
		o.Levels = DefaultLevels
	}
	c := &o.CSSClasses
	if c.TOC == "" {
		c.TOC = DefaultCSSClasses.TOC
	}
	if c.List == "" {
		c.List = DefaultCSSClasses.List
	}
	if c.ListItem == "" {
		c.ListItem = DefaultCSSClasses.ListItem
	}
	if c.Link == "" {
		c.Link = DefaultCSSClasses.Link
	}
	return o
}

// frame is an open list while nesting headings.
type frame struct {
	list  *tree.Node
	level int
	last  *tree.Node
}

// Build produces the nested ordered-list TOC for headings. Headings outside the
// configured levels are skipped; nil is returned when none remain. A heading
// deeper than its predecessor opens a sub-list under the predecessor's item,
// regardless of how many levels it skips.
func Build(headings []markdown.Heading, opts BuildOptions) *tree.Node {
	opts = opts.withDefaults()
	cls := opts.CSSClasses

	var stack []*frame
	for _, h := range headings {
		if !slices.Contains(opts.Levels, h.Level) {
			continue
		}
		if len(stack) == 0 {
			stack = append(stack, &frame{list: newList(cls, 1), level: h.Level})
		}
		for len(stack) > 1 && stack[len(stack)-2].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]
		if h.Level < top.level {
			// Shallower than the open list but deeper than its parent: the
			// heading joins the open list rather than starting a new one.
			top.level = h.Level
		}
		if h.Level > top.level && top.last != nil {
			sub := newList(cls, len(stack)+1)
			top.last.Children = append(top.last.Children, sub)
			top = &frame{list: sub, level: h.Level}
			stack = append(stack, top)
		}
		item := newItem(cls, h)
		top.list.Children = append(top.list.Children, item)
		top.last = item
	}
	if len(stack) == 0 {
		return nil
	}

	root := stack[0].list
	if opts.Nav {
		return tree.Element(tree.KindNav, tree.Attributes{tree.AttrClass: tree.List(cls.TOC)}, root)
	}
	root.Attributes[tree.AttrClass] = tree.List(append([]string{cls.TOC}, root.Classes()...)...)
	return root
}

func newList(cls CSSClasses, depth int) *tree.Node {
	return tree.Element(tree.KindOrderedList, tree.Attributes{
		tree.AttrClass: tree.List(cls.List, cls.List+"-"+strconv.Itoa(depth)),
	})
}

func newItem(cls CSSClasses, h markdown.Heading) *tree.Node {
	suffix := "-h" + strconv.Itoa(h.Level)
	link := tree.Element(tree.KindLink, tree.Attributes{
		tree.AttrClass: tree.List(cls.Link, cls.Link+suffix),
		"href":         tree.String("#" + h.ID),
	}, tree.Text(h.Text))
	return tree.Element(tree.KindListItem, tree.Attributes{
		tree.AttrClass: tree.List(cls.ListItem, cls.ListItem+suffix),
	}, link)
}
