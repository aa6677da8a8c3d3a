package tree

// WalkFunc is called for every node in pre-order. Returning false skips the
// node's children.
type WalkFunc func(n *Node, depth int) bool

// Walk visits root and all of its descendants in pre-order.
func Walk(root *Node, fn WalkFunc) {
	walk(root, 0, fn)
}

func walk(n *Node, depth int, fn WalkFunc) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Count returns the number of nodes of the given kind under root (inclusive).
func Count(root *Node, kind string) int {
	total := 0
	Walk(root, func(n *Node, _ int) bool {
		if n.Kind == kind {
			total++
		}
		return true
	})
	return total
}
