package scene

import "fmt"

// Mode selects a traversal order.
type Mode int

const (
	// DepthFirst calls Enter pre-order and Leave post-order.
	DepthFirst Mode = iota
	// BreadthFirst calls Enter and Leave on every sibling before recursing
	// into any of them.
	BreadthFirst
	// FilteredFlat visits, depth-first, each top-most node the scene filter
	// matches directly. It is only meaningful on a Scene.
	FilteredFlat
)

func (m Mode) String() string {
	switch m {
	case DepthFirst:
		return "depth"
	case BreadthFirst:
		return "breadth"
	case FilteredFlat:
		return "flat"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses the String form of a mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{DepthFirst, BreadthFirst, FilteredFlat} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown traversal mode %q (want depth, breadth or flat)", s)
}

// Visit traverses the subtree rooted at n and reports whether it ran to
// completion. FilteredFlat has no filter to consult on a bare node and
// behaves as DepthFirst.
func (n *Node) Visit(mode Mode, v Visitor) bool {
	if mode == BreadthFirst {
		return n.breadthFirst(v)
	}
	return n.depthFirst(v)
}

func (n *Node) depthFirst(v Visitor) bool {
	a := n.Enter(v, nil)
	if a == Stop {
		return false
	}
	if a == Continue {
		for i := range n.children {
			if c := n.Child(i); c != nil && !c.depthFirst(v) {
				return false
			}
		}
	}
	n.Leave(v, nil)
	return true
}

func (n *Node) breadthFirst(v Visitor) bool {
	a := n.Enter(v, nil)
	if a == Stop {
		return false
	}
	n.Leave(v, nil)
	if a == SkipChildren {
		return true
	}
	return n.breadthChildren(v)
}

func (n *Node) breadthChildren(v Visitor) bool {
	var descend []*Node
	for i := range n.children {
		c := n.Child(i)
		if c == nil {
			continue
		}
		a := c.Enter(v, nil)
		if a == Stop {
			return false
		}
		c.Leave(v, nil)
		if a == Continue && len(c.children) > 0 {
			descend = append(descend, c)
		}
	}
	for _, c := range descend {
		if !c.breadthChildren(v) {
			return false
		}
	}
	return true
}
