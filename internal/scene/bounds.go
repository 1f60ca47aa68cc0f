package scene

import "github.com/vk/abcscene/internal/geom"

// UpdateChildBounds recomputes the node's child bounds from its children and
// reports whether they changed.
//
// A leaf's child bounds are its self bounds in world space. An internal
// node's are the union of its children's contributions, where a leaf child
// contributes its transformed self bounds and an internal child its child
// bounds. Empty contributions are absorbed. Infinite contributions are
// ignored unless every child is infinite, in which case the result is
// infinite.
//
// An instance of an internal master takes the master's child bounds moved
// from the master's world space into its own.
func (n *Node) UpdateChildBounds() bool {
	var b geom.Box3
	switch {
	case n.isLeaf():
		b = n.SelfBounds().MulMatrix4(n.worldMatrix)
	case n.IsInstance():
		b = n.instanceChildBounds()
	default:
		b = n.unionChildren()
	}
	changed := b != n.childBounds
	n.childBounds = b
	return changed
}

func (n *Node) unionChildren() geom.Box3 {
	out := geom.B3Empty()
	allInfinite := len(n.children) > 0
	for i := range n.children {
		c := n.Child(i)
		if c == nil {
			continue
		}
		cb := c.contribution()
		if cb.IsInfinite() {
			continue
		}
		allInfinite = false
		out = out.Union(cb)
	}
	if allInfinite {
		return geom.B3Infinite()
	}
	return out
}

func (n *Node) contribution() geom.Box3 {
	if n.isLeaf() {
		return n.SelfBounds().MulMatrix4(n.worldMatrix)
	}
	return n.childBounds
}

func (n *Node) instanceChildBounds() geom.Box3 {
	m := n.Master()
	if m == nil {
		return geom.B3Empty()
	}
	inv, ok := m.worldMatrix.Inverse()
	if !ok {
		n.logger().Warn("Master world matrix is singular; instance bounds left empty.", "instance", n.path, "master", m.path)
		return geom.B3Empty()
	}
	return m.childBounds.MulMatrix4(inv.Mul(n.worldMatrix))
}
