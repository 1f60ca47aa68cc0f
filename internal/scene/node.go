package scene

import (
	"log/slog"

	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/filter"
	"github.com/vk/abcscene/internal/geom"
	"github.com/vk/abcscene/internal/objpath"
	"github.com/vk/abcscene/internal/samples"
)

// NodeID addresses a node within its scene's arena.
type NodeID int

// NoNode is the ID of a missing node.
const NoNode NodeID = -1

type arena struct {
	nodes  []*Node
	logger *slog.Logger
}

func (a *arena) get(id NodeID) *Node {
	if a == nil || id < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

func (a *arena) add(n *Node) *Node {
	n.arena = a
	n.id = NodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return n
}

// Node is one object of a scene.
type Node struct {
	arena *arena
	id    NodeID

	path     string
	name     string
	kind     archive.Kind
	parent   NodeID
	children []NodeID
	byName   map[string]NodeID

	masterPath     string
	master         NodeID
	instances      []NodeID
	instanceNumber int

	selfBounds  geom.Box3
	childBounds geom.Box3
	selfMatrix  geom.Matrix4
	worldMatrix geom.Matrix4
	inherits    bool
	visible     bool

	locatorPos   geom.Vector3
	locatorScale geom.Vector3

	data      kindData
	user      archive.Schema[archive.Properties]
	userProps *samples.Window[archive.Properties]
}

func newNode(path, name string, kind archive.Kind) *Node {
	return &Node{
		path:         path,
		name:         name,
		kind:         kind,
		parent:       NoNode,
		master:       NoNode,
		selfBounds:   geom.B3Empty(),
		childBounds:  geom.B3Empty(),
		selfMatrix:   geom.Identity4(),
		worldMatrix:  geom.Identity4(),
		inherits:     true,
		visible:      true,
		locatorScale: geom.Vec3(1, 1, 1),
	}
}

func (n *Node) logger() *slog.Logger {
	if n.arena == nil || n.arena.logger == nil {
		return slog.Default()
	}
	return n.arena.logger
}

// ID returns the node's arena index.
func (n *Node) ID() NodeID { return n.id }

// Path returns the full path.
func (n *Node) Path() string { return n.path }

// Name returns the last path segment; empty for the root.
func (n *Node) Name() string { return n.name }

// Kind returns the node kind. A resolved instance reports its master's kind.
func (n *Node) Kind() archive.Kind { return n.kind }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.arena.get(n.parent) }

// NumChildren returns the number of children. Instances have none of their
// own.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i-th child, or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.arena.get(n.children[i])
}

// ChildItem implements filter.Item.
func (n *Node) ChildItem(i int) filter.Item { return n.Child(i) }

// ChildByName returns the child with the given local name, or nil.
func (n *Node) ChildByName(name string) *Node {
	id, ok := n.byName[name]
	if !ok {
		return nil
	}
	return n.arena.get(id)
}

// Find resolves an absolute path from the root, or a relative path from n.
func (n *Node) Find(path string) *Node {
	segs, absolute := objpath.Rel(path)
	cur := n
	if absolute {
		cur = n.root()
	}
	for _, seg := range segs {
		if cur == nil {
			return nil
		}
		cur = cur.ChildByName(seg)
	}
	return cur
}

func (n *Node) root() *Node {
	cur := n
	for p := cur.Parent(); p != nil; p = cur.Parent() {
		cur = p
	}
	return cur
}

func (n *Node) addChild(c *Node) {
	c.parent = n.id
	n.children = append(n.children, c.id)
	if n.byName == nil {
		n.byName = make(map[string]NodeID)
	}
	n.byName[c.name] = c.id
}

// IsInstance reports whether the node aliases a master.
func (n *Node) IsInstance() bool { return n.masterPath != "" }

// MasterPath returns the path named by an instance; empty otherwise.
func (n *Node) MasterPath() string { return n.masterPath }

// Master returns the resolved master of an instance, or nil.
func (n *Node) Master() *Node { return n.arena.get(n.master) }

// Instances returns the instances of a master in archive order.
func (n *Node) Instances() []*Node {
	out := make([]*Node, 0, len(n.instances))
	for _, id := range n.instances {
		if in := n.arena.get(id); in != nil {
			out = append(out, in)
		}
	}
	return out
}

// InstanceNumber returns the 1-based position of an instance in its master's
// instance list, or 0 when n is not a resolved instance.
func (n *Node) InstanceNumber() int { return n.instanceNumber }

// source is the node holding authoritative state: the master for a resolved
// instance, n otherwise.
func (n *Node) source() *Node {
	if n.IsInstance() {
		if m := n.Master(); m != nil {
			return m
		}
	}
	return n
}

// SelfBounds returns the bounds of the node's own geometry in local space.
func (n *Node) SelfBounds() geom.Box3 { return n.source().selfBounds }

// SetSelfBounds sets the self bounds. No-op on instances.
func (n *Node) SetSelfBounds(b geom.Box3) {
	if n.IsInstance() {
		return
	}
	n.selfBounds = b
}

// ChildBounds returns the world-space bounds of the node's subtree.
func (n *Node) ChildBounds() geom.Box3 { return n.childBounds }

// SetChildBounds sets the subtree bounds.
func (n *Node) SetChildBounds(b geom.Box3) { n.childBounds = b }

// SelfMatrix returns the local transform.
func (n *Node) SelfMatrix() geom.Matrix4 { return n.source().selfMatrix }

// SetSelfMatrix sets the local transform. No-op on instances.
func (n *Node) SetSelfMatrix(m geom.Matrix4) {
	if n.IsInstance() {
		return
	}
	n.selfMatrix = m
}

// WorldMatrix returns the accumulated transform. Instances keep their own.
func (n *Node) WorldMatrix() geom.Matrix4 { return n.worldMatrix }

// SetWorldMatrix sets the accumulated transform.
func (n *Node) SetWorldMatrix(m geom.Matrix4) { n.worldMatrix = m }

// InheritsTransform reports whether the local transform composes with the
// parent's world transform.
func (n *Node) InheritsTransform() bool { return n.source().inherits }

// SetInheritsTransform sets the inherits flag. No-op on instances.
func (n *Node) SetInheritsTransform(v bool) {
	if n.IsInstance() {
		return
	}
	n.inherits = v
}

// IsVisible reports the node's own visibility, or with inherited set, whether
// the node and every ancestor are visible.
func (n *Node) IsVisible(inherited bool) bool {
	if !n.source().visible {
		return false
	}
	if inherited {
		if p := n.Parent(); p != nil {
			return p.IsVisible(true)
		}
	}
	return true
}

// SetVisible sets the node's own visibility. No-op on instances.
func (n *Node) SetVisible(v bool) {
	if n.IsInstance() {
		return
	}
	n.visible = v
}

// Locator returns the locator position and scale. Non-locators report the
// origin and unit scale.
func (n *Node) Locator() (position, scale geom.Vector3) {
	s := n.source()
	return s.locatorPos, s.locatorScale
}

// SetLocator sets the locator values. No-op on instances.
func (n *Node) SetLocator(position, scale geom.Vector3) {
	if n.IsInstance() {
		return
	}
	n.locatorPos, n.locatorScale = position, scale
}

// IsLocator reports whether the node is a transform carrying a locator.
func (n *Node) IsLocator() bool {
	x := n.Xform()
	return x != nil && x.IsLocator()
}

// Xform returns the transform sample data, or nil when the node is not a
// transform.
func (n *Node) Xform() *XformData {
	d, _ := n.source().data.(*XformData)
	return d
}

// Mesh returns the polygon mesh sample data, or nil.
func (n *Node) Mesh() *ShapeData[archive.MeshSample] {
	if n.Kind() != archive.KindMesh {
		return nil
	}
	d, _ := n.source().data.(*ShapeData[archive.MeshSample])
	return d
}

// SubD returns the subdivision surface sample data, or nil.
func (n *Node) SubD() *ShapeData[archive.MeshSample] {
	if n.Kind() != archive.KindSubD {
		return nil
	}
	d, _ := n.source().data.(*ShapeData[archive.MeshSample])
	return d
}

// Points returns the point cloud sample data, or nil.
func (n *Node) Points() *ShapeData[archive.PointsSample] {
	d, _ := n.source().data.(*ShapeData[archive.PointsSample])
	return d
}

// Curves returns the curves sample data, or nil.
func (n *Node) Curves() *ShapeData[archive.CurvesSample] {
	d, _ := n.source().data.(*ShapeData[archive.CurvesSample])
	return d
}

// NuPatch returns the NURBS patch sample data, or nil.
func (n *Node) NuPatch() *ShapeData[archive.NuPatchSample] {
	d, _ := n.source().data.(*ShapeData[archive.NuPatchSample])
	return d
}

// UserProperties returns the user property window, or nil when the object
// has no user properties.
func (n *Node) UserProperties() *samples.Window[archive.Properties] {
	return n.source().userProps
}

// UpdateUserProperties loads the user property samples covering [t0, t1] and
// reports whether the window changed.
func (n *Node) UpdateUserProperties(t0, t1 float64, merge bool) bool {
	s := n.source()
	if s.userProps == nil {
		return false
	}
	return s.userProps.Update(s.user, t0, t1, merge)
}

// parentWorld returns the parent's world matrix, identity at the root.
func (n *Node) parentWorld() geom.Matrix4 {
	if p := n.Parent(); p != nil {
		return p.worldMatrix
	}
	return geom.Identity4()
}

// isLeaf reports whether the node contributes its transformed self bounds
// to its parent rather than child bounds. An instance is a leaf when its
// master is.
func (n *Node) isLeaf() bool {
	return n.source().NumChildren() == 0
}
