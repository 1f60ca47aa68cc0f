package scene

import "github.com/vk/abcscene/internal/archive"

// Action tells a traversal how to proceed after Enter.
type Action int

const (
	// Continue descends into the children.
	Continue Action = iota
	// SkipChildren skips the children but still calls Leave.
	SkipChildren
	// Stop ends the traversal immediately.
	Stop
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case SkipChildren:
		return "skip-children"
	case Stop:
		return "stop"
	}
	return "unknown"
}

// Visitor receives one Enter/Leave pair per node kind. n is the node holding
// the kind data; when an instance is visited, n is its master and instance is
// the instance itself, otherwise instance is nil.
type Visitor interface {
	EnterGeneric(n, instance *Node) Action
	LeaveGeneric(n, instance *Node)
	EnterXform(n, instance *Node) Action
	LeaveXform(n, instance *Node)
	EnterMesh(n, instance *Node) Action
	LeaveMesh(n, instance *Node)
	EnterSubD(n, instance *Node) Action
	LeaveSubD(n, instance *Node)
	EnterPoints(n, instance *Node) Action
	LeavePoints(n, instance *Node)
	EnterNuPatch(n, instance *Node) Action
	LeaveNuPatch(n, instance *Node)
	EnterCurves(n, instance *Node) Action
	LeaveCurves(n, instance *Node)
}

// BaseVisitor continues everywhere. Embed it to implement only some kinds.
type BaseVisitor struct{}

func (BaseVisitor) EnterGeneric(_, _ *Node) Action { return Continue }
func (BaseVisitor) LeaveGeneric(_, _ *Node)        {}
func (BaseVisitor) EnterXform(_, _ *Node) Action   { return Continue }
func (BaseVisitor) LeaveXform(_, _ *Node)          {}
func (BaseVisitor) EnterMesh(_, _ *Node) Action    { return Continue }
func (BaseVisitor) LeaveMesh(_, _ *Node)           {}
func (BaseVisitor) EnterSubD(_, _ *Node) Action    { return Continue }
func (BaseVisitor) LeaveSubD(_, _ *Node)           {}
func (BaseVisitor) EnterPoints(_, _ *Node) Action  { return Continue }
func (BaseVisitor) LeavePoints(_, _ *Node)         {}
func (BaseVisitor) EnterNuPatch(_, _ *Node) Action { return Continue }
func (BaseVisitor) LeaveNuPatch(_, _ *Node)        {}
func (BaseVisitor) EnterCurves(_, _ *Node) Action  { return Continue }
func (BaseVisitor) LeaveCurves(_, _ *Node)         {}

// Enter dispatches to the visitor method for the node's kind. Entering an
// instance enters its master with the instance passed along.
func (n *Node) Enter(v Visitor, instance *Node) Action {
	if instance == nil && n.IsInstance() {
		m := n.Master()
		if m == nil {
			n.logger().Warn("Skipping unresolved instance.", "path", n.path, "master", n.masterPath)
			return Continue
		}
		return m.Enter(v, n)
	}
	switch n.kind {
	case archive.KindGeneric:
		return v.EnterGeneric(n, instance)
	case archive.KindXform:
		return v.EnterXform(n, instance)
	case archive.KindMesh:
		return v.EnterMesh(n, instance)
	case archive.KindSubD:
		return v.EnterSubD(n, instance)
	case archive.KindPoints:
		return v.EnterPoints(n, instance)
	case archive.KindNuPatch:
		return v.EnterNuPatch(n, instance)
	case archive.KindCurves:
		return v.EnterCurves(n, instance)
	}
	n.logger().Warn("Unrecognized node kind.", "path", n.path, "kind", int(n.kind))
	return Continue
}

// Leave dispatches to the visitor method for the node's kind.
func (n *Node) Leave(v Visitor, instance *Node) {
	if instance == nil && n.IsInstance() {
		if m := n.Master(); m != nil {
			m.Leave(v, n)
		}
		return
	}
	switch n.kind {
	case archive.KindGeneric:
		v.LeaveGeneric(n, instance)
	case archive.KindXform:
		v.LeaveXform(n, instance)
	case archive.KindMesh:
		v.LeaveMesh(n, instance)
	case archive.KindSubD:
		v.LeaveSubD(n, instance)
	case archive.KindPoints:
		v.LeavePoints(n, instance)
	case archive.KindNuPatch:
		v.LeaveNuPatch(n, instance)
	case archive.KindCurves:
		v.LeaveCurves(n, instance)
	default:
		n.logger().Warn("Unrecognized node kind.", "path", n.path, "kind", int(n.kind))
	}
}
