package scene

import (
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/geom"
	"github.com/vk/abcscene/internal/samples"
)

// WorldUpdate samples every node at one time and propagates world matrices
// down and child bounds up. Run it depth-first.
type WorldUpdate struct {
	// Time is the sample time.
	Time float64
	// Merge keeps samples loaded for earlier times cached.
	Merge bool

	// instancesBeforeMaster is set when an instance was entered before its
	// master had been sampled in this pass.
	instancesBeforeMaster bool
	seen                  map[NodeID]bool
}

// NewWorldUpdate returns a visitor sampling at t.
func NewWorldUpdate(t float64) *WorldUpdate {
	return &WorldUpdate{Time: t}
}

func (w *WorldUpdate) reset() {
	w.instancesBeforeMaster = false
	w.seen = make(map[NodeID]bool)
}

// target is the node whose placement is being computed: the instance when
// one is visited, n otherwise.
func target(n, instance *Node) *Node {
	if instance != nil {
		return instance
	}
	return n
}

// sampled records that n's own state was sampled, or reports that an
// instance reached it first.
func (w *WorldUpdate) sampled(n, instance *Node) bool {
	if w.seen == nil {
		w.seen = make(map[NodeID]bool)
	}
	if instance != nil {
		if !w.seen[n.id] {
			w.instancesBeforeMaster = true
		}
		return w.seen[n.id]
	}
	w.seen[n.id] = true
	return false
}

func (w *WorldUpdate) EnterGeneric(n, instance *Node) Action {
	t := target(n, instance)
	t.SetWorldMatrix(t.parentWorld())
	return Continue
}

func (w *WorldUpdate) LeaveGeneric(n, instance *Node) { target(n, instance).UpdateChildBounds() }

func (w *WorldUpdate) EnterXform(n, instance *Node) Action {
	if !w.sampled(n, instance) {
		w.sampleXform(n)
	}
	t := target(n, instance)
	switch {
	case n.IsLocator():
		t.SetWorldMatrix(t.parentWorld())
	case n.InheritsTransform():
		t.SetWorldMatrix(n.SelfMatrix().Mul(t.parentWorld()))
	default:
		t.SetWorldMatrix(n.SelfMatrix())
	}
	return Continue
}

func (w *WorldUpdate) LeaveXform(n, instance *Node) { target(n, instance).UpdateChildBounds() }

func (w *WorldUpdate) sampleXform(n *Node) {
	x := n.Xform()
	if x == nil {
		return
	}
	x.Update(w.Time, w.Time, w.Merge)
	if x.IsLocator() {
		pos, scale := geom.Vector3{}, geom.Vec3(1, 1, 1)
		if x.Locator.ValidRange(w.Time, w.Time) {
			prev, next, blend := x.Locator.GetSamples(w.Time)
			pos, scale = prev.Data.Position, prev.Data.Scale
			if blend > 0 {
				pos = pos.Lerp(next.Data.Position, blend)
				scale = scale.Lerp(next.Data.Scale, blend)
			}
		} else {
			n.logger().Debug("No locator samples at time.", "path", n.path, "time", w.Time)
		}
		n.SetLocator(pos, scale)
		return
	}

	if !x.Samples.ValidRange(w.Time, w.Time) {
		n.logger().Debug("No transform samples at time; using identity.", "path", n.path, "time", w.Time)
		n.SetSelfMatrix(geom.Identity4())
		n.SetInheritsTransform(true)
		return
	}
	prev, next, blend := x.Samples.GetSamples(w.Time)
	m, inherits := prev.Data.Matrix, prev.Data.Inherits
	if blend > 0 {
		if next.Data.Inherits != inherits {
			n.logger().Warn("Inherits flag changes between samples; not blending.", "path", n.path, "time", w.Time)
		} else {
			m = m.Lerp(next.Data.Matrix, blend)
		}
	}
	n.SetSelfMatrix(m)
	n.SetInheritsTransform(inherits)
}

// sampleShape loads bounds and visibility into n's own state.
func sampleShape[T any](w *WorldUpdate, n *Node, d *ShapeData[T]) {
	if d == nil {
		return
	}
	d.UpdateBounds(w.Time, w.Time, w.Merge)

	b := geom.B3Empty()
	if d.Bounds.ValidRange(w.Time, w.Time) {
		prev, next, blend := d.Bounds.GetSamples(w.Time)
		b = prev.Data
		if blend > 0 {
			b = b.Lerp(next.Data, blend)
		}
	} else if d.schema.Bounds() != nil {
		n.logger().Debug("No bounds samples at time; bounds left empty.", "path", n.path, "time", w.Time)
	}
	n.SetSelfBounds(b)

	visible := true
	if s := d.Visibility.Find(w.Time, samples.PreviousOrExact); s != nil && s.Valid {
		visible = s.Data != archive.VisibilityHidden
	} else if s := d.Visibility.Find(w.Time, samples.Next); s != nil && s.Valid {
		visible = s.Data != archive.VisibilityHidden
	}
	n.SetVisible(visible)
}

func enterShape[T any](w *WorldUpdate, n, instance *Node, d *ShapeData[T]) Action {
	if !w.sampled(n, instance) {
		sampleShape(w, n, d)
	}
	t := target(n, instance)
	t.SetWorldMatrix(t.parentWorld())
	return Continue
}

func (w *WorldUpdate) EnterMesh(n, instance *Node) Action {
	return enterShape(w, n, instance, n.Mesh())
}

func (w *WorldUpdate) LeaveMesh(n, instance *Node) { target(n, instance).UpdateChildBounds() }

func (w *WorldUpdate) EnterSubD(n, instance *Node) Action {
	return enterShape(w, n, instance, n.SubD())
}

func (w *WorldUpdate) LeaveSubD(n, instance *Node) { target(n, instance).UpdateChildBounds() }

func (w *WorldUpdate) EnterPoints(n, instance *Node) Action {
	return enterShape(w, n, instance, n.Points())
}

func (w *WorldUpdate) LeavePoints(n, instance *Node) { target(n, instance).UpdateChildBounds() }

func (w *WorldUpdate) EnterNuPatch(n, instance *Node) Action {
	return enterShape(w, n, instance, n.NuPatch())
}

func (w *WorldUpdate) LeaveNuPatch(n, instance *Node) { target(n, instance).UpdateChildBounds() }

func (w *WorldUpdate) EnterCurves(n, instance *Node) Action {
	return enterShape(w, n, instance, n.Curves())
}

func (w *WorldUpdate) LeaveCurves(n, instance *Node) { target(n, instance).UpdateChildBounds() }

// Update samples the scene at t, propagating world matrices and child
// bounds. When an instance precedes its master a second pass settles the
// instance's bounds. It reports whether every pass completed.
func (s *Scene) Update(t float64) bool {
	w := NewWorldUpdate(t)
	w.reset()
	if !s.Visit(DepthFirst, w) {
		return false
	}
	if w.instancesBeforeMaster {
		w.reset()
		return s.Visit(DepthFirst, w)
	}
	return true
}
