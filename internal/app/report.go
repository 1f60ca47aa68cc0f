package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/vk/abcscene/internal/geom"
	"github.com/vk/abcscene/internal/scene"
)

// report renders one line per visited node, indented by hierarchy depth.
type report struct {
	scene.BaseVisitor

	w        io.Writer
	pal      palette
	flat     bool
	bounds   bool
	matrices bool
	motion   bool
	time     float64
}

func depth(n *scene.Node) int {
	if n.Parent() == nil {
		return 0
	}
	return strings.Count(n.Path(), "/")
}

func formatBox(b geom.Box3) string {
	switch {
	case b.IsEmpty():
		return "empty"
	case b.IsInfinite():
		return "infinite"
	}
	return fmt.Sprintf("[%g %g %g]..[%g %g %g]", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

func (r *report) kindLabel(n *scene.Node) string {
	if !n.IsInstance() {
		return r.pal.kind(n.Kind().String())
	}
	m := n.Master()
	if m == nil {
		return r.pal.warn("Instance (unresolved) -> " + n.MasterPath())
	}
	return r.pal.instance(fmt.Sprintf("Instance(%s) -> %s", m.Kind(), m.Path()))
}

// line writes n. An instance visit shows the instance, not its master.
func (r *report) line(n, instance *scene.Node) {
	shown := n
	if instance != nil {
		shown = instance
	}

	label := shown.Path()
	indent := ""
	if !r.flat {
		indent = strings.Repeat("  ", depth(shown))
		label = shown.Name()
		if shown.Parent() == nil {
			label = "/"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s  %s", indent, label, r.kindLabel(shown))
	if r.bounds {
		fmt.Fprintf(&b, "  %s", r.pal.dim("bounds="+formatBox(shown.ChildBounds())))
	}
	if r.matrices {
		t := shown.WorldMatrix().Translation()
		fmt.Fprintf(&b, "  %s", r.pal.dim(fmt.Sprintf("translate=(%g %g %g)", t.X, t.Y, t.Z)))
	}
	if r.motion {
		if i, ok := shown.NearestSample(r.time); ok {
			fmt.Fprintf(&b, "  %s", r.pal.dim(fmt.Sprintf("samples=%d near=%d", shown.CachedSamples(), i)))
		}
	}
	if !shown.IsVisible(true) {
		fmt.Fprintf(&b, "  %s", r.pal.warn("hidden"))
	}
	fmt.Fprintln(r.w, b.String())
}

func (r *report) enter(n, instance *scene.Node) scene.Action {
	r.line(n, instance)
	return scene.Continue
}

func (r *report) EnterGeneric(n, i *scene.Node) scene.Action { return r.enter(n, i) }
func (r *report) EnterXform(n, i *scene.Node) scene.Action   { return r.enter(n, i) }
func (r *report) EnterMesh(n, i *scene.Node) scene.Action    { return r.enter(n, i) }
func (r *report) EnterSubD(n, i *scene.Node) scene.Action    { return r.enter(n, i) }
func (r *report) EnterPoints(n, i *scene.Node) scene.Action  { return r.enter(n, i) }
func (r *report) EnterNuPatch(n, i *scene.Node) scene.Action { return r.enter(n, i) }
func (r *report) EnterCurves(n, i *scene.Node) scene.Action  { return r.enter(n, i) }
