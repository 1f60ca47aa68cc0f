package scene

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/filter"
	"github.com/vk/abcscene/internal/geom"
	"github.com/vk/abcscene/internal/memarchive"
)

func constXform(m geom.Matrix4) *memarchive.XformSchema {
	return memarchive.NewXform(memarchive.Constant(archive.XformSample{Matrix: m, Inherits: true}))
}

func unitCube() *memarchive.ShapeSchema[archive.MeshSample] {
	return boxMesh(geom.B3(0, 0, 0, 1, 1, 1))
}

func boxMesh(b geom.Box3) *memarchive.ShapeSchema[archive.MeshSample] {
	return memarchive.NewShape(memarchive.Constant(archive.MeshSample{
		Positions: []geom.Vector3{b.Min, b.Max},
	})).WithBounds(memarchive.Constant(b))
}

// traversalArchive builds:
//
//	/A      xform
//	/A/B    mesh
//	/A/C    generic
//	/A/C/D  points
//	/E      generic
//	/F      instance of /A
func traversalArchive() *memarchive.Archive {
	a := memarchive.New("traversal")
	top := a.Top()
	xa := top.AddXform("A", constXform(geom.Identity4()))
	xa.AddMesh("B", unitCube())
	xa.AddGeneric("C").AddPoints("D", memarchive.NewShape(memarchive.Constant(archive.PointsSample{
		Positions: []geom.Vector3{{X: 1, Y: 2, Z: 3}},
	})))
	top.AddGeneric("E")
	top.AddInstance("F", "/A")
	return a
}

func newScene(t *testing.T, a archive.Archive, f *filter.Filter) *Scene {
	t.Helper()
	s, err := New(context.Background(), a, a.Name(), f)
	require.NoError(t, err)
	return s
}

func paths(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Path()
	}
	return out
}

// recorder logs "+path" on enter and "-path" on leave. Instances are logged
// as "instance@master".
type recorder struct {
	events []string
	stopAt string
	skip   string
}

func (r *recorder) label(n, instance *Node) string {
	if instance != nil {
		return instance.Path() + "@" + n.Path()
	}
	return n.Path()
}

func (r *recorder) enter(n, instance *Node) Action {
	p := r.label(n, instance)
	r.events = append(r.events, "+"+p)
	switch p {
	case r.stopAt:
		return Stop
	case r.skip:
		return SkipChildren
	}
	return Continue
}

func (r *recorder) leave(n, instance *Node) {
	r.events = append(r.events, "-"+r.label(n, instance))
}

func (r *recorder) String() string { return strings.Join(r.events, " ") }

func (r *recorder) EnterGeneric(n, i *Node) Action { return r.enter(n, i) }
func (r *recorder) LeaveGeneric(n, i *Node)        { r.leave(n, i) }
func (r *recorder) EnterXform(n, i *Node) Action   { return r.enter(n, i) }
func (r *recorder) LeaveXform(n, i *Node)          { r.leave(n, i) }
func (r *recorder) EnterMesh(n, i *Node) Action    { return r.enter(n, i) }
func (r *recorder) LeaveMesh(n, i *Node)           { r.leave(n, i) }
func (r *recorder) EnterSubD(n, i *Node) Action    { return r.enter(n, i) }
func (r *recorder) LeaveSubD(n, i *Node)           { r.leave(n, i) }
func (r *recorder) EnterPoints(n, i *Node) Action  { return r.enter(n, i) }
func (r *recorder) LeavePoints(n, i *Node)         { r.leave(n, i) }
func (r *recorder) EnterNuPatch(n, i *Node) Action { return r.enter(n, i) }
func (r *recorder) LeaveNuPatch(n, i *Node)        { r.leave(n, i) }
func (r *recorder) EnterCurves(n, i *Node) Action  { return r.enter(n, i) }
func (r *recorder) LeaveCurves(n, i *Node)         { r.leave(n, i) }
