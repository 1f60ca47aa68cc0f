package memarchive

import (
	"sync/atomic"

	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/objpath"
)

// Archive is an in-memory archive.
type Archive struct {
	name   string
	root   *Object
	closed atomic.Int32
}

// New creates an archive holding only its root object.
func New(name string) *Archive {
	return &Archive{
		name: name,
		root: &Object{header: archive.Header{Name: "", FullName: objpath.Root, Kind: archive.KindGeneric}},
	}
}

// Name returns the archive's name.
func (a *Archive) Name() string { return a.name }

// Root returns the top-level object.
func (a *Archive) Root() archive.Object { return a.root }

// Top returns the top-level object for building.
func (a *Archive) Top() *Object { return a.root }

// Close marks the archive closed.
func (a *Archive) Close() error {
	a.closed.Add(1)
	return nil
}

// Closed returns how many times Close was called.
func (a *Archive) Closed() int { return int(a.closed.Load()) }

// Object is an in-memory archive object.
type Object struct {
	header   archive.Header
	children []*Object
	source   string
	schema   any
	user     *Series[archive.Properties]
}

// Header returns the object header.
func (o *Object) Header() archive.Header { return o.header }

// NumChildren returns the number of children.
func (o *Object) NumChildren() int { return len(o.children) }

// Child returns the i-th child.
func (o *Object) Child(i int) archive.Object { return o.children[i] }

// InstanceSource returns the aliased path for instances.
func (o *Object) InstanceSource() string { return o.source }

// Schema returns the kind-specific schema.
func (o *Object) Schema() any { return o.schema }

// UserProperties returns the user property compound, or nil.
func (o *Object) UserProperties() archive.Schema[archive.Properties] {
	if o.user == nil {
		return nil
	}
	return o.user
}

// SetUserProperties attaches a user property compound.
func (o *Object) SetUserProperties(s *Series[archive.Properties]) *Object {
	o.user = s
	return o
}

// AddChild appends a child with an explicit kind and schema. The schema must
// match the kind as documented in package archive; mismatches are tolerated
// here so readers can be tested against them.
func (o *Object) AddChild(name string, kind archive.Kind, schema any) *Object {
	c := &Object{
		header: archive.Header{Name: name, FullName: objpath.Join(o.header.FullName, name), Kind: kind},
		schema: schema,
	}
	o.children = append(o.children, c)
	return c
}

// AddGeneric appends a child without schema.
func (o *Object) AddGeneric(name string) *Object {
	return o.AddChild(name, archive.KindGeneric, nil)
}

// AddXform appends a transform child.
func (o *Object) AddXform(name string, s *XformSchema) *Object {
	return o.AddChild(name, archive.KindXform, archive.XformSchema(s))
}

// AddInstance appends an instance of the object at source.
func (o *Object) AddInstance(name, source string) *Object {
	c := o.AddChild(name, archive.KindGeneric, nil)
	c.source = source
	return c
}

// AddMesh appends a polygon mesh child.
func (o *Object) AddMesh(name string, s *ShapeSchema[archive.MeshSample]) *Object {
	return o.AddChild(name, archive.KindMesh, archive.ShapeSchema[archive.MeshSample](s))
}

// AddSubD appends a subdivision surface child.
func (o *Object) AddSubD(name string, s *ShapeSchema[archive.MeshSample]) *Object {
	return o.AddChild(name, archive.KindSubD, archive.ShapeSchema[archive.MeshSample](s))
}

// AddPoints appends a point cloud child.
func (o *Object) AddPoints(name string, s *ShapeSchema[archive.PointsSample]) *Object {
	return o.AddChild(name, archive.KindPoints, archive.ShapeSchema[archive.PointsSample](s))
}

// AddCurves appends a curves child.
func (o *Object) AddCurves(name string, s *ShapeSchema[archive.CurvesSample]) *Object {
	return o.AddChild(name, archive.KindCurves, archive.ShapeSchema[archive.CurvesSample](s))
}

// AddNuPatch appends a NURBS patch child.
func (o *Object) AddNuPatch(name string, s *ShapeSchema[archive.NuPatchSample]) *Object {
	return o.AddChild(name, archive.KindNuPatch, archive.ShapeSchema[archive.NuPatchSample](s))
}

// Find returns the object at the absolute path, or nil.
func (a *Archive) Find(path string) *Object {
	segs, _ := objpath.Rel(path)
	cur := a.root
	for _, seg := range segs {
		var next *Object
		for _, c := range cur.children {
			if c.header.Name == seg {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}
