package archive

import (
	"context"

	"github.com/vk/abcscene/internal/geom"
)

// Header describes an archive object.
type Header struct {
	// Name is the object's local name.
	Name string
	// FullName is the object's absolute path, e.g. "/world/car".
	FullName string
	// Kind is the object's type tag.
	Kind Kind
}

// Schema is a time-sampled property: a sample count, a time sampling and an
// indexed reader.
type Schema[T any] interface {
	NumSamples() int
	TimeSampling() *TimeSampling
	Sample(index int) (T, error)
}

// IsConstant reports whether a schema holds at most one sample.
func IsConstant[T any](s Schema[T]) bool {
	return s == nil || s.NumSamples() <= 1
}

// XformSchema is the schema of a transform object.
type XformSchema interface {
	Schema[XformSample]
	// Locator returns the locator property, or nil when the transform is not
	// a locator.
	Locator() Schema[LocatorSample]
}

// ShapeSchema is the schema of a geometric object carrying samples of type T.
type ShapeSchema[T any] interface {
	Schema[T]
	// Bounds returns the self bounds property, or nil if none was written.
	Bounds() Schema[geom.Box3]
	// Visibility returns the visibility property, or nil if none was written.
	Visibility() Schema[Visibility]
	// GeomParams returns the arbitrary geometry parameters, or nil.
	GeomParams() Schema[Properties]
}

// Object is a node of the archive hierarchy.
type Object interface {
	Header() Header
	NumChildren() int
	Child(i int) Object
	// InstanceSource returns the full path of the aliased object for an
	// instance, or "" for ordinary objects.
	InstanceSource() string
	// Schema returns the kind-specific schema, or nil for generic objects and
	// instances. See the package documentation for the concrete types.
	Schema() any
	// UserProperties returns the user property compound, or nil.
	UserProperties() Schema[Properties]
}

// Archive is an opened archive.
type Archive interface {
	// Name returns the path the archive was opened from.
	Name() string
	// Root returns the top-level object, whose full name is "/".
	Root() Object
	Close() error
}

// Opener opens archives of one file format.
type Opener interface {
	Open(ctx context.Context, path string) (Archive, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, path string) (Archive, error)

// Open calls f(ctx, path).
func (f OpenerFunc) Open(ctx context.Context, path string) (Archive, error) {
	return f(ctx, path)
}
