package memarchive

import (
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/geom"
)

// XformSchema implements archive.XformSchema.
type XformSchema struct {
	*Series[archive.XformSample]
	locator *Series[archive.LocatorSample]
}

// NewXform wraps a transform sample series.
func NewXform(s *Series[archive.XformSample]) *XformSchema {
	return &XformSchema{Series: s}
}

// WithLocator attaches a locator property.
func (x *XformSchema) WithLocator(l *Series[archive.LocatorSample]) *XformSchema {
	x.locator = l
	return x
}

// Locator returns the locator property, or nil.
func (x *XformSchema) Locator() archive.Schema[archive.LocatorSample] {
	if x.locator == nil {
		return nil
	}
	return x.locator
}

// ShapeSchema implements archive.ShapeSchema[T].
type ShapeSchema[T any] struct {
	*Series[T]
	bounds     *Series[geom.Box3]
	visibility *Series[archive.Visibility]
	params     *Series[archive.Properties]
}

// NewShape wraps a geometry sample series.
func NewShape[T any](s *Series[T]) *ShapeSchema[T] {
	return &ShapeSchema[T]{Series: s}
}

// WithBounds attaches a self bounds property.
func (sh *ShapeSchema[T]) WithBounds(b *Series[geom.Box3]) *ShapeSchema[T] {
	sh.bounds = b
	return sh
}

// WithVisibility attaches a visibility property.
func (sh *ShapeSchema[T]) WithVisibility(v *Series[archive.Visibility]) *ShapeSchema[T] {
	sh.visibility = v
	return sh
}

// WithGeomParams attaches arbitrary geometry parameters.
func (sh *ShapeSchema[T]) WithGeomParams(p *Series[archive.Properties]) *ShapeSchema[T] {
	sh.params = p
	return sh
}

// Bounds returns the self bounds property, or nil.
func (sh *ShapeSchema[T]) Bounds() archive.Schema[geom.Box3] {
	if sh.bounds == nil {
		return nil
	}
	return sh.bounds
}

// Visibility returns the visibility property, or nil.
func (sh *ShapeSchema[T]) Visibility() archive.Schema[archive.Visibility] {
	if sh.visibility == nil {
		return nil
	}
	return sh.visibility
}

// GeomParams returns the geometry parameters, or nil.
func (sh *ShapeSchema[T]) GeomParams() archive.Schema[archive.Properties] {
	if sh.params == nil {
		return nil
	}
	return sh.params
}
