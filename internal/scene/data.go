package scene

import (
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/geom"
	"github.com/vk/abcscene/internal/samples"
)

// kindData is the per-kind payload of a node.
type kindData interface {
	clone() kindData
}

// XformData holds the sample windows of a transform node.
type XformData struct {
	schema archive.XformSchema
	// Samples caches matrix and inherits-flag samples.
	Samples *samples.Window[archive.XformSample]
	// Locator caches locator samples; nil unless the transform is a locator.
	Locator *samples.Window[archive.LocatorSample]
}

func newXformData(s archive.XformSchema) *XformData {
	x := &XformData{schema: s, Samples: samples.New[archive.XformSample]()}
	if s.Locator() != nil {
		x.Locator = samples.New[archive.LocatorSample]()
	}
	return x
}

// Schema returns the archive schema backing the node.
func (x *XformData) Schema() archive.XformSchema { return x.schema }

// IsLocator reports whether the transform carries a locator property.
func (x *XformData) IsLocator() bool { return x.Locator != nil }

// Update loads the samples covering [t0, t1] into both windows and reports
// whether either changed.
func (x *XformData) Update(t0, t1 float64, merge bool) bool {
	modified := x.Samples.Update(x.schema, t0, t1, merge)
	if x.Locator != nil && x.Locator.Update(x.schema.Locator(), t0, t1, merge) {
		modified = true
	}
	return modified
}

func (x *XformData) clone() kindData {
	return &XformData{schema: x.schema, Samples: x.Samples.Clone(), Locator: x.Locator.Clone()}
}

// ShapeData holds the sample windows of a geometry node carrying samples of
// type T.
type ShapeData[T any] struct {
	schema archive.ShapeSchema[T]
	// Samples caches geometry payloads.
	Samples *samples.Window[T]
	// Bounds caches self bounds samples.
	Bounds *samples.Window[geom.Box3]
	// Visibility caches visibility samples.
	Visibility *samples.Window[archive.Visibility]
	// Params caches arbitrary geometry parameters; nil when there are none.
	Params *samples.Window[archive.Properties]
}

func newShapeData[T any](s archive.ShapeSchema[T], rescale func(T, float64) T) *ShapeData[T] {
	d := &ShapeData[T]{
		schema:     s,
		Bounds:     samples.New[geom.Box3](),
		Visibility: samples.New[archive.Visibility](),
	}
	if rescale != nil {
		d.Samples = samples.NewScaled(rescale)
	} else {
		d.Samples = samples.New[T]()
	}
	if s.GeomParams() != nil {
		d.Params = samples.New[archive.Properties]()
	}
	return d
}

// Schema returns the archive schema backing the node.
func (d *ShapeData[T]) Schema() archive.ShapeSchema[T] { return d.schema }

// Update loads the geometry payloads and parameters covering [t0, t1] and
// reports whether anything changed.
func (d *ShapeData[T]) Update(t0, t1 float64, merge bool) bool {
	modified := d.Samples.Update(d.schema, t0, t1, merge)
	if d.Params != nil && d.Params.Update(d.schema.GeomParams(), t0, t1, merge) {
		modified = true
	}
	return modified
}

// UpdateBounds loads the bounds and visibility samples covering [t0, t1] and
// reports whether anything changed.
func (d *ShapeData[T]) UpdateBounds(t0, t1 float64, merge bool) bool {
	modified := d.Bounds.Update(d.schema.Bounds(), t0, t1, merge)
	if d.Visibility.Update(d.schema.Visibility(), t0, t1, merge) {
		modified = true
	}
	return modified
}

// SetScale sets the payload scale (point and curve widths). It takes effect
// on the next Update.
func (d *ShapeData[T]) SetScale(s float64) { d.Samples.SetScale(s) }

// Sample returns the geometry samples bracketing t and their blend factor.
func (d *ShapeData[T]) Sample(t float64) (prev, next *samples.Sample[T], blend float64) {
	return d.Samples.GetSamples(t)
}

func (d *ShapeData[T]) clone() kindData {
	return &ShapeData[T]{
		schema:     d.schema,
		Samples:    d.Samples.Clone(),
		Bounds:     d.Bounds.Clone(),
		Visibility: d.Visibility.Clone(),
		Params:     d.Params.Clone(),
	}
}

func scalePoints(s archive.PointsSample, f float64) archive.PointsSample { return s.ScaleWidths(f) }
func scaleCurves(s archive.CurvesSample, f float64) archive.CurvesSample { return s.ScaleWidths(f) }

// newKindData builds the payload for an archive object. It reports false
// when the object's schema does not match its kind.
func newKindData(kind archive.Kind, schema any) (kindData, bool) {
	switch kind {
	case archive.KindGeneric:
		return nil, true
	case archive.KindXform:
		s, ok := schema.(archive.XformSchema)
		if !ok || s == nil {
			return nil, false
		}
		return newXformData(s), true
	case archive.KindMesh, archive.KindSubD:
		s, ok := schema.(archive.ShapeSchema[archive.MeshSample])
		if !ok || s == nil {
			return nil, false
		}
		return newShapeData(s, nil), true
	case archive.KindPoints:
		s, ok := schema.(archive.ShapeSchema[archive.PointsSample])
		if !ok || s == nil {
			return nil, false
		}
		return newShapeData(s, scalePoints), true
	case archive.KindCurves:
		s, ok := schema.(archive.ShapeSchema[archive.CurvesSample])
		if !ok || s == nil {
			return nil, false
		}
		return newShapeData(s, scaleCurves), true
	case archive.KindNuPatch:
		s, ok := schema.(archive.ShapeSchema[archive.NuPatchSample])
		if !ok || s == nil {
			return nil, false
		}
		return newShapeData(s, nil), true
	}
	return nil, false
}
