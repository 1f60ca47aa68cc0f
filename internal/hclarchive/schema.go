package hclarchive

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/geom"
	"github.com/vk/abcscene/internal/memarchive"
	"github.com/zclconf/go-cty/cty"
)

// objectBody is a generic object. Child objects stay in Remain so they can
// be walked in document order.
type objectBody struct {
	Users  []*propertyBlock `hcl:"user,block"`
	Remain hcl.Body         `hcl:",remain"`
}

type instanceBody struct {
	Source hcl.Expression `hcl:"source"`
}

type xformBody struct {
	Start    *float64            `hcl:"start,optional"`
	Step     *float64            `hcl:"step,optional"`
	Times    hcl.Expression      `hcl:"times,optional"`
	Cycle    *float64            `hcl:"cycle,optional"`
	Samples  []*xformSampleBlock `hcl:"sample,block"`
	Locators []*locatorBlock     `hcl:"locator,block"`
	Users    []*propertyBlock    `hcl:"user,block"`
	Remain   hcl.Body            `hcl:",remain"`
}

func (b *xformBody) timing() timing { return timing{b.Start, b.Step, b.Times, b.Cycle} }

// shapeBody is any geometry object; S is its sample block.
type shapeBody[S any] struct {
	Start      *float64         `hcl:"start,optional"`
	Step       *float64         `hcl:"step,optional"`
	Times      hcl.Expression   `hcl:"times,optional"`
	Cycle      *float64         `hcl:"cycle,optional"`
	Visibility hcl.Expression   `hcl:"visibility,optional"`
	Samples    []*S             `hcl:"sample,block"`
	Bounds     []*boundsBlock   `hcl:"bounds,block"`
	Params     []*propertyBlock `hcl:"param,block"`
	Users      []*propertyBlock `hcl:"user,block"`
	Remain     hcl.Body         `hcl:",remain"`
}

func (b *shapeBody[S]) timing() timing { return timing{b.Start, b.Step, b.Times, b.Cycle} }

type xformSampleBlock struct {
	Matrix    hcl.Expression `hcl:"matrix,optional"`
	Translate hcl.Expression `hcl:"translate,optional"`
	Scale     hcl.Expression `hcl:"scale,optional"`
	Inherits  *bool          `hcl:"inherits,optional"`
}

type locatorBlock struct {
	Position hcl.Expression `hcl:"position,optional"`
	Scale    hcl.Expression `hcl:"scale,optional"`
}

type boundsBlock struct {
	Min hcl.Expression `hcl:"min,optional"`
	Max hcl.Expression `hcl:"max,optional"`
}

type propertyBlock struct {
	Name    string         `hcl:"name,label"`
	Value   hcl.Expression `hcl:"value"`
	Scope   hcl.Expression `hcl:"scope,optional"`
	Indices []uint32       `hcl:"indices,optional"`
}

type meshSampleBlock struct {
	Positions   hcl.Expression `hcl:"positions,optional"`
	FaceCounts  []int32        `hcl:"face_counts,optional"`
	FaceIndices []int32        `hcl:"face_indices,optional"`
	Velocities  hcl.Expression `hcl:"velocities,optional"`
	Normals     hcl.Expression `hcl:"normals,optional"`
}

type pointsSampleBlock struct {
	Positions  hcl.Expression `hcl:"positions,optional"`
	IDs        []uint64       `hcl:"ids,optional"`
	Velocities hcl.Expression `hcl:"velocities,optional"`
	Widths     []float64      `hcl:"widths,optional"`
}

type curvesSampleBlock struct {
	Positions   hcl.Expression `hcl:"positions,optional"`
	NumVertices []int32        `hcl:"num_vertices,optional"`
	Widths      []float64      `hcl:"widths,optional"`
	Velocities  hcl.Expression `hcl:"velocities,optional"`
	Degree      *int           `hcl:"degree,optional"`
	Periodic    bool           `hcl:"periodic,optional"`
}

type nuPatchSampleBlock struct {
	Positions hcl.Expression `hcl:"positions,optional"`
	NumU      int            `hcl:"nu,optional"`
	NumV      int            `hcl:"nv,optional"`
	UOrder    int            `hcl:"u_order,optional"`
	VOrder    int            `hcl:"v_order,optional"`
	UKnots    []float64      `hcl:"u_knots,optional"`
	VKnots    []float64      `hcl:"v_knots,optional"`
}

func (d *decoder) xform(b *xformBody, ts *archive.TimeSampling) *memarchive.XformSchema {
	samples := make([]archive.XformSample, len(b.Samples))
	for i, s := range b.Samples {
		samples[i] = d.xformSample(s)
	}
	xs := memarchive.NewXform(memarchive.NewSeries(ts, samples...))
	if len(b.Locators) > 0 {
		locators := make([]archive.LocatorSample, len(b.Locators))
		for i, l := range b.Locators {
			locators[i] = archive.LocatorSample{
				Position: d.vec3(l.Position, "position", geom.Vector3{}),
				Scale:    d.vec3(l.Scale, "scale", geom.Vec3(1, 1, 1)),
			}
		}
		xs.WithLocator(memarchive.NewSeries(ts, locators...))
	}
	return xs
}

// xformSample reads either a full matrix or a scale followed by a
// translation.
func (d *decoder) xformSample(b *xformSampleBlock) archive.XformSample {
	s := archive.XformSample{Matrix: geom.Identity4(), Inherits: true}
	if b.Inherits != nil {
		s.Inherits = *b.Inherits
	}
	if present(b.Matrix) {
		if present(b.Translate) {
			d.errorf(b.Translate.Range(), "Conflicting transform", "%q cannot be combined with matrix.", "translate")
		}
		if present(b.Scale) {
			d.errorf(b.Scale.Range(), "Conflicting transform", "%q cannot be combined with matrix.", "scale")
		}
		s.Matrix, _ = d.matrix(b.Matrix)
		return s
	}
	sc := d.vec3(b.Scale, "scale", geom.Vec3(1, 1, 1))
	tr := d.vec3(b.Translate, "translate", geom.Vector3{})
	s.Matrix = geom.Scale(sc.X, sc.Y, sc.Z).Mul(geom.Translate(tr.X, tr.Y, tr.Z))
	return s
}

// shape decodes a geometry object body into its schema, returning the body
// so the caller can read user properties and children.
func shape[S any, T interface{ Bounds() geom.Box3 }](d *decoder, blk *hcl.Block, decode func(*decoder, *S) T) (*memarchive.ShapeSchema[T], *shapeBody[S], bool) {
	var b shapeBody[S]
	if !d.decodeBody(blk.Body, &b) {
		return nil, nil, false
	}
	ts := d.timeSampling(blk.DefRange, b.timing())

	values := make([]T, len(b.Samples))
	for i, s := range b.Samples {
		values[i] = decode(d, s)
	}
	series := memarchive.NewSeries(ts, values...)
	sh := memarchive.NewShape(series)
	switch {
	case len(b.Bounds) > 0:
		bounds := make([]geom.Box3, len(b.Bounds))
		for i, bb := range b.Bounds {
			bounds[i] = geom.Box3{
				Min: d.vec3(bb.Min, "min", geom.Vector3{}),
				Max: d.vec3(bb.Max, "max", geom.Vector3{}),
			}
		}
		if len(values) > 0 && len(bounds) != len(values) {
			d.errorf(blk.DefRange, "Mismatched bounds", "Got %d bounds blocks for %d samples.", len(bounds), len(values))
		}
		sh.WithBounds(memarchive.NewSeries(ts, bounds...))
	case len(values) > 0:
		sh.WithBounds(memarchive.BoundsOf(series))
	}

	if present(b.Visibility) {
		if vis, ok := d.visibility(b.Visibility, ts); ok {
			sh.WithVisibility(vis)
		}
	}
	if params := d.properties(b.Params); len(params) > 0 {
		sh.WithGeomParams(memarchive.Constant(params))
	}
	return sh, &b, true
}

// visibility reads a single keyword (constant) or a list with one keyword
// per sample.
func (d *decoder) visibility(expr hcl.Expression, ts *archive.TimeSampling) (*memarchive.Series[archive.Visibility], bool) {
	v, diags := expr.Value(nil)
	d.diags = append(d.diags, diags...)
	if diags.HasErrors() {
		return nil, false
	}
	var words []string
	if v.Type().Equals(cty.String) {
		words = []string{v.AsString()}
	} else if !d.decodeExpr(expr, &words) {
		return nil, false
	}

	out := make([]archive.Visibility, len(words))
	for i, w := range words {
		vis, ok := parseVisibility(w)
		if !ok {
			d.errorf(expr.Range(), "Invalid visibility", "%q is not one of deferred, hidden, visible.", w)
			return nil, false
		}
		out[i] = vis
	}
	if len(out) == 1 {
		return memarchive.Constant(out[0]), true
	}
	return memarchive.NewSeries(ts, out...), true
}

// properties converts param or user blocks, keeping document order.
func (d *decoder) properties(blocks []*propertyBlock) archive.Properties {
	var out archive.Properties
	for _, b := range blocks {
		p := archive.Property{Name: b.Name, Scope: archive.ScopeConstant, Indices: b.Indices}
		var s string
		if d.decodeExpr(b.Scope, &s) {
			scope, ok := archive.ParseScope(s)
			if !ok {
				d.errorf(b.Scope.Range(), "Invalid scope", "%q is not a known scope.", s)
			}
			p.Scope = scope
		}
		v, diags := b.Value.Value(nil)
		d.diags = append(d.diags, diags...)
		if diags.HasErrors() {
			continue
		}
		if v.IsNull() {
			d.errorf(b.Value.Range(), "Invalid attribute value", "The value of %q must not be null.", b.Name)
			continue
		}
		p.Value = v
		out = append(out, p)
	}
	return out
}

func (d *decoder) meshSample(b *meshSampleBlock) archive.MeshSample {
	return archive.MeshSample{
		Positions:   d.vec3s(b.Positions, "positions"),
		FaceCounts:  b.FaceCounts,
		FaceIndices: b.FaceIndices,
		Velocities:  d.vec3s(b.Velocities, "velocities"),
		Normals:     d.vec3s(b.Normals, "normals"),
	}
}

func (d *decoder) pointsSample(b *pointsSampleBlock) archive.PointsSample {
	return archive.PointsSample{
		Positions:  d.vec3s(b.Positions, "positions"),
		IDs:        b.IDs,
		Velocities: d.vec3s(b.Velocities, "velocities"),
		Widths:     b.Widths,
	}
}

func (d *decoder) curvesSample(b *curvesSampleBlock) archive.CurvesSample {
	degree := 1
	if b.Degree != nil {
		degree = *b.Degree
	}
	return archive.CurvesSample{
		Positions:   d.vec3s(b.Positions, "positions"),
		NumVertices: b.NumVertices,
		Widths:      b.Widths,
		Velocities:  d.vec3s(b.Velocities, "velocities"),
		Degree:      degree,
		Periodic:    b.Periodic,
	}
}

func (d *decoder) nuPatchSample(b *nuPatchSampleBlock) archive.NuPatchSample {
	return archive.NuPatchSample{
		Positions: d.vec3s(b.Positions, "positions"),
		NumU:      b.NumU,
		NumV:      b.NumV,
		UOrder:    b.UOrder,
		VOrder:    b.VOrder,
		UKnots:    b.UKnots,
		VKnots:    b.VKnots,
	}
}
