package archive

import "github.com/vk/abcscene/internal/geom"

// Visibility is the sampled visibility of an object.
type Visibility int8

const (
	// VisibilityDeferred inherits visibility from the parent.
	VisibilityDeferred Visibility = -1
	// VisibilityHidden hides the object and its descendants.
	VisibilityHidden Visibility = 0
	// VisibilityVisible shows the object.
	VisibilityVisible Visibility = 1
)

// XformSample is one sample of a transform.
type XformSample struct {
	Matrix geom.Matrix4
	// Inherits is false when the transform ignores its parent's world matrix.
	Inherits bool
}

// LocatorSample is one sample of a locator property.
type LocatorSample struct {
	Position geom.Vector3
	Scale    geom.Vector3
}

// MeshSample is one sample of a polygon mesh or subdivision surface.
type MeshSample struct {
	Positions   []geom.Vector3
	FaceCounts  []int32
	FaceIndices []int32
	Velocities  []geom.Vector3
	Normals     []geom.Vector3
}

// Bounds returns the bounds of the sample's positions.
func (s MeshSample) Bounds() geom.Box3 { return geom.BoxFromPoints(s.Positions) }

// PointsSample is one sample of a point cloud.
type PointsSample struct {
	Positions  []geom.Vector3
	IDs        []uint64
	Velocities []geom.Vector3
	Widths     []float64
}

// Bounds returns the bounds of the sample's positions.
func (s PointsSample) Bounds() geom.Box3 { return geom.BoxFromPoints(s.Positions) }

// ScaleWidths returns a copy of the sample with every width multiplied by f.
// Other payload slices are shared.
func (s PointsSample) ScaleWidths(f float64) PointsSample {
	s.Widths = scaled(s.Widths, f)
	return s
}

// CurvesSample is one sample of a set of curves.
type CurvesSample struct {
	Positions   []geom.Vector3
	NumVertices []int32
	Widths      []float64
	Velocities  []geom.Vector3
	Degree      int
	Periodic    bool
}

// Bounds returns the bounds of the sample's positions.
func (s CurvesSample) Bounds() geom.Box3 { return geom.BoxFromPoints(s.Positions) }

// ScaleWidths returns a copy of the sample with every width multiplied by f.
// Other payload slices are shared.
func (s CurvesSample) ScaleWidths(f float64) CurvesSample {
	s.Widths = scaled(s.Widths, f)
	return s
}

// NuPatchSample is one sample of a NURBS patch.
type NuPatchSample struct {
	Positions []geom.Vector3
	NumU      int
	NumV      int
	UOrder    int
	VOrder    int
	UKnots    []float64
	VKnots    []float64
}

// Bounds returns the bounds of the sample's control points.
func (s NuPatchSample) Bounds() geom.Box3 { return geom.BoxFromPoints(s.Positions) }

func scaled(in []float64, f float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = v * f
	}
	return out
}
