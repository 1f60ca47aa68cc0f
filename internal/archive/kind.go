package archive

import "strings"

// Kind is the type tag of an archive object.
type Kind int

const (
	// KindGeneric is any object without a recognised geometric schema.
	KindGeneric Kind = iota
	// KindMesh is a polygon mesh.
	KindMesh
	// KindSubD is a subdivision surface.
	KindSubD
	// KindPoints is a point cloud.
	KindPoints
	// KindNuPatch is a NURBS patch.
	KindNuPatch
	// KindCurves is a set of curves.
	KindCurves
	// KindXform is a transform.
	KindXform
)

var kindNames = [...]string{
	KindGeneric: "Generic",
	KindMesh:    "Mesh",
	KindSubD:    "SubD",
	KindPoints:  "Points",
	KindNuPatch: "NuPatch",
	KindCurves:  "Curves",
	KindXform:   "Xform",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// IsShape reports whether objects of this kind carry geometry and bounds.
func (k Kind) IsShape() bool {
	switch k {
	case KindMesh, KindSubD, KindPoints, KindNuPatch, KindCurves:
		return true
	}
	return false
}

// ParseKind returns the kind with the given case-insensitive name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), true
		}
	}
	return KindGeneric, false
}
