package geom

import "math"

// Box3 is an axis-aligned bounding box. A box whose Min exceeds its Max on
// any axis is empty; a box spanning -Inf..+Inf on every axis is infinite.
type Box3 struct {
	Min Vector3
	Max Vector3
}

// B3 returns a new Box3 from the given minimum and maximum coordinates.
func B3(x0, y0, z0, x1, y1, z1 float64) Box3 {
	return Box3{Min: Vec3(x0, y0, z0), Max: Vec3(x1, y1, z1)}
}

// B3Empty returns an empty box that absorbs nothing on union.
func B3Empty() Box3 {
	inf := math.Inf(1)
	return Box3{Min: Vec3(inf, inf, inf), Max: Vec3(-inf, -inf, -inf)}
}

// B3Infinite returns a box that covers all of space.
func B3Infinite() Box3 {
	inf := math.Inf(1)
	return Box3{Min: Vec3(-inf, -inf, -inf), Max: Vec3(inf, inf, inf)}
}

// IsEmpty reports whether the box contains no point.
func (b Box3) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// IsInfinite reports whether the box covers all of space.
func (b Box3) IsInfinite() bool {
	return math.IsInf(b.Min.X, -1) && math.IsInf(b.Min.Y, -1) && math.IsInf(b.Min.Z, -1) &&
		math.IsInf(b.Max.X, 1) && math.IsInf(b.Max.Y, 1) && math.IsInf(b.Max.Z, 1)
}

// Union returns the smallest box containing both boxes.
func (b Box3) Union(other Box3) Box3 {
	switch {
	case other.IsEmpty():
		return b
	case b.IsEmpty():
		return other
	}
	return Box3{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// ExpandByPoint grows the box to contain p.
func (b *Box3) ExpandByPoint(p Vector3) {
	if b.IsEmpty() {
		b.Min, b.Max = p, p
		return
	}
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// BoxFromPoints returns the bounds of the given points, empty when there are none.
func BoxFromPoints(points []Vector3) Box3 {
	b := B3Empty()
	for _, p := range points {
		b.ExpandByPoint(p)
	}
	return b
}

// Center returns the center of the box.
func (b Box3) Center() Vector3 {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Size returns the extent of the box along each axis.
func (b Box3) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Lerp blends the corners of two boxes. Empty or infinite boxes are not
// interpolated: a is returned when either side is degenerate.
func (b Box3) Lerp(other Box3, t float64) Box3 {
	if b.IsEmpty() || other.IsEmpty() || b.IsInfinite() || other.IsInfinite() {
		return b
	}
	return Box3{Min: b.Min.Lerp(other.Min, t), Max: b.Max.Lerp(other.Max, t)}
}

// MulMatrix4 transforms the box by m and returns the box spanning the
// transformed corners. Empty and infinite boxes are returned unchanged.
func (b Box3) MulMatrix4(m Matrix4) Box3 {
	if b.IsEmpty() || b.IsInfinite() {
		return b
	}
	xa := Vec3(m.M[0][0], m.M[0][1], m.M[0][2]).MulScalar(b.Min.X)
	xb := Vec3(m.M[0][0], m.M[0][1], m.M[0][2]).MulScalar(b.Max.X)
	ya := Vec3(m.M[1][0], m.M[1][1], m.M[1][2]).MulScalar(b.Min.Y)
	yb := Vec3(m.M[1][0], m.M[1][1], m.M[1][2]).MulScalar(b.Max.Y)
	za := Vec3(m.M[2][0], m.M[2][1], m.M[2][2]).MulScalar(b.Min.Z)
	zb := Vec3(m.M[2][0], m.M[2][1], m.M[2][2]).MulScalar(b.Max.Z)
	t := m.Translation()

	return Box3{
		Min: xa.Min(xb).Add(ya.Min(yb)).Add(za.Min(zb)).Add(t),
		Max: xa.Max(xb).Add(ya.Max(yb)).Add(za.Max(zb)).Add(t),
	}
}

// ApproxEqual compares two boxes with an absolute tolerance. Empty boxes are
// equal to each other, as are infinite boxes.
func (b Box3) ApproxEqual(other Box3, tol float64) bool {
	switch {
	case b.IsEmpty() || other.IsEmpty():
		return b.IsEmpty() == other.IsEmpty()
	case b.IsInfinite() || other.IsInfinite():
		return b.IsInfinite() == other.IsInfinite()
	}
	d0, d1 := b.Min.Sub(other.Min), b.Max.Sub(other.Max)
	return math.Abs(d0.X) <= tol && math.Abs(d0.Y) <= tol && math.Abs(d0.Z) <= tol &&
		math.Abs(d1.X) <= tol && math.Abs(d1.Y) <= tol && math.Abs(d1.Z) <= tol
}
