package geom

import "math"

// Vector3 is a position, direction or scale in 3D space.
type Vector3 struct {
	X, Y, Z float64
}

// Vec3 returns a new Vector3.
func Vec3(x, y, z float64) Vector3 { return Vector3{x, y, z} }

func (a Vector3) Add(b Vector3) Vector3       { return Vector3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vector3) Sub(b Vector3) Vector3       { return Vector3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (v Vector3) MulScalar(s float64) Vector3 { return Vector3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product between two vectors.
func (a Vector3) Dot(b Vector3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Len returns the Euclidean length of the vector.
func (v Vector3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Min returns the component-wise minimum of a and b.
func (a Vector3) Min(b Vector3) Vector3 {
	return Vector3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum of a and b.
func (a Vector3) Max(b Vector3) Vector3 {
	return Vector3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Lerp interpolates between a and b: a at t=0, b at t=1.
func (a Vector3) Lerp(b Vector3, t float64) Vector3 {
	return Vector3{
		Lerp(a.X, b.X, t),
		Lerp(a.Y, b.Y, t),
		Lerp(a.Z, b.Z, t),
	}
}

// MulMatrix4 transforms v as a point (w = 1) by m.
func (v Vector3) MulMatrix4(m Matrix4) Vector3 {
	return Vector3{
		v.X*m.M[0][0] + v.Y*m.M[1][0] + v.Z*m.M[2][0] + m.M[3][0],
		v.X*m.M[0][1] + v.Y*m.M[1][1] + v.Z*m.M[2][1] + m.M[3][1],
		v.X*m.M[0][2] + v.Y*m.M[1][2] + v.Z*m.M[2][2] + m.M[3][2],
	}
}

// Lerp interpolates between two scalars.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
