package geom

import "math"

// Matrix4 is a 4x4 transform stored row-major, used with row vectors.
type Matrix4 struct {
	M [4][4]float64
}

// Identity4 returns the identity matrix.
func Identity4() Matrix4 {
	return Matrix4{M: [4][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// Translate returns a translation matrix.
func Translate(x, y, z float64) Matrix4 {
	m := Identity4()
	m.M[3][0], m.M[3][1], m.M[3][2] = x, y, z
	return m
}

// Scale returns a scaling matrix.
func Scale(x, y, z float64) Matrix4 {
	m := Identity4()
	m.M[0][0], m.M[1][1], m.M[2][2] = x, y, z
	return m
}

// Matrix4FromSlice builds a matrix from 16 row-major values. It reports false
// when s does not hold exactly 16 values.
func Matrix4FromSlice(s []float64) (Matrix4, bool) {
	if len(s) != 16 {
		return Identity4(), false
	}
	var m Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m.M[r][c] = s[r*4+c]
		}
	}
	return m, true
}

// Slice returns the 16 row-major values of the matrix.
func (A Matrix4) Slice() []float64 {
	s := make([]float64, 0, 16)
	for r := 0; r < 4; r++ {
		s = append(s, A.M[r][:]...)
	}
	return s
}

// Mul returns A * B. With row vectors, A is applied first.
func (A Matrix4) Mul(B Matrix4) Matrix4 {
	var R Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += A.M[r][k] * B.M[k][c]
			}
			R.M[r][c] = sum
		}
	}
	return R
}

// Lerp blends two matrices element by element.
func (A Matrix4) Lerp(B Matrix4, t float64) Matrix4 {
	var R Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			R.M[r][c] = Lerp(A.M[r][c], B.M[r][c], t)
		}
	}
	return R
}

// Translation returns the translation part of the matrix.
func (A Matrix4) Translation() Vector3 {
	return Vector3{A.M[3][0], A.M[3][1], A.M[3][2]}
}

// IsIdentity reports whether A is the identity matrix.
func (A Matrix4) IsIdentity() bool {
	return A == Identity4()
}

// ApproxEqual compares two matrices with an absolute tolerance.
func (A Matrix4) ApproxEqual(B Matrix4, tol float64) bool {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if math.Abs(A.M[r][c]-B.M[r][c]) > tol {
				return false
			}
		}
	}
	return true
}

// Inverse returns the inverse of A using Gauss-Jordan elimination with
// partial pivoting. It reports false for singular matrices, in which case the
// identity is returned.
func (A Matrix4) Inverse() (Matrix4, bool) {
	a := A.M
	inv := Identity4().M
	for col := 0; col < 4; col++ {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Identity4(), false
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		p := a[col][col]
		for c := 0; c < 4; c++ {
			a[col][c] /= p
			inv[col][c] /= p
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			f := a[r][col]
			if f == 0 {
				continue
			}
			for c := 0; c < 4; c++ {
				a[r][c] -= f * a[col][c]
				inv[r][c] -= f * inv[col][c]
			}
		}
	}
	return Matrix4{M: inv}, true
}
