package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestMatrixMulAppliesLeftFirst(t *testing.T) {
	m := Scale(2, 2, 2).Mul(Translate(1, 0, 0))
	p := Vec3(1, 1, 1).MulMatrix4(m)
	assert.Equal(t, Vec3(3, 2, 2), p)
}

func TestMatrixLerp(t *testing.T) {
	m := Identity4().Lerp(Translate(1, 0, 0), 0.5)
	assert.True(t, m.ApproxEqual(Translate(0.5, 0, 0), tol))
}

func TestMatrixInverse(t *testing.T) {
	t.Run("invertible", func(t *testing.T) {
		m := Scale(2, 4, 8).Mul(Translate(1, 2, 3))
		inv, ok := m.Inverse()
		require.True(t, ok)
		assert.True(t, m.Mul(inv).ApproxEqual(Identity4(), tol))
	})

	t.Run("singular", func(t *testing.T) {
		_, ok := Scale(0, 1, 1).Inverse()
		assert.False(t, ok)
	})
}

func TestMatrix4FromSlice(t *testing.T) {
	m, ok := Matrix4FromSlice(Translate(4, 5, 6).Slice())
	require.True(t, ok)
	assert.Equal(t, Vec3(4, 5, 6), m.Translation())

	_, ok = Matrix4FromSlice([]float64{1, 2, 3})
	assert.False(t, ok)
}

func TestBoxStates(t *testing.T) {
	assert.True(t, B3Empty().IsEmpty())
	assert.False(t, B3Empty().IsInfinite())
	assert.True(t, B3Infinite().IsInfinite())
	assert.False(t, B3Infinite().IsEmpty())
	assert.False(t, B3(0, 0, 0, 0, 0, 0).IsEmpty())
}

func TestBoxUnion(t *testing.T) {
	a := B3(0, 0, 0, 1, 1, 1)
	b := B3(-1, 0.5, 0, 0.5, 2, 1)

	assert.Equal(t, B3(-1, 0, 0, 1, 2, 1), a.Union(b))
	assert.Equal(t, a, a.Union(B3Empty()))
	assert.Equal(t, a, B3Empty().Union(a))
	assert.True(t, a.Union(B3Infinite()).IsInfinite())
}

func TestBoxMulMatrix4(t *testing.T) {
	b := B3(0, 0, 0, 1, 1, 1)

	moved := b.MulMatrix4(Translate(1, 2, 3))
	assert.True(t, moved.ApproxEqual(B3(1, 2, 3, 2, 3, 4), tol))

	flipped := b.MulMatrix4(Scale(-1, 1, 1))
	assert.True(t, flipped.ApproxEqual(B3(-1, 0, 0, 0, 1, 1), tol))

	assert.True(t, B3Empty().MulMatrix4(Translate(1, 0, 0)).IsEmpty())
	assert.True(t, B3Infinite().MulMatrix4(Translate(1, 0, 0)).IsInfinite())
}

func TestBoxFromPoints(t *testing.T) {
	assert.True(t, BoxFromPoints(nil).IsEmpty())
	b := BoxFromPoints([]Vector3{Vec3(1, 0, 0), Vec3(-1, 2, 3)})
	assert.Equal(t, B3(-1, 0, 0, 1, 2, 3), b)
	assert.Equal(t, Vec3(0, 1, 1.5), b.Center())
}

func TestBoxLerp(t *testing.T) {
	a := B3(0, 0, 0, 1, 1, 1)
	b := B3(2, 2, 2, 3, 3, 3)
	assert.True(t, a.Lerp(b, 0.5).ApproxEqual(B3(1, 1, 1, 2, 2, 2), tol))
	assert.Equal(t, a, a.Lerp(B3Empty(), 0.5))
}
