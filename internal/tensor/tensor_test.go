package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestShape(t *testing.T) {
	s := Shape{Rows: 2, Cols: 3}
	assert.Equal(t, 6, s.NumElements())
	assert.Equal(t, "(2 x 3)", s.String())
	assert.True(t, s.Equal(ShapeOf(mat.NewDense(2, 3, nil))))
	assert.False(t, s.IsScalar())
	assert.True(t, Shape{Rows: 1, Cols: 1}.IsScalar())

	assert.NoError(t, s.Validate())
	assert.Error(t, Shape{Rows: 0, Cols: 3}.Validate())
	assert.Error(t, Shape{Rows: 2, Cols: -1}.Validate())
}

func TestFromRows(t *testing.T) {
	m := FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	assert.Equal(t, Shape{Rows: 3, Cols: 2}, ShapeOf(m))
	assert.InDelta(t, 4.0, m.At(1, 1), 0)

	assert.Panics(t, func() { FromRows(nil) })
	assert.Panics(t, func() { FromRows([][]float64{{1, 2}, {3}}) })
}

func TestZeros(t *testing.T) {
	assert.InDelta(t, 0.0, Sum(Zeros(3, 4)), 0)
	assert.Panics(t, func() { Zeros(0, 4) })
}

func TestClone(t *testing.T) {
	m := FromRows([][]float64{{1, 2}})
	c := Clone(m)
	c.Set(0, 0, 9)
	assert.InDelta(t, 1.0, m.At(0, 0), 0)
}

func TestUniform(t *testing.T) {
	m := Uniform(100, 50, NewSource(1))
	limit := math.Sqrt(3.0 / 75.0)
	for _, v := range m.RawMatrix().Data {
		require.LessOrEqual(t, math.Abs(v), limit)
	}
	assert.True(t, mat.Equal(m, Uniform(100, 50, NewSource(1))), "same seed, same values")
	assert.False(t, mat.Equal(m, Uniform(100, 50, NewSource(2))))
}

func TestOneHot(t *testing.T) {
	m := OneHot([]int{2, 0}, 3)
	assert.Equal(t, []float64{0, 0, 1, 1, 0, 0}, m.RawMatrix().Data)
	assert.Equal(t, []int{2, 0}, ArgMaxRows(m))

	assert.Panics(t, func() { OneHot([]int{3}, 3) })
	assert.Panics(t, func() { OneHot([]int{-1}, 3) })
}

func TestSoftmaxRows(t *testing.T) {
	m := FromRows([][]float64{{0, 0}, {1000, 1000 + math.Log(3)}})
	s := SoftmaxRows(m)

	assert.InDelta(t, 0.5, s.At(0, 0), 1e-12)
	assert.InDelta(t, 0.25, s.At(1, 0), 1e-12)
	assert.InDelta(t, 0.75, s.At(1, 1), 1e-12)

	lse := LogSumExpRows(m)
	assert.InDelta(t, math.Log(2), lse[0], 1e-12)
	assert.False(t, math.IsInf(lse[1], 0))
}

func TestArgMaxRows(t *testing.T) {
	m := FromRows([][]float64{{0.1, 0.7, 0.2}, {5, -1, 4}})
	assert.Equal(t, []int{1, 0}, ArgMaxRows(m))
}
