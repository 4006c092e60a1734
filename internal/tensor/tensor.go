// Package tensor provides the dense 2-D matrix helpers used by the autodiff
// library and the datasets.
//
// All storage is gonum's mat.Dense (row-major float64). Every node in the
// computation graph is a matrix; row vectors are (1 x n), scalars are (1 x 1).
package tensor

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Zeros returns a zero-filled (rows x cols) matrix.
func Zeros(rows, cols int) *mat.Dense {
	mustValid(rows, cols)
	return mat.NewDense(rows, cols, nil)
}

// FromRows builds a matrix from equally sized rows.
//
// Panics if rows is empty or ragged.
func FromRows(rows [][]float64) *mat.Dense {
	if len(rows) == 0 || len(rows[0]) == 0 {
		panic("tensor.FromRows: empty input")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			panic(fmt.Sprintf("tensor.FromRows: row %d has %d columns, want %d", i, len(row), cols))
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data)
}

// Clone returns a deep copy of m.
func Clone(m mat.Matrix) *mat.Dense {
	return mat.DenseCopyOf(m)
}

// Uniform creates a (rows x cols) matrix drawn from U(-limit, limit) where
// limit = sqrt(3 / mean(rows, cols)), giving entries of variance
// 1/mean(rows, cols).
func Uniform(rows, cols int, src rand.Source) *mat.Dense {
	mustValid(rows, cols)
	limit := math.Sqrt(3.0 / (float64(rows+cols) / 2.0))
	dist := distuv.Uniform{Min: -limit, Max: limit, Src: src}

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = dist.Rand()
	}
	return mat.NewDense(rows, cols, data)
}

// OneHot encodes class indices as rows of a (len(indices) x classes) matrix.
func OneHot(indices []int, classes int) *mat.Dense {
	out := Zeros(len(indices), classes)
	for i, idx := range indices {
		if idx < 0 || idx >= classes {
			panic(fmt.Sprintf("tensor.OneHot: index %d out of range [0, %d)", idx, classes))
		}
		out.Set(i, idx, 1)
	}
	return out
}

// ArgMaxRows returns the column index of the largest entry of every row.
func ArgMaxRows(m *mat.Dense) []int {
	r, _ := m.Dims()
	out := make([]int, r)
	for i := range out {
		out[i] = floats.MaxIdx(m.RawRowView(i))
	}
	return out
}

// LogSumExpRows returns log(sum(exp(row))) for every row of m.
func LogSumExpRows(m *mat.Dense) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = floats.LogSumExp(m.RawRowView(i))
	}
	return out
}

// SoftmaxRows applies a row-wise softmax to m and returns a new matrix.
func SoftmaxRows(m *mat.Dense) *mat.Dense {
	lse := LogSumExpRows(m)
	out := mat.NewDense(ShapeOf(m).Rows, ShapeOf(m).Cols, nil)
	out.Apply(func(i, _ int, v float64) float64 {
		return math.Exp(v - lse[i])
	}, m)
	return out
}

// Sum returns the sum of every entry of m.
func Sum(m *mat.Dense) float64 {
	r, _ := m.Dims()
	var total float64
	for i := 0; i < r; i++ {
		total += floats.Sum(m.RawRowView(i))
	}
	return total
}

// NewSource returns a deterministic random source for seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

func mustValid(rows, cols int) {
	if err := (Shape{Rows: rows, Cols: cols}).Validate(); err != nil {
		panic("tensor: " + err.Error())
	}
}
