// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides matrix helpers shared by the autodiff library and
// its callers.
package tensor

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/tensor"
)

// Shape is the (rows, cols) shape of a matrix.
type Shape = tensor.Shape

// ShapeOf returns the shape of m.
func ShapeOf(m mat.Matrix) Shape {
	return tensor.ShapeOf(m)
}

// Zeros returns a rows×cols matrix of zeros.
func Zeros(rows, cols int) *mat.Dense {
	return tensor.Zeros(rows, cols)
}

// FromRows builds a matrix from equal-length rows.
func FromRows(rows [][]float64) *mat.Dense {
	return tensor.FromRows(rows)
}

// OneHot encodes class indices as rows of a len(indices)×classes matrix.
func OneHot(indices []int, classes int) *mat.Dense {
	return tensor.OneHot(indices, classes)
}

// ArgMaxRows returns the column of the largest entry of each row.
func ArgMaxRows(m *mat.Dense) []int {
	return tensor.ArgMaxRows(m)
}

// SoftmaxRows returns the row-wise softmax of m.
func SoftmaxRows(m *mat.Dense) *mat.Dense {
	return tensor.SoftmaxRows(m)
}

// NewSource returns a deterministic random source for seed.
func NewSource(seed uint64) rand.Source {
	return tensor.NewSource(seed)
}
