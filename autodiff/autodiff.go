// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/autodiff"
)

// Node is a value in the computation graph.
type Node = autodiff.Node

// Parameter is a trainable 2-D weight matrix.
type Parameter = autodiff.Parameter

// Constant is an immutable 2-D matrix: an input, a label or a gradient.
type Constant = autodiff.Constant

// Tape records the nodes of a graph in topological order.
type Tape = autodiff.Tape

// NewParameter creates a rows×cols parameter initialized from U(-limit, limit)
// with limit = sqrt(3 / mean(rows, cols)).
func NewParameter(name string, rows, cols int, src rand.Source) *Parameter {
	return autodiff.NewParameter(name, rows, cols, src)
}

// NewParameterFrom creates a parameter holding a copy of data.
func NewParameterFrom(name string, data mat.Matrix) *Parameter {
	return autodiff.NewParameterFrom(name, data)
}

// NewConstant wraps data as a graph constant.
func NewConstant(data *mat.Dense) *Constant {
	return autodiff.NewConstant(data)
}

// Add returns the elementwise sum of two same-shape nodes.
func Add(a, b Node) Node {
	return autodiff.Add(a, b)
}

// AddBias adds a 1×k bias row to every row of a B×k features node.
func AddBias(features, bias Node) Node {
	return autodiff.AddBias(features, bias)
}

// DotProduct scores each row of B×d features against a 1×d weight row.
func DotProduct(features, weights Node) Node {
	return autodiff.DotProduct(features, weights)
}

// Linear multiplies B×i features by i×o weights.
func Linear(features, weights Node) Node {
	return autodiff.Linear(features, weights)
}

// ReLU applies max(x, 0) elementwise.
func ReLU(x Node) Node {
	return autodiff.ReLU(x)
}

// SquareLoss returns the mean of (a-b)²/2 over all entries as a 1×1 node.
func SquareLoss(a, b Node) Node {
	return autodiff.SquareLoss(a, b)
}

// SoftmaxLoss returns the batch mean cross-entropy of softmax(logits) against
// label distributions as a 1×1 node.
func SoftmaxLoss(logits, labels Node) Node {
	return autodiff.SoftmaxLoss(logits, labels)
}

// AsScalar returns the value of a 1×1 node.
func AsScalar(n Node) float64 {
	return autodiff.AsScalar(n)
}

// Gradients returns the gradient of a 1×1 loss with respect to each parameter.
func Gradients(loss Node, params ...*Parameter) []*Constant {
	return autodiff.Gradients(loss, params...)
}

// Record builds the tape for the graph ending at output.
func Record(output Node) *Tape {
	return autodiff.Record(output)
}
