// Package autodiff implements a minimal reverse-mode automatic differentiation
// library over 2-D matrices.
//
// Architecture:
//   - Node: every value in the computation graph (Parameter, Constant, op result)
//   - Ops: Add, AddBias, DotProduct, Linear, ReLU, SquareLoss, SoftmaxLoss;
//     each op records its inputs and implements its backward rule
//   - Gradients: builds a tape of the graph reachable from a scalar loss and
//     walks it in reverse, accumulating gradients with the chain rule
//
// Usage:
//
//	w := autodiff.NewParameter("w", 3, 1, src)
//	x := autodiff.NewConstant(features) // (batch x 3)
//	loss := autodiff.SquareLoss(autodiff.Linear(x, w), y)
//	grads := autodiff.Gradients(loss, w)
//	w.Update(grads[0], -0.01)
//
// Shape misuse is a programming error and panics with a descriptive message.
package autodiff

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/tensor"
)

// Node is a value in the computation graph.
//
// Only types in this package implement Node; models compose nodes through the
// op constructors.
type Node interface {
	// Value returns the node's data. Callers must not modify it.
	Value() *mat.Dense

	// Shape returns the (rows x cols) shape of the node's data.
	Shape() tensor.Shape

	// inputs returns the nodes this node was computed from.
	inputs() []Node

	// backward computes gradients for inputs given the output gradient.
	// Returns one gradient per input, in the same order as inputs().
	backward(outputGrad *mat.Dense) []*mat.Dense
}

// AsScalar returns the single value held by a (1 x 1) node.
func AsScalar(n Node) float64 {
	shape := n.Shape()
	if !shape.IsScalar() {
		panic(fmt.Sprintf("autodiff.AsScalar: node has shape %s, want (1 x 1)", shape))
	}
	return n.Value().At(0, 0)
}

// operation holds the bookkeeping shared by every op node.
type operation struct {
	in    []Node
	value *mat.Dense
}

func (o *operation) Value() *mat.Dense {
	return o.value
}

func (o *operation) Shape() tensor.Shape {
	return tensor.ShapeOf(o.value)
}

func (o *operation) inputs() []Node {
	return o.in
}

func checkSameShape(op string, a, b Node) {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("autodiff.%s: shape mismatch %s vs %s", op, a.Shape(), b.Shape()))
	}
}
