package autodiff

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/tensor"
)

// Tape is the part of the computation graph reachable from an output node,
// in execution order: every node appears after all of its inputs.
type Tape struct {
	nodes []Node
}

// Record builds the tape for output by walking its inputs depth-first.
// Shared subexpressions appear once.
func Record(output Node) *Tape {
	t := &Tape{nodes: make([]Node, 0, 64)}
	visited := make(map[Node]struct{})

	var visit func(n Node)
	visit = func(n Node) {
		if _, ok := visited[n]; ok {
			return
		}
		visited[n] = struct{}{}
		for _, in := range n.inputs() {
			visit(in)
		}
		t.nodes = append(t.nodes, n)
	}
	visit(output)

	return t
}

// NumOps returns the number of recorded nodes, leaves included.
func (t *Tape) NumOps() int {
	return len(t.nodes)
}

// Backward computes gradients for every node on the tape by walking it in
// reverse.
//
// Algorithm:
//  1. Start with outputGrad for the last node (the output)
//  2. Walk nodes in reverse order
//  3. For each node, compute input gradients using the chain rule
//  4. Accumulate gradients when the same node is used multiple times
//
// Returns a map from node to its accumulated gradient.
func (t *Tape) Backward(outputGrad *mat.Dense) map[Node]*mat.Dense {
	grads := make(map[Node]*mat.Dense, len(t.nodes))
	if len(t.nodes) == 0 {
		return grads
	}
	grads[t.nodes[len(t.nodes)-1]] = outputGrad

	for i := len(t.nodes) - 1; i >= 0; i-- {
		n := t.nodes[i]
		grad, ok := grads[n]
		if !ok {
			continue
		}
		inputs := n.inputs()
		if len(inputs) == 0 {
			continue
		}
		accumulateGrads(inputs, n.backward(grad), grads)
	}

	return grads
}

// accumulateGrads adds each input gradient to the running total for that input.
// Gradient matrices may be shared between inputs (Add passes its output
// gradient through twice), so sums always go into a fresh matrix.
func accumulateGrads(inputs []Node, inputGrads []*mat.Dense, grads map[Node]*mat.Dense) {
	for j, input := range inputs {
		if j >= len(inputGrads) || inputGrads[j] == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			var sum mat.Dense
			sum.Add(existing, inputGrads[j])
			grads[input] = &sum
		} else {
			grads[input] = inputGrads[j]
		}
	}
}

// Gradients computes the gradient of a (1 x 1) loss with respect to each
// parameter and returns them as constants, in the order given.
//
// Parameters that do not take part in computing loss get zero gradients.
func Gradients(loss Node, params ...*Parameter) []*Constant {
	if !loss.Shape().IsScalar() {
		panic(fmt.Sprintf("autodiff.Gradients: loss has shape %s, want (1 x 1)", loss.Shape()))
	}

	grads := Record(loss).Backward(mat.NewDense(1, 1, []float64{1}))

	out := make([]*Constant, len(params))
	for i, p := range params {
		grad, ok := grads[p]
		if !ok {
			shape := p.Shape()
			grad = mat.NewDense(shape.Rows, shape.Cols, nil)
		}
		out[i] = NewConstant(tensor.Clone(grad))
	}
	return out
}
