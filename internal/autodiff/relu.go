package autodiff

import "gonum.org/v1/gonum/mat"

// ReLUOp represents a ReLU (Rectified Linear Unit) activation: output = max(0, x).
//
// Backward pass:
//   - d(ReLU(x))/dx = 1 if x > 0, else 0
type ReLUOp struct {
	operation
}

// ReLU applies max(0, x) element-wise.
func ReLU(x Node) *ReLUOp {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	}, x.Value())
	return &ReLUOp{operation{in: []Node{x}, value: &out}}
}

func (op *ReLUOp) backward(outputGrad *mat.Dense) []*mat.Dense {
	input := op.in[0].Value()
	var grad mat.Dense
	grad.Apply(func(i, j int, g float64) float64 {
		if input.At(i, j) > 0 {
			return g
		}
		return 0
	}, outputGrad)
	return []*mat.Dense{&grad}
}
