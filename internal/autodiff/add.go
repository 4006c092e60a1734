package autodiff

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// AddOp represents an element-wise addition: output = a + b.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a = outputGrad
//   - d(a+b)/db = 1, so grad_b = outputGrad
type AddOp struct {
	operation
}

// Add returns the element-wise sum of two same-shaped nodes.
func Add(a, b Node) *AddOp {
	checkSameShape("Add", a, b)
	var out mat.Dense
	out.Add(a.Value(), b.Value())
	return &AddOp{operation{in: []Node{a, b}, value: &out}}
}

func (op *AddOp) backward(outputGrad *mat.Dense) []*mat.Dense {
	return []*mat.Dense{outputGrad, outputGrad}
}

// AddBiasOp adds a (1 x k) bias row to every row of a (batch x k) input.
//
// Backward pass:
//   - grad_features = outputGrad
//   - grad_bias = column sums of outputGrad (the bias was broadcast over rows)
type AddBiasOp struct {
	operation
}

// AddBias broadcasts bias over the rows of features.
func AddBias(features, bias Node) *AddBiasOp {
	fs, bs := features.Shape(), bias.Shape()
	if bs.Rows != 1 || bs.Cols != fs.Cols {
		panic(fmt.Sprintf("autodiff.AddBias: bias shape %s incompatible with features %s", bs, fs))
	}
	b := bias.Value().RawRowView(0)
	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 {
		return v + b[j]
	}, features.Value())
	return &AddBiasOp{operation{in: []Node{features, bias}, value: &out}}
}

func (op *AddBiasOp) backward(outputGrad *mat.Dense) []*mat.Dense {
	rows, cols := outputGrad.Dims()
	gradBias := mat.NewDense(1, cols, nil)
	sums := gradBias.RawRowView(0)
	for i := 0; i < rows; i++ {
		for j, v := range outputGrad.RawRowView(i) {
			sums[j] += v
		}
	}
	return []*mat.Dense{outputGrad, gradBias}
}
