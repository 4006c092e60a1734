package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/gradlab/internal/autodiff"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input with shape [batch_size, in_features]
//   - W is the weight matrix with shape [in_features, out_features]
//   - b is the bias row with shape [1, out_features]
//
// Weights and biases are drawn from tensor.Uniform.
type Linear struct {
	name        string
	inFeatures  int
	outFeatures int
	weight      *autodiff.Parameter
	bias        *autodiff.Parameter // nil when the layer has no bias
}

// NewLinear creates a Linear layer with a bias.
func NewLinear(name string, inFeatures, outFeatures int, src rand.Source) *Linear {
	l := NewLinearNoBias(name, inFeatures, outFeatures, src)
	l.bias = autodiff.NewParameter(name+".bias", 1, outFeatures, src)
	return l
}

// NewLinearNoBias creates a Linear layer without a bias: y = x @ W.
func NewLinearNoBias(name string, inFeatures, outFeatures int, src rand.Source) *Linear {
	return &Linear{
		name:        name,
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      autodiff.NewParameter(name+".weight", inFeatures, outFeatures, src),
	}
}

// Forward computes the output of the linear layer.
func (l *Linear) Forward(input autodiff.Node) autodiff.Node {
	if cols := input.Shape().Cols; cols != l.inFeatures {
		panic(fmt.Sprintf("%s.Forward: expected input with %d features, got %d", l.name, l.inFeatures, cols))
	}

	var out autodiff.Node = autodiff.Linear(input, l.weight)
	if l.bias != nil {
		out = autodiff.AddBias(out, l.bias)
	}
	return out
}

// Parameters returns [weight, bias] if bias is present, otherwise [weight].
func (l *Linear) Parameters() []*autodiff.Parameter {
	if l.bias != nil {
		return []*autodiff.Parameter{l.weight, l.bias}
	}
	return []*autodiff.Parameter{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *autodiff.Parameter {
	return l.weight
}

// Bias returns the bias parameter, or nil.
func (l *Linear) Bias() *autodiff.Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}
