package nn

import (
	"math/rand/v2"

	"github.com/born-ml/gradlab/internal/autodiff"
)

// Recurrent folds a variable-length sequence into a hidden state and projects
// it to output scores.
//
//	h₀ = ReLU(x₀ @ Wx)
//	hᵢ = ReLU(xᵢ @ Wx + hᵢ₋₁ @ Wh)
//	y  = hₗ @ Wo
//
// No layer carries a bias.
type Recurrent struct {
	input  *Linear // Wx: [in, hidden]
	hidden *Linear // Wh: [hidden, hidden]
	output *Linear // Wo: [hidden, out]
}

// NewRecurrent creates a recurrent network.
func NewRecurrent(in, hidden, out int, src rand.Source) *Recurrent {
	return &Recurrent{
		input:  NewLinearNoBias("rnn.input", in, hidden, src),
		hidden: NewLinearNoBias("rnn.hidden", hidden, hidden, src),
		output: NewLinearNoBias("rnn.output", hidden, out, src),
	}
}

// Hidden summarizes xs into a (batch x hidden) state.
//
// Every element of xs must have shape (batch x in). Panics on an empty sequence.
func (r *Recurrent) Hidden(xs []autodiff.Node) autodiff.Node {
	if len(xs) == 0 {
		panic("Recurrent.Hidden: empty sequence")
	}
	var h autodiff.Node = autodiff.ReLU(r.input.Forward(xs[0]))
	for _, x := range xs[1:] {
		h = autodiff.ReLU(autodiff.Add(r.input.Forward(x), r.hidden.Forward(h)))
	}
	return h
}

// Forward returns the (batch x out) scores for the sequence xs.
func (r *Recurrent) Forward(xs []autodiff.Node) autodiff.Node {
	return r.output.Forward(r.Hidden(xs))
}

// Parameters returns [Wx, Wh, Wo].
func (r *Recurrent) Parameters() []*autodiff.Parameter {
	params := make([]*autodiff.Parameter, 0, 3)
	params = append(params, r.input.Parameters()...)
	params = append(params, r.hidden.Parameters()...)
	params = append(params, r.output.Parameters()...)
	return params
}
