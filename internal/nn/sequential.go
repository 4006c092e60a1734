package nn

import (
	"math/rand/v2"

	"github.com/born-ml/gradlab/internal/autodiff"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input.
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{
		modules: modules,
	}
}

// NewMLP builds the two-layer perceptron used by the regression and digit
// models: Linear(in → hidden) → ReLU → Linear(hidden → out), both layers
// with biases.
func NewMLP(in, hidden, out int, src rand.Source) *Sequential {
	return NewSequential(
		NewLinear("fc1", in, hidden, src),
		NewReLU(),
		NewLinear("fc2", hidden, out, src),
	)
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(input autodiff.Node) autodiff.Node {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters returns the parameters of every module, in module order.
func (s *Sequential) Parameters() []*autodiff.Parameter {
	params := make([]*autodiff.Parameter, 0)
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Len returns the number of modules.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at index i.
func (s *Sequential) Module(i int) Module {
	return s.modules[i]
}
