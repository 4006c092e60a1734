package optim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/autodiff"
)

// SGD implements gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	params     []*autodiff.Parameter
	lr         float64
	momentum   float64
	velocities map[*autodiff.Parameter]*mat.Dense
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer over params.
func NewSGD(params []*autodiff.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*autodiff.Parameter]*mat.Dense),
	}
}

// Parameters returns the parameters being optimized, in update order.
func (s *SGD) Parameters() []*autodiff.Parameter {
	return s.params
}

// Step performs a single optimization step.
//
// Panics if len(grads) differs from the number of parameters.
func (s *SGD) Step(grads []*autodiff.Constant) {
	if len(grads) != len(s.params) {
		panic(fmt.Sprintf("optim.SGD.Step: got %d gradients for %d parameters", len(grads), len(s.params)))
	}

	for i, param := range s.params {
		if s.momentum == 0 {
			param.Update(grads[i], -s.lr)
			continue
		}
		param.Update(s.velocity(param, grads[i]), -s.lr)
	}
}

// Minimize computes the gradients of loss for every parameter and applies
// one step. Returns the loss value.
func (s *SGD) Minimize(loss autodiff.Node) float64 {
	s.Step(autodiff.Gradients(loss, s.params...))
	return autodiff.AsScalar(loss)
}

// velocity updates and returns the momentum buffer for param.
func (s *SGD) velocity(param *autodiff.Parameter, grad *autodiff.Constant) *autodiff.Constant {
	v, ok := s.velocities[param]
	if !ok {
		shape := param.Shape()
		v = mat.NewDense(shape.Rows, shape.Cols, nil)
		s.velocities[param] = v
	}
	v.Scale(s.momentum, v)
	v.Add(v, grad.Value())
	return autodiff.NewConstant(v)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}
