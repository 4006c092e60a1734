// Package optim implements the gradient-descent update rules used by the
// training loops.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: gradient descent with a fixed learning rate and optional momentum
//   - AccuracySchedule: learning rate stepped down as validation accuracy rises
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01})
//
//	for x, y := range batches {
//	    loss := model.Loss(x, y)
//	    optimizer.Step(autodiff.Gradients(loss, model.Parameters()...))
//	}
package optim

import "github.com/born-ml/gradlab/internal/autodiff"

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update. grads[i] is the gradient of the loss with
	// respect to the i-th parameter the optimizer was created with.
	Step(grads []*autodiff.Constant)

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate.
	SetLR(lr float64)
}
