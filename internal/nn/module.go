// Package nn implements the layer building blocks shared by the models.
//
// This package provides:
//   - Module interface: base interface for all layers
//   - Linear: fully connected layer with optional bias
//   - ReLU: activation module
//   - Sequential: container for stacking layers (NewMLP builds the
//     Linear → ReLU → Linear stack)
//   - Recurrent: Elman-style fold over a sequence of inputs
//
// Every module builds its output from autodiff ops, so gradients for its
// parameters come from autodiff.Gradients.
package nn

import "github.com/born-ml/gradlab/internal/autodiff"

// Module is the base interface for all layers.
type Module interface {
	// Forward computes the output of the module for a (batch x features) input.
	Forward(input autodiff.Node) autodiff.Node

	// Parameters returns all trainable parameters of this module, in a stable
	// order. Modules without parameters return an empty slice.
	Parameters() []*autodiff.Parameter
}

// ReLU is the ReLU activation as a module.
type ReLU struct{}

// NewReLU creates a ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies max(0, x).
func (r *ReLU) Forward(input autodiff.Node) autodiff.Node {
	return autodiff.ReLU(input)
}

// Parameters returns an empty slice.
func (r *ReLU) Parameters() []*autodiff.Parameter {
	return []*autodiff.Parameter{}
}
