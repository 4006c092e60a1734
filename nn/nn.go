// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers the models are composed of.
package nn

import (
	"math/rand/v2"

	"github.com/born-ml/gradlab/internal/nn"
)

// Module is a layer with trainable parameters.
type Module = nn.Module

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a linear layer with a bias.
//
// Example:
//
//	layer := nn.NewLinear("fc1", 784, 100, tensor.NewSource(1))
func NewLinear(name string, inFeatures, outFeatures int, src rand.Source) *Linear {
	return nn.NewLinear(name, inFeatures, outFeatures, src)
}

// NewLinearNoBias creates a linear layer without a bias.
func NewLinearNoBias(name string, inFeatures, outFeatures int, src rand.Source) *Linear {
	return nn.NewLinearNoBias(name, inFeatures, outFeatures, src)
}

// ReLU is a parameterless ReLU activation module.
type ReLU = nn.ReLU

// NewReLU creates a ReLU module.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// Sequential chains modules in order.
type Sequential = nn.Sequential

// NewSequential creates a container running modules in order.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// NewMLP creates Linear(in, hidden) → ReLU → Linear(hidden, out).
func NewMLP(in, hidden, out int, src rand.Source) *Sequential {
	return nn.NewMLP(in, hidden, out, src)
}

// Recurrent folds a character sequence into scores.
type Recurrent = nn.Recurrent

// NewRecurrent creates a recurrent network without biases.
func NewRecurrent(in, hidden, out int, src rand.Source) *Recurrent {
	return nn.NewRecurrent(in, hidden, out, src)
}
