// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient descent and learning-rate schedules.
//
// # Basic Usage
//
//	model := nn.NewMLP(1, 100, 1, tensor.NewSource(1))
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01})
//
//	for batch := range data.IterateOnce(5) {
//	    loss := autodiff.SquareLoss(model.Forward(batch.X), batch.Y)
//	    optimizer.Minimize(loss)
//	}
package optim

import (
	"github.com/born-ml/gradlab/internal/autodiff"
	"github.com/born-ml/gradlab/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*autodiff.Parameter, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// AccuracySchedule picks a learning rate from validation accuracy.
type AccuracySchedule = optim.AccuracySchedule

// NewAccuracySchedule creates a schedule that returns base until a step is reached.
//
// Example:
//
//	schedule := optim.NewAccuracySchedule(0.15).Add(0.75, 0.1).Add(0.83, 0.05)
func NewAccuracySchedule(base float64) *AccuracySchedule {
	return optim.NewAccuracySchedule(base)
}
