// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package models provides the perceptron, regression, digit and language
// identification models.
//
// Example:
//
//	data := dataset.NewRegression(200, 1)
//	model := models.NewRegression(models.DefaultRegressionConfig())
//	result, err := model.Train(ctx, data)
//	if errors.Is(err, models.ErrNotConverged) {
//	    // loss stayed above the threshold for MaxEpochs epochs
//	}
package models

import (
	"github.com/born-ml/gradlab/internal/dataset"
	"github.com/born-ml/gradlab/internal/models"
)

// ErrNotConverged is returned when training exhausts MaxEpochs.
var ErrNotConverged = models.ErrNotConverged

// Result summarizes a training run.
type Result = models.Result

// Progress is reported to an observer during training.
type Progress = models.Progress

// ProgressFunc receives training progress.
type ProgressFunc = models.ProgressFunc

// Perceptron is a linear binary classifier.
type Perceptron = models.Perceptron

// PerceptronConfig configures a Perceptron.
type PerceptronConfig = models.PerceptronConfig

// NewPerceptron creates a perceptron.
func NewPerceptron(cfg PerceptronConfig) *Perceptron {
	return models.NewPerceptron(cfg)
}

// Regression approximates a scalar function.
type Regression = models.Regression

// RegressionConfig configures a Regression model.
type RegressionConfig = models.RegressionConfig

// DefaultRegressionConfig returns the standard regression hyperparameters.
func DefaultRegressionConfig() RegressionConfig {
	return models.DefaultRegressionConfig()
}

// NewRegression creates a regression network.
func NewRegression(cfg RegressionConfig) *Regression {
	return models.NewRegression(cfg)
}

// DigitClassification classifies 28×28 digits.
type DigitClassification = models.DigitClassification

// DigitConfig configures a DigitClassification model.
type DigitConfig = models.DigitConfig

// DefaultDigitConfig returns the standard digit hyperparameters.
func DefaultDigitConfig() DigitConfig {
	return models.DefaultDigitConfig()
}

// NewDigitClassification creates a digit classifier.
func NewDigitClassification(cfg DigitConfig) *DigitClassification {
	return models.NewDigitClassification(cfg)
}

// LanguageID labels words with their language.
type LanguageID = models.LanguageID

// LanguageConfig configures a LanguageID model.
type LanguageConfig = models.LanguageConfig

// LRStep is one learning-rate step of a LanguageConfig schedule.
type LRStep = models.LRStep

// DefaultLanguageConfig returns the standard language hyperparameters.
func DefaultLanguageConfig() LanguageConfig {
	return models.DefaultLanguageConfig()
}

// NewLanguageID creates a model sized for data.
func NewLanguageID(cfg LanguageConfig, data *dataset.LanguageID) (*LanguageID, error) {
	return models.NewLanguageID(cfg, data)
}
