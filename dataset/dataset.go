// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides the datasets the models train on.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/dataset"
)

// Batch holds a (batch x features) input and its labels.
type Batch = dataset.Batch

// SequenceBatch holds same-length words, one one-hot node per position.
type SequenceBatch = dataset.SequenceBatch

// Tabular is a dataset of fixed-width examples.
type Tabular = dataset.Tabular

// Digits is the handwritten digit dataset.
type Digits = dataset.Digits

// DigitsOptions limits how much of the digit dataset is loaded.
type DigitsOptions = dataset.DigitsOptions

// LanguageID is a word-level language identification dataset.
type LanguageID = dataset.LanguageID

// LabeledWord is a word and the language it belongs to.
type LabeledWord = dataset.LabeledWord

// NewTabular creates a dataset over x and y.
func NewTabular(x, y *mat.Dense, shuffle bool, seed uint64) *Tabular {
	return dataset.NewTabular(x, y, shuffle, seed)
}

// NewPerceptron generates n linearly separable points over dims dimensions.
func NewPerceptron(n, dims int, seed uint64) *Tabular {
	return dataset.NewPerceptron(n, dims, seed)
}

// NewRegression samples y = sin(x) at n points of [-2π, 2π].
func NewRegression(n int, seed uint64) *Tabular {
	return dataset.NewRegression(n, seed)
}

// LoadDigits loads MNIST from IDX files in dir.
func LoadDigits(dir string, opts DigitsOptions) (*Digits, error) {
	return dataset.LoadDigits(dir, opts)
}

// LoadDigitsCSV loads digits in the Kaggle CSV format.
func LoadDigitsCSV(path string, maxSamples int, seed uint64) (*Tabular, error) {
	return dataset.LoadDigitsCSV(path, maxSamples, seed)
}

// SyntheticDigits generates an offline stand-in for MNIST.
func SyntheticDigits(train, validation int, seed uint64) *Digits {
	return dataset.SyntheticDigits(train, validation, seed)
}

// NewLanguageID builds a language dataset from labelled words.
func NewLanguageID(train, validation []LabeledWord, seed uint64) (*LanguageID, error) {
	return dataset.NewLanguageID(train, validation, seed)
}

// LoadLanguageID reads lang_id_train.tsv and lang_id_dev.tsv from dir.
func LoadLanguageID(dir string, seed uint64) (*LanguageID, error) {
	return dataset.LoadLanguageID(dir, seed)
}

// SyntheticLanguageID generates an offline language dataset.
func SyntheticLanguageID(perLanguage int, seed uint64) *LanguageID {
	return dataset.SyntheticLanguageID(perLanguage, seed)
}
