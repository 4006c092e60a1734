// Package models implements four small networks trained with hand-written
// loops over the autodiff library:
//
//   - Perceptron: a linear binary classifier trained with the perceptron rule.
//   - Regression: a one-hidden-layer network approximating a scalar function.
//   - DigitClassification: a one-hidden-layer classifier for 28×28 digits.
//   - LanguageID: a recurrent network that labels words with their language.
//
// Each model exposes Run (forward pass), Loss and Train. Train stops on the
// model's own criterion, or returns ErrNotConverged once MaxEpochs passes have
// run without meeting it. Context cancellation is checked between batches.
package models

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotConverged is returned by Train when the stopping criterion was not
// met within the configured number of epochs.
var ErrNotConverged = errors.New("training did not converge")

// defaultMaxEpochs bounds every training loop whose config leaves MaxEpochs unset.
const defaultMaxEpochs = 1000

// Result summarizes a training run.
type Result struct {
	Epochs   int     // completed passes over the training data
	Updates  int     // parameter updates applied
	Loss     float64 // last loss observed (perceptron: mistakes in the last epoch)
	Accuracy float64 // last accuracy observed (validation or training, per model)
}

// Progress is reported to an observer after every parameter update, and
// after every epoch for the perceptron.
type Progress struct {
	Epoch    int
	Update   int
	Examples int // examples in the batch that produced this update
	Loss     float64
	Accuracy float64 // last measured accuracy, 0 before the first measurement
	LR       float64
}

// ProgressFunc receives training progress.
type ProgressFunc func(Progress)

// observer is embedded by every model to forward progress to an optional hook.
type observer struct {
	fn ProgressFunc
}

// Observe registers fn to receive progress during Train. A nil fn disables
// reporting.
func (o *observer) Observe(fn ProgressFunc) {
	o.fn = fn
}

func (o *observer) report(p Progress) {
	if o.fn != nil {
		o.fn(p)
	}
}

func maxEpochs(n int) int {
	if n <= 0 {
		return defaultMaxEpochs
	}
	return n
}

func checkContext(ctx context.Context, model string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "%s training interrupted", model)
	}
	return nil
}
