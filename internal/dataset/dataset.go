// Package dataset provides the in-memory datasets the models train on:
// synthetic perceptron points, a sine regression curve, MNIST digits and
// words labelled by language.
//
// Every dataset iterates one pass at a time with IterateOnce(batchSize), a Go
// iterator over batches. Classification datasets also answer
// ValidationAccuracy for a model. Iteration order comes from a seeded
// Sampler, so the same seed always yields the same batches.
package dataset

import (
	"fmt"
	"iter"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/autodiff"
	"github.com/born-ml/gradlab/internal/tensor"
)

// Batch holds a (batch x features) input and its (batch x outputs) labels.
type Batch struct {
	X *autodiff.Constant
	Y *autodiff.Constant
}

// Size returns the number of examples in the batch.
func (b Batch) Size() int {
	return b.X.Shape().Rows
}

// Scorer is a model that maps a (batch x features) input to (batch x classes)
// scores.
type Scorer interface {
	Run(x autodiff.Node) autodiff.Node
}

// Tabular is a dataset of fixed-width examples stored as two matrices with
// one row per example.
type Tabular struct {
	x       *mat.Dense
	y       *mat.Dense
	sampler *Sampler
}

// NewTabular creates a dataset over x and y, which must have the same number
// of rows. If shuffle is true every pass visits the examples in a fresh
// permutation drawn from seed; otherwise passes use storage order.
func NewTabular(x, y *mat.Dense, shuffle bool, seed uint64) *Tabular {
	xr, _ := x.Dims()
	yr, _ := y.Dims()
	if xr != yr {
		panic(fmt.Sprintf("dataset.NewTabular: %d inputs but %d labels", xr, yr))
	}
	return &Tabular{
		x:       x,
		y:       y,
		sampler: NewSampler(xr, shuffle, seed),
	}
}

// Len returns the number of examples.
func (t *Tabular) Len() int {
	r, _ := t.x.Dims()
	return r
}

// Features returns the width of an input row.
func (t *Tabular) Features() int {
	_, c := t.x.Dims()
	return c
}

// All returns the whole dataset as a single batch, in storage order.
func (t *Tabular) All() Batch {
	return Batch{X: autodiff.NewConstant(t.x), Y: autodiff.NewConstant(t.y)}
}

// IterateOnce yields one pass over the dataset in batches of batchSize. The
// final batch is shorter when batchSize does not divide Len.
func (t *Tabular) IterateOnce(batchSize int) iter.Seq[Batch] {
	if batchSize <= 0 {
		panic(fmt.Sprintf("dataset.IterateOnce: batch size must be > 0 (got %d)", batchSize))
	}
	order := t.sampler.Epoch()

	return func(yield func(Batch) bool) {
		for start := 0; start < len(order); start += batchSize {
			end := min(start+batchSize, len(order))
			batch := Batch{
				X: autodiff.NewConstant(gatherRows(t.x, order[start:end])),
				Y: autodiff.NewConstant(gatherRows(t.y, order[start:end])),
			}
			if !yield(batch) {
				return
			}
		}
	}
}

// Accuracy returns the fraction of examples whose highest score matches the
// highest label entry, evaluated in batches of batchSize.
func (t *Tabular) Accuracy(s Scorer, batchSize int) float64 {
	n := t.Len()
	if n == 0 {
		return 0
	}
	if batchSize <= 0 {
		batchSize = n
	}
	correct := 0
	for start := 0; start < n; start += batchSize {
		end := min(start+batchSize, n)
		x := t.x.Slice(start, end, 0, t.Features()).(*mat.Dense)
		y := t.y.Slice(start, end, 0, tensor.ShapeOf(t.y).Cols).(*mat.Dense)

		predicted := tensor.ArgMaxRows(s.Run(autodiff.NewConstant(x)).Value())
		for i, label := range tensor.ArgMaxRows(y) {
			if predicted[i] == label {
				correct++
			}
		}
	}
	return float64(correct) / float64(n)
}

// gatherRows copies the rows of src named by indices into a new matrix.
func gatherRows(src *mat.Dense, indices []int) *mat.Dense {
	_, cols := src.Dims()
	out := mat.NewDense(len(indices), cols, nil)
	for k, idx := range indices {
		out.SetRow(k, src.RawRowView(idx))
	}
	return out
}
