package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/autodiff"
	"github.com/born-ml/gradlab/internal/tensor"
)

// identityScorer returns its input as scores.
type identityScorer struct{}

func (identityScorer) Run(x autodiff.Node) autodiff.Node { return x }

func rangeTabular(n int, shuffle bool, seed uint64) *Tabular {
	x := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, float64(i))
		y.Set(i, 0, float64(-i))
	}
	return NewTabular(x, y, shuffle, seed)
}

func collectX(t *Tabular, batchSize int) (sizes []int, values []float64) {
	for b := range t.IterateOnce(batchSize) {
		sizes = append(sizes, b.Size())
		for i := 0; i < b.Size(); i++ {
			values = append(values, b.X.Value().At(i, 0))
		}
	}
	return sizes, values
}

func TestTabular_IterateOnceInOrder(t *testing.T) {
	data := rangeTabular(7, false, 1)

	sizes, values := collectX(data, 3)
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6}, values)
}

func TestTabular_LabelsFollowInputs(t *testing.T) {
	data := rangeTabular(20, true, 3)

	for b := range data.IterateOnce(6) {
		for i := 0; i < b.Size(); i++ {
			assert.InDelta(t, -b.X.Value().At(i, 0), b.Y.Value().At(i, 0), 0)
		}
	}
}

func TestTabular_ShuffleIsDeterministicPermutation(t *testing.T) {
	_, first := collectX(rangeTabular(50, true, 42), 8)
	_, again := collectX(rangeTabular(50, true, 42), 8)
	assert.Equal(t, first, again, "same seed must give the same order")

	data := rangeTabular(50, true, 42)
	_, epoch1 := collectX(data, 8)
	_, epoch2 := collectX(data, 8)
	assert.NotEqual(t, epoch1, epoch2, "passes should be reshuffled")
	assert.ElementsMatch(t, epoch1, epoch2)
}

func TestTabular_EarlyBreak(t *testing.T) {
	data := rangeTabular(10, false, 1)
	seen := 0
	for range data.IterateOnce(2) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestTabular_InvalidBatchSizePanics(t *testing.T) {
	assert.Panics(t, func() { rangeTabular(3, false, 1).IterateOnce(0) })
}

func TestNewTabular_MismatchedRowsPanics(t *testing.T) {
	assert.Panics(t, func() { NewTabular(tensor.Zeros(3, 2), tensor.Zeros(2, 1), false, 1) })
}

func TestTabular_Accuracy(t *testing.T) {
	x := tensor.FromRows([][]float64{{0.9, 0.1}, {0.2, 0.8}, {0.6, 0.4}, {0.3, 0.7}})
	y := tensor.OneHot([]int{0, 1, 1, 0}, 2)
	data := NewTabular(x, y, false, 1)

	assert.InDelta(t, 0.5, data.Accuracy(identityScorer{}, 3), 1e-12)
	assert.InDelta(t, 0.5, data.Accuracy(identityScorer{}, 0), 1e-12)
}

func TestTabular_All(t *testing.T) {
	data := rangeTabular(4, true, 1)
	all := data.All()
	assert.Equal(t, 4, all.Size())
	assert.Equal(t, 1, data.Features())
	assert.InDelta(t, 3.0, all.X.Value().At(3, 0), 0)
}

func TestNewPerceptron(t *testing.T) {
	data := NewPerceptron(200, 3, 5)
	require.Equal(t, 200, data.Len())
	require.Equal(t, 3, data.Features())

	all := data.All()
	positives := 0
	for i := 0; i < data.Len(); i++ {
		assert.InDelta(t, 1.0, all.X.Value().At(i, 2), 0, "bias coordinate")
		label := all.Y.Value().At(i, 0)
		assert.True(t, label == 1 || label == -1, "label %g", label)
		if label == 1 {
			positives++
		}
	}
	assert.Positive(t, positives)
	assert.Less(t, positives, 200)

	again := NewPerceptron(200, 3, 5).All()
	assert.True(t, mat.Equal(all.X.Value(), again.X.Value()))
}

func TestNewRegression(t *testing.T) {
	data := NewRegression(200, 1)
	require.Equal(t, 200, data.Len())

	all := data.All()
	assert.InDelta(t, -2*math.Pi, all.X.Value().At(0, 0), 1e-12)
	assert.InDelta(t, 2*math.Pi, all.X.Value().At(199, 0), 1e-12)
	for i := 0; i < 200; i++ {
		assert.InDelta(t, math.Sin(all.X.Value().At(i, 0)), all.Y.Value().At(i, 0), 1e-12)
	}
}
