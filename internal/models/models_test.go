package models

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/autodiff"
	"github.com/born-ml/gradlab/internal/dataset"
)

func requireSameParameters(t *testing.T, a, b []*autodiff.Parameter) {
	t.Helper()
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Name(), b[i].Name())
		assert.True(t, mat.Equal(a[i].Value(), b[i].Value()), "parameter %s differs", a[i].Name())
	}
}

func TestPerceptron_ClassifiesTrainingSet(t *testing.T) {
	data := dataset.NewPerceptron(200, 3, 11)
	model := NewPerceptron(PerceptronConfig{Dimensions: 3, Seed: 11})

	res, err := model.Train(context.Background(), data)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Accuracy, 0)
	assert.Zero(t, res.Loss)

	all := data.All()
	scores := model.Run(all.X).Value()
	for i := 0; i < data.Len(); i++ {
		label := all.Y.Value().At(i, 0)
		if label > 0 {
			assert.GreaterOrEqual(t, scores.At(i, 0), 0.0, "example %d", i)
		} else {
			assert.Less(t, scores.At(i, 0), 0.0, "example %d", i)
		}
	}
}

func TestPerceptron_Predict(t *testing.T) {
	model := NewPerceptron(PerceptronConfig{Dimensions: 2})
	model.Weights().Update(autodiff.NewConstant(model.Weights().Value()), -1)
	model.Weights().Update(autodiff.NewConstant(mat.NewDense(1, 2, []float64{1, -1})), 1)

	assert.InDelta(t, 1.0, model.Predict(autodiff.NewConstant(mat.NewDense(1, 2, []float64{2, 1}))), 0)
	assert.InDelta(t, -1.0, model.Predict(autodiff.NewConstant(mat.NewDense(1, 2, []float64{1, 2}))), 0)
	assert.InDelta(t, 1.0, model.Predict(autodiff.NewConstant(mat.NewDense(1, 2, []float64{1, 1}))), 0, "zero score is positive")
}

func TestPerceptron_DimensionMismatch(t *testing.T) {
	model := NewPerceptron(PerceptronConfig{Dimensions: 4})
	_, err := model.Train(context.Background(), dataset.NewPerceptron(10, 3, 1))
	assert.Error(t, err)
}

func TestPerceptron_NotConverged(t *testing.T) {
	// XOR is not linearly separable.
	x := mat.NewDense(4, 3, []float64{
		0, 0, 1,
		0, 1, 1,
		1, 0, 1,
		1, 1, 1,
	})
	y := mat.NewDense(4, 1, []float64{-1, 1, 1, -1})
	model := NewPerceptron(PerceptronConfig{Dimensions: 3, MaxEpochs: 20})

	res, err := model.Train(context.Background(), dataset.NewTabular(x, y, false, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotConverged))
	assert.Equal(t, 20, res.Epochs)
}

func TestPerceptron_Observe(t *testing.T) {
	model := NewPerceptron(PerceptronConfig{Dimensions: 3, Seed: 2})
	var epochs []int
	model.Observe(func(p Progress) { epochs = append(epochs, p.Epoch) })

	res, err := model.Train(context.Background(), dataset.NewPerceptron(50, 3, 2))
	require.NoError(t, err)
	require.Len(t, epochs, res.Epochs)
	assert.Equal(t, res.Epochs, epochs[len(epochs)-1])
}

func TestRegression_Converges(t *testing.T) {
	cfg := DefaultRegressionConfig()
	cfg.LR = 0.02
	cfg.Threshold = 0.1
	cfg.MaxEpochs = 500
	cfg.Seed = 1
	model := NewRegression(cfg)
	data := dataset.NewRegression(200, 1)

	all := data.All()
	initial := autodiff.AsScalar(model.Loss(all.X, all.Y))

	res, err := model.Train(context.Background(), data)
	require.NoError(t, err)
	assert.Less(t, res.Loss, cfg.Threshold)
	assert.Less(t, res.Loss, initial)
	assert.Equal(t, res.Epochs*40, res.Updates, "200 points in batches of 5")
}

func TestRegression_Shapes(t *testing.T) {
	model := NewRegression(DefaultRegressionConfig())
	x := autodiff.NewConstant(mat.NewDense(7, 1, nil))
	assert.Equal(t, 7, model.Run(x).Shape().Rows)
	assert.Equal(t, 1, model.Run(x).Shape().Cols)
	assert.True(t, model.Loss(x, x).Shape().IsScalar())
	assert.Len(t, model.Parameters(), 4, "single branch: two weights, two biases")
}

func TestRegression_Deterministic(t *testing.T) {
	train := func() []*autodiff.Parameter {
		cfg := DefaultRegressionConfig()
		cfg.MaxEpochs = 3
		cfg.Threshold = 1e-9
		cfg.Seed = 5
		model := NewRegression(cfg)
		_, err := model.Train(context.Background(), dataset.NewRegression(50, 5))
		require.ErrorIs(t, err, ErrNotConverged)
		return model.Parameters()
	}
	requireSameParameters(t, train(), train())
}

func TestRegression_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := NewRegression(DefaultRegressionConfig())
	res, err := model.Train(ctx, dataset.NewRegression(20, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, res.Updates)
}

func smallDigitConfig() DigitConfig {
	cfg := DefaultDigitConfig()
	cfg.Hidden = 32
	cfg.ValidateEvery = 10
	cfg.TargetAccuracy = 0.9
	cfg.MaxEpochs = 30
	cfg.Seed = 3
	return cfg
}

func TestDigitClassification_Converges(t *testing.T) {
	model := NewDigitClassification(smallDigitConfig())
	data := dataset.SyntheticDigits(500, 100, 3)

	res, err := model.Train(context.Background(), data)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Accuracy, 0.9)
	assert.Zero(t, res.Updates%10, "training stops right after a validation check")
	assert.InDelta(t, res.Accuracy, data.ValidationAccuracy(model), 1e-12)
}

func TestDigitClassification_Predict(t *testing.T) {
	model := NewDigitClassification(smallDigitConfig())
	x := autodiff.NewConstant(mat.NewDense(3, dataset.DigitPixels, nil))
	assert.Equal(t, 10, model.Run(x).Shape().Cols)
	predicted := model.Predict(x)
	require.Len(t, predicted, 3)
	for _, p := range predicted {
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, dataset.DigitClasses)
	}
}

func TestDigitClassification_Deterministic(t *testing.T) {
	train := func() []*autodiff.Parameter {
		cfg := smallDigitConfig()
		cfg.MaxEpochs = 1
		cfg.TargetAccuracy = 1.1
		model := NewDigitClassification(cfg)
		_, err := model.Train(context.Background(), dataset.SyntheticDigits(100, 20, 9))
		require.ErrorIs(t, err, ErrNotConverged)
		return model.Parameters()
	}
	requireSameParameters(t, train(), train())
}

func smallLanguageConfig() LanguageConfig {
	cfg := DefaultLanguageConfig()
	cfg.Hidden = 64
	cfg.BatchSize = 20
	cfg.ValidateEvery = 10
	cfg.TargetAccuracy = 0.8
	cfg.MaxEpochs = 40
	cfg.Seed = 4
	return cfg
}

func TestLanguageID_Converges(t *testing.T) {
	data := dataset.SyntheticLanguageID(100, 4)
	model, err := NewLanguageID(smallLanguageConfig(), data)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "delta", "gamma"}, model.Languages())

	res, err := model.Train(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Accuracy, 0.8)

	predicted, err := model.Predict([]string{"abcab", "klmno"})
	require.NoError(t, err)
	assert.Len(t, predicted, 2)
}

func TestLanguageID_LearningRateNeverRises(t *testing.T) {
	data := dataset.SyntheticLanguageID(40, 6)
	cfg := smallLanguageConfig()
	cfg.TargetAccuracy = 1.1
	cfg.MaxEpochs = 5
	cfg.Schedule = []LRStep{{MinAccuracy: 0, LR: 0.12}, {MinAccuracy: 0.5, LR: 0.08}}
	model, err := NewLanguageID(cfg, data)
	require.NoError(t, err)

	var rates []float64
	model.Observe(func(p Progress) { rates = append(rates, p.LR) })
	_, err = model.Train(context.Background())
	require.ErrorIs(t, err, ErrNotConverged)

	require.NotEmpty(t, rates)
	for i := 1; i < len(rates); i++ {
		assert.LessOrEqual(t, rates[i], rates[i-1])
	}
	assert.LessOrEqual(t, model.LR(), 0.12)
}

func TestLanguageID_InvalidConfig(t *testing.T) {
	data := dataset.SyntheticLanguageID(5, 1)

	cfg := smallLanguageConfig()
	cfg.Schedule = []LRStep{{MinAccuracy: 0.5, LR: -1}}
	_, err := NewLanguageID(cfg, data)
	assert.Error(t, err)

	cfg = smallLanguageConfig()
	cfg.Hidden = 0
	_, err = NewLanguageID(cfg, data)
	assert.Error(t, err)
}

func TestLanguageID_Deterministic(t *testing.T) {
	train := func() []*autodiff.Parameter {
		cfg := smallLanguageConfig()
		cfg.MaxEpochs = 1
		cfg.TargetAccuracy = 1.1
		model, err := NewLanguageID(cfg, dataset.SyntheticLanguageID(30, 8))
		require.NoError(t, err)
		_, err = model.Train(context.Background())
		require.ErrorIs(t, err, ErrNotConverged)
		return model.Parameters()
	}
	requireSameParameters(t, train(), train())
}
