package trainer

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradlab/internal/config"
	"github.com/born-ml/gradlab/internal/models"
)

// captureLog redirects the standard logger for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestRun_Perceptron(t *testing.T) {
	logs := captureLog(t)
	cfg := config.Default(config.ModelPerceptron)
	cfg.Perceptron.Points = 100
	require.NoError(t, cfg.Validate())

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Accuracy, 0)
	assert.Contains(t, logs.String(), "model=perceptron epoch=1")
	assert.Contains(t, logs.String(), "model=perceptron done")
}

func TestRun_DigitsSynthetic(t *testing.T) {
	logs := captureLog(t)
	cfg := config.Default(config.ModelDigits)
	cfg.Digits.Hidden = 32
	cfg.Digits.SyntheticTrain = 500
	cfg.Digits.SyntheticValidation = 100
	cfg.Digits.ValidateEvery = 10
	cfg.Digits.TargetAccuracy = 0.9
	cfg.MaxEpochs = 30
	cfg.LogEvery = 5
	require.NoError(t, cfg.Validate())

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Accuracy, 0.9)
	assert.Contains(t, logs.String(), "model=digits train=500 validation=100")
	assert.Contains(t, logs.String(), "examples_per_sec=")
}

func TestRun_NotConverged(t *testing.T) {
	captureLog(t)
	cfg := config.Default(config.ModelRegression)
	cfg.Regression.Points = 20
	cfg.Regression.Threshold = 1e-12
	cfg.MaxEpochs = 2
	require.NoError(t, cfg.Validate())

	res, err := Run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotConverged))
	assert.Equal(t, 2, res.Epochs)
}

func TestRun_LanguageFromDir(t *testing.T) {
	captureLog(t)
	dir := t.TempDir()
	train := "abab\talpha\nbaba\talpha\nxyxy\tbeta\nyxyx\tbeta\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lang_id_train.tsv"), []byte(train), 0o600))
	// The same word labelled twice caps validation accuracy at 0.5.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lang_id_dev.tsv"), []byte("abab\talpha\nabab\tbeta\n"), 0o600))

	cfg := config.Default(config.ModelLanguage)
	cfg.DataDir = dir
	cfg.Language.Hidden = 16
	cfg.Language.BatchSize = 2
	cfg.Language.ValidateEvery = 1
	cfg.Language.TargetAccuracy = 1
	cfg.MaxEpochs = 2
	require.NoError(t, cfg.Validate())

	res, err := Run(context.Background(), cfg)
	require.ErrorIs(t, err, models.ErrNotConverged)
	assert.Equal(t, 4, res.Updates)
}

func TestRun_MissingData(t *testing.T) {
	captureLog(t)
	cfg := config.Default(config.ModelDigits)
	cfg.DataDir = t.TempDir()
	require.NoError(t, cfg.Validate())

	_, err := Run(context.Background(), cfg)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrNotConverged))
}

func TestRun_Canceled(t *testing.T) {
	captureLog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, config.Default(config.ModelRegression))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_UnknownModel(t *testing.T) {
	_, err := Run(context.Background(), config.Default("transformer"))
	assert.Error(t, err)
}
