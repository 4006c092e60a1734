package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradlab/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	for _, model := range []string{ModelPerceptron, ModelRegression, ModelDigits, ModelLanguage} {
		t.Run(model, func(t *testing.T) {
			assert.NoError(t, Default(model).Validate())
		})
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
model: language
seed: 9
max_epochs: 12
language:
  hidden: 128
  lr: 0.2
  schedule:
    - min_accuracy: 0.5
      lr: 0.1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ModelLanguage, cfg.Model)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, 12, cfg.MaxEpochs)
	assert.Equal(t, 128, cfg.Language.Hidden)
	assert.InDelta(t, 0.2, cfg.Language.LR, 0)
	assert.Equal(t, []models.LRStep{{MinAccuracy: 0.5, LR: 0.1}}, cfg.Language.Schedule)

	// Unset keys keep their defaults.
	assert.Equal(t, 100, cfg.Language.BatchSize)
	assert.Equal(t, defaultLogEvery, cfg.LogEvery)
	assert.Equal(t, models.DefaultDigitConfig(), cfg.Digits.DigitConfig)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "model: [unterminated"))
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default(ModelRegression)
	seed := uint64(4)
	cfg.ApplyOverrides(Overrides{Model: ModelDigits, DataDir: "/data", Seed: &seed, MaxEpochs: 7})

	assert.Equal(t, ModelDigits, cfg.Model)
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, uint64(4), cfg.Seed)
	assert.Equal(t, 7, cfg.MaxEpochs)
	assert.Equal(t, defaultLogEvery, cfg.LogEvery, "zero overrides are ignored")

	cfg.ApplyOverrides(Overrides{})
	assert.Equal(t, uint64(4), cfg.Seed, "nil seed keeps the configured one")

	zero := uint64(0)
	cfg.ApplyOverrides(Overrides{Seed: &zero})
	assert.Equal(t, uint64(0), cfg.Seed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown model", func(c *Config) { c.Model = "gpt" }, "unknown model"},
		{"missing model", func(c *Config) { c.Model = "" }, "model must be set"},
		{"max epochs", func(c *Config) { c.MaxEpochs = 0 }, "max_epochs"},
		{"negative lr", func(c *Config) { c.Model = ModelRegression; c.Regression.LR = -0.1 }, "regression.lr"},
		{"zero threshold", func(c *Config) { c.Model = ModelRegression; c.Regression.Threshold = 0 }, "threshold"},
		{"large threshold", func(c *Config) { c.Model = ModelRegression; c.Regression.Threshold = 2 }, "threshold"},
		{"digits target above one", func(c *Config) { c.Digits.TargetAccuracy = 1.1 }, "digits.target_accuracy"},
		{"digits target zero", func(c *Config) { c.Digits.TargetAccuracy = 0 }, "digits.target_accuracy"},
		{"language target", func(c *Config) { c.Model = ModelLanguage; c.Language.TargetAccuracy = 1.5 }, "language.target_accuracy"},
		{"language schedule accuracy", func(c *Config) {
			c.Model = ModelLanguage
			c.Language.Schedule = []models.LRStep{{MinAccuracy: 2, LR: 0.1}}
		}, "min_accuracy"},
		{"perceptron dims", func(c *Config) { c.Model = ModelPerceptron; c.Perceptron.Dimensions = 1 }, "dimensions"},
		{"digits csv pair", func(c *Config) { c.Model = ModelDigits; c.Digits.TrainCSV = "train.csv" }, "set together"},
		{"digits validate every", func(c *Config) { c.Model = ModelDigits; c.Digits.ValidateEvery = 0 }, "validate_every"},
		{"language schedule", func(c *Config) {
			c.Model = ModelLanguage
			c.Language.Schedule = []models.LRStep{{MinAccuracy: 0.5, LR: 0}}
		}, "schedule"},
		{"language words", func(c *Config) { c.Model = ModelLanguage; c.Language.SyntheticWords = 0 }, "synthetic_words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(ModelDigits)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_FillsLogEvery(t *testing.T) {
	cfg := Default(ModelPerceptron)
	cfg.LogEvery = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultLogEvery, cfg.LogEvery)
}
