// Package config loads and validates training run configuration.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/gradlab/internal/models"
)

// Model names accepted by Config.Model.
const (
	ModelPerceptron = "perceptron"
	ModelRegression = "regression"
	ModelDigits     = "digits"
	ModelLanguage   = "language"
)

const defaultLogEvery = 50

// Config captures the runtime knobs for a training run.
type Config struct {
	Model     string `yaml:"model"`
	DataDir   string `yaml:"data_dir"` // empty: generate a synthetic dataset
	Seed      uint64 `yaml:"seed"`
	MaxEpochs int    `yaml:"max_epochs"`
	LogEvery  int    `yaml:"log_every"`

	Perceptron PerceptronSection `yaml:"perceptron"`
	Regression RegressionSection `yaml:"regression"`
	Digits     DigitsSection     `yaml:"digits"`
	Language   LanguageSection   `yaml:"language"`
}

// PerceptronSection configures the perceptron and its synthetic dataset.
type PerceptronSection struct {
	Points                  int `yaml:"points"`
	models.PerceptronConfig `yaml:",inline"`
}

// RegressionSection configures the regression model and its sample count.
type RegressionSection struct {
	Points                  int `yaml:"points"`
	models.RegressionConfig `yaml:",inline"`
}

// DigitsSection configures the digit classifier and where its data comes from.
//
// With data_dir set, MNIST IDX files are read from it. Otherwise, if both CSV
// paths are set, the Kaggle CSV format is read. Otherwise a synthetic dataset
// of SyntheticTrain/SyntheticValidation images is generated.
type DigitsSection struct {
	MaxTrain            int    `yaml:"max_train"`
	MaxValidation       int    `yaml:"max_validation"`
	TrainCSV            string `yaml:"train_csv"`
	ValidationCSV       string `yaml:"validation_csv"`
	SyntheticTrain      int    `yaml:"synthetic_train"`
	SyntheticValidation int    `yaml:"synthetic_validation"`
	models.DigitConfig  `yaml:",inline"`
}

// LanguageSection configures the language model. Without data_dir, a
// synthetic dataset with SyntheticWords training words per language is used.
type LanguageSection struct {
	SyntheticWords        int `yaml:"synthetic_words"`
	models.LanguageConfig `yaml:",inline"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Model     string
	DataDir   string
	Seed      *uint64 // nil: keep the configured seed
	MaxEpochs int
	LogEvery  int
}

// Default returns the configuration for model with every hyperparameter at
// its standard value.
func Default(model string) *Config {
	return &Config{
		Model:     model,
		Seed:      1,
		MaxEpochs: 1000,
		LogEvery:  defaultLogEvery,
		Perceptron: PerceptronSection{
			Points:           500,
			PerceptronConfig: models.PerceptronConfig{Dimensions: 3},
		},
		Regression: RegressionSection{
			Points:           200,
			RegressionConfig: models.DefaultRegressionConfig(),
		},
		Digits: DigitsSection{
			SyntheticTrain:      5000,
			SyntheticValidation: 1000,
			DigitConfig:         models.DefaultDigitConfig(),
		},
		Language: LanguageSection{
			SyntheticWords: 500,
			LanguageConfig: models.DefaultLanguageConfig(),
		},
	}
}

// Load reads a Config from YAML. Keys absent from the file keep their
// Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}

	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.MaxEpochs > 0 {
		c.MaxEpochs = o.MaxEpochs
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
}

// Validate verifies the config is runnable and fills unset defaults.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.MaxEpochs <= 0 {
		return errors.Errorf("max_epochs must be > 0 (got %d)", c.MaxEpochs)
	}
	if c.LogEvery <= 0 {
		c.LogEvery = defaultLogEvery
	}

	switch c.Model {
	case ModelPerceptron:
		p := c.Perceptron
		if p.Dimensions < 2 {
			return errors.Errorf("perceptron.dimensions must be >= 2 (got %d)", p.Dimensions)
		}
		if p.Points <= 0 {
			return errors.Errorf("perceptron.points must be > 0 (got %d)", p.Points)
		}
	case ModelRegression:
		r := c.Regression
		if err := positive("regression", r.Hidden, r.BatchSize, r.LR); err != nil {
			return err
		}
		if r.Points < 2 {
			return errors.Errorf("regression.points must be >= 2 (got %d)", r.Points)
		}
		if r.Threshold <= 0 || r.Threshold > 1 {
			return errors.Errorf("regression.threshold must be in (0, 1] (got %g)", r.Threshold)
		}
	case ModelDigits:
		d := c.Digits
		if err := positive("digits", d.Hidden, d.BatchSize, d.LR); err != nil {
			return err
		}
		if d.ValidateEvery <= 0 {
			return errors.Errorf("digits.validate_every must be > 0 (got %d)", d.ValidateEvery)
		}
		if err := fraction("digits.target_accuracy", d.TargetAccuracy); err != nil {
			return err
		}
		if (d.TrainCSV == "") != (d.ValidationCSV == "") {
			return errors.New("digits.train_csv and digits.validation_csv must be set together")
		}
		if c.DataDir == "" && d.TrainCSV == "" && (d.SyntheticTrain <= 0 || d.SyntheticValidation <= 0) {
			return errors.New("digits: synthetic_train and synthetic_validation must be > 0 without a data source")
		}
	case ModelLanguage:
		l := c.Language
		if err := positive("language", l.Hidden, l.BatchSize, l.LR); err != nil {
			return err
		}
		if l.ValidateEvery <= 0 {
			return errors.Errorf("language.validate_every must be > 0 (got %d)", l.ValidateEvery)
		}
		if err := fraction("language.target_accuracy", l.TargetAccuracy); err != nil {
			return err
		}
		for _, step := range l.Schedule {
			if step.LR <= 0 {
				return errors.Errorf("language.schedule: lr must be > 0 (got %g)", step.LR)
			}
			if err := fraction("language.schedule: min_accuracy", step.MinAccuracy); err != nil {
				return err
			}
		}
		if c.DataDir == "" && l.SyntheticWords <= 0 {
			return errors.New("language: synthetic_words must be > 0 without data_dir")
		}
	case "":
		return errors.New("model must be set")
	default:
		return errors.Errorf("unknown model %q (want %s, %s, %s or %s)",
			c.Model, ModelPerceptron, ModelRegression, ModelDigits, ModelLanguage)
	}
	return nil
}

func positive(section string, hidden, batchSize int, lr float64) error {
	if hidden <= 0 {
		return errors.Errorf("%s.hidden must be > 0 (got %d)", section, hidden)
	}
	if batchSize <= 0 {
		return errors.Errorf("%s.batch_size must be > 0 (got %d)", section, batchSize)
	}
	if lr <= 0 {
		return errors.Errorf("%s.lr must be > 0 (got %g)", section, lr)
	}
	return nil
}

// fraction checks that an accuracy lies in (0, 1].
func fraction(key string, v float64) error {
	if v <= 0 || v > 1 {
		return errors.Errorf("%s must be in (0, 1] (got %g)", key, v)
	}
	return nil
}
