// Package trainer builds the dataset and model named by a Config, trains the
// model and logs progress.
package trainer

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/gradlab/internal/config"
	"github.com/born-ml/gradlab/internal/dataset"
	"github.com/born-ml/gradlab/internal/metrics"
	"github.com/born-ml/gradlab/internal/models"
)

// Run executes the training workload described by cfg, which must already be
// validated.
func Run(ctx context.Context, cfg *config.Config) (models.Result, error) {
	var (
		res models.Result
		err error
	)
	switch cfg.Model {
	case config.ModelPerceptron:
		res, err = runPerceptron(ctx, cfg)
	case config.ModelRegression:
		res, err = runRegression(ctx, cfg)
	case config.ModelDigits:
		res, err = runDigits(ctx, cfg)
	case config.ModelLanguage:
		res, err = runLanguage(ctx, cfg)
	default:
		return res, errors.Errorf("trainer: unknown model %q", cfg.Model)
	}
	if err != nil {
		return res, err
	}

	log.Printf("model=%s done epochs=%d updates=%d loss=%.4f accuracy=%.4f",
		cfg.Model, res.Epochs, res.Updates, res.Loss, res.Accuracy)
	return res, nil
}

type observable interface {
	Observe(models.ProgressFunc)
}

// watch logs a progress line every logEvery reports, averaged over the
// reports since the previous line.
func watch(m observable, model string, logEvery int) {
	var window metrics.Window
	last := time.Now()
	m.Observe(func(p models.Progress) {
		now := time.Now()
		window.Record(p.Examples, now.Sub(last), p.Loss)
		last = now

		if window.Updates() < logEvery {
			return
		}
		snap := window.Snapshot()
		log.Printf("model=%s epoch=%d update=%d loss=%.4f last_loss=%.4f accuracy=%.4f lr=%.4g examples_per_sec=%.1f update_ms=%.2f",
			model,
			p.Epoch,
			p.Update,
			snap.MeanLoss,
			snap.LastLoss,
			p.Accuracy,
			p.LR,
			snap.ExamplesPerSec,
			snap.AvgUpdateMS,
		)
	})
}

func runPerceptron(ctx context.Context, cfg *config.Config) (models.Result, error) {
	section := cfg.Perceptron
	data := dataset.NewPerceptron(section.Points, section.Dimensions, cfg.Seed)
	log.Printf("model=%s points=%d dimensions=%d", cfg.Model, data.Len(), data.Features())

	mcfg := section.PerceptronConfig
	mcfg.MaxEpochs = cfg.MaxEpochs
	mcfg.Seed = cfg.Seed
	model := models.NewPerceptron(mcfg)
	// The perceptron reports once per epoch.
	watch(model, cfg.Model, 1)
	return model.Train(ctx, data)
}

func runRegression(ctx context.Context, cfg *config.Config) (models.Result, error) {
	section := cfg.Regression
	data := dataset.NewRegression(section.Points, cfg.Seed)
	log.Printf("model=%s points=%d", cfg.Model, data.Len())

	mcfg := section.RegressionConfig
	mcfg.MaxEpochs = cfg.MaxEpochs
	mcfg.Seed = cfg.Seed
	model := models.NewRegression(mcfg)
	watch(model, cfg.Model, cfg.LogEvery)
	return model.Train(ctx, data)
}

func runDigits(ctx context.Context, cfg *config.Config) (models.Result, error) {
	data, err := loadDigits(cfg)
	if err != nil {
		return models.Result{}, err
	}
	log.Printf("model=%s train=%d validation=%d", cfg.Model, data.Train.Len(), data.Validation.Len())

	mcfg := cfg.Digits.DigitConfig
	mcfg.MaxEpochs = cfg.MaxEpochs
	mcfg.Seed = cfg.Seed
	model := models.NewDigitClassification(mcfg)
	watch(model, cfg.Model, cfg.LogEvery)
	return model.Train(ctx, data)
}

func loadDigits(cfg *config.Config) (*dataset.Digits, error) {
	section := cfg.Digits
	switch {
	case cfg.DataDir != "":
		return dataset.LoadDigits(cfg.DataDir, dataset.DigitsOptions{
			MaxTrain:      section.MaxTrain,
			MaxValidation: section.MaxValidation,
			Seed:          cfg.Seed,
		})
	case section.TrainCSV != "":
		train, err := dataset.LoadDigitsCSV(section.TrainCSV, section.MaxTrain, cfg.Seed)
		if err != nil {
			return nil, err
		}
		validation, err := dataset.LoadDigitsCSV(section.ValidationCSV, section.MaxValidation, cfg.Seed)
		if err != nil {
			return nil, err
		}
		return &dataset.Digits{Train: train, Validation: validation}, nil
	default:
		return dataset.SyntheticDigits(section.SyntheticTrain, section.SyntheticValidation, cfg.Seed), nil
	}
}

func runLanguage(ctx context.Context, cfg *config.Config) (models.Result, error) {
	var data *dataset.LanguageID
	if cfg.DataDir != "" {
		var err error
		if data, err = dataset.LoadLanguageID(cfg.DataDir, cfg.Seed); err != nil {
			return models.Result{}, err
		}
	} else {
		data = dataset.SyntheticLanguageID(cfg.Language.SyntheticWords, cfg.Seed)
	}
	log.Printf("model=%s words=%d chars=%d languages=%v", cfg.Model, data.Len(), data.NumChars(), data.Languages())

	mcfg := cfg.Language.LanguageConfig
	mcfg.MaxEpochs = cfg.MaxEpochs
	mcfg.Seed = cfg.Seed
	model, err := models.NewLanguageID(mcfg, data)
	if err != nil {
		return models.Result{}, err
	}
	watch(model, cfg.Model, cfg.LogEvery)
	return model.Train(ctx)
}
