package models

import (
	"context"

	"github.com/pkg/errors"

	"github.com/born-ml/gradlab/internal/autodiff"
	"github.com/born-ml/gradlab/internal/dataset"
	"github.com/born-ml/gradlab/internal/tensor"
)

// PerceptronConfig configures a Perceptron.
type PerceptronConfig struct {
	Dimensions int    `yaml:"dimensions"`
	MaxEpochs  int    `yaml:"-"`
	Seed       uint64 `yaml:"-"`
}

// Perceptron classifies points as +1 or -1 by the sign of a dot product with
// a 1×Dimensions weight row.
type Perceptron struct {
	observer
	cfg PerceptronConfig
	w   *autodiff.Parameter
}

// NewPerceptron creates a perceptron with randomly initialized weights.
func NewPerceptron(cfg PerceptronConfig) *Perceptron {
	if cfg.Dimensions <= 0 {
		panic("models.NewPerceptron: dimensions must be > 0")
	}
	return &Perceptron{
		cfg: cfg,
		w:   autodiff.NewParameter("perceptron.weight", 1, cfg.Dimensions, tensor.NewSource(cfg.Seed)),
	}
}

// Weights returns the weight parameter.
func (p *Perceptron) Weights() *autodiff.Parameter {
	return p.w
}

// Run returns the (batch x 1) scores of x.
func (p *Perceptron) Run(x autodiff.Node) autodiff.Node {
	return autodiff.DotProduct(x, p.w)
}

// Predict classifies a single point: +1 if its score is non-negative,
// otherwise -1.
func (p *Perceptron) Predict(x autodiff.Node) float64 {
	if autodiff.AsScalar(p.Run(x)) >= 0 {
		return 1
	}
	return -1
}

// Train applies the perceptron rule w += y·x to every misclassified point,
// one point at a time, until a full pass makes no mistakes.
func (p *Perceptron) Train(ctx context.Context, data *dataset.Tabular) (Result, error) {
	if data.Features() != p.cfg.Dimensions {
		return Result{}, errors.Errorf("perceptron: dataset has %d features, model expects %d", data.Features(), p.cfg.Dimensions)
	}

	var res Result
	limit := maxEpochs(p.cfg.MaxEpochs)
	for res.Epochs < limit {
		mistakes := 0
		for batch := range data.IterateOnce(1) {
			if err := checkContext(ctx, "perceptron"); err != nil {
				return res, err
			}
			y := autodiff.AsScalar(batch.Y)
			if p.Predict(batch.X) == y {
				continue
			}
			mistakes++
			res.Updates++
			p.w.Update(batch.X, y)
		}
		res.Epochs++
		res.Loss = float64(mistakes)
		res.Accuracy = 1 - float64(mistakes)/float64(data.Len())
		p.report(Progress{
			Epoch:    res.Epochs,
			Update:   res.Updates,
			Examples: data.Len(),
			Loss:     res.Loss,
			Accuracy: res.Accuracy,
			LR:       1,
		})
		if mistakes == 0 {
			return res, nil
		}
	}
	return res, errors.Wrapf(ErrNotConverged, "perceptron: %d mistakes after %d epochs", int(res.Loss), res.Epochs)
}
