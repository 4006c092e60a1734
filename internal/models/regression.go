package models

import (
	"context"

	"github.com/pkg/errors"

	"github.com/born-ml/gradlab/internal/autodiff"
	"github.com/born-ml/gradlab/internal/dataset"
	"github.com/born-ml/gradlab/internal/nn"
	"github.com/born-ml/gradlab/internal/optim"
	"github.com/born-ml/gradlab/internal/tensor"
)

// RegressionConfig configures a Regression model.
type RegressionConfig struct {
	Hidden    int     `yaml:"hidden"`
	BatchSize int     `yaml:"batch_size"`
	LR        float64 `yaml:"lr"`
	Threshold float64 `yaml:"threshold"` // stop once the full training loss is below this
	MaxEpochs int     `yaml:"-"`
	Seed      uint64  `yaml:"-"`
}

// DefaultRegressionConfig returns the hyperparameters that fit sin(x) on
// [-2π, 2π].
func DefaultRegressionConfig() RegressionConfig {
	return RegressionConfig{
		Hidden:    100,
		BatchSize: 5,
		LR:        0.01,
		Threshold: 0.01,
		MaxEpochs: defaultMaxEpochs,
	}
}

// Regression maps a scalar input to a scalar output with a
// Linear → ReLU → Linear network trained on square loss.
type Regression struct {
	observer
	cfg RegressionConfig
	net *nn.Sequential
	opt *optim.SGD
}

// NewRegression creates a regression network.
func NewRegression(cfg RegressionConfig) *Regression {
	if cfg.Hidden <= 0 || cfg.BatchSize <= 0 || cfg.LR <= 0 {
		panic("models.NewRegression: hidden, batch size and learning rate must be > 0")
	}
	net := nn.NewMLP(1, cfg.Hidden, 1, tensor.NewSource(cfg.Seed))
	return &Regression{
		cfg: cfg,
		net: net,
		opt: optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: cfg.LR}),
	}
}

// Parameters returns the network parameters in update order.
func (m *Regression) Parameters() []*autodiff.Parameter {
	return m.net.Parameters()
}

// Run returns the (batch x 1) predictions for x.
func (m *Regression) Run(x autodiff.Node) autodiff.Node {
	return m.net.Forward(x)
}

// Loss returns the square loss of the predictions for x against y.
func (m *Regression) Loss(x, y autodiff.Node) autodiff.Node {
	return autodiff.SquareLoss(m.Run(x), y)
}

// Train runs gradient descent in batches of BatchSize. After every epoch the
// loss over the whole training set is evaluated; training stops once it is
// below Threshold.
func (m *Regression) Train(ctx context.Context, data *dataset.Tabular) (Result, error) {
	var res Result
	all := data.All()
	limit := maxEpochs(m.cfg.MaxEpochs)
	for res.Epochs < limit {
		for batch := range data.IterateOnce(m.cfg.BatchSize) {
			if err := checkContext(ctx, "regression"); err != nil {
				return res, err
			}
			loss := m.opt.Minimize(m.Loss(batch.X, batch.Y))
			res.Updates++
			m.report(Progress{
				Epoch:    res.Epochs + 1,
				Update:   res.Updates,
				Examples: batch.Size(),
				Loss:     loss,
				LR:       m.opt.GetLR(),
			})
		}
		res.Epochs++
		res.Loss = autodiff.AsScalar(m.Loss(all.X, all.Y))
		if res.Loss < m.cfg.Threshold {
			return res, nil
		}
	}
	return res, errors.Wrapf(ErrNotConverged, "regression: loss %.4f after %d epochs", res.Loss, res.Epochs)
}
