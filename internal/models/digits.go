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

// DigitConfig configures a DigitClassification model.
type DigitConfig struct {
	Hidden         int     `yaml:"hidden"`
	BatchSize      int     `yaml:"batch_size"`
	LR             float64 `yaml:"lr"`
	ValidateEvery  int     `yaml:"validate_every"`  // updates between validation checks
	TargetAccuracy float64 `yaml:"target_accuracy"` // stop once validation accuracy reaches this
	MaxEpochs      int     `yaml:"-"`
	Seed           uint64  `yaml:"-"`
}

// DefaultDigitConfig returns the hyperparameters used for MNIST.
func DefaultDigitConfig() DigitConfig {
	return DigitConfig{
		Hidden:         100,
		BatchSize:      25,
		LR:             0.2,
		ValidateEvery:  100,
		TargetAccuracy: 0.975,
		MaxEpochs:      defaultMaxEpochs,
	}
}

// DigitClassification scores 784-pixel digit images over 10 classes with a
// Linear → ReLU → Linear network trained on softmax loss.
type DigitClassification struct {
	observer
	cfg DigitConfig
	net *nn.Sequential
	opt *optim.SGD
}

// NewDigitClassification creates a digit classifier.
func NewDigitClassification(cfg DigitConfig) *DigitClassification {
	if cfg.Hidden <= 0 || cfg.BatchSize <= 0 || cfg.LR <= 0 || cfg.ValidateEvery <= 0 {
		panic("models.NewDigitClassification: hidden, batch size, learning rate and validation interval must be > 0")
	}
	net := nn.NewMLP(dataset.DigitPixels, cfg.Hidden, dataset.DigitClasses, tensor.NewSource(cfg.Seed))
	return &DigitClassification{
		cfg: cfg,
		net: net,
		opt: optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: cfg.LR}),
	}
}

// Parameters returns the network parameters in update order.
func (m *DigitClassification) Parameters() []*autodiff.Parameter {
	return m.net.Parameters()
}

// Run returns (batch x 10) logits for x.
func (m *DigitClassification) Run(x autodiff.Node) autodiff.Node {
	return m.net.Forward(x)
}

// Loss returns the softmax loss of the logits for x against one-hot labels y.
func (m *DigitClassification) Loss(x, y autodiff.Node) autodiff.Node {
	return autodiff.SoftmaxLoss(m.Run(x), y)
}

// Predict returns the most likely digit for each row of x.
func (m *DigitClassification) Predict(x autodiff.Node) []int {
	return tensor.ArgMaxRows(m.Run(x).Value())
}

// Train runs gradient descent in batches of BatchSize, checking validation
// accuracy every ValidateEvery updates, and stops as soon as it reaches
// TargetAccuracy.
func (m *DigitClassification) Train(ctx context.Context, data *dataset.Digits) (Result, error) {
	var res Result
	limit := maxEpochs(m.cfg.MaxEpochs)
	for res.Epochs < limit {
		for batch := range data.IterateOnce(m.cfg.BatchSize) {
			if err := checkContext(ctx, "digits"); err != nil {
				return res, err
			}
			res.Loss = m.opt.Minimize(m.Loss(batch.X, batch.Y))
			res.Updates++
			if res.Updates%m.cfg.ValidateEvery == 0 {
				res.Accuracy = data.ValidationAccuracy(m)
			}
			m.report(Progress{
				Epoch:    res.Epochs + 1,
				Update:   res.Updates,
				Examples: batch.Size(),
				Loss:     res.Loss,
				Accuracy: res.Accuracy,
				LR:       m.opt.GetLR(),
			})
			if res.Accuracy >= m.cfg.TargetAccuracy {
				res.Epochs++
				return res, nil
			}
		}
		res.Epochs++
	}
	return res, errors.Wrapf(ErrNotConverged, "digits: validation accuracy %.4f after %d epochs", res.Accuracy, res.Epochs)
}
