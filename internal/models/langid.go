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

// LRStep lowers the learning rate to LR once validation accuracy reaches
// MinAccuracy.
type LRStep struct {
	MinAccuracy float64 `yaml:"min_accuracy"`
	LR          float64 `yaml:"lr"`
}

// LanguageConfig configures a LanguageID model.
type LanguageConfig struct {
	Hidden         int      `yaml:"hidden"`
	BatchSize      int      `yaml:"batch_size"`
	LR             float64  `yaml:"lr"`
	Schedule       []LRStep `yaml:"schedule"`
	ValidateEvery  int      `yaml:"validate_every"`
	TargetAccuracy float64  `yaml:"target_accuracy"`
	MaxEpochs      int      `yaml:"-"`
	Seed           uint64   `yaml:"-"`
}

// DefaultLanguageConfig returns the hyperparameters used for the five-language
// word dataset.
func DefaultLanguageConfig() LanguageConfig {
	return LanguageConfig{
		Hidden:    400,
		BatchSize: 100,
		LR:        0.15,
		Schedule: []LRStep{
			{MinAccuracy: 0.75, LR: 0.1},
			{MinAccuracy: 0.83, LR: 0.05},
		},
		ValidateEvery:  100,
		TargetAccuracy: 0.86,
		MaxEpochs:      defaultMaxEpochs,
	}
}

// LanguageID labels words with their language using a recurrent network over
// one-hot characters, trained on softmax loss.
type LanguageID struct {
	observer
	cfg       LanguageConfig
	languages []string
	data      *dataset.LanguageID
	rnn       *nn.Recurrent
	opt       *optim.SGD
	schedule  *optim.AccuracySchedule
}

// NewLanguageID creates a model sized for data's alphabet and languages.
func NewLanguageID(cfg LanguageConfig, data *dataset.LanguageID) (*LanguageID, error) {
	if cfg.Hidden <= 0 || cfg.BatchSize <= 0 || cfg.ValidateEvery <= 0 {
		return nil, errors.New("language id: hidden, batch size and validation interval must be > 0")
	}
	schedule := optim.NewAccuracySchedule(cfg.LR)
	for _, step := range cfg.Schedule {
		schedule.Add(step.MinAccuracy, step.LR)
	}
	if err := schedule.Validate(); err != nil {
		return nil, errors.Wrap(err, "language id schedule")
	}

	rnn := nn.NewRecurrent(data.NumChars(), cfg.Hidden, len(data.Languages()), tensor.NewSource(cfg.Seed))
	return &LanguageID{
		cfg:       cfg,
		languages: data.Languages(),
		data:      data,
		rnn:       rnn,
		opt:       optim.NewSGD(rnn.Parameters(), optim.SGDConfig{LR: cfg.LR}),
		schedule:  schedule,
	}, nil
}

// Languages returns the class names in score column order.
func (m *LanguageID) Languages() []string {
	return m.languages
}

// Parameters returns [Wx, Wh, Wo].
func (m *LanguageID) Parameters() []*autodiff.Parameter {
	return m.rnn.Parameters()
}

// LR returns the current learning rate.
func (m *LanguageID) LR() float64 {
	return m.opt.GetLR()
}

// Run returns (batch x languages) logits for a batch of same-length words,
// one (batch x chars) one-hot node per character position.
func (m *LanguageID) Run(xs []autodiff.Node) autodiff.Node {
	return m.rnn.Forward(xs)
}

// Loss returns the softmax loss of the logits for xs against one-hot labels y.
func (m *LanguageID) Loss(xs []autodiff.Node, y autodiff.Node) autodiff.Node {
	return autodiff.SoftmaxLoss(m.Run(xs), y)
}

// Predict returns the most likely language of each word. Words must share a
// length and use only characters of the training alphabet.
func (m *LanguageID) Predict(words []string) ([]string, error) {
	xs, err := m.data.Encode(words)
	if err != nil {
		return nil, err
	}
	predicted := tensor.ArgMaxRows(m.Run(xs).Value())
	out := make([]string, len(predicted))
	for i, class := range predicted {
		out[i] = m.languages[class]
	}
	return out, nil
}

// Train runs gradient descent in batches of BatchSize, sampling validation
// accuracy every ValidateEvery updates. After each sample the learning rate
// drops to the schedule's rate for that accuracy; it never rises again.
// Training stops once accuracy reaches TargetAccuracy.
func (m *LanguageID) Train(ctx context.Context) (Result, error) {
	var res Result
	limit := maxEpochs(m.cfg.MaxEpochs)
	for res.Epochs < limit {
		for batch := range m.data.IterateOnce(m.cfg.BatchSize) {
			if err := checkContext(ctx, "language id"); err != nil {
				return res, err
			}
			res.Loss = m.opt.Minimize(m.Loss(batch.Xs, batch.Y))
			res.Updates++
			if res.Updates%m.cfg.ValidateEvery == 0 {
				res.Accuracy = m.data.ValidationAccuracy(m)
				m.opt.SetLR(min(m.opt.GetLR(), m.schedule.Rate(res.Accuracy)))
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
	return res, errors.Wrapf(ErrNotConverged, "language id: validation accuracy %.4f after %d epochs", res.Accuracy, res.Epochs)
}
