package optim

import (
	"sort"

	"github.com/pkg/errors"
)

type accuracyStep struct {
	MinAccuracy float64
	LR          float64
}

// AccuracySchedule is a hand-tuned learning-rate schedule triggered by
// validation accuracy: a base rate plus steps that apply once accuracy
// reaches their threshold.
//
//	schedule := optim.NewAccuracySchedule(0.15).Add(0.75, 0.1).Add(0.83, 0.05)
//	schedule.Rate(0.80) // 0.1
type AccuracySchedule struct {
	steps []accuracyStep
}

// NewAccuracySchedule creates a schedule that returns base until a step is reached.
func NewAccuracySchedule(base float64) *AccuracySchedule {
	return &AccuracySchedule{steps: []accuracyStep{{MinAccuracy: 0, LR: base}}}
}

// Add registers lr for accuracies >= minAccuracy. Steps may be added in any order.
func (s *AccuracySchedule) Add(minAccuracy, lr float64) *AccuracySchedule {
	s.steps = append(s.steps, accuracyStep{MinAccuracy: minAccuracy, LR: lr})
	sort.SliceStable(s.steps, func(i, j int) bool {
		return s.steps[i].MinAccuracy < s.steps[j].MinAccuracy
	})
	return s
}

// Rate returns the learning rate of the highest step whose threshold
// accuracy has reached.
func (s *AccuracySchedule) Rate(accuracy float64) float64 {
	rate := s.steps[0].LR
	for _, st := range s.steps[1:] {
		if accuracy < st.MinAccuracy {
			break
		}
		rate = st.LR
	}
	return rate
}

// Validate checks that every rate is positive and every threshold lies in [0, 1].
func (s *AccuracySchedule) Validate() error {
	for _, st := range s.steps {
		if st.LR <= 0 {
			return errors.Errorf("learning rate must be > 0 (got %g at accuracy %g)", st.LR, st.MinAccuracy)
		}
		if st.MinAccuracy < 0 || st.MinAccuracy > 1 {
			return errors.Errorf("accuracy threshold must be in [0, 1] (got %g)", st.MinAccuracy)
		}
	}
	return nil
}
