package dataset

import (
	"math/rand/v2"

	"github.com/born-ml/gradlab/internal/tensor"
)

// Sampler produces the visiting order of a dataset's examples, one pass at
// a time.
type Sampler struct {
	n       int
	shuffle bool
	rng     *rand.Rand
}

// NewSampler creates a sampler over n examples. Shuffled samplers with the
// same seed produce the same sequence of passes.
func NewSampler(n int, shuffle bool, seed uint64) *Sampler {
	return &Sampler{
		n:       n,
		shuffle: shuffle,
		rng:     rand.New(tensor.NewSource(seed)),
	}
}

// Epoch returns the example order for the next pass.
func (s *Sampler) Epoch() []int {
	if s.shuffle {
		return s.rng.Perm(s.n)
	}
	order := make([]int, s.n)
	for i := range order {
		order[i] = i
	}
	return order
}

// Shuffle permutes indices in place using the sampler's random stream.
func (s *Sampler) Shuffle(indices []int) {
	s.rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}
