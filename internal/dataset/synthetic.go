package dataset

import (
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/gradlab/internal/tensor"
)

// perceptronMargin is the minimum distance between a generated point and the
// separating hyperplane.
const perceptronMargin = 0.05

// NewPerceptron generates n linearly separable points for a binary
// classifier over dims dimensions.
//
// Each point has dims-1 standard normal coordinates followed by a constant 1,
// so a weight vector over dims entries also learns an offset. Labels are +1
// or -1 depending on which side of a hidden random hyperplane the point lies;
// points closer than perceptronMargin to the hyperplane are redrawn, which
// guarantees the perceptron update rule terminates.
//
// The dataset iterates in storage order.
func NewPerceptron(n, dims int, seed uint64) *Tabular {
	if n <= 0 || dims < 2 {
		panic("dataset.NewPerceptron: need n > 0 and dims >= 2")
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: tensor.NewSource(seed)}

	hidden := make([]float64, dims)
	for i := range hidden {
		hidden[i] = normal.Rand()
	}
	// Keep the offset small so both classes are populated.
	hidden[dims-1] *= 0.25
	norm := floats.Norm(hidden[:dims-1], 2)

	x := mat.NewDense(n, dims, nil)
	y := mat.NewDense(n, 1, nil)
	point := make([]float64, dims)
	for i := 0; i < n; {
		for j := 0; j < dims-1; j++ {
			point[j] = normal.Rand()
		}
		point[dims-1] = 1

		score := floats.Dot(point, hidden)
		if math.Abs(score)/norm < perceptronMargin {
			continue
		}
		x.SetRow(i, point)
		if score >= 0 {
			y.Set(i, 0, 1)
		} else {
			y.Set(i, 0, -1)
		}
		i++
	}

	return NewTabular(x, y, false, seed)
}

// NewRegression samples y = sin(x) at n evenly spaced points of [-2π, 2π].
// Every pass visits the points in a fresh seeded permutation.
func NewRegression(n int, seed uint64) *Tabular {
	if n < 2 {
		panic("dataset.NewRegression: need n >= 2")
	}
	xs := floats.Span(make([]float64, n), -2*math.Pi, 2*math.Pi)
	ys := make([]float64, n)
	for i, v := range xs {
		ys[i] = math.Sin(v)
	}

	return NewTabular(mat.NewDense(n, 1, xs), mat.NewDense(n, 1, ys), true, seed)
}

// syntheticLanguages maps a made-up language to the letters its words favour.
var syntheticLanguages = []struct {
	name    string
	letters string
}{
	{"alpha", "abcde"},
	{"beta", "fghij"},
	{"gamma", "klmno"},
	{"delta", "pqrst"},
}

// SyntheticLanguageID generates an offline language identification dataset:
// perLanguage training and perLanguage/4 validation words for each of four
// made-up languages. Words are 2 to 6 characters long and mostly use their
// language's letters, with one in ten characters drawn from any language.
func SyntheticLanguageID(perLanguage int, seed uint64) *LanguageID {
	rng := rand.New(tensor.NewSource(seed))
	var all strings.Builder
	for _, lang := range syntheticLanguages {
		all.WriteString(lang.letters)
	}
	everything := all.String()

	generate := func(n int) []LabeledWord {
		words := make([]LabeledWord, 0, n*len(syntheticLanguages))
		for i := 0; i < n; i++ {
			for _, lang := range syntheticLanguages {
				word := make([]byte, 2+rng.IntN(5))
				for j := range word {
					if rng.IntN(10) == 0 {
						word[j] = everything[rng.IntN(len(everything))]
					} else {
						word[j] = lang.letters[rng.IntN(len(lang.letters))]
					}
				}
				words = append(words, LabeledWord{Word: string(word), Language: lang.name})
			}
		}
		return words
	}

	train := generate(perLanguage)
	validation := generate(max(perLanguage/4, 1))
	d, err := NewLanguageID(train, validation, seed)
	if err != nil {
		panic("dataset.SyntheticLanguageID: " + err.Error())
	}
	return d
}
