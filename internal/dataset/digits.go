package dataset

import (
	"encoding/csv"
	"io"
	"iter"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/parallel"
	"github.com/born-ml/gradlab/internal/tensor"
)

const (
	// DigitPixels is the length of a flattened 28×28 digit image.
	DigitPixels = 28 * 28
	// DigitClasses is the number of digit classes (0-9).
	DigitClasses = 10

	validationBatchSize = 1000
)

// Digits is a handwritten digit classification dataset: 784 pixel inputs in
// [0, 1] and one-hot labels over 10 classes, split into training and
// validation sets.
type Digits struct {
	Train      *Tabular
	Validation *Tabular
}

// DigitsOptions limits how much of the dataset is loaded.
type DigitsOptions struct {
	MaxTrain      int    // 0 = load all training images
	MaxValidation int    // 0 = load all validation images
	Seed          uint64 // shuffling seed for training passes
}

// IterateOnce yields one shuffled pass over the training set.
func (d *Digits) IterateOnce(batchSize int) iter.Seq[Batch] {
	return d.Train.IterateOnce(batchSize)
}

// ValidationAccuracy returns the fraction of validation images s classifies
// correctly.
func (d *Digits) ValidationAccuracy(s Scorer) float64 {
	return d.Validation.Accuracy(s, validationBatchSize)
}

// LoadDigits loads MNIST from the official IDX files in dir.
//
// Expected files (each optionally gzip-compressed with a .gz suffix):
//   - train-images-idx3-ubyte, train-labels-idx1-ubyte: training set
//   - t10k-images-idx3-ubyte, t10k-labels-idx1-ubyte: validation set
func LoadDigits(dir string, opts DigitsOptions) (*Digits, error) {
	trainX, trainY, err := loadDigitFiles(
		filepath.Join(dir, "train-images-idx3-ubyte"),
		filepath.Join(dir, "train-labels-idx1-ubyte"),
		opts.MaxTrain,
	)
	if err != nil {
		return nil, errors.Wrap(err, "load training digits")
	}

	validX, validY, err := loadDigitFiles(
		filepath.Join(dir, "t10k-images-idx3-ubyte"),
		filepath.Join(dir, "t10k-labels-idx1-ubyte"),
		opts.MaxValidation,
	)
	if err != nil {
		return nil, errors.Wrap(err, "load validation digits")
	}

	return &Digits{
		Train:      NewTabular(trainX, trainY, true, opts.Seed),
		Validation: NewTabular(validX, validY, false, opts.Seed),
	}, nil
}

func loadDigitFiles(imagePath, labelPath string, maxSamples int) (x, y *mat.Dense, err error) {
	imagesFile, err := openIDX(imagePath)
	if err != nil {
		return nil, nil, err
	}
	defer imagesFile.Close()

	images, imageCount, err := readIDXImages(imagesFile, maxSamples)
	if err != nil {
		return nil, nil, errors.Wrap(err, imagePath)
	}

	labelsFile, err := openIDX(labelPath)
	if err != nil {
		return nil, nil, err
	}
	defer labelsFile.Close()

	labels, labelCount, err := readIDXLabels(labelsFile, maxSamples)
	if err != nil {
		return nil, nil, errors.Wrap(err, labelPath)
	}

	if imageCount != labelCount {
		return nil, nil, errors.Errorf("image count (%d) != label count (%d)", imageCount, labelCount)
	}

	n := len(images)
	indices := make([]int, n)
	for i := range indices {
		if labels[i] >= DigitClasses {
			return nil, nil, errors.Errorf("%s: label %d out of range at index %d", labelPath, labels[i], i)
		}
		indices[i] = int(labels[i])
	}

	x = mat.NewDense(n, DigitPixels, nil)
	parallel.ForRows(x, func(i int, row []float64) {
		for j, pixel := range images[i] {
			row[j] = float64(pixel) / 255.0
		}
	}, parallel.DefaultConfig())

	return x, tensor.OneHot(indices, DigitClasses), nil
}

// LoadDigitsCSV loads a digit set from a Kaggle-style CSV file.
//
// CSV format:
//
//	label,pixel0,pixel1,...,pixel783
//	5,0,0,12,...,0
//
// The header row is skipped. maxSamples = 0 loads everything.
func LoadDigitsCSV(path string, maxSamples int, seed uint64) (*Tabular, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open digits csv")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = DigitPixels + 1
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		return nil, errors.Wrapf(err, "%s: read header", path)
	}

	var pixels []float64
	var labels []int
	for row := 1; maxSamples == 0 || len(labels) < maxSamples; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d", path, row)
		}

		label, err := strconv.Atoi(record[0])
		if err != nil || label < 0 || label >= DigitClasses {
			return nil, errors.Errorf("%s: invalid label %q at row %d", path, record[0], row)
		}
		labels = append(labels, label)

		for j, field := range record[1:] {
			pixel, err := strconv.Atoi(field)
			if err != nil || pixel < 0 || pixel > 255 {
				return nil, errors.Errorf("%s: invalid pixel %q at row %d, column %d", path, field, row, j+1)
			}
			pixels = append(pixels, float64(pixel)/255.0)
		}
	}
	if len(labels) == 0 {
		return nil, errors.Errorf("%s: no samples", path)
	}

	x := mat.NewDense(len(labels), DigitPixels, pixels)
	return NewTabular(x, tensor.OneHot(labels, DigitClasses), true, seed), nil
}

// SyntheticDigits creates an easy, fully offline stand-in for MNIST.
//
// Digit c is a bright horizontal band starting at image row 2c, plus uniform
// background noise. This is not realistic MNIST data; it exercises the same
// shapes and training code without downloading anything.
func SyntheticDigits(train, validation int, seed uint64) *Digits {
	rng := rand.New(tensor.NewSource(seed))
	generate := func(n int) (*mat.Dense, *mat.Dense) {
		x := mat.NewDense(n, DigitPixels, nil)
		labels := make([]int, n)
		for i := 0; i < n; i++ {
			digit := i % DigitClasses
			labels[i] = digit
			row := x.RawRowView(i)
			for j := range row {
				row[j] = 0.3 * rng.Float64()
			}
			for r := 2 * digit; r < 2*digit+8 && r < 28; r++ {
				for c := 5; c < 23; c++ {
					row[r*28+c] = 0.8 + 0.2*rng.Float64()
				}
			}
		}
		return x, tensor.OneHot(labels, DigitClasses)
	}

	trainX, trainY := generate(train)
	validX, validY := generate(validation)
	return &Digits{
		Train:      NewTabular(trainX, trainY, true, seed),
		Validation: NewTabular(validX, validY, false, seed),
	}
}
