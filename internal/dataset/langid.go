package dataset

import (
	"encoding/csv"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/autodiff"
	"github.com/born-ml/gradlab/internal/tensor"
)

// SequenceBatch holds same-length words as one (batch x numChars) one-hot
// matrix per character position, plus (batch x languages) one-hot labels.
type SequenceBatch struct {
	Xs []autodiff.Node
	Y  *autodiff.Constant
}

// Size returns the number of words in the batch.
func (b SequenceBatch) Size() int {
	return b.Y.Shape().Rows
}

// SequenceScorer is a model that maps a character sequence batch to
// (batch x languages) scores.
type SequenceScorer interface {
	Run(xs []autodiff.Node) autodiff.Node
}

// LabeledWord is a word and the language it belongs to.
type LabeledWord struct {
	Word     string
	Language string
}

type encodedWord struct {
	chars []int
	label int
}

// LanguageID is a word-level language identification dataset.
//
// The alphabet is the sorted set of characters seen in the training and
// validation words; languages are sorted by name. Words are lower-cased.
type LanguageID struct {
	alphabet   []rune
	charIndex  map[rune]int
	languages  []string
	train      []encodedWord
	validation []encodedWord
	sampler    *Sampler
}

// NewLanguageID builds a dataset from labelled words. Batches drawn from the
// training words are shuffled with seed.
func NewLanguageID(train, validation []LabeledWord, seed uint64) (*LanguageID, error) {
	if len(train) == 0 {
		return nil, errors.New("language id: no training words")
	}

	charSet := make(map[rune]struct{})
	langSet := make(map[string]struct{})
	for _, words := range [][]LabeledWord{train, validation} {
		for _, w := range words {
			if w.Word == "" {
				return nil, errors.Errorf("language id: empty word for language %q", w.Language)
			}
			for _, r := range strings.ToLower(w.Word) {
				charSet[r] = struct{}{}
			}
			langSet[w.Language] = struct{}{}
		}
	}

	d := &LanguageID{
		charIndex: make(map[rune]int, len(charSet)),
		sampler:   NewSampler(0, true, seed),
	}
	for r := range charSet {
		d.alphabet = append(d.alphabet, r)
	}
	slices.Sort(d.alphabet)
	for i, r := range d.alphabet {
		d.charIndex[r] = i
	}
	for lang := range langSet {
		d.languages = append(d.languages, lang)
	}
	slices.Sort(d.languages)

	d.train = d.encodeAll(train)
	d.validation = d.encodeAll(validation)
	return d, nil
}

// LoadLanguageID reads lang_id_train.tsv and lang_id_dev.tsv from dir.
// Each line is "word<TAB>language".
func LoadLanguageID(dir string, seed uint64) (*LanguageID, error) {
	train, err := readLabeledWords(filepath.Join(dir, "lang_id_train.tsv"))
	if err != nil {
		return nil, err
	}
	validation, err := readLabeledWords(filepath.Join(dir, "lang_id_dev.tsv"))
	if err != nil {
		return nil, err
	}
	return NewLanguageID(train, validation, seed)
}

func readLabeledWords(path string) ([]LabeledWord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open language file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	reader.FieldsPerRecord = 2
	reader.LazyQuotes = true

	var words []LabeledWord
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		words = append(words, LabeledWord{
			Word:     strings.TrimSpace(record[0]),
			Language: strings.TrimSpace(record[1]),
		})
	}
	return words, nil
}

// NumChars returns the size of the alphabet.
func (d *LanguageID) NumChars() int {
	return len(d.alphabet)
}

// Alphabet returns the characters in one-hot column order.
func (d *LanguageID) Alphabet() []rune {
	return slices.Clone(d.alphabet)
}

// Languages returns the language names in label column order.
func (d *LanguageID) Languages() []string {
	return slices.Clone(d.languages)
}

// Len returns the number of training words.
func (d *LanguageID) Len() int {
	return len(d.train)
}

// Encode converts same-length words to one one-hot (len(words) x NumChars)
// constant per character position.
func (d *LanguageID) Encode(words []string) ([]autodiff.Node, error) {
	if len(words) == 0 {
		return nil, errors.New("encode: no words")
	}
	encoded := make([]encodedWord, len(words))
	for i, w := range words {
		chars, err := d.encodeChars(strings.ToLower(w))
		if err != nil {
			return nil, err
		}
		if len(chars) == 0 {
			return nil, errors.New("encode: empty word")
		}
		if i > 0 && len(chars) != len(encoded[0].chars) {
			return nil, errors.Errorf("encode: word %q has length %d, want %d", w, len(chars), len(encoded[0].chars))
		}
		encoded[i] = encodedWord{chars: chars}
	}
	return d.sequence(encoded), nil
}

// IterateOnce yields one pass over the training words. Words are grouped by
// length so every batch holds words of a single length; batch order and
// batch membership are shuffled.
func (d *LanguageID) IterateOnce(batchSize int) iter.Seq[SequenceBatch] {
	if batchSize <= 0 {
		panic("dataset.LanguageID.IterateOnce: batch size must be > 0")
	}

	var batches [][]int
	for _, bucket := range bucketByLength(d.train) {
		d.sampler.Shuffle(bucket)
		for start := 0; start < len(bucket); start += batchSize {
			batches = append(batches, bucket[start:min(start+batchSize, len(bucket))])
		}
	}
	order := make([]int, len(batches))
	for i := range order {
		order[i] = i
	}
	d.sampler.Shuffle(order)

	return func(yield func(SequenceBatch) bool) {
		for _, b := range order {
			if !yield(d.batch(d.train, batches[b])) {
				return
			}
		}
	}
}

// ValidationAccuracy returns the fraction of validation words s assigns to
// the right language.
func (d *LanguageID) ValidationAccuracy(s SequenceScorer) float64 {
	if len(d.validation) == 0 {
		return 0
	}
	correct := 0
	for _, bucket := range bucketByLength(d.validation) {
		for start := 0; start < len(bucket); start += validationBatchSize {
			batch := d.batch(d.validation, bucket[start:min(start+validationBatchSize, len(bucket))])
			predicted := tensor.ArgMaxRows(s.Run(batch.Xs).Value())
			for i, label := range tensor.ArgMaxRows(batch.Y.Value()) {
				if predicted[i] == label {
					correct++
				}
			}
		}
	}
	return float64(correct) / float64(len(d.validation))
}

func (d *LanguageID) encodeAll(words []LabeledWord) []encodedWord {
	out := make([]encodedWord, len(words))
	for i, w := range words {
		// Every character was added to the alphabet by NewLanguageID.
		chars, _ := d.encodeChars(strings.ToLower(w.Word))
		label, _ := slices.BinarySearch(d.languages, w.Language)
		out[i] = encodedWord{chars: chars, label: label}
	}
	return out
}

func (d *LanguageID) encodeChars(word string) ([]int, error) {
	chars := make([]int, 0, len(word))
	for _, r := range word {
		idx, ok := d.charIndex[r]
		if !ok {
			return nil, errors.Errorf("encode: character %q not in alphabet", r)
		}
		chars = append(chars, idx)
	}
	return chars, nil
}

func (d *LanguageID) batch(words []encodedWord, indices []int) SequenceBatch {
	selected := make([]encodedWord, len(indices))
	labels := make([]int, len(indices))
	for k, idx := range indices {
		selected[k] = words[idx]
		labels[k] = words[idx].label
	}
	return SequenceBatch{
		Xs: d.sequence(selected),
		Y:  autodiff.NewConstant(tensor.OneHot(labels, len(d.languages))),
	}
}

// sequence builds one one-hot matrix per character position. All words must
// have the same length.
func (d *LanguageID) sequence(words []encodedWord) []autodiff.Node {
	length := len(words[0].chars)
	xs := make([]autodiff.Node, length)
	for pos := range xs {
		m := mat.NewDense(len(words), len(d.alphabet), nil)
		for i, w := range words {
			m.Set(i, w.chars[pos], 1)
		}
		xs[pos] = autodiff.NewConstant(m)
	}
	return xs
}

// bucketByLength groups word indices by word length, shortest first.
func bucketByLength(words []encodedWord) [][]int {
	byLength := make(map[int][]int)
	for i, w := range words {
		byLength[len(w.chars)] = append(byLength[len(w.chars)], i)
	}
	lengths := make([]int, 0, len(byLength))
	for l := range byLength {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)

	buckets := make([][]int, len(lengths))
	for i, l := range lengths {
		buckets[i] = byLength[l]
	}
	return buckets
}
