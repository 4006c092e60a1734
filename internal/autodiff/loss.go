package autodiff

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/tensor"
)

// SquareLossOp computes the mean of (a-b)²/2 over every entry.
//
// Backward pass (n = number of entries):
//   - grad_a = outputGrad * (a - b) / n
//   - grad_b = -grad_a
type SquareLossOp struct {
	operation
}

// SquareLoss returns a (1 x 1) node holding the mean half squared error
// between two same-shaped nodes.
func SquareLoss(a, b Node) *SquareLossOp {
	checkSameShape("SquareLoss", a, b)
	var diff mat.Dense
	diff.Sub(a.Value(), b.Value())

	n := float64(a.Shape().NumElements())
	var total float64
	rows, _ := diff.Dims()
	for i := 0; i < rows; i++ {
		for _, v := range diff.RawRowView(i) {
			total += v * v / 2
		}
	}

	value := mat.NewDense(1, 1, []float64{total / n})
	return &SquareLossOp{operation{in: []Node{a, b}, value: value}}
}

func (op *SquareLossOp) backward(outputGrad *mat.Dense) []*mat.Dense {
	a, b := op.in[0].Value(), op.in[1].Value()
	scale := outputGrad.At(0, 0) / float64(op.in[0].Shape().NumElements())

	var gradA, gradB mat.Dense
	gradA.Sub(a, b)
	gradA.Scale(scale, &gradA)
	gradB.Scale(-1, &gradA)

	return []*mat.Dense{&gradA, &gradB}
}

// SoftmaxLossOp computes the batch mean of the cross-entropy between
// softmax(logits) and the label distribution of each row.
//
// Backward pass (batch = number of rows):
//   - grad_logits = outputGrad * (softmax(logits) - labels) / batch
//   - grad_labels = outputGrad * -log softmax(logits) / batch
type SoftmaxLossOp struct {
	operation
	logProbs *mat.Dense
}

// SoftmaxLoss returns a (1 x 1) node holding the softmax cross-entropy of
// (batch x classes) logits against labels of the same shape.
//
// Every label row must be a probability distribution (non-negative entries
// summing to 1), typically a one-hot vector.
func SoftmaxLoss(logits, labels Node) *SoftmaxLossOp {
	checkSameShape("SoftmaxLoss", logits, labels)
	checkDistributionRows(labels.Value())

	lse := tensor.LogSumExpRows(logits.Value())
	var logProbs mat.Dense
	logProbs.Apply(func(i, _ int, v float64) float64 {
		return v - lse[i]
	}, logits.Value())

	var weighted mat.Dense
	weighted.MulElem(labels.Value(), &logProbs)
	batch := float64(logits.Shape().Rows)

	value := mat.NewDense(1, 1, []float64{-tensor.Sum(&weighted) / batch})
	return &SoftmaxLossOp{
		operation: operation{in: []Node{logits, labels}, value: value},
		logProbs:  &logProbs,
	}
}

func (op *SoftmaxLossOp) backward(outputGrad *mat.Dense) []*mat.Dense {
	labels := op.in[1].Value()
	scale := outputGrad.At(0, 0) / float64(op.in[0].Shape().Rows)

	var gradLogits mat.Dense
	gradLogits.Apply(func(i, j int, lp float64) float64 {
		return scale * (math.Exp(lp) - labels.At(i, j))
	}, op.logProbs)

	var gradLabels mat.Dense
	gradLabels.Scale(-scale, op.logProbs)

	return []*mat.Dense{&gradLogits, &gradLabels}
}

func checkDistributionRows(labels *mat.Dense) {
	rows, _ := labels.Dims()
	for i := 0; i < rows; i++ {
		var sum float64
		for _, v := range labels.RawRowView(i) {
			if v < 0 {
				panic(fmt.Sprintf("autodiff.SoftmaxLoss: label row %d has negative entry %g", i, v))
			}
			sum += v
		}
		if math.Abs(sum-1) > 1e-6 {
			panic(fmt.Sprintf("autodiff.SoftmaxLoss: label row %d sums to %g, want 1", i, sum))
		}
	}
}
