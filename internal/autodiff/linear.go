package autodiff

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearOp represents a matrix product: output = features @ weights.
//
// Backward pass:
//   - grad_features = outputGrad @ weights^T
//   - grad_weights  = features^T @ outputGrad
type LinearOp struct {
	operation
}

// Linear multiplies (batch x in) features by (in x out) weights.
func Linear(features, weights Node) *LinearOp {
	fs, ws := features.Shape(), weights.Shape()
	if fs.Cols != ws.Rows {
		panic(fmt.Sprintf("autodiff.Linear: features %s incompatible with weights %s", fs, ws))
	}
	var out mat.Dense
	out.Mul(features.Value(), weights.Value())
	return &LinearOp{operation{in: []Node{features, weights}, value: &out}}
}

func (op *LinearOp) backward(outputGrad *mat.Dense) []*mat.Dense {
	features, weights := op.in[0].Value(), op.in[1].Value()

	var gradFeatures, gradWeights mat.Dense
	gradFeatures.Mul(outputGrad, weights.T())
	gradWeights.Mul(features.T(), outputGrad)

	return []*mat.Dense{&gradFeatures, &gradWeights}
}

// DotProductOp scores every row of features against a single weight row:
// output = features @ weights^T, shape (batch x 1).
//
// Backward pass:
//   - grad_features = outputGrad @ weights
//   - grad_weights  = outputGrad^T @ features
type DotProductOp struct {
	operation
}

// DotProduct computes the dot product of each (1 x d) row of features with
// the (1 x d) weights.
func DotProduct(features, weights Node) *DotProductOp {
	fs, ws := features.Shape(), weights.Shape()
	if ws.Rows != 1 || fs.Cols != ws.Cols {
		panic(fmt.Sprintf("autodiff.DotProduct: features %s incompatible with weights %s", fs, ws))
	}
	var out mat.Dense
	out.Mul(features.Value(), weights.Value().T())
	return &DotProductOp{operation{in: []Node{features, weights}, value: &out}}
}

func (op *DotProductOp) backward(outputGrad *mat.Dense) []*mat.Dense {
	features, weights := op.in[0].Value(), op.in[1].Value()

	var gradFeatures, gradWeights mat.Dense
	gradFeatures.Mul(outputGrad, weights)
	gradWeights.Mul(outputGrad.T(), features)

	return []*mat.Dense{&gradFeatures, &gradWeights}
}
