package autodiff

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/gradlab/internal/tensor"
)

// Parameter represents a trainable weight matrix.
//
// A Parameter is owned by exactly one model and is updated in place by
// gradient-descent steps.
type Parameter struct {
	name string
	data *mat.Dense
}

// NewParameter creates a (rows x cols) parameter with uniform random
// initialization (see tensor.Uniform).
func NewParameter(name string, rows, cols int, src rand.Source) *Parameter {
	return &Parameter{
		name: name,
		data: tensor.Uniform(rows, cols, src),
	}
}

// NewParameterFrom creates a parameter holding a copy of data.
func NewParameterFrom(name string, data mat.Matrix) *Parameter {
	return &Parameter{
		name: name,
		data: tensor.Clone(data),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter data.
func (p *Parameter) Value() *mat.Dense {
	return p.data
}

// Shape returns the parameter shape.
func (p *Parameter) Shape() tensor.Shape {
	return tensor.ShapeOf(p.data)
}

// Update applies data += multiplier * direction in place.
//
// direction must have the same shape as the parameter. Gradient descent
// passes a gradient and a negative learning rate; the perceptron passes a
// misclassified example and its label.
func (p *Parameter) Update(direction Node, multiplier float64) {
	if !direction.Shape().Equal(p.Shape()) {
		panic(fmt.Sprintf("autodiff.Parameter.Update: %s: direction shape %s, want %s",
			p.name, direction.Shape(), p.Shape()))
	}
	var scaled mat.Dense
	scaled.Scale(multiplier, direction.Value())
	p.data.Add(p.data, &scaled)
}

func (p *Parameter) inputs() []Node { return nil }

func (p *Parameter) backward(*mat.Dense) []*mat.Dense { return nil }

// Constant is an immutable matrix: input features, labels or a gradient.
type Constant struct {
	data *mat.Dense
}

// NewConstant wraps data as a graph constant. The matrix is not copied.
func NewConstant(data *mat.Dense) *Constant {
	return &Constant{data: data}
}

// Value returns the constant's data.
func (c *Constant) Value() *mat.Dense {
	return c.data
}

// Shape returns the constant's shape.
func (c *Constant) Shape() tensor.Shape {
	return tensor.ShapeOf(c.data)
}

func (c *Constant) inputs() []Node { return nil }

func (c *Constant) backward(*mat.Dense) []*mat.Dense { return nil }
