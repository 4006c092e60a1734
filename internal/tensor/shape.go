package tensor

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Shape represents the dimensions of a 2-D tensor.
type Shape struct {
	Rows int
	Cols int
}

// ShapeOf returns the shape of m.
func ShapeOf(m mat.Matrix) Shape {
	r, c := m.Dims()
	return Shape{Rows: r, Cols: c}
}

// NumElements returns the total number of elements.
func (s Shape) NumElements() int {
	return s.Rows * s.Cols
}

// Validate checks if the shape is valid (both dimensions > 0).
func (s Shape) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return errors.Errorf("invalid shape %s (dimensions must be > 0)", s)
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	return s.Rows == other.Rows && s.Cols == other.Cols
}

// IsScalar reports whether the shape is 1×1.
func (s Shape) IsScalar() bool {
	return s.Rows == 1 && s.Cols == 1
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d x %d)", s.Rows, s.Cols)
}
