// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over
// 2-D float64 matrices.
//
// A computation is built from Parameters (trainable weights), Constants
// (inputs and labels) and operations such as Linear, AddBias, ReLU and the
// losses. Gradients walks the graph backwards from a 1×1 loss node.
//
// Example:
//
//	import (
//	    "github.com/born-ml/gradlab/autodiff"
//	    "github.com/born-ml/gradlab/tensor"
//	)
//
//	func main() {
//	    w := autodiff.NewParameter("w", 3, 1, tensor.NewSource(1))
//	    x := autodiff.NewConstant(tensor.FromRows([][]float64{{1, 2, 3}}))
//	    y := autodiff.NewConstant(tensor.FromRows([][]float64{{1}}))
//
//	    loss := autodiff.SquareLoss(autodiff.Linear(x, w), y)
//	    grads := autodiff.Gradients(loss, w)
//	    w.Update(grads[0], -0.1)
//	}
package autodiff
