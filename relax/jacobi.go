// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relax

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/crs"
)

// jacobiStrategy implements damped Jacobi (spec section 4.3):
//
//	x <- x + omega * D^-1 * (b - A*x)
type jacobiStrategy struct {
	omega float64
}

func (j jacobiStrategy) Setup(a *crs.Matrix) (State, error) {
	n, _ := a.Dims()
	diag := a.Diag()
	invDiag := make([]float64, n)
	for i, d := range diag {
		if d == 0 {
			return nil, ErrSingularDiagonal
		}
		invDiag[i] = 1 / d
	}
	return &jacobiState{omega: j.omega, invDiag: invDiag}, nil
}

type jacobiState struct {
	omega   float64
	invDiag []float64
}

func (s *jacobiState) Apply(a *crs.Matrix, x, b, scratch *mat.VecDense) {
	n := len(s.invDiag)
	checkShapes(n, x, b, scratch)
	a.SpMV(-1, x, 0, scratch, false)
	scratch.AddVec(scratch, b) // scratch = b - A*x
	for i := 0; i < n; i++ {
		x.SetVec(i, x.AtVec(i)+s.omega*s.invDiag[i]*scratch.AtVec(i))
	}
}
