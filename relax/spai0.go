// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relax

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/crs"
)

// spai0Strategy implements the sparsity-pattern-zero approximate inverse
// (SPAI(0)) smoother (spec section 4.3): M is diagonal with
//
//	M_ii = a_ii / sum_j a_ij^2
//
// A row with all-zero entries (and hence a_ii == 0) yields M_ii = 0 rather
// than an error: unlike Jacobi/Gauss-Seidel/ILU(0), SPAI(0) tolerates a
// singular diagonal (spec section 8, scenario 5).
type spai0Strategy struct{}

func (spai0Strategy) Setup(a *crs.Matrix) (State, error) {
	n, _ := a.Dims()
	val := a.Val()
	diag := a.Diag()
	m := make([]float64, n)
	for i := 0; i < n; i++ {
		s, e := a.RowRange(i)
		var sumSq float64
		for k := s; k < e; k++ {
			sumSq += val[k] * val[k]
		}
		if sumSq != 0 {
			m[i] = diag[i] / sumSq
		}
	}
	return &spai0State{n: n, m: m}, nil
}

type spai0State struct {
	n int
	m []float64
}

func (s *spai0State) Apply(a *crs.Matrix, x, b, scratch *mat.VecDense) {
	checkShapes(s.n, x, b, scratch)
	a.SpMV(-1, x, 0, scratch, false)
	scratch.AddVec(scratch, b) // scratch = b - A*x
	for i := 0; i < s.n; i++ {
		x.SetVec(i, x.AtVec(i)+s.m[i]*scratch.AtVec(i))
	}
}
