// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relax

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/crs"
)

// gsStrategy implements (symmetric) Gauss-Seidel (spec section 4.3). Setup
// only verifies that the diagonal is non-zero; Apply walks A's own CRS
// rows directly rather than caching a copy of the diagonal, since a GS
// sweep needs every entry of the row, not just the diagonal.
type gsStrategy struct {
	symmetric bool
}

func (g gsStrategy) Setup(a *crs.Matrix) (State, error) {
	n, _ := a.Dims()
	diag := a.Diag()
	for i := 0; i < n; i++ {
		if diag[i] == 0 {
			return nil, ErrSingularDiagonal
		}
	}
	return &gsState{n: n, symmetric: g.symmetric}, nil
}

type gsState struct {
	n         int
	symmetric bool
}

func (s *gsState) Apply(a *crs.Matrix, x, b, scratch *mat.VecDense) {
	checkShapes(s.n, x, b, scratch)
	sweepForward(a, x, b)
	if s.symmetric {
		sweepBackward(a, x, b)
	}
}

// sweepForward performs x_i <- (b_i - sum_{j<i} a_ij x_j - sum_{j>i} a_ij x_j) / a_ii
// for i=0..n-1, using the most recently updated x values (spec section 4.3).
func sweepForward(a *crs.Matrix, x, b *mat.VecDense) {
	n, _ := a.Dims()
	col, val := a.Col(), a.Val()
	for i := 0; i < n; i++ {
		s, e := a.RowRange(i)
		sum := b.AtVec(i)
		var aii float64
		for k := s; k < e; k++ {
			j := col[k]
			if j == i {
				aii = val[k]
				continue
			}
			sum -= val[k] * x.AtVec(j)
		}
		x.SetVec(i, sum/aii)
	}
}

func sweepBackward(a *crs.Matrix, x, b *mat.VecDense) {
	n, _ := a.Dims()
	col, val := a.Col(), a.Val()
	for i := n - 1; i >= 0; i-- {
		s, e := a.RowRange(i)
		sum := b.AtVec(i)
		var aii float64
		for k := s; k < e; k++ {
			j := col[k]
			if j == i {
				aii = val[k]
				continue
			}
			sum -= val[k] * x.AtVec(j)
		}
		x.SetVec(i, sum/aii)
	}
}
