// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relax

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/crs"
)

// ilu0Strategy implements ILU(0): an incomplete LU factorization that
// keeps A's own sparsity pattern, no fill-in (spec section 4.3). Setup runs
// Saad's in-place CSR factorization; Apply solves L*U*e = r by forward then
// backward substitution and adds e to x.
type ilu0Strategy struct{}

func (ilu0Strategy) Setup(a *crs.Matrix) (State, error) {
	n, _ := a.Dims()
	col := append([]int(nil), a.Col()...)
	ptr := a.Ptr()
	val := append([]float64(nil), a.Val()...)

	diagIdx := make([]int, n)
	for i := 0; i < n; i++ {
		s, e := ptr[i], ptr[i+1]
		pos, ok := findCol(col[s:e], i)
		if !ok {
			return nil, ErrSingularDiagonal
		}
		diagIdx[i] = s + pos
	}

	for i := 0; i < n; i++ {
		s, e := ptr[i], ptr[i+1]
		for kIdx := s; kIdx < e; kIdx++ {
			k := col[kIdx]
			if k >= i {
				break
			}
			pivot := val[diagIdx[k]]
			if pivot == 0 {
				return nil, ErrSingularDiagonal
			}
			val[kIdx] /= pivot
			aik := val[kIdx]

			_, ke := ptr[k], ptr[k+1]
			for jIdx := diagIdx[k] + 1; jIdx < ke; jIdx++ {
				j := col[jIdx]
				pos, ok := findCol(col[s:e], j)
				if ok {
					val[s+pos] -= aik * val[jIdx]
				}
			}
		}
		if val[diagIdx[i]] == 0 {
			return nil, ErrSingularDiagonal
		}
	}

	lb := crs.NewBuilder(n, n)
	ub := crs.NewBuilder(n, n)
	for i := 0; i < n; i++ {
		s, e := ptr[i], ptr[i+1]
		for k := s; k < e; k++ {
			j := col[k]
			switch {
			case j < i:
				lb.Add(i, j, val[k])
			default:
				ub.Add(i, j, val[k])
			}
		}
	}

	return &ilu0State{n: n, l: lb.Build(), u: ub.Build()}, nil
}

// findCol returns the offset within the ascending slice cols where value c
// appears, and whether it was found.
func findCol(cols []int, c int) (int, bool) {
	i := sort.SearchInts(cols, c)
	if i < len(cols) && cols[i] == c {
		return i, true
	}
	return 0, false
}

type ilu0State struct {
	n    int
	l, u *crs.Matrix
}

func (s *ilu0State) Apply(a *crs.Matrix, x, b, scratch *mat.VecDense) {
	checkShapes(s.n, x, b, scratch)
	a.SpMV(-1, x, 0, scratch, false)
	scratch.AddVec(scratch, b) // scratch = b - A*x = r

	y := make([]float64, s.n)
	// Forward solve L*y = r, L has implicit unit diagonal.
	for i := 0; i < s.n; i++ {
		sum := scratch.AtVec(i)
		ls, le := s.l.RowRange(i)
		col, val := s.l.Col(), s.l.Val()
		for k := ls; k < le; k++ {
			sum -= val[k] * y[col[k]]
		}
		y[i] = sum
	}
	// Backward solve U*e = y, U carries the diagonal explicitly.
	e := make([]float64, s.n)
	for i := s.n - 1; i >= 0; i-- {
		sum := y[i]
		us, ue := s.u.RowRange(i)
		col, val := s.u.Col(), s.u.Val()
		var uii float64
		for k := us; k < ue; k++ {
			j := col[k]
			if j == i {
				uii = val[k]
				continue
			}
			sum -= val[k] * e[j]
		}
		e[i] = sum / uii
	}
	for i := 0; i < s.n; i++ {
		x.SetVec(i, x.AtVec(i)+e[i])
	}
}
