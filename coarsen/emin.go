// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coarsen

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/crs"
)

// eminStrategy implements smoothed aggregation with energy minimization
// (spec section 4.2(d)): instead of a single fixed smoothing weight ω,
// each prolongator column j is the closed-form minimizer of ||P_j||_A
// subject to a near-null-space (constant-vector) preservation constraint,
// solved over the column's sparsity pattern.
type eminStrategy struct{}

func (eminStrategy) Coarsen(a *crs.Matrix, params Params) (p, r, ac *crs.Matrix, err error) {
	params = params.withDefaults()
	aggr, naggr := aggregate(a, params.AggregationTheta)
	tentative := tentativeProlongator(a, aggr, naggr)

	af := filterWeak(a, params.AggregationTheta)
	support := smoothProlongator(af, tentative, smoothingOmega(af)).Transpose()

	aggrSize := make([]int, naggr)
	for _, j := range aggr {
		aggrSize[int(j)]++
	}

	n, _ := tentative.Dims()
	pb := crs.NewBuilder(n, naggr)
	col := support.Col()
	for j := 0; j < naggr; j++ {
		s, e := support.RowRange(j)
		pattern := append([]int(nil), col[s:e]...)
		x := eminColumn(a, pattern, aggr, int32(j), float64(aggrSize[j]))
		for idx, i := range pattern {
			if x[idx] != 0 {
				pb.Add(i, j, x[idx])
			}
		}
	}

	p = pb.Build()
	p, r, ac = galerkin(p, a)
	return p, r, ac, nil
}

// eminColumn solves minimize y^T A_sub y subject to e^T y = mass, over the
// principal submatrix of A induced by pattern, returning the scaled
// solution x = (mass / (e^T A_sub^-1 e)) A_sub^-1 e (the closed-form
// Lagrange-multiplier minimizer). If A_sub is singular the tentative
// indicator (1 inside the aggregate, 0 on the extended support) is
// returned instead.
func eminColumn(a *crs.Matrix, pattern []int, aggr []int32, j int32, mass float64) []float64 {
	m := len(pattern)
	if m == 0 {
		return nil
	}
	fallback := func() []float64 {
		x := make([]float64, m)
		for idx, i := range pattern {
			if aggr[i] == j {
				x[idx] = 1
			}
		}
		return x
	}

	sub := mat.NewDense(m, m, nil)
	for ii, i := range pattern {
		for jj, j := range pattern {
			sub.Set(ii, jj, a.At(i, j))
		}
	}
	ones := make([]float64, m)
	for i := range ones {
		ones[i] = 1
	}
	e := mat.NewVecDense(m, ones)
	y := mat.NewVecDense(m, nil)
	if err := y.SolveVec(sub, e); err != nil {
		return fallback()
	}

	denom := mat.Dot(e, y)
	if denom == 0 {
		return fallback()
	}
	scale := mass / denom
	x := make([]float64, m)
	for i := 0; i < m; i++ {
		x[i] = scale * y.AtVec(i)
	}
	return x
}
