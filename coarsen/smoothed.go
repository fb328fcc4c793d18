// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coarsen

import (
	"math"

	"github.com/ezhangle/go-amgcl/crs"
)

type smoothedAggregationStrategy struct{}

func (smoothedAggregationStrategy) Coarsen(a *crs.Matrix, params Params) (p, r, ac *crs.Matrix, err error) {
	params = params.withDefaults()
	aggr, naggr := aggregate(a, params.AggregationTheta)
	tentative := tentativeProlongator(a, aggr, naggr)

	af := filterWeak(a, params.AggregationTheta)
	omega := smoothingOmega(af)

	p = smoothProlongator(af, tentative, omega)
	p, r, ac = galerkin(p, a)
	return p, r, ac, nil
}

// filterWeak returns A with off-diagonal entries that fail the symmetric
// strength test zeroed out (spec section 4.2(c), "A_f is A with weak
// off-diagonal entries filtered out (same θ test)").
func filterWeak(a *crs.Matrix, theta float64) *crs.Matrix {
	n, _ := a.Dims()
	diag := a.Diag()
	theta2 := theta * theta
	col, val := a.Col(), a.Val()
	b := crs.NewBuilder(n, n)
	for i := 0; i < n; i++ {
		s, e := a.RowRange(i)
		aii := diag[i]
		for k := s; k < e; k++ {
			j := col[k]
			if j == i {
				b.Add(i, j, val[k])
				continue
			}
			aij := val[k]
			ajj := diag[j]
			if aij*aij >= theta2*aii*ajj {
				b.Add(i, j, aij)
			}
		}
	}
	return b.Build()
}

// smoothingOmega estimates ω ≈ 4/(3·ρ(D^-1·A_f)) via a handful of power
// iterations (spec section 4.2(c)).
func smoothingOmega(af *crs.Matrix) float64 {
	n, _ := af.Dims()
	diag := af.Diag()
	invDiag := make([]float64, n)
	for i, d := range diag {
		if d != 0 {
			invDiag[i] = 1 / d
		}
	}

	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	normalizeVec(v)

	rho := 0.0
	w := make([]float64, n)
	for it := 0; it < 10; it++ {
		spmvPlain(af, v, w)
		for i := range w {
			w[i] *= invDiag[i]
		}
		rho = normVec(w)
		if rho == 0 {
			return 4.0 / 3.0
		}
		for i := range w {
			v[i] = w[i] / rho
		}
	}
	if rho == 0 {
		rho = 1
	}
	return 4.0 / (3.0 * rho)
}

func spmvPlain(a *crs.Matrix, x, dst []float64) {
	col, val := a.Col(), a.Val()
	n, _ := a.Dims()
	for i := 0; i < n; i++ {
		s, e := a.RowRange(i)
		var sum float64
		for k := s; k < e; k++ {
			sum += val[k] * x[col[k]]
		}
		dst[i] = sum
	}
}

func normalizeVec(v []float64) {
	nrm := normVec(v)
	if nrm == 0 {
		return
	}
	for i := range v {
		v[i] /= nrm
	}
}

func normVec(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

// smoothProlongator computes P = (I - ω D^-1 A_f) P̂ row by row (spec
// section 4.2(c)).
func smoothProlongator(af, tentative *crs.Matrix, omega float64) *crs.Matrix {
	afp := crs.MatMul(af, tentative)
	n, m := tentative.Dims()
	diag := af.Diag()

	b := crs.NewBuilder(n, m)
	tcol, tval := tentative.Col(), tentative.Val()
	acol, aval := afp.Col(), afp.Val()
	for i := 0; i < n; i++ {
		var invDii float64
		if diag[i] != 0 {
			invDii = 1 / diag[i]
		}
		ts, te := tentative.RowRange(i)
		for k := ts; k < te; k++ {
			b.Add(i, tcol[k], tval[k])
		}
		as, ae := afp.RowRange(i)
		for k := as; k < ae; k++ {
			b.Add(i, acol[k], -omega*invDii*aval[k])
		}
	}
	return b.Build()
}
