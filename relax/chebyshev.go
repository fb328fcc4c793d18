// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relax

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/crs"
)

// chebyshevStrategy implements the degree-d Chebyshev polynomial smoother
// (spec section 4.3). Setup estimates the spectral radius of D^-1*A by
// power iteration and derives the interval [lo, hi] = [lambda_hi/30,
// 1.1*lambda_hi] that the smoother's residual polynomial is optimal over;
// Apply runs the three-term Chebyshev semi-iteration for degree sweeps,
// recomputing the residual explicitly at each step rather than updating it
// algebraically (same preference for recomputed residuals as krylov's
// BiCGStab, see SPEC_FULL.md section 9.a).
type chebyshevStrategy struct {
	degree     int
	powerIters int
}

func (c chebyshevStrategy) Setup(a *crs.Matrix) (State, error) {
	n, _ := a.Dims()
	diag := a.Diag()
	invDiag := make([]float64, n)
	for i, d := range diag {
		if d != 0 {
			invDiag[i] = 1 / d
		}
	}

	hi := estimateSpectralRadius(a, invDiag, c.powerIters)
	if hi <= 0 {
		hi = 1
	}
	return &chebyshevState{
		n:       n,
		degree:  c.degree,
		invDiag: invDiag,
		lo:      hi / 30,
		hi:      1.1 * hi,
	}, nil
}

// estimateSpectralRadius estimates the dominant eigenvalue magnitude of
// D^-1*A by power iteration, starting from the all-ones vector.
func estimateSpectralRadius(a *crs.Matrix, invDiag []float64, iters int) float64 {
	n := len(invDiag)
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	normalize(v)

	w := make([]float64, n)
	av := mat.NewVecDense(n, v)
	aw := mat.NewVecDense(n, w)
	var lambda float64
	for it := 0; it < iters; it++ {
		a.SpMV(1, av, 0, aw, false)
		for i := 0; i < n; i++ {
			w[i] = aw.AtVec(i) * invDiag[i]
		}
		lambda = norm(w)
		if lambda == 0 {
			return 0
		}
		for i := range w {
			v[i] = w[i] / lambda
		}
		av = mat.NewVecDense(n, append([]float64(nil), v...))
	}
	return lambda
}

func normalize(v []float64) {
	nrm := norm(v)
	if nrm == 0 {
		return
	}
	for i := range v {
		v[i] /= nrm
	}
}

func norm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

type chebyshevState struct {
	n       int
	degree  int
	invDiag []float64
	lo, hi  float64
}

// Apply runs the three-term Chebyshev semi-iteration in D^-1*A: lo/hi
// bound the spectrum of D^-1*A (Setup), so each step must precondition
// the explicit residual by D^-1 before feeding it into the recurrence,
// not run the polynomial directly in A.
func (s *chebyshevState) Apply(a *crs.Matrix, x, b, scratch *mat.VecDense) {
	checkShapes(s.n, x, b, scratch)
	n := s.n
	theta := (s.hi + s.lo) / 2
	delta := (s.hi - s.lo) / 2
	sigma := theta / delta
	rho := 1 / sigma

	z := make([]float64, n)
	preconditionedResidual(a, x, b, scratch, s.invDiag, z)

	p := make([]float64, n)
	for i := range p {
		p[i] = z[i] / theta
	}
	for i := 0; i < n; i++ {
		x.SetVec(i, x.AtVec(i)+p[i])
	}

	for k := 1; k < s.degree; k++ {
		rho2 := 1 / (2*sigma - rho)
		preconditionedResidual(a, x, b, scratch, s.invDiag, z)
		for i := 0; i < n; i++ {
			p[i] = rho*rho2*p[i] + (2*rho2/delta)*z[i]
		}
		for i := 0; i < n; i++ {
			x.SetVec(i, x.AtVec(i)+p[i])
		}
		rho = rho2
	}
}

// preconditionedResidual computes z = D^-1*(b - A*x), leaving the
// unscaled residual in scratch and the D^-1-scaled result in z.
func preconditionedResidual(a *crs.Matrix, x, b, scratch *mat.VecDense, invDiag []float64, z []float64) {
	a.SpMV(-1, x, 0, scratch, false)
	scratch.AddVec(scratch, b)
	for i := range z {
		z[i] = scratch.AtVec(i) * invDiag[i]
	}
}
