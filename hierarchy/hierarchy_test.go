// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hierarchy

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/coarsen"
	"github.com/ezhangle/go-amgcl/crs"
	"github.com/ezhangle/go-amgcl/relax"
)

func poisson1D(n int) *crs.Matrix {
	b := crs.NewBuilder(n, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.Add(i, i-1, -1)
		}
		b.Add(i, i, 2)
		if i < n-1 {
			b.Add(i, i+1, -1)
		}
	}
	return b.Build()
}

func residualNorm(a *crs.Matrix, x, b *mat.VecDense) float64 {
	n := x.Len()
	r := mat.NewVecDense(n, nil)
	a.SpMV(-1, x, 0, r, false)
	r.AddVec(r, b)
	var s float64
	for i := 0; i < n; i++ {
		s += r.AtVec(i) * r.AtVec(i)
	}
	return s
}

func TestBuildReducesProblemSize(t *testing.T) {
	a := poisson1D(200)
	h, err := Build(a, Params{
		Coarsening:    coarsen.SmoothedAggregation,
		CoarsenParams: coarsen.Params{NMin: 20},
		RelaxKind:     relax.DampedJacobi,
	})
	if err != nil && err != ErrCoarseningStagnated {
		t.Fatal(err)
	}
	if h.Levels() < 2 {
		t.Fatalf("expected multiple levels, got %d", h.Levels())
	}
}

func TestApplyAsPreconditionerReducesResidual(t *testing.T) {
	n := 200
	a := poisson1D(n)
	h, err := Build(a, Params{
		Coarsening:    coarsen.Aggregation,
		CoarsenParams: coarsen.Params{NMin: 20},
		RelaxKind:     relax.DampedJacobi,
	})
	if err != nil && err != ErrCoarseningStagnated {
		t.Fatal(err)
	}

	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		b.SetVec(i, 1)
	}
	x := mat.NewVecDense(n, nil)
	z := mat.NewVecDense(n, nil)

	before := residualNorm(a, x, b)
	for iter := 0; iter < 15; iter++ {
		r := mat.NewVecDense(n, nil)
		a.SpMV(-1, x, 0, r, false)
		r.AddVec(r, b)
		h.Apply(r, z)
		x.AddVec(x, z)
	}
	after := residualNorm(a, x, b)
	if after >= before*1e-4 {
		t.Errorf("V-cycle iteration did not reduce residual enough: before=%v after=%v", before, after)
	}
}

func TestApplyIdempotentForFixedInput(t *testing.T) {
	n := 100
	a := poisson1D(n)
	h, err := Build(a, Params{
		Coarsening:    coarsen.Aggregation,
		CoarsenParams: coarsen.Params{NMin: 20},
		RelaxKind:     relax.DampedJacobi,
	})
	if err != nil && err != ErrCoarseningStagnated {
		t.Fatal(err)
	}

	r := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		r.SetVec(i, float64(i%7)-3)
	}

	z1 := mat.NewVecDense(n, nil)
	z2 := mat.NewVecDense(n, nil)
	h.Apply(r, z1)
	h.Apply(r, z2)

	for i := 0; i < n; i++ {
		if z1.AtVec(i) != z2.AtVec(i) {
			t.Fatalf("Apply not idempotent at index %d: %v != %v", i, z1.AtVec(i), z2.AtVec(i))
		}
	}
}

// TestSymmetricOperator checks spec section 8's symmetry invariant for an
// SPD matrix with a symmetric smoother and R = Pᵀ: ⟨Mx,y⟩ = ⟨x,My⟩.
func TestSymmetricOperator(t *testing.T) {
	n := 64
	a := poisson1D(n)
	h, err := Build(a, Params{
		Coarsening:    coarsen.Aggregation,
		CoarsenParams: coarsen.Params{NMin: 10},
		RelaxKind:     relax.GaussSeidel,
		RelaxParams:   relax.Params{SymmetricGS: true},
	})
	if err != nil && err != ErrCoarseningStagnated {
		t.Fatal(err)
	}

	x := mat.NewVecDense(n, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.SetVec(i, float64(i+1))
		y.SetVec(i, float64(n-i))
	}

	mx := mat.NewVecDense(n, nil)
	my := mat.NewVecDense(n, nil)
	h.Apply(x, mx)
	h.Apply(y, my)

	lhs := mat.Dot(mx, y)
	rhs := mat.Dot(x, my)
	if !floats.EqualWithinAbsOrRel(lhs, rhs, 1e-6, 1e-6) {
		t.Errorf("hierarchy operator not symmetric: <Mx,y>=%v <x,My>=%v", lhs, rhs)
	}
}

func TestBuildStopsAtCoarsestForSmallMatrix(t *testing.T) {
	a := poisson1D(10)
	h, err := Build(a, Params{
		Coarsening:    coarsen.Aggregation,
		CoarsenParams: coarsen.Params{NMin: 500},
		RelaxKind:     relax.DampedJacobi,
	})
	if err != nil && err != ErrCoarseningStagnated {
		t.Fatal(err)
	}
	if h.Levels() != 1 {
		t.Fatalf("expected a single (coarsest-only) level for a small matrix, got %d", h.Levels())
	}

	n := 10
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		b.SetVec(i, 1)
	}
	x := mat.NewVecDense(n, nil)
	h.Apply(b, x)

	r := mat.NewVecDense(n, nil)
	a.SpMV(-1, x, 0, r, false)
	r.AddVec(r, b)
	if residualNorm(a, x, b) > 1e-16 {
		t.Errorf("direct solve at coarsest level should be near-exact, residual^2=%v", residualNorm(a, x, b))
	}
}
