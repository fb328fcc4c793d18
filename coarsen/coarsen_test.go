// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coarsen

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/crs"
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

func checkCRSInvariants(t *testing.T, name string, m *crs.Matrix) {
	t.Helper()
	nr, nc := m.Dims()
	ptr := m.Ptr()
	if ptr[0] != 0 {
		t.Errorf("%s: ptr[0] = %d, want 0", name, ptr[0])
	}
	if ptr[nr] != m.NNZ() {
		t.Errorf("%s: ptr[nrows] = %d, want nnz %d", name, ptr[nr], m.NNZ())
	}
	for i := 0; i < nr; i++ {
		if ptr[i] > ptr[i+1] {
			t.Fatalf("%s: ptr not monotone at row %d", name, i)
		}
		s, e := m.RowRange(i)
		prev := -1
		for _, j := range m.Col()[s:e] {
			if j <= prev {
				t.Errorf("%s: row %d columns not strictly increasing", name, i)
			}
			if j < 0 || j >= nc {
				t.Errorf("%s: row %d column %d out of bounds [0,%d)", name, i, j, nc)
			}
			prev = j
		}
	}
}

func TestRugeStubenShapeAndGalerkin(t *testing.T) {
	a := poisson1D(40)
	p, r, ac, err := New(RugeStuben).Coarsen(a, Params{})
	if err != nil {
		t.Fatal(err)
	}
	checkCRSInvariants(t, "P", p)
	checkCRSInvariants(t, "R", r)
	checkCRSInvariants(t, "Ac", ac)

	nf, _ := a.Dims()
	pr, pc := p.Dims()
	rr, rc := r.Dims()
	acr, acc := ac.Dims()
	if pr != nf || rc != nf {
		t.Fatalf("P rows / R cols must equal fine rows: P=%v R=%v", p, r)
	}
	if pc != rr || acr != pc || acc != pc {
		t.Fatalf("coarse dimension mismatch: P cols=%d R rows=%d Ac=%dx%d", pc, rr, acr, acc)
	}
	if acr >= nf {
		t.Errorf("coarsening did not reduce problem size: %d -> %d", nf, acr)
	}
}

func TestAggregationShapeAndGalerkin(t *testing.T) {
	a := poisson1D(40)
	p, r, ac, err := New(Aggregation).Coarsen(a, Params{})
	if err != nil {
		t.Fatal(err)
	}
	checkCRSInvariants(t, "P", p)
	checkCRSInvariants(t, "R", r)
	checkCRSInvariants(t, "Ac", ac)

	nf, _ := a.Dims()
	_, pc := p.Dims()
	if pc >= nf {
		t.Errorf("aggregation did not reduce problem size: %d -> %d", nf, pc)
	}
}

// TestSmoothedAggregationPartitionOfUnity checks spec section 8's
// "for all smoothed-aggregation prolongators applied to a constant
// near-null-space vector e: P e_c = e_f" invariant. The operator is the 1D
// Laplacian with Neumann ends (boundary diagonal 1), whose rows sum to
// zero, so the constant vector is in its null space. With Dirichlet ends
// A*ones is nonzero on the two boundary rows, and smoothing moves those
// rows of P*ones away from 1.
func TestSmoothedAggregationPartitionOfUnity(t *testing.T) {
	n := 40
	bld := crs.NewBuilder(n, n)
	for i := 0; i < n; i++ {
		d := 2.0
		if i == 0 || i == n-1 {
			d = 1
		}
		if i > 0 {
			bld.Add(i, i-1, -1)
		}
		bld.Add(i, i, d)
		if i < n-1 {
			bld.Add(i, i+1, -1)
		}
	}
	a := bld.Build()
	p, _, _, err := New(SmoothedAggregation).Coarsen(a, Params{})
	if err != nil {
		t.Fatal(err)
	}
	nf, nc := p.Dims()
	ones := make([]float64, nc)
	for i := range ones {
		ones[i] = 1
	}
	ec := mat.NewVecDense(nc, ones)
	ef := mat.NewVecDense(nf, nil)
	p.SpMV(1, ec, 0, ef, false)

	for i := 0; i < nf; i++ {
		if !floats.EqualWithinAbsOrRel(ef.AtVec(i), 1, 1e-8, 1e-8) {
			t.Errorf("partition of unity violated at row %d: got %v, want 1", i, ef.AtVec(i))
		}
	}
}

func TestSmoothedAggrEminShapeAndGalerkin(t *testing.T) {
	a := poisson1D(30)
	p, r, ac, err := New(SmoothedAggrEmin).Coarsen(a, Params{})
	if err != nil {
		t.Fatal(err)
	}
	checkCRSInvariants(t, "P", p)
	checkCRSInvariants(t, "R", r)
	checkCRSInvariants(t, "Ac", ac)

	nf, _ := a.Dims()
	_, pc := p.Dims()
	if pc >= nf {
		t.Errorf("emin aggregation did not reduce problem size: %d -> %d", nf, pc)
	}
}

func TestStagnated(t *testing.T) {
	if !Stagnated(100, 95, 0.9) {
		t.Error("95/100 = 0.95 > 0.9 should be stagnated")
	}
	if Stagnated(100, 50, 0.9) {
		t.Error("50/100 = 0.5 should not be stagnated")
	}
}
