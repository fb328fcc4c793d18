// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

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

func TestHostSpMVAndResidual(t *testing.T) {
	h := Host{}
	a := poisson1D(5)
	x := mat.NewVecDense(5, []float64{1, 1, 1, 1, 1})
	b := mat.NewVecDense(5, []float64{1, 0, 0, 0, 1})

	r := h.NewVector(5)
	h.Residual(r, a, b, x)
	for i := 0; i < 5; i++ {
		if !floats.EqualWithinAbsOrRel(r.AtVec(i), 0, 1e-12, 1e-12) {
			t.Errorf("residual[%d] = %v, want 0 (x is exact solution)", i, r.AtVec(i))
		}
	}
}

func TestHostAxpby(t *testing.T) {
	h := Host{}
	x := mat.NewVecDense(3, []float64{1, 2, 3})
	y := mat.NewVecDense(3, []float64{4, 5, 6})
	h.Axpby(2, x, 3, y)
	want := []float64{14, 19, 24}
	for i := range want {
		if !floats.EqualWithinAbsOrRel(y.AtVec(i), want[i], 1e-12, 1e-12) {
			t.Errorf("Axpby()[%d] = %v, want %v", i, y.AtVec(i), want[i])
		}
	}
}

func TestHostAxpbypcz(t *testing.T) {
	h := Host{}
	x := mat.NewVecDense(2, []float64{1, 1})
	y := mat.NewVecDense(2, []float64{2, 2})
	z := mat.NewVecDense(2, []float64{3, 3})
	h.Axpbypcz(1, x, 1, y, 1, z)
	want := 6.0
	for i := 0; i < 2; i++ {
		if z.AtVec(i) != want {
			t.Errorf("Axpbypcz()[%d] = %v, want %v", i, z.AtVec(i), want)
		}
	}
}

func TestHostVmul(t *testing.T) {
	h := Host{}
	x := mat.NewVecDense(3, []float64{1, 2, 3})
	y := mat.NewVecDense(3, []float64{4, 5, 6})
	z := mat.NewVecDense(3, []float64{0, 0, 0})
	h.Vmul(1, x, y, 0, z)
	want := []float64{4, 10, 18}
	for i := range want {
		if z.AtVec(i) != want[i] {
			t.Errorf("Vmul()[%d] = %v, want %v", i, z.AtVec(i), want[i])
		}
	}
}

func TestHostInnerProductAndNorm(t *testing.T) {
	h := Host{}
	x := mat.NewVecDense(3, []float64{3, 4, 0})
	if got, want := h.Norm(x), 5.0; !floats.EqualWithinAbsOrRel(got, want, 1e-12, 1e-12) {
		t.Errorf("Norm() = %v, want %v", got, want)
	}
	y := mat.NewVecDense(3, []float64{1, 0, 0})
	if got, want := h.InnerProduct(x, y), 3.0; got != want {
		t.Errorf("InnerProduct() = %v, want %v", got, want)
	}
}

func TestHostSpMVBetaZeroOverwrites(t *testing.T) {
	h := Host{}
	a := poisson1D(3)
	x := mat.NewVecDense(3, []float64{1, 1, 1})
	dst := mat.NewVecDense(3, []float64{1e9, 1e9, 1e9})
	h.SpMV(1, a, x, 0, dst, false)
	want := []float64{1, 0, 1}
	for i := range want {
		if !floats.EqualWithinAbsOrRel(dst.AtVec(i), want[i], 1e-12, 1e-12) {
			t.Errorf("SpMV(beta=0)[%d] = %v, want %v (stale dst leaked through)", i, dst.AtVec(i), want[i])
		}
	}
}
