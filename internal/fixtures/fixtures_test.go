// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fixtures

import "testing"

func TestPoisson1DShape(t *testing.T) {
	a := Poisson1D(10)
	r, c := a.Dims()
	if r != 10 || c != 10 {
		t.Fatalf("got %dx%d, want 10x10", r, c)
	}
	if a.At(0, 0) != 2 || a.At(0, 1) != -1 {
		t.Errorf("unexpected boundary row: %v %v", a.At(0, 0), a.At(0, 1))
	}
}

func TestPoisson2DShape(t *testing.T) {
	a := Poisson2D(5, 5)
	r, c := a.Dims()
	if r != 25 || c != 25 {
		t.Fatalf("got %dx%d, want 25x25", r, c)
	}
	if a.At(12, 12) != 4 {
		t.Errorf("interior diagonal = %v, want 4", a.At(12, 12))
	}
}

func TestRandomSPDZeroDiagonalRow(t *testing.T) {
	a := RandomSPDWithZeroDiagonalRow(6, 2, 1)
	if a.At(2, 2) != 0 {
		t.Errorf("row 2's diagonal = %v, want 0", a.At(2, 2))
	}
	for i := 0; i < 6; i++ {
		if i == 2 {
			continue
		}
		if a.At(i, i) == 0 {
			t.Errorf("row %d unexpectedly has a zero diagonal", i)
		}
	}
}

func TestBiCGStabBreakdownMatrix(t *testing.T) {
	a, b := BiCGStabBreakdown()
	var abT float64
	n, _ := a.Dims()
	for i := 0; i < n; i++ {
		start, end := a.RowRange(i)
		for k := start; k < end; k++ {
			abT += b[i] * a.Val()[k] * b[a.Col()[k]]
		}
	}
	if abT != 0 {
		t.Errorf("b^T A b = %v, want exactly 0", abT)
	}
}
