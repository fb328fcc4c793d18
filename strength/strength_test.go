// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package strength

import (
	"testing"

	"github.com/ezhangle/go-amgcl/crs"
)

func tridiag(n int, off, diag float64) *crs.Matrix {
	b := crs.NewBuilder(n, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.Add(i, i-1, off)
		}
		b.Add(i, i, diag)
		if i < n-1 {
			b.Add(i, i+1, off)
		}
	}
	return b.Build()
}

func TestClassicalTridiagonal(t *testing.T) {
	a := tridiag(5, -1, 2)
	g := Classical(a, 0.25)
	for i, nbrs := range g.Neighbors {
		var want []int32
		if i > 0 {
			want = append(want, int32(i-1))
		}
		if i < 4 {
			want = append(want, int32(i+1))
		}
		if len(nbrs) != len(want) {
			t.Fatalf("row %d: neighbors = %v, want %v", i, nbrs, want)
		}
	}
}

func TestSymmetricIsSymmetrized(t *testing.T) {
	a := tridiag(6, -1, 2)
	g := Symmetric(a, 0.08)
	for i, nbrs := range g.Neighbors {
		for _, j := range nbrs {
			found := false
			for _, k := range g.Neighbors[j] {
				if int(k) == i {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("strength graph not symmetric: %d->%d but not %d->%d", i, j, j, i)
			}
		}
	}
}

func TestClassicalDefaultTheta(t *testing.T) {
	a := tridiag(3, -1, 2)
	g1 := Classical(a, 0)
	g2 := Classical(a, DefaultTheta)
	for i := range g1.Neighbors {
		if len(g1.Neighbors[i]) != len(g2.Neighbors[i]) {
			t.Errorf("theta=0 should fall back to DefaultTheta at row %d", i)
		}
	}
}

func TestSymmetricWeakConnectionExcluded(t *testing.T) {
	// Row 0 strongly connects to 1 (weight -1) but only weakly to 2
	// (weight -0.01) relative to the diagonal.
	b := crs.NewBuilder(3, 3)
	b.Add(0, 0, 2)
	b.Add(0, 1, -1)
	b.Add(0, 2, -0.01)
	b.Add(1, 0, -1)
	b.Add(1, 1, 2)
	b.Add(2, 0, -0.01)
	b.Add(2, 2, 2)
	a := b.Build()

	g := Symmetric(a, 0.25)
	for _, j := range g.Neighbors[0] {
		if j == 2 {
			t.Errorf("row 0 should not be strongly connected to row 2")
		}
	}
}
