// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fixtures builds the test matrices used across this module's
// package tests and its end-to-end integration tests (spec section 8's
// scenario list): Poisson discretizations, a diagonal system, a matrix
// with a structurally zero diagonal row, and the 2×2 system engineered to
// force a BiCGStab breakdown. It plays the role
// gonum.org/v1/gonum/linsolve/internal/triplet plays for the teacher's own
// tests: small, deterministic, hand-checkable operators.
package fixtures

import (
	"golang.org/x/exp/rand"

	"github.com/ezhangle/go-amgcl/crs"
)

// Poisson1D returns the n×n tridiagonal [-1 2 -1] operator, the standard
// finite-difference discretization of the negative second derivative on a
// unit interval with homogeneous Dirichlet boundaries (spec section 8,
// scenario 1).
func Poisson1D(n int) *crs.Matrix {
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

// Poisson2D returns the n×n (n=nx*ny) five-point-stencil discretization of
// -Δu on an nx×ny grid with homogeneous Dirichlet boundaries (spec section
// 8, scenario 2).
func Poisson2D(nx, ny int) *crs.Matrix {
	n := nx * ny
	idx := func(i, j int) int { return j*nx + i }
	b := crs.NewBuilder(n, n)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			row := idx(i, j)
			b.Add(row, row, 4)
			if i > 0 {
				b.Add(row, idx(i-1, j), -1)
			}
			if i < nx-1 {
				b.Add(row, idx(i+1, j), -1)
			}
			if j > 0 {
				b.Add(row, idx(i, j-1), -1)
			}
			if j < ny-1 {
				b.Add(row, idx(i, j+1), -1)
			}
		}
	}
	return b.Build()
}

// Identity returns the n×n identity matrix (spec section 8, scenario 3).
// With x_0 = 0 the initial residual is r_0 = b, which is nonzero, so an
// unpreconditioned CG solve does not stop at zero iterations: its first
// step has α_0 = 1 and gives x_1 = b exactly, ending after one iteration.
func Identity(n int) *crs.Matrix {
	return crs.Identity(n)
}

// Diagonal returns the n×n diagonal matrix with the given entries (spec
// section 8, scenario 4: a direct solve in at most one CG iteration).
func Diagonal(d []float64) *crs.Matrix {
	n := len(d)
	b := crs.NewBuilder(n, n)
	for i, v := range d {
		b.Add(i, i, v)
	}
	return b.Build()
}

// RandomSPDWithZeroDiagonalRow returns an n×n SPD matrix built as AᵀA+nI
// for a random A, with row/column zeroDiagRow's diagonal entry forced to
// zero afterward (spec section 8, scenario 5: a relaxation requiring
// a_ii != 0 must report ErrSingularDiagonal while SPAI(0)/Chebyshev still
// succeed). The off-diagonal structure of that row is left intact so the
// matrix stays irreducible.
func RandomSPDWithZeroDiagonalRow(n int, zeroDiagRow int, seed uint64) *crs.Matrix {
	rng := rand.New(rand.NewSource(seed))
	raw := make([][]float64, n)
	for i := range raw {
		raw[i] = make([]float64, n)
		for j := range raw[i] {
			raw[i][j] = rng.NormFloat64()
		}
	}

	b := crs.NewBuilder(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for k := 0; k < n; k++ {
				sum += raw[k][i] * raw[k][j]
			}
			if i == j {
				sum += float64(n)
			}
			if sum != 0 {
				b.Add(i, j, sum)
			}
		}
	}
	m := b.Build()

	// Rebuild with the target row's diagonal zeroed; all other entries of
	// that row (and its symmetric column counterpart) are kept, so the
	// matrix remains connected but no longer diagonally dominant there.
	b2 := crs.NewBuilder(n, n)
	for i := 0; i < n; i++ {
		start, end := m.RowRange(i)
		for k := start; k < end; k++ {
			j := m.Col()[k]
			v := m.Val()[k]
			if i == zeroDiagRow && j == zeroDiagRow {
				continue
			}
			b2.Add(i, j, v)
		}
	}
	return b2.Build()
}

// BiCGStabBreakdown returns a 2×2 matrix and right-hand side for which
// BiCGStab's first-iteration inner product ⟨r̂,v⟩ is exactly zero,
// forcing a KrylovBreakdown (spec section 8, scenario 6). A is
// skew-symmetric, so x^T A x = 0 for every x; with x_0 = 0 and no
// preconditioning, r_0 = r̂_0 = p_0 = phat_0 = b, so v = A*phat_0 = A*b
// and ⟨b, A*b⟩ = 0 identically.
func BiCGStabBreakdown() (a *crs.Matrix, b []float64) {
	bld := crs.NewBuilder(2, 2)
	bld.Add(0, 1, 1)
	bld.Add(1, 0, -1)
	return bld.Build(), []float64{1, 1}
}
