// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend defines the capability interface that the rest of the
// module (coarsening, relaxation, hierarchy, Krylov solvers) is generic
// over, per spec section 4.1, and ships one concrete implementation, Host,
// built on gonum.org/v1/gonum.
//
// A second (GPU/accelerator) backend is intentionally not provided — such
// backends are out of scope (spec section 1) — but Backend is kept narrow
// enough that one could implement it without any other package changing.
package backend

import "gonum.org/v1/gonum/mat"

// ErrShape is panicked by Backend implementations on dimension mismatch,
// mirroring crs.ErrShape.
const ErrShape = "backend: dimension mismatch"

// Matrix is the minimal matrix capability a Backend needs: sparse
// matrix-vector multiplication in the form the spec's spmv primitive
// requires. *crs.Matrix satisfies this directly.
type Matrix interface {
	Dims() (r, c int)
	SpMV(alpha float64, x mat.Vector, beta float64, dst *mat.VecDense, trans bool)
}

// Backend is the abstract provider of vector allocation, SpMV, and BLAS-1
// primitives that spec section 4.1 requires of any backend. All other
// components in this module (coarsen, relax, hierarchy, krylov) are
// written against this interface, not against a concrete vector/matrix
// representation, so that a different backend can be substituted without
// touching them.
type Backend interface {
	// NewVector allocates a zeroed vector of length n.
	NewVector(n int) *mat.VecDense

	// Copy sets dst = src.
	Copy(dst, src *mat.VecDense)

	// Clear sets x to the zero vector.
	Clear(x *mat.VecDense)

	// SpMV computes dst = alpha*A*x + beta*dst (or Aᵀ if trans).
	SpMV(alpha float64, a Matrix, x mat.Vector, beta float64, dst *mat.VecDense, trans bool)

	// Residual computes r = b - A*x.
	Residual(r *mat.VecDense, a Matrix, b, x *mat.VecDense)

	// Axpby computes y = alpha*x + beta*y.
	Axpby(alpha float64, x *mat.VecDense, beta float64, y *mat.VecDense)

	// Axpbypcz computes z = alpha*x + beta*y + gamma*z.
	Axpbypcz(alpha float64, x *mat.VecDense, beta float64, y *mat.VecDense, gamma float64, z *mat.VecDense)

	// Vmul computes z = alpha*x*y + beta*z (elementwise/Hadamard).
	Vmul(alpha float64, x, y *mat.VecDense, beta float64, z *mat.VecDense)

	// InnerProduct returns <x,y>.
	InnerProduct(x, y *mat.VecDense) float64

	// Norm returns sqrt(<x,x>).
	Norm(x *mat.VecDense) float64
}
