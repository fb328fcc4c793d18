// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/crs"
)

// Host is the default, CPU, host-memory Backend. It is built directly on
// gonum.org/v1/gonum/mat: vector storage is *mat.VecDense and the BLAS-1
// primitives are expressed over its AddScaledVec/ScaleVec/MulElemVec
// methods, the same vocabulary gonum.org/v1/gonum/linsolve's solvers use
// for their own state updates.
//
// MatrixFromCRS is the identity transfer: Host consumes *crs.Matrix (via
// the Matrix capability interface) directly and does not reformat it.
type Host struct{}

// NewVector allocates a zeroed vector of length n.
func (Host) NewVector(n int) *mat.VecDense {
	return mat.NewVecDense(n, nil)
}

// Copy sets dst = src.
func (Host) Copy(dst, src *mat.VecDense) {
	if dst.Len() != src.Len() {
		panic(ErrShape)
	}
	dst.CopyVec(src)
}

// Clear sets x to the zero vector.
func (Host) Clear(x *mat.VecDense) {
	x.Zero()
}

// MatrixFromCRS transfers a host-built CRS matrix to the backend. Host
// uses *crs.Matrix as its own matrix format, so m is returned unchanged.
func (Host) MatrixFromCRS(m *crs.Matrix) *crs.Matrix {
	return m
}

// SpMV computes dst = alpha*A*x + beta*dst (or Aᵀ if trans), delegating to
// the Matrix's own SpMV (crs.Matrix.SpMV for the shipped matrix type).
func (Host) SpMV(alpha float64, a Matrix, x mat.Vector, beta float64, dst *mat.VecDense, trans bool) {
	a.SpMV(alpha, x, beta, dst, trans)
}

// Residual computes r = b - A*x.
func (h Host) Residual(r *mat.VecDense, a Matrix, b, x *mat.VecDense) {
	h.Copy(r, b)
	h.SpMV(-1, a, x, 1, r, false)
}

// Axpby computes y = alpha*x + beta*y, the two-term linear combination
// linsolve's own iteration state updates are built from (cg.go's
// x.AddScaledVec(&cg.x, alpha, &cg.p) and r.AddScaledVec(&cg.r, -alpha, ap)).
func (Host) Axpby(alpha float64, x *mat.VecDense, beta float64, y *mat.VecDense) {
	if x.Len() != y.Len() {
		panic(ErrShape)
	}
	y.ScaleVec(beta, y)
	y.AddScaledVec(y, alpha, x)
}

// Axpbypcz computes z = alpha*x + beta*y + gamma*z.
func (Host) Axpbypcz(alpha float64, x *mat.VecDense, beta float64, y *mat.VecDense, gamma float64, z *mat.VecDense) {
	if x.Len() != y.Len() || y.Len() != z.Len() {
		panic(ErrShape)
	}
	z.ScaleVec(gamma, z)
	z.AddScaledVec(z, alpha, x)
	z.AddScaledVec(z, beta, y)
}

// Vmul computes z = alpha*x*y + beta*z (Hadamard product of x and y).
func (Host) Vmul(alpha float64, x, y *mat.VecDense, beta float64, z *mat.VecDense) {
	if x.Len() != y.Len() || y.Len() != z.Len() {
		panic(ErrShape)
	}
	n := z.Len()
	prod := mat.NewVecDense(n, nil)
	prod.MulElemVec(x, y)
	z.ScaleVec(beta, z)
	z.AddScaledVec(z, alpha, prod)
}

// InnerProduct returns <x,y>.
func (Host) InnerProduct(x, y *mat.VecDense) float64 {
	return mat.Dot(x, y)
}

// Norm returns sqrt(<x,x>).
func (Host) Norm(x *mat.VecDense) float64 {
	return math.Sqrt(mat.Dot(x, x))
}
