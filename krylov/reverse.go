// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package krylov implements the Krylov iterative solvers of spec section
// 4.6 — CG, BiCGStab, GMRES(m) — driving an AMG hierarchy (or any other
// preconditioner solve) through the reverse-communication protocol of
// gonum.org/v1/gonum/linsolve, adapted from *mat.VecDense/MulVecToer to
// this module's crs.Matrix.
package krylov

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// BreakdownError signifies that a Krylov breakdown occurred (spec section
// 7, KrylovBreakdown: |ρ| < breakdownTol or |ω| < breakdownTol in
// BiCGStab) and the method cannot continue.
type BreakdownError struct {
	Value     float64
	Tolerance float64
}

func (e *BreakdownError) Error() string {
	return fmt.Sprintf("krylov: breakdown, value=%v tolerance=%v", e.Value, e.Tolerance)
}

const (
	eps          = 1.0 / (1 << 53)
	breakdownTol = eps * eps
)

// MulVecToer represents a square matrix A by means of a matrix-vector
// multiplication; *crs.Matrix satisfies this directly.
type MulVecToer interface {
	MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector)
}

// Method is an iterative method producing a sequence of vectors converging
// to the solution of A*x=b, communicating with the caller through a
// reverse-communication Operation protocol (spec section 4.6).
type Method interface {
	// Init initializes the method with an initial estimate x and its
	// corresponding residual. Method will not retain x or residual.
	Init(x, residual *mat.VecDense)

	// Iterate performs a step, retrieving/updating data in ctx, and
	// returns the next Operation the caller must perform.
	Iterate(ctx *Context) (Operation, error)
}

// Context mediates the communication between Method and the caller. The
// caller must not modify Context apart from performing the commanded
// Operation.
type Context struct {
	// X is set by Method to the current approximate solution when it
	// commands ComputeResidual and MajorIteration.
	X *mat.VecDense

	// ResidualNorm is set by Method to (an estimate of) the residual norm
	// when it commands CheckResidualNorm.
	ResidualNorm float64

	// Converged is set by the caller in response to CheckResidualNorm.
	Converged bool

	// Src and Dst are the source and destination vectors for MulVec,
	// PreconSolve and ComputeResidual.
	Src, Dst *mat.VecDense
}

// NewContext returns a new Context for problems of dimension n.
func NewContext(n int) *Context {
	if n <= 0 {
		panic("krylov: context size is not positive")
	}
	return &Context{
		X:   mat.NewVecDense(n, nil),
		Src: mat.NewVecDense(n, nil),
		Dst: mat.NewVecDense(n, nil),
	}
}

// Operation specifies the operation a Method commands the caller to
// perform.
type Operation uint

const (
	NoOperation Operation = 0

	// MulVec commands computing A*x, x in ctx.Src, result into ctx.Dst.
	MulVec Operation = 1 << (iota - 1)

	// PreconSolve commands solving M*z=r (or Mᵀ if combined with Trans),
	// r in ctx.Src, result z into ctx.Dst.
	PreconSolve

	// Trans, combined by bitwise OR with MulVec or PreconSolve, requests
	// the transposed operation.
	Trans

	// ComputeResidual commands computing b-A*x, x in ctx.X, result into
	// ctx.Dst.
	ComputeResidual

	// CheckResidualNorm commands the caller to decide convergence from
	// ctx.ResidualNorm and set ctx.Converged.
	CheckResidualNorm

	// MajorIteration indicates Method finished one iteration; ctx.X holds
	// the updated iterate. If ctx.Converged, the caller must stop.
	MajorIteration
)
