// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package relax provides the relaxation (smoothing) strategies of spec
// section 4.3: damped Jacobi, (symmetric) Gauss-Seidel, SPAI(0), ILU(0),
// and Chebyshev. Each Strategy's Setup produces a State holding whatever
// auxiliary data the method needs (inverse diagonal, ILU factors,
// Chebyshev coefficients); State.Apply performs one smoothing sweep,
// updating x toward the solution of A*x=b in place.
//
// Strategy selection is a tagged-constant factory (New), not a nested
// switch over every axis of the product space coarsening×relaxation×solver
// — see SPEC_FULL.md section 4.9 and DESIGN.md's note on amgcl's own
// dispatch shape.
package relax

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/crs"
)

// ErrSingularDiagonal is returned by Setup when a relaxation that requires
// a_ii != 0 (Jacobi, Gauss-Seidel, ILU(0)) finds a zero diagonal entry.
// SPAI(0) and Chebyshev tolerate a zero diagonal and never return this
// error (spec section 8, scenario 5).
var ErrSingularDiagonal = errors.New("relax: singular diagonal")

// ErrShape is panicked on dimension mismatch between A, x, b and scratch.
const ErrShape = "relax: dimension mismatch"

// Kind names a relaxation strategy.
type Kind int

const (
	DampedJacobi Kind = iota
	GaussSeidel
	SPAI0
	ILU0
	Chebyshev
)

// Params configures relaxation setup. Zero-valued fields take the spec's
// defaults.
type Params struct {
	// JacobiDamping is ω for DampedJacobi; default 0.72.
	JacobiDamping float64

	// ChebyshevDegree is the polynomial degree d; default 5.
	ChebyshevDegree int

	// ChebyshevPowerIters is the number of power iterations used to
	// estimate the spectral radius of D^-1 A; default 10.
	ChebyshevPowerIters int

	// SymmetricGS requests a forward+backward sweep per Apply instead of
	// a single forward sweep (spec section 4.3, "symmetric variant
	// follows with a backward sweep").
	SymmetricGS bool
}

const (
	DefaultJacobiDamping      = 0.72
	DefaultChebyshevDegree    = 5
	DefaultChebyshevPowerIter = 10
)

func (p Params) withDefaults() Params {
	if p.JacobiDamping == 0 {
		p.JacobiDamping = DefaultJacobiDamping
	}
	if p.ChebyshevDegree == 0 {
		p.ChebyshevDegree = DefaultChebyshevDegree
	}
	if p.ChebyshevPowerIters == 0 {
		p.ChebyshevPowerIters = DefaultChebyshevPowerIter
	}
	return p
}

// Strategy sets up relaxation state for a level's matrix A.
type Strategy interface {
	Setup(a *crs.Matrix) (State, error)
}

// State performs smoothing sweeps for a fixed matrix A.
type State interface {
	// Apply performs one smoothing sweep, updating x in place toward the
	// solution of A*x=b. scratch is a caller-owned vector of the same
	// length as x that Apply may use as working storage; its prior
	// contents are not meaningful on entry or exit.
	Apply(a *crs.Matrix, x, b, scratch *mat.VecDense)
}

// New returns the Strategy for kind, configured by params.
func New(kind Kind, params Params) Strategy {
	params = params.withDefaults()
	switch kind {
	case DampedJacobi:
		return jacobiStrategy{omega: params.JacobiDamping}
	case GaussSeidel:
		return gsStrategy{symmetric: params.SymmetricGS}
	case SPAI0:
		return spai0Strategy{}
	case ILU0:
		return ilu0Strategy{}
	case Chebyshev:
		return chebyshevStrategy{degree: params.ChebyshevDegree, powerIters: params.ChebyshevPowerIters}
	default:
		panic("relax: unknown kind")
	}
}

func checkShapes(n int, vecs ...*mat.VecDense) {
	for _, v := range vecs {
		if v.Len() != n {
			panic(ErrShape)
		}
	}
}
