// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// DefaultTolerance is the relative residual tolerance used when
// Settings.Tolerance is left zero (spec section 6, "solver.tol: default
// 1e-8").
const DefaultTolerance = 1e-8

// DefaultMaxIterations is the iteration cap used when
// Settings.MaxIterations is left zero (spec section 6, "solver.maxiter:
// default 100"). This deliberately departs from a dimension-scaled
// default: the AMG preconditioner is expected to do the heavy lifting, so
// a solve that has not converged in 100 outer iterations signals a setup
// problem rather than a slow but healthy one.
const DefaultMaxIterations = 100

// ErrIterationLimit is returned when MaxIterations outer iterations
// completed without satisfying Tolerance (spec section 7,
// NotConverged).
var ErrIterationLimit = errors.New("krylov: iteration limit reached")

// PreconSolve describes a preconditioner solve storing into dst the
// solution of M*dst=rhs (or Mᵀ*dst=rhs when trans is true). If nil is
// passed as the PreconSolve of Settings, no preconditioning is applied.
type PreconSolve func(dst *mat.VecDense, trans bool, rhs mat.Vector) error

// NoPreconditioner implements the identity preconditioner.
func NoPreconditioner(dst *mat.VecDense, trans bool, rhs mat.Vector) error {
	if dst.Len() != rhs.Len() {
		panic("krylov: mismatched vector length")
	}
	dst.CloneVec(rhs)
	return nil
}

// Settings holds settings for solving a linear system (spec section 6).
type Settings struct {
	// InitX holds the initial guess. If nil or empty, the zero vector is
	// used.
	InitX *mat.VecDense

	// Dst, if not nil, receives the approximate solution; otherwise a new
	// vector is allocated.
	Dst *mat.VecDense

	// Tolerance is the relative residual tolerance: iteration stops once
	// |r_i| < Tolerance * |b|. Zero selects DefaultTolerance.
	Tolerance float64

	// MaxIterations caps the outer iteration count. Zero selects
	// DefaultMaxIterations.
	MaxIterations int

	// PreconSolve is the preconditioner solve. Nil means no
	// preconditioning (M is the identity).
	PreconSolve PreconSolve

	// Work, if not nil, is reused across solves to avoid allocation.
	Work *Context
}

func defaultSettings(s *Settings, dim int) {
	if s.InitX != nil && s.InitX.Len() == 0 {
		s.InitX.ReuseAsVec(dim)
	}
	if s.Dst == nil {
		s.Dst = mat.NewVecDense(dim, nil)
	} else if s.Dst.Len() == 0 {
		s.Dst.ReuseAsVec(dim)
	}
	if s.Tolerance == 0 {
		s.Tolerance = DefaultTolerance
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = DefaultMaxIterations
	}
	if s.PreconSolve == nil {
		s.PreconSolve = NoPreconditioner
	}
	if s.Work == nil {
		s.Work = NewContext(dim)
	} else {
		if s.Work.X.Len() == 0 {
			s.Work.X.ReuseAsVec(dim)
		}
		if s.Work.Src.Len() == 0 {
			s.Work.Src.ReuseAsVec(dim)
		}
		if s.Work.Dst.Len() == 0 {
			s.Work.Dst.ReuseAsVec(dim)
		}
	}
}

func checkSettings(s *Settings, dim int) {
	if s.InitX != nil && s.InitX.Len() != dim {
		panic("krylov: mismatched length of initial guess")
	}
	if s.Dst.Len() != dim {
		panic("krylov: mismatched destination length")
	}
	if s.Tolerance <= 0 || 1 <= s.Tolerance {
		panic("krylov: invalid tolerance")
	}
	if s.MaxIterations <= 0 {
		panic("krylov: non-positive iteration limit")
	}
	if s.Work.X.Len() != dim || s.Work.Src.Len() != dim || s.Work.Dst.Len() != dim {
		panic("krylov: mismatched work context length")
	}
}

// Stats holds statistics about an iterative solve.
type Stats struct {
	Iterations  int
	MulVec      int
	PreconSolve int
}

// Result holds the result of an iterative solve.
type Result struct {
	X            *mat.VecDense
	ResidualNorm float64
	Stats        Stats
}

// Solve finds an approximate solution of a*x=b using the given Method
// (spec section 4.6's outer driver). If method is nil, GMRES with the
// default restart is used.
func Solve(a MulVecToer, b *mat.VecDense, method Method, settings *Settings) (*Result, error) {
	n := b.Len()

	var s Settings
	if settings != nil {
		s = *settings
	}
	defaultSettings(&s, n)
	checkSettings(&s, n)

	var stats Stats
	ctx := s.Work
	rInit := mat.NewVecDense(n, nil)
	if s.InitX != nil {
		ctx.X.CloneVec(s.InitX)
		computeResidual(rInit, a, b, ctx.X, &stats)
	} else {
		ctx.X.Zero()
		rInit.CopyVec(b)
	}

	if method == nil {
		method = &GMRES{}
	}

	var err error
	ctx.ResidualNorm = mat.Norm(rInit, 2)
	if ctx.ResidualNorm >= s.Tolerance {
		err = iterate(a, b, rInit, s, method, &stats)
	} else {
		s.Dst.CopyVec(ctx.X)
	}

	return &Result{
		X:            s.Dst,
		ResidualNorm: ctx.ResidualNorm,
		Stats:        stats,
	}, err
}

func iterate(a MulVecToer, b, initRes *mat.VecDense, settings Settings, method Method, stats *Stats) error {
	bNorm := mat.Norm(b, 2)
	if bNorm == 0 {
		bNorm = 1
	}

	ctx := settings.Work
	settings.Dst.CopyVec(ctx.X)

	method.Init(ctx.X, initRes)
	for {
		op, err := method.Iterate(ctx)
		if err != nil {
			return err
		}
		switch op {
		case NoOperation:
		case MulVec, MulVec | Trans:
			stats.MulVec++
			a.MulVecTo(ctx.Dst, op&Trans == Trans, ctx.Src)
		case PreconSolve, PreconSolve | Trans:
			stats.PreconSolve++
			err = settings.PreconSolve(ctx.Dst, op&Trans == Trans, ctx.Src)
			if err != nil {
				return err
			}
		case CheckResidualNorm:
			ctx.Converged = ctx.ResidualNorm < settings.Tolerance*bNorm
		case ComputeResidual:
			computeResidual(ctx.Dst, a, b, ctx.X, stats)
		case MajorIteration:
			stats.Iterations++
			if ctx.Converged {
				settings.Dst.CopyVec(ctx.X)
				return nil
			}
			if stats.Iterations == settings.MaxIterations {
				settings.Dst.CopyVec(ctx.X)
				return ErrIterationLimit
			}
		default:
			panic("krylov: invalid operation")
		}
	}
}

func computeResidual(dst *mat.VecDense, a MulVecToer, b, x *mat.VecDense, stats *Stats) {
	stats.MulVec++
	a.MulVecTo(dst, false, x)
	dst.AddScaledVec(b, -1, dst)
}
