// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hierarchy assembles the AMG level hierarchy (spec section 4.4)
// and applies it as a V-cycle / K-cycle preconditioner (spec section 4.5).
package hierarchy

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/backend"
	"github.com/ezhangle/go-amgcl/coarsen"
	"github.com/ezhangle/go-amgcl/crs"
	"github.com/ezhangle/go-amgcl/relax"
)

// ErrCoarseningStagnated is returned by Build when coarsening stopped
// because the next level would not have shrunk enough (spec section 7:
// "reported as a warning and triggers termination of the hierarchy at
// level k rather than an error"). The returned Hierarchy is fully usable;
// the error is informational, not fatal — callers that don't care about
// why coarsening stopped may discard it.
var ErrCoarseningStagnated = errors.New("hierarchy: coarsening stagnated")

// Params configures hierarchy construction and cycle application.
// Zero-valued fields take the spec's defaults.
type Params struct {
	Coarsening    coarsen.Kind
	CoarsenParams coarsen.Params

	RelaxKind   relax.Kind
	RelaxParams relax.Params

	// NPre, NPost are the pre/post-smoothing sweep counts; default 1.
	NPre, NPost int

	// KCycleDepth bounds how deep K-cycle acceleration (two inner
	// flexible-CG iterations per descent) is used instead of a plain
	// recursive V-cycle descent; 0 disables it (spec section 4.5 default).
	KCycleDepth int

	// Backend supplies vector allocation and BLAS-1 primitives; default
	// backend.Host{}.
	Backend backend.Backend
}

func (p Params) withDefaults() Params {
	if p.NPre == 0 {
		p.NPre = 1
	}
	if p.NPost == 0 {
		p.NPost = 1
	}
	if p.Backend == nil {
		p.Backend = backend.Host{}
	}
	return p
}

// Hierarchy is an ordered sequence of AMG levels, the coarsest owning a
// dense direct solve (spec section 3, "Hierarchy").
type Hierarchy struct {
	levels  []*Level
	backend backend.Backend
	nPre    int
	nPost   int
	kDepth  int
}

// Build constructs a Hierarchy from the fine-level matrix a, coarsening
// repeatedly per params.Coarsening until a stopping rule fires (spec
// section 4.2 "Termination", section 4.4 pseudocode).
func Build(a *crs.Matrix, params Params) (*Hierarchy, error) {
	params = params.withDefaults()
	cp := params.CoarsenParams
	nmin := cp.NMin
	if nmin == 0 {
		nmin = coarsen.DefaultNMin
	}
	maxLevels := cp.MaxLevels
	if maxLevels == 0 {
		maxLevels = coarsen.DefaultMaxLevels
	}
	rhoStall := cp.RhoStall
	if rhoStall == 0 {
		rhoStall = coarsen.DefaultRhoStall
	}

	strat := coarsen.New(params.Coarsening)
	smootherFactory := relax.New(params.RelaxKind, params.RelaxParams)

	var levels []*Level
	cur := a
	stagnated := false

	for len(levels) < maxLevels-1 {
		n, _ := cur.Dims()
		if n <= nmin {
			break
		}

		p, r, ac, err := strat.Coarsen(cur, cp)
		if err != nil {
			return nil, err
		}
		nc, _ := ac.Dims()
		if coarsen.Stagnated(n, nc, rhoStall) {
			stagnated = true
			break
		}

		smoother, err := smootherFactory.Setup(cur)
		if err != nil {
			return nil, err
		}

		lvl := newLevel(cur, params.Backend)
		lvl.P, lvl.R, lvl.Smoother = p, r, smoother
		levels = append(levels, lvl)

		cur = ac
	}

	coarsest := newLevel(cur, params.Backend)
	dense := mat.DenseCopyOf(cur)
	var lu mat.LU
	lu.Factorize(dense)
	coarsest.lu = &lu
	levels = append(levels, coarsest)

	h := &Hierarchy{
		levels:  levels,
		backend: params.Backend,
		nPre:    params.NPre,
		nPost:   params.NPost,
		kDepth:  params.KCycleDepth,
	}
	if stagnated {
		return h, ErrCoarseningStagnated
	}
	return h, nil
}

// TopMatrix returns the operator the outer Krylov solver multiplies by
// (spec section 6).
func (h *Hierarchy) TopMatrix() *crs.Matrix { return h.levels[0].A }

// Levels returns the number of levels, including the coarsest.
func (h *Hierarchy) Levels() int { return len(h.levels) }

// Apply runs one preconditioning cycle, z ≈ A_0⁻¹ r (spec section 4.5).
// z is cleared unconditionally before the cycle descent, matching the
// pseudocode's "initial u = 0 (guaranteed by caller via clear)".
//
// Apply works in the levels' own scratch vectors and takes no lock, so a
// single Hierarchy must not be applied from concurrent solves.
func (h *Hierarchy) Apply(r, z *mat.VecDense) {
	z.Zero()
	h.cycle(0, r, z)
}

// cycle implements spec section 4.5's recursive cycle(k, f, u).
func (h *Hierarchy) cycle(k int, f, u *mat.VecDense) {
	lvl := h.levels[k]
	if k == len(h.levels)-1 {
		// A singular coarsest operator would mean the top-level matrix
		// itself is singular; that is a setup-time concern (spec section
		// 7 propagation), not one this preconditioner primitive recovers
		// from mid-cycle.
		if err := lvl.lu.SolveVecTo(u, false, f); err != nil {
			panic("hierarchy: coarsest-level direct solve failed: " + err.Error())
		}
		return
	}

	for i := 0; i < h.nPre; i++ {
		lvl.Smoother.Apply(lvl.A, u, f, lvl.T)
	}

	lvl.A.SpMV(-1, u, 0, lvl.T, false)
	lvl.T.AddVec(lvl.T, f) // lvl.T = f - A*u, the fine residual

	next := h.levels[k+1]
	lvl.R.SpMV(1, lvl.T, 0, next.F, false)
	next.U.Zero()

	if h.kDepth > 0 && k < h.kDepth {
		h.kcycleStep(k+1, next.F, next.U)
	} else {
		h.cycle(k+1, next.F, next.U)
	}

	lvl.P.SpMV(1, next.U, 0, lvl.T, false)
	u.AddVec(u, lvl.T)

	for i := 0; i < h.nPost; i++ {
		lvl.Smoother.Apply(lvl.A, u, f, lvl.T)
	}
}
