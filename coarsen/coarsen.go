// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coarsen builds the prolongation/restriction operators (P, R) and
// the coarse Galerkin operator A_{k+1} = R*A_k*P for one AMG level (spec
// section 4.2): Ruge-Stüben C/F splitting with direct interpolation, plain
// aggregation, smoothed aggregation, and smoothed aggregation with energy
// minimization.
//
// Strategy selection is a tagged-constant factory (New), mirroring the same
// dispatch shape as package relax and amgcl's own runtime strategy
// dispatch (see DESIGN.md).
package coarsen

import "github.com/ezhangle/go-amgcl/crs"

// Kind names a coarsening strategy.
type Kind int

const (
	RugeStuben Kind = iota
	Aggregation
	SmoothedAggregation
	SmoothedAggrEmin
)

// Params configures coarsening. Zero-valued fields take the spec's
// defaults.
type Params struct {
	// Theta is the classical strength threshold θ used by Ruge-Stüben;
	// default 0.25.
	Theta float64

	// AggregationTheta is the symmetric strength threshold used by the
	// three aggregation-based strategies; default 0.08.
	AggregationTheta float64

	// NMin is the coarsest-level row-count floor: coarsening stops once
	// the next level would have fewer rows; default 500.
	NMin int

	// RhoStall is the maximum allowed nrows_{k+1}/nrows_k ratio before
	// coarsening is declared stalled; default 0.9.
	RhoStall float64

	// MaxLevels bounds the hierarchy depth; default 10.
	MaxLevels int
}

const (
	DefaultTheta            = 0.25
	DefaultAggregationTheta = 0.08
	DefaultNMin             = 500
	DefaultRhoStall         = 0.9
	DefaultMaxLevels        = 10
)

func (p Params) withDefaults() Params {
	if p.Theta == 0 {
		p.Theta = DefaultTheta
	}
	if p.AggregationTheta == 0 {
		p.AggregationTheta = DefaultAggregationTheta
	}
	if p.NMin == 0 {
		p.NMin = DefaultNMin
	}
	if p.RhoStall == 0 {
		p.RhoStall = DefaultRhoStall
	}
	if p.MaxLevels == 0 {
		p.MaxLevels = DefaultMaxLevels
	}
	return p
}

// Strategy produces the prolongation P, restriction R and coarse operator
// Ac = R*A*P for one level, given the fine-level matrix A.
type Strategy interface {
	Coarsen(a *crs.Matrix, params Params) (p, r, ac *crs.Matrix, err error)
}

// New returns the Strategy for kind.
func New(kind Kind) Strategy {
	switch kind {
	case RugeStuben:
		return rugeStubenStrategy{}
	case Aggregation:
		return aggregationStrategy{}
	case SmoothedAggregation:
		return smoothedAggregationStrategy{}
	case SmoothedAggrEmin:
		return eminStrategy{}
	default:
		panic("coarsen: unknown kind")
	}
}

// Stagnated reports whether coarsening from nFine to nCoarse rows has
// stalled under rhoStall (spec section 4.2 "Termination"); hierarchy.Build
// uses this to stop descending rather than treating it as an error (spec
// section 7, CoarseningStagnated is "a warning ... rather than an error").
func Stagnated(nFine, nCoarse int, rhoStall float64) bool {
	if rhoStall == 0 {
		rhoStall = DefaultRhoStall
	}
	if nFine == 0 {
		return true
	}
	return float64(nCoarse) > rhoStall*float64(nFine)
}

// galerkin computes Ac = R*A*P and returns (P, R, Ac) as the common tail of
// every Strategy (spec section 4.2, "the triple product is shared").
func galerkin(p, a *crs.Matrix) (*crs.Matrix, *crs.Matrix, *crs.Matrix) {
	r := p.Transpose()
	ac := crs.GalerkinProduct(r, a, p)
	return p, r, ac
}
