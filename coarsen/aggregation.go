// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coarsen

import (
	"github.com/ezhangle/go-amgcl/crs"
	"github.com/ezhangle/go-amgcl/strength"
)

type aggregationStrategy struct{}

func (aggregationStrategy) Coarsen(a *crs.Matrix, params Params) (p, r, ac *crs.Matrix, err error) {
	params = params.withDefaults()
	aggr, naggr := aggregate(a, params.AggregationTheta)
	p = tentativeProlongator(a, aggr, naggr)
	p, r, ac = galerkin(p, a)
	return p, r, ac, nil
}

// aggregate runs the greedy aggregation of spec section 4.2(b): rows are
// scanned in index order; an unassigned row whose strong neighbors are all
// unassigned starts a new aggregate together with them. Remaining
// unassigned rows join a neighboring aggregate by majority vote, and any
// still isolated afterward become singleton aggregates.
func aggregate(a *crs.Matrix, theta float64) (aggr []int32, naggr int) {
	g := strength.Symmetric(a, theta).Neighbors
	n := len(g)
	aggr = make([]int32, n)
	for i := range aggr {
		aggr[i] = -1
	}

	next := int32(0)
	for i := 0; i < n; i++ {
		if aggr[i] != -1 {
			continue
		}
		allFree := true
		for _, j := range g[i] {
			if aggr[j] != -1 {
				allFree = false
				break
			}
		}
		if !allFree {
			continue
		}
		aggr[i] = next
		for _, j := range g[i] {
			aggr[j] = next
		}
		next++
	}

	// Majority-vote pass: an unassigned row joins whichever already-
	// assigned neighboring aggregate has the most votes among its strong
	// neighbors.
	for i := 0; i < n; i++ {
		if aggr[i] != -1 {
			continue
		}
		votes := make(map[int32]int)
		for _, j := range g[i] {
			if aggr[j] != -1 {
				votes[aggr[j]]++
			}
		}
		best, bestVotes := int32(-1), 0
		for id, v := range votes {
			if v > bestVotes || (v == bestVotes && id < best) {
				best, bestVotes = id, v
			}
		}
		if best != -1 {
			aggr[i] = best
		}
	}

	// Remaining isolated rows become singleton aggregates.
	for i := 0; i < n; i++ {
		if aggr[i] == -1 {
			aggr[i] = next
			next++
		}
	}

	return aggr, int(next)
}

// tentativeProlongator builds the 0/1 tentative prolongator P̂ with
// P̂[i, aggr[i]] = 1 (spec section 4.2(b)).
func tentativeProlongator(a *crs.Matrix, aggr []int32, naggr int) *crs.Matrix {
	n, _ := a.Dims()
	b := crs.NewBuilder(n, naggr)
	for i := 0; i < n; i++ {
		b.Add(i, int(aggr[i]), 1)
	}
	return b.Build()
}
