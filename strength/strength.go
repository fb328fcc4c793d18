// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package strength builds the strength-of-connection graph used by every
// coarsening strategy in package coarsen (spec section 4.2). The graph is
// transient: it is rebuilt from scratch for each level and discarded once
// the coarsening strategy has used it to build P, per spec section 3
// ("Strength-of-connection graph ... Not persisted beyond construction of
// P"). It is represented as a plain CRS-style adjacency (per-row slice of
// strongly-connected column indices) rather than a general graph structure:
// see DESIGN.md for why github.com/katalvlaran/lvlath's mutex-guarded,
// string-keyed Graph was not used here.
package strength

import "github.com/ezhangle/go-amgcl/crs"

// Params holds a strength threshold. The coarsening strategies do not take
// a Params: package coarsen passes θ from its own coarsen.Params (Theta or
// AggregationTheta) to Classical or Symmetric, which use DefaultTheta when
// given θ <= 0.
type Params struct {
	// Theta is the strength threshold θ; default 0.25 (classical) or 0.08
	// (aggregation, see coarsen.Params.AggregationTheta) depending on the
	// strategy requesting the graph.
	Theta float64
}

const DefaultTheta = 0.25

// Graph is a strength-of-connection graph: Neighbors[i] holds the column
// indices j (j != i) that row i strongly depends on.
type Graph struct {
	N         int
	Neighbors [][]int32
}

// Classical builds the strength graph using the classical Ruge-Stüben test
// (spec section 4.2(a)): i->j is strong iff
//
//	-a_ij >= theta * max_{k!=i}(-a_ik).
func Classical(a *crs.Matrix, theta float64) *Graph {
	if theta <= 0 {
		theta = DefaultTheta
	}
	n, _ := a.Dims()
	g := &Graph{N: n, Neighbors: make([][]int32, n)}
	for i := 0; i < n; i++ {
		s, e := a.RowRange(i)
		col, val := a.Col(), a.Val()
		maxOffDiag := 0.0
		for k := s; k < e; k++ {
			if col[k] == i {
				continue
			}
			if v := -val[k]; v > maxOffDiag {
				maxOffDiag = v
			}
		}
		if maxOffDiag <= 0 {
			continue
		}
		thresh := theta * maxOffDiag
		var nbrs []int32
		for k := s; k < e; k++ {
			if col[k] == i {
				continue
			}
			if -val[k] >= thresh {
				nbrs = append(nbrs, int32(col[k]))
			}
		}
		g.Neighbors[i] = nbrs
	}
	return g
}

// Symmetric builds the strength graph used by aggregation-based
// coarsening (spec section 4.2(b)): i~j is strong iff
//
//	|a_ij|^2 >= theta^2 * a_ii * a_jj.
//
// This symmetric test is the one used by both plain and smoothed
// aggregation; the resulting adjacency is symmetrized (if i is strong to j
// under the test, j is recorded as strong to i too) so that greedy
// aggregation (coarsen.aggregate) can treat it as an undirected graph.
func Symmetric(a *crs.Matrix, theta float64) *Graph {
	if theta <= 0 {
		theta = DefaultTheta
	}
	n, _ := a.Dims()
	diag := a.Diag()
	theta2 := theta * theta
	adj := make([]map[int32]struct{}, n)
	for i := range adj {
		adj[i] = make(map[int32]struct{})
	}
	col, val := a.Col(), a.Val()
	for i := 0; i < n; i++ {
		s, e := a.RowRange(i)
		aii := diag[i]
		for k := s; k < e; k++ {
			j := col[k]
			if j == i || j >= n {
				continue
			}
			aij := val[k]
			ajj := diag[j]
			if aij*aij >= theta2*aii*ajj {
				adj[i][int32(j)] = struct{}{}
				adj[j][int32(i)] = struct{}{}
			}
		}
	}
	g := &Graph{N: n, Neighbors: make([][]int32, n)}
	for i := 0; i < n; i++ {
		nbrs := make([]int32, 0, len(adj[i]))
		for j := range adj[i] {
			nbrs = append(nbrs, j)
		}
		sortInt32(nbrs)
		g.Neighbors[i] = nbrs
	}
	return g
}

func sortInt32(s []int32) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}
