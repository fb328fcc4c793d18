// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coarsen

import (
	"github.com/ezhangle/go-amgcl/crs"
	"github.com/ezhangle/go-amgcl/strength"
)

const (
	undecided int8 = iota
	coarse
	fine
)

type rugeStubenStrategy struct{}

func (rugeStubenStrategy) Coarsen(a *crs.Matrix, params Params) (p, r, ac *crs.Matrix, err error) {
	params = params.withDefaults()
	n, _ := a.Dims()
	s := strength.Classical(a, params.Theta).Neighbors

	// st[j] holds the rows that strongly depend on j, i.e. the reverse of
	// s: i is in st[j] iff j is in s[i] (spec section 4.2(b)).
	st := make([][]int32, n)
	for i, nbrs := range s {
		for _, j := range nbrs {
			st[j] = append(st[j], int32(i))
		}
	}

	color := make([]int8, n)
	measure := make([]int, n)
	for i := range measure {
		measure[i] = len(st[i])
	}

	remaining := n
	for remaining > 0 {
		best, bestMeasure := -1, -1
		for i := 0; i < n; i++ {
			if color[i] != undecided {
				continue
			}
			if measure[i] > bestMeasure {
				best, bestMeasure = i, measure[i]
			}
		}

		color[best] = coarse
		remaining--
		for _, k32 := range st[best] {
			k := int(k32)
			if color[k] != undecided {
				continue
			}
			color[k] = fine
			remaining--
			for _, m32 := range st[k] {
				m := int(m32)
				if color[m] == undecided {
					measure[m]++
				}
			}
		}
	}

	secondPassFtoC(a, s, color)

	coarseIdx := make([]int, n)
	nc := 0
	for i := 0; i < n; i++ {
		if color[i] == coarse {
			coarseIdx[i] = nc
			nc++
		} else {
			coarseIdx[i] = -1
		}
	}

	pb := crs.NewBuilder(n, nc)
	col, val := a.Col(), a.Val()
	diag := a.Diag()
	for i := 0; i < n; i++ {
		if color[i] == coarse {
			pb.Add(i, coarseIdx[i], 1)
			continue
		}
		rowStart, rowEnd := a.RowRange(i)
		var cWeightSum, nbrSum float64
		for k := rowStart; k < rowEnd; k++ {
			j := col[k]
			if j == i {
				continue
			}
			nbrSum += val[k]
			if color[j] == coarse {
				cWeightSum += val[k]
			}
		}
		if cWeightSum == 0 || diag[i] == 0 {
			// No coarse neighbor to interpolate from: treat i as
			// disconnected from the coarse space (row left empty,
			// harmless zero row in P).
			continue
		}
		factor := nbrSum / (diag[i] * cWeightSum)
		for k := rowStart; k < rowEnd; k++ {
			j := col[k]
			if j == i || color[j] != coarse {
				continue
			}
			w := -val[k] * factor
			if w != 0 {
				pb.Add(i, coarseIdx[j], w)
			}
		}
	}

	p = pb.Build()
	p, r, ac = galerkin(p, a)
	return p, r, ac, nil
}

// secondPassFtoC implements the interpolation-strength patch of spec
// section 4.2(c): for every F-F strong edge i->j whose endpoints share no
// common C neighbor, promote j to C.
func secondPassFtoC(a *crs.Matrix, s [][]int32, color []int8) {
	for i, nbrs := range s {
		if color[i] != fine {
			continue
		}
		for _, j32 := range nbrs {
			j := int(j32)
			if color[j] != fine {
				continue
			}
			if shareCommonCoarseNeighbor(s, color, i, j) {
				continue
			}
			color[j] = coarse
		}
	}
}

func shareCommonCoarseNeighbor(s [][]int32, color []int8, i, j int) bool {
	for _, a32 := range s[i] {
		a := int(a32)
		if color[a] != coarse {
			continue
		}
		for _, b32 := range s[j] {
			if int(b32) == a {
				return true
			}
		}
	}
	return false
}
