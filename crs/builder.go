// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crs

import "sort"

// Builder accumulates (row, col, value) triplets and freezes them into a
// Matrix. Duplicate (row, col) pairs are summed, matching the accumulation
// semantics needed when assembling P, R and the coarse operator row by row.
// Builder is the triplet-accumulation idiom of
// gonum.org/v1/gonum/linsolve/internal/triplet, generalized with duplicate
// summation and a Build step that compresses into CRS.
type Builder struct {
	nrows, ncols int
	rows, cols   []int
	vals         []float64
}

// NewBuilder returns a Builder for an nrows×ncols matrix.
func NewBuilder(nrows, ncols int) *Builder {
	if nrows < 0 || ncols < 0 {
		panic(ErrShape)
	}
	return &Builder{nrows: nrows, ncols: ncols}
}

// Add records a contribution to A[i,j]; repeated calls for the same (i,j)
// accumulate (add). Build drops entries that sum to exactly zero.
func (b *Builder) Add(i, j int, v float64) {
	if i < 0 || i >= b.nrows || j < 0 || j >= b.ncols {
		panic(ErrShape)
	}
	b.rows = append(b.rows, i)
	b.cols = append(b.cols, j)
	b.vals = append(b.vals, v)
}

// Build sorts the accumulated triplets by (row, col), sums duplicates, and
// returns the resulting Matrix. Build does not mutate or reuse the
// Builder's internal state for a subsequent Build call.
func (b *Builder) Build() *Matrix {
	n := len(b.rows)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, c int) bool {
		ra, rc := b.rows[idx[a]], b.rows[idx[c]]
		if ra != rc {
			return ra < rc
		}
		return b.cols[idx[a]] < b.cols[idx[c]]
	})

	ptr := make([]int, b.nrows+1)
	col := make([]int, 0, n)
	val := make([]float64, 0, n)

	row := 0
	k := 0
	for k < n {
		r := b.rows[idx[k]]
		for row < r {
			ptr[row+1] = len(col)
			row++
		}
		c := b.cols[idx[k]]
		var sum float64
		for k < n && b.rows[idx[k]] == r && b.cols[idx[k]] == c {
			sum += b.vals[idx[k]]
			k++
		}
		if sum != 0 {
			col = append(col, c)
			val = append(val, sum)
		}
		ptr[row+1] = len(col)
	}
	for row < b.nrows {
		ptr[row+1] = len(col)
		row++
	}
	return &Matrix{nrows: b.nrows, ncols: b.ncols, ptr: ptr, col: col, val: val}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	ptr := make([]int, n+1)
	col := make([]int, n)
	val := make([]float64, n)
	for i := 0; i < n; i++ {
		ptr[i] = i
		col[i] = i
		val[i] = 1
	}
	ptr[n] = n
	return &Matrix{nrows: n, ncols: n, ptr: ptr, col: col, val: val}
}
