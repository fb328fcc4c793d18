// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crs

// MatMul computes C = A*B for two CRS matrices row by row. Each row is
// gathered in a single sweep: a dense marker array of size B.ncols, reset
// by a per-row timestamp rather than cleared in full, records which
// columns the row touches while a dense row buffer indexed the same way
// accumulates their values. There is no separate symbolic pass that sizes
// the result before the numeric one; the output slices grow as rows are
// appended. Column indices of each result row are sorted ascending before
// the row is stored, and entries that sum to exactly zero are dropped.
func MatMul(a, b *Matrix) *Matrix {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		panic(ErrShape)
	}

	marker := make([]int, bc)
	for i := range marker {
		marker[i] = -1
	}
	accum := make([]float64, bc)
	rowCols := make([]int, 0, bc)

	ptr := make([]int, ar+1)
	var col []int
	var val []float64

	for i := 0; i < ar; i++ {
		rowCols = rowCols[:0]
		for k := a.ptr[i]; k < a.ptr[i+1]; k++ {
			aik := a.val[k]
			row := a.col[k]
			for kb := b.ptr[row]; kb < b.ptr[row+1]; kb++ {
				j := b.col[kb]
				if marker[j] != i {
					marker[j] = i
					accum[j] = 0
					rowCols = append(rowCols, j)
				}
				accum[j] += aik * b.val[kb]
			}
		}
		sortInts(rowCols)
		for _, j := range rowCols {
			v := accum[j]
			if v != 0 {
				col = append(col, j)
				val = append(val, v)
			}
		}
		ptr[i+1] = len(col)
	}
	return &Matrix{nrows: ar, ncols: bc, ptr: ptr, col: col, val: val}
}

// GalerkinProduct computes A_{k+1} = R*A*P, the coarse-level operator of
// spec section 4.2, by two successive sparse-sparse products.
func GalerkinProduct(r, a, p *Matrix) *Matrix {
	ap := MatMul(a, p)
	return MatMul(r, ap)
}

func sortInts(s []int) {
	// Insertion sort: rows produced by coarsening have few non-zeros per
	// row (single-digit to low tens), so this beats sort.Ints's overhead.
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
