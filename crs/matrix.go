// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package crs provides a compressed row storage (CRS, a.k.a. CSR) sparse
// matrix type and the primitive linear-algebra operations the rest of the
// module builds on: row access, sparse matrix-vector multiplication,
// transpose, and the symbolic/numeric sparse-sparse product used by the
// Galerkin triple product.
package crs

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ErrShape is panicked when a CRS matrix is constructed with inconsistent
// dimensions, or when an operation is given operands of mismatched shape.
const ErrShape = "crs: dimension mismatch"

var (
	matrixVar *Matrix
	_         mat.Matrix = matrixVar
)

// Matrix is an immutable sparse matrix in compressed row storage. Ptr has
// length Nrows+1 with Ptr[0]==0 and Ptr[Nrows]==len(Col); the non-zeros of
// row i are Col[Ptr[i]:Ptr[i+1]] / Val[Ptr[i]:Ptr[i+1]], with Col sorted
// strictly ascending within the row.
type Matrix struct {
	nrows, ncols int
	ptr          []int
	col          []int
	val          []float64
}

// NewMatrix constructs a Matrix from the given ptr/col/val triple, taking
// ownership of the slices. It panics with ErrShape if the basic CRS shape
// invariants (ptr length, ptr monotonicity, ptr bounds, column bounds and
// ascending order within a row) do not hold.
func NewMatrix(nrows, ncols int, ptr, col []int, val []float64) *Matrix {
	if nrows < 0 || ncols < 0 {
		panic(ErrShape)
	}
	if len(ptr) != nrows+1 || len(col) != len(val) {
		panic(ErrShape)
	}
	if ptr[0] != 0 || ptr[nrows] != len(col) {
		panic(ErrShape)
	}
	for i := 0; i < nrows; i++ {
		if ptr[i] > ptr[i+1] {
			panic(ErrShape)
		}
		prev := -1
		for _, j := range col[ptr[i]:ptr[i+1]] {
			if j <= prev || j < 0 || j >= ncols {
				panic(ErrShape)
			}
			prev = j
		}
	}
	return &Matrix{nrows: nrows, ncols: ncols, ptr: ptr, col: col, val: val}
}

// Dims returns the number of rows and columns, satisfying mat.Matrix.
func (m *Matrix) Dims() (r, c int) { return m.nrows, m.ncols }

// NNZ returns the number of stored (nominally non-zero) entries.
func (m *Matrix) NNZ() int { return len(m.val) }

// RowRange returns the half-open range [start, end) into Col/Val holding
// row i's entries.
func (m *Matrix) RowRange(i int) (start, end int) { return m.ptr[i], m.ptr[i+1] }

// Col returns the column-index slice. The caller must not modify it.
func (m *Matrix) Col() []int { return m.col }

// Val returns the value slice. The caller must not modify it.
func (m *Matrix) Val() []float64 { return m.val }

// Ptr returns the row-pointer slice. The caller must not modify it.
func (m *Matrix) Ptr() []int { return m.ptr }

// At returns A[i,j], satisfying mat.Matrix. It is a binary search over the
// row's ascending column indices and is not used on SpMV's hot path.
func (m *Matrix) At(i, j int) float64 {
	if i < 0 || i >= m.nrows || j < 0 || j >= m.ncols {
		panic(ErrShape)
	}
	start, end := m.ptr[i], m.ptr[i+1]
	row := m.col[start:end]
	k := sort.SearchInts(row, j)
	if k < len(row) && row[k] == j {
		return m.val[start+k]
	}
	return 0
}

// Diag returns the diagonal entries a_ii for i in [0,min(nrows,ncols)),
// 0 where absent.
func (m *Matrix) Diag() []float64 {
	n := m.nrows
	if m.ncols < n {
		n = m.ncols
	}
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = m.At(i, i)
	}
	return d
}

// T returns the transpose as a mat.Matrix, satisfying mat.Matrix. The
// transpose is materialized (CRS has no cheap lazy-transpose view without
// giving up ascending column order).
func (m *Matrix) T() mat.Matrix { return m.Transpose() }

// Transpose returns a new Matrix equal to A^T.
func (m *Matrix) Transpose() *Matrix {
	nnz := len(m.val)
	colCount := make([]int, m.ncols)
	for _, j := range m.col {
		colCount[j]++
	}
	ptr := make([]int, m.ncols+1)
	for j := 0; j < m.ncols; j++ {
		ptr[j+1] = ptr[j] + colCount[j]
	}
	col := make([]int, nnz)
	val := make([]float64, nnz)
	next := append([]int(nil), ptr[:m.ncols]...)
	for i := 0; i < m.nrows; i++ {
		for k := m.ptr[i]; k < m.ptr[i+1]; k++ {
			j := m.col[k]
			d := next[j]
			col[d] = i
			val[d] = m.val[k]
			next[j]++
		}
	}
	for j := 0; j < m.ncols; j++ {
		sortRow(col[ptr[j]:ptr[j+1]], val[ptr[j]:ptr[j+1]])
	}
	return &Matrix{nrows: m.ncols, ncols: m.nrows, ptr: ptr, col: col, val: val}
}

// sortRow sorts col/val in lock-step by ascending col.
func sortRow(col []int, val []float64) {
	idx := make([]int, len(col))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return col[idx[a]] < col[idx[b]] })
	sc := make([]int, len(col))
	sv := make([]float64, len(val))
	for d, s := range idx {
		sc[d] = col[s]
		sv[d] = val[s]
	}
	copy(col, sc)
	copy(val, sv)
}

// MulVecTo computes dst = A*x (trans==false) or dst = Aᵀ*x (trans==true),
// overwriting dst unconditionally. The signature mirrors
// gonum.org/v1/gonum/linsolve.MulVecToer so a *Matrix can be used directly
// wherever that interface is expected.
func (m *Matrix) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	m.SpMV(1, x, 0, dst, trans)
}

// SpMV computes dst = alpha*A*x + beta*dst (trans==false) or
// dst = alpha*Aᵀ*x + beta*dst (trans==true), per spec section 4.1. When
// beta is 0, dst is overwritten unconditionally (no read of its prior
// contents), matching the spec's "when β=0, y is overwritten
// unconditionally" note.
func (m *Matrix) SpMV(alpha float64, x mat.Vector, beta float64, dst *mat.VecDense, trans bool) {
	if trans {
		if x.Len() != m.nrows || dst.Len() != m.ncols {
			panic(ErrShape)
		}
	} else {
		if x.Len() != m.ncols || dst.Len() != m.nrows {
			panic(ErrShape)
		}
	}

	if beta == 0 {
		dst.Zero()
	} else if beta != 1 {
		dst.ScaleVec(beta, dst)
	}

	if !trans {
		for i := 0; i < m.nrows; i++ {
			var sum float64
			for k := m.ptr[i]; k < m.ptr[i+1]; k++ {
				sum += m.val[k] * x.AtVec(m.col[k])
			}
			dst.SetVec(i, dst.AtVec(i)+alpha*sum)
		}
		return
	}

	for i := 0; i < m.nrows; i++ {
		xi := x.AtVec(i)
		if xi == 0 {
			continue
		}
		for k := m.ptr[i]; k < m.ptr[i+1]; k++ {
			j := m.col[k]
			dst.SetVec(j, dst.AtVec(j)+alpha*m.val[k]*xi)
		}
	}
}
