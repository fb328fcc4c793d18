// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hierarchy

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezhangle/go-amgcl/backend"
	"github.com/ezhangle/go-amgcl/crs"
	"github.com/ezhangle/go-amgcl/relax"
)

// Level bundles one AMG level's operators, smoother state and scratch
// vectors (spec section 3, "Level k owns exclusively ..."). P, R and
// Smoother are nil on the coarsest level, which instead owns lu, the dense
// direct-solve factorization of A.
type Level struct {
	A *crs.Matrix
	P *crs.Matrix
	R *crs.Matrix

	Smoother relax.State

	// F, U, T are per-level scratch vectors sized A.nrows: F holds the
	// level's right-hand side, U its current iterate, T transient
	// residual/correction storage. They are owned by the level, never
	// shared across concurrent solves (spec section 5).
	F, U, T *mat.VecDense

	lu *mat.LU
}

func newLevel(a *crs.Matrix, b backend.Backend) *Level {
	n, _ := a.Dims()
	return &Level{
		A: a,
		F: b.NewVector(n),
		U: b.NewVector(n),
		T: b.NewVector(n),
	}
}
