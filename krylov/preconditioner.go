// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import "gonum.org/v1/gonum/mat"

// hierarchyApplier is satisfied by *hierarchy.Hierarchy. Declaring it here
// rather than importing the hierarchy package keeps krylov usable with any
// preconditioner that exposes an Apply(r, z) V-cycle method, and avoids an
// import cycle with hierarchy's own tests.
type hierarchyApplier interface {
	Apply(r, z *mat.VecDense)
}

// HierarchyPreconditioner adapts an AMG hierarchy's V-cycle/K-cycle Apply
// into the PreconSolve shape a Krylov Method expects (spec section 4.6,
// "M is the AMG V-cycle operator"). The AMG cycle is only ever used as a
// symmetric (or near-symmetric, for K-cycle) approximation in this
// module's intended SPD/aggregation-with-symmetric-smoother
// configurations, so trans is ignored.
func HierarchyPreconditioner(h hierarchyApplier) PreconSolve {
	return func(dst *mat.VecDense, trans bool, rhs mat.Vector) error {
		r, ok := rhs.(*mat.VecDense)
		if !ok {
			r = mat.VecDenseCopyOf(rhs)
		}
		h.Apply(r, dst)
		return nil
	}
}
