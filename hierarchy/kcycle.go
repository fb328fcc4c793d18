// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hierarchy

import "gonum.org/v1/gonum/mat"

// kcycleStep runs two inner flexible-CG iterations on A_k u = f,
// preconditioned by cycle(k, ·, ·), accelerating the coarse-level
// correction (spec section 4.5, "if kcycle and k < kcycle_depth: run two
// inner Krylov iterations (flexible CG) ..."). u enters zeroed.
func (h *Hierarchy) kcycleStep(k int, f, u *mat.VecDense) {
	lvl := h.levels[k]
	a := lvl.A
	n, _ := a.Dims()
	b := h.backend

	r := b.NewVector(n)
	b.Copy(r, f) // u starts at 0, so r = f - A*0 = f

	z := b.NewVector(n)
	p := b.NewVector(n)
	ap := b.NewVector(n)
	zPrev := b.NewVector(n)

	h.cycle(k, r, z) // z = M^-1 r
	b.Copy(p, z)
	rzOld := b.InnerProduct(r, z)
	if rzOld == 0 {
		return
	}

	a.SpMV(1, p, 0, ap, false)
	pAp := b.InnerProduct(p, ap)
	if pAp == 0 {
		return
	}
	alpha := rzOld / pAp
	b.Axpby(alpha, p, 1, u)
	b.Axpby(-alpha, ap, 1, r)

	b.Copy(zPrev, z)
	b.Clear(z)
	h.cycle(k, r, z) // z = M^-1 r, fresh preconditioner application
	rz := b.InnerProduct(r, z)

	// Flexible-CG (Polak-Ribière) beta accounts for the preconditioner
	// changing between steps.
	b.Axpby(1, z, -1, zPrev) // zPrev now holds z - zPrev
	num := b.InnerProduct(zPrev, r)
	beta := 0.0
	if rzOld != 0 {
		beta = num / rzOld
	}

	b.Axpby(1, z, beta, p) // p = z + beta*p
	a.SpMV(1, p, 0, ap, false)
	pAp = b.InnerProduct(p, ap)
	if pAp == 0 {
		return
	}
	alpha = rz / pAp
	b.Axpby(alpha, p, 1, u)
}
