// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import "gonum.org/v1/gonum/mat"

// CG implements the preconditioned Conjugate Gradient method (spec section
// 4.6.a) for symmetric positive definite A. It is the default solver for
// an AMG-preconditioned SPD system.
//
// References:
//   - Barrett, Richard et al. (1994). Section 2.3.1 Conjugate Gradient
//     Method (CG). In Templates for the Solution of Linear Systems (2nd
//     ed.) (pp. 12-15). Philadelphia, PA: SIAM.
type CG struct {
	r mat.VecDense
	p mat.VecDense

	rho, rhoPrev float64

	resume int
}

// Init initializes the data for a linear solve. See the Method interface.
func (cg *CG) Init(x, residual *mat.VecDense) {
	dim := x.Len()
	if residual.Len() != dim {
		panic("krylov: vector length mismatch")
	}

	cg.r.CloneVec(residual)
	cg.p.Reset()
	cg.p.ReuseAsVec(dim)

	cg.rhoPrev = 1
	cg.resume = 1
}

// Iterate performs a step of the linear solve. See the Method interface.
//
// CG commands MulVec, PreconSolve, CheckResidualNorm and MajorIteration.
func (cg *CG) Iterate(ctx *Context) (Operation, error) {
	switch cg.resume {
	case 1:
		ctx.Src.CopyVec(&cg.r)
		cg.resume = 2
		// z_{i-1} = M^{-1} r_{i-1}
		return PreconSolve, nil
	case 2:
		z := ctx.Dst
		cg.rho = mat.Dot(&cg.r, z)        // ρ_{i-1} = r_{i-1}·z_{i-1}
		beta := cg.rho / cg.rhoPrev       // β_{i-1} = ρ_{i-1}/ρ_{i-2}
		cg.p.AddScaledVec(z, beta, &cg.p) // p_i = z_{i-1} + β p_{i-1}
		ctx.Src.CopyVec(&cg.p)
		cg.resume = 3
		return MulVec, nil
	case 3:
		ap := ctx.Dst
		alpha := cg.rho / mat.Dot(&cg.p, ap) // α_i = ρ_{i-1}/(p_i·Ap_i)
		ctx.X.AddScaledVec(ctx.X, alpha, &cg.p)
		cg.r.AddScaledVec(&cg.r, -alpha, ap)
		ctx.ResidualNorm = mat.Norm(&cg.r, 2)
		cg.resume = 4
		return CheckResidualNorm, nil
	case 4:
		if ctx.Converged {
			cg.resume = 0
			return MajorIteration, nil
		}
		cg.rhoPrev = cg.rho
		cg.resume = 1
		return MajorIteration, nil

	default:
		panic("krylov: Init not called")
	}
}
