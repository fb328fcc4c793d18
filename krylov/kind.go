// Copyright ©2026 The go-amgcl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

// Kind names a Krylov method, completing the tagged-constant-plus-factory
// pattern used by coarsen.Kind and relax.Kind (spec section 4.9): the
// solver axis of the coarsening×relaxation×solver product space is
// selected the same way as the other two, not by a nested switch.
type Kind int

const (
	KindCG Kind = iota
	KindBiCGStab
	KindGMRES
)

// New returns a fresh Method for kind. GMRES uses DefaultRestart; use a
// literal &GMRES{Restart: m} directly for a non-default restart.
func New(kind Kind) Method {
	switch kind {
	case KindCG:
		return &CG{}
	case KindBiCGStab:
		return &BiCGStab{}
	case KindGMRES:
		return &GMRES{}
	default:
		panic("krylov: unknown kind")
	}
}
