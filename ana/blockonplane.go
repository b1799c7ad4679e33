// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// BlockOnPlane computes the solution of a single cuboid block resting on a
// horizontal support
//
//	      o-----------o
//	      |           |
//	  lz  |    ρ      |      W = ρ・lx・ly・lz
//	      |           |
//	      o-----------o
//	    △  △  △  △  △  △
//
// The normal reactions sum to the weight and the friction forces vanish.
type BlockOnPlane struct {
	// input
	ρ  float64 // density
	lx float64 // x dimension
	ly float64 // y dimension
	lz float64 // z dimension
}

// Init initialises this structure
func (o *BlockOnPlane) Init(prms dbf.Params) {

	// default values
	o.ρ = 1.0
	o.lx = 1.0
	o.ly = 1.0
	o.lz = 1.0

	// parameters
	for _, p := range prms {
		switch p.N {
		case "rho":
			o.ρ = p.V
		case "lx":
			o.lx = p.V
		case "ly":
			o.ly = p.V
		case "lz":
			o.lz = p.V
		}
	}
}

// Weight returns the weight of the block
func (o BlockOnPlane) Weight() float64 {
	return o.ρ * o.lx * o.ly * o.lz
}

// CheckReactions checks the reaction forces at the support interface
//
//	Input:
//	 np, nn -- compressive and tensile normal forces per contact point
//	 u, v   -- friction components per contact point
func (o BlockOnPlane) CheckReactions(tst *testing.T, tol float64, np, nn, u, v []float64) {
	var sumN, sumU, sumV float64
	for i := range np {
		sumN += np[i] - nn[i]
		sumU += u[i]
		sumV += v[i]
	}
	chk.Float64(tst, "Σfn", tol, sumN, o.Weight())
	chk.Float64(tst, "Σfu", tol, sumU, 0)
	chk.Float64(tst, "Σfv", tol, sumV, 0)
}
