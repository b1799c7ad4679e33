// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// InclinedBlock computes the solution of a block resting on a plane inclined
// by an angle θ, with Coulomb friction coefficient μ
//
//	        ______
//	       /  ρ  /
//	      /_____/
//	     / θ
//	    /_________
//
// The block is stable iff tan(θ) ≤ μ. When stable, the normal reaction is
// W・cos(θ) and the friction resultant is W・sin(θ), directed uphill.
type InclinedBlock struct {
	// input
	ρ float64 // density
	V float64 // volume of block
	θ float64 // inclination angle [rad]
	μ float64 // friction coefficient
}

// Init initialises this structure
func (o *InclinedBlock) Init(prms dbf.Params) {

	// default values
	o.ρ = 1.0
	o.V = 1.0
	o.θ = math.Pi / 6.0
	o.μ = 0.84

	// parameters
	for _, p := range prms {
		switch p.N {
		case "rho":
			o.ρ = p.V
		case "vol":
			o.V = p.V
		case "theta":
			o.θ = p.V
		case "mu":
			o.μ = p.V
		}
	}
}

// Weight returns the weight of the block
func (o InclinedBlock) Weight() float64 {
	return o.ρ * o.V
}

// Stable tells whether the block stays in equilibrium
func (o InclinedBlock) Stable() bool {
	return math.Tan(o.θ) <= o.μ
}

// Reactions computes the resultant normal and friction reactions
func (o InclinedBlock) Reactions() (fn, ft float64) {
	W := o.Weight()
	return W * math.Cos(o.θ), W * math.Sin(o.θ)
}

// CheckReactions checks the resultant reactions at the support interface
//
//	Input:
//	 np, nn -- compressive and tensile normal forces per contact point
//	 u, v   -- friction components per contact point
func (o InclinedBlock) CheckReactions(tst *testing.T, tol float64, np, nn, u, v []float64) {
	var sumN, sumU, sumV float64
	for i := range np {
		sumN += np[i] - nn[i]
		sumU += u[i]
		sumV += v[i]
	}
	fn, ft := o.Reactions()
	chk.Float64(tst, "Σfn", tol, sumN, fn)
	chk.Float64(tst, "|Σft|", tol, math.Sqrt(sumU*sumU+sumV*sumV), ft)
}
