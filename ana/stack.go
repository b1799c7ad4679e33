// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// StackedColumn computes the solution of a column of identical blocks stacked
// on a support. Interface k (k=0 at the support) carries the weight of all
// blocks above it.
type StackedColumn struct {
	// input
	ρ float64 // density
	V float64 // volume of one block
	N int     // number of blocks
}

// Init initialises this structure
func (o *StackedColumn) Init(prms dbf.Params) {

	// default values
	o.ρ = 1.0
	o.V = 1.0
	o.N = 2

	// parameters
	for _, p := range prms {
		switch p.N {
		case "rho":
			o.ρ = p.V
		case "vol":
			o.V = p.V
		case "nblocks":
			o.N = int(p.V)
		}
	}
}

// InterfaceForce returns the normal force carried by interface k
func (o StackedColumn) InterfaceForce(k int) float64 {
	return float64(o.N-k) * o.ρ * o.V
}

// CheckInterface checks the resultant normal force at interface k
//
//	Input:
//	 np, nn -- compressive and tensile normal forces per contact point
func (o StackedColumn) CheckInterface(tst *testing.T, tol float64, k int, np, nn []float64) {
	var sumN float64
	for i := range np {
		sumN += np[i] - nn[i]
	}
	chk.Float64(tst, "Σfn", tol, sumN, o.InterfaceForce(k))
}
