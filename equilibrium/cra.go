// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"time"

	"github.com/cpmech/gosl/io"

	"github.com/korbireischl/compas-cra/inp"
)

// CraSolver implements the coupled rigid-block analysis: contact forces and
// virtual block displacements are solved together, with a complementarity
// condition linking normal force and opening at each contact point.
type CraSolver struct {
	sd  *inp.SolverData
	lsd *inp.LinSolData
}

// add solver to factory of solvers
func init() {
	allocators["cra"] = func(sd *inp.SolverData, lsd *inp.LinSolData) Solver {
		return &CraSolver{sd, lsd}
	}
}

// Run solves the assembly under the load vector p
func (o *CraSolver) Run(a *inp.Assembly, p []float64, verbose bool) (err error) {

	// model with forces, displacements and slacks
	t0 := time.Now()
	m := NewModel(a, o.sd, false, true)

	// variable bounds
	Bounds(m, "f", 0)
	Bounds(m, "alpha", 0)
	Bounds(m, "d", o.sd.Dbnd)

	// equilibrium and friction
	aeq := aeqRows(a, false)
	neq, nfr := 0, 0
	if frictionless(o.sd.Mu) {
		neq, _ = StaticEquilibriumConstraints(m, aeq, nil, p)
		TangentZeroConstraints(m)
	} else {
		afr := afrRows(a, o.sd.Mu, o.sd.Nplanes, false)
		neq, nfr = StaticEquilibriumConstraints(m, aeq, afr, p)
	}

	// contact conditions
	Constraints(m, "contact", o.sd.Eps)
	Constraints(m, "no_penetration", o.sd.Eps)

	// objective and starting point
	Objectives(m, "cra")
	Initialisations(m, p)
	if o.sd.Timing {
		io.Pf("set up time: %v\n", time.Since(t0))
	}
	if verbose {
		io.Pf("cra: %d contact points, %d equalities, %d friction rows\n", m.Nv, neq, nfr)
	}

	// solve
	t0 = time.Now()
	err = solveModel(m, o.sd, o.lsd, verbose)
	if o.sd.Timing {
		io.Pf("solving time: %v\n", time.Since(t0))
	}
	return
}

// CRASolve runs the coupled analysis with default solver settings. It is a
// convenience wrapper around the "cra" solver.
func CRASolve(a *inp.Assembly, sd *inp.SolverData, lsd *inp.LinSolData, p []float64, verbose bool) error {
	sol := &CraSolver{sd, lsd}
	return sol.Run(a, p, verbose)
}

// frictionless tells whether the friction coefficient collapses the cone
func frictionless(mu float64) bool { return mu < 1e-12 }
