// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"time"

	"github.com/cpmech/gosl/io"

	"github.com/korbireischl/compas-cra/inp"
)

// CraPenaltySolver implements the coupled analysis with the penalty force
// basis: the normal force at each contact point is split into a compressive
// part fn+ and a tensile part fn-, both nonnegative, so that tensile states
// remain representable and are exposed in the solution instead of making the
// program infeasible.
type CraPenaltySolver struct {
	sd  *inp.SolverData
	lsd *inp.LinSolData
}

// add solver to factory of solvers
func init() {
	allocators["cra_penalty"] = func(sd *inp.SolverData, lsd *inp.LinSolData) Solver {
		return &CraPenaltySolver{sd, lsd}
	}
}

// Run solves the assembly under the load vector p
func (o *CraPenaltySolver) Run(a *inp.Assembly, p []float64, verbose bool) (err error) {

	// model with the 4-component force basis
	t0 := time.Now()
	m := NewModel(a, o.sd, true, true)

	// variable bounds
	Bounds(m, "f_tilde", 0)
	Bounds(m, "alpha", 0)
	Bounds(m, "d", o.sd.Dbnd)

	// equilibrium and friction on the penalty basis
	aeqb := aeqRows(a, true)
	neq, nfr := 0, 0
	if frictionless(o.sd.Mu) {
		neq, _ = StaticEquilibriumConstraints(m, aeqb, nil, p)
		TangentZeroConstraints(m)
	} else {
		afrb := afrRows(a, o.sd.Mu, o.sd.Nplanes, true)
		neq, nfr = StaticEquilibriumConstraints(m, aeqb, afrb, p)
	}

	// contact conditions; the tangential coupling replaces the single
	// complementarity of the plain formulation
	Constraints(m, "penalty_contact", o.sd.Eps)
	Constraints(m, "no_penetration", o.sd.Eps)
	Constraints(m, "fn_np", 0)
	Constraints(m, "penalty_ft_dt", 0)

	// objective and starting point
	Objectives(m, "cra_penalty")
	Initialisations(m, p)
	if o.sd.Timing {
		io.Pf("set up time: %v\n", time.Since(t0))
	}
	if verbose {
		io.Pf("cra_penalty: %d contact points, %d equalities, %d friction rows\n", m.Nv, neq, nfr)
	}

	// solve
	t0 = time.Now()
	err = solveModel(m, o.sd, o.lsd, verbose)
	if o.sd.Timing {
		io.Pf("solving time: %v\n", time.Since(t0))
	}
	return
}

// CRAPenaltySolve runs the penalty formulation of the coupled analysis. It is
// a convenience wrapper around the "cra_penalty" solver.
func CRAPenaltySolve(a *inp.Assembly, sd *inp.SolverData, lsd *inp.LinSolData, p []float64, verbose bool) error {
	sol := &CraPenaltySolver{sd, lsd}
	return sol.Run(a, p, verbose)
}
