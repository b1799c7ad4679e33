// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"time"

	"github.com/cpmech/gosl/io"

	"github.com/korbireischl/compas-cra/inp"
)

// RbeSolver implements the rigid-block equilibrium analysis: a forces-only
// program on the penalty basis, without kinematics. Tensile normal forces are
// admitted but heavily weighted, so they only appear where compression alone
// cannot balance the loads.
type RbeSolver struct {
	sd  *inp.SolverData
	lsd *inp.LinSolData
}

// add solver to factory of solvers
func init() {
	allocators["rbe"] = func(sd *inp.SolverData, lsd *inp.LinSolData) Solver {
		return &RbeSolver{sd, lsd}
	}
}

// Run solves the assembly under the load vector p
func (o *RbeSolver) Run(a *inp.Assembly, p []float64, verbose bool) (err error) {

	// forces-only model
	t0 := time.Now()
	m := NewModel(a, o.sd, true, false)

	// variable bounds
	Bounds(m, "f_tilde", 0)

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

	// objective and starting point
	Objectives(m, "rbe")
	Initialisations(m, p)
	if o.sd.Timing {
		io.Pf("set up time: %v\n", time.Since(t0))
	}
	if verbose {
		io.Pf("rbe: %d contact points, %d equalities, %d friction rows\n", m.Nv, neq, nfr)
	}

	// solve
	t0 = time.Now()
	err = solveModel(m, o.sd, o.lsd, verbose)
	if o.sd.Timing {
		io.Pf("solving time: %v\n", time.Since(t0))
	}
	return
}

// RBESolve runs the forces-only analysis. It is a convenience wrapper around
// the "rbe" solver.
func RBESolve(a *inp.Assembly, sd *inp.SolverData, lsd *inp.LinSolData, p []float64, verbose bool) error {
	sol := &RbeSolver{sd, lsd}
	return sol.Run(a, p, verbose)
}
