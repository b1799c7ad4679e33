// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package equilibrium implements solvers for the static equilibrium of
// rigid-block assemblies in frictional contact
package equilibrium

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/korbireischl/compas-cra/inp"
	"github.com/korbireischl/compas-cra/nlp"
)

// Solver solves the static equilibrium of an assembly for one load vector.
// On success, the contact forces (and displacements, when the formulation has
// them) are written back onto the assembly.
type Solver interface {
	Run(a *inp.Assembly, p []float64, verbose bool) (err error)
}

// allocators holds all available solvers
var allocators = make(map[string]func(sd *inp.SolverData, lsd *inp.LinSolData) Solver)

// New returns a solver by type name; e.g. "cra", "cra_penalty", "rbe"
func New(typ string, sd *inp.SolverData, lsd *inp.LinSolData) (Solver, error) {
	alloc, ok := allocators[typ]
	if !ok {
		return nil, chk.Err("cannot find solver type named %q", typ)
	}
	return alloc(sd, lsd), nil
}

// solveModel runs the nonlinear program of a prepared model and transfers the
// results onto the assembly. Non-optimal termination is returned as an error,
// with the termination condition in the message.
func solveModel(m *Model, sd *inp.SolverData, lsd *inp.LinSolData, verbose bool) (err error) {

	// nonlinear solver
	sol := nlp.NewSolver(m.Pb)
	sol.NmaxIt = sd.NmaxIt
	sol.FbTol = sd.FbTol
	sol.Binit = sd.Binit
	sol.Bfac = sd.Bfac
	sol.Bmin = sd.Bmin
	sol.ShowR = sd.ShowR
	sol.LsName = lsd.Name
	sol.LsVerbose = lsd.Verbose
	defer sol.Free()

	// solve
	err = sol.Solve(verbose)
	if err != nil {
		return chk.Err("equilibrium solve failed (termination = %q):\n%v", sol.TermCond, err)
	}
	if verbose {
		io.Pf("result: %s\n", sol.TermCond)
		io.Pf("obj: %g\n", sol.Fval)
	}

	// check and transfer results
	err = ResultCheck(m, sol.X, sd.CheckTol, verbose)
	if err != nil {
		return
	}
	ResultAssembly(m, sol.X)
	return
}
