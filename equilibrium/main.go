// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/korbireischl/compas-cra/inp"
	"github.com/korbireischl/compas-cra/out"
)

// Main holds all data for the analysis of one assembly
type Main struct {
	Sim     *inp.Simulation // simulation data
	Solver  Solver          // equilibrium solver; e.g. cra, cra_penalty, rbe
	Results []*out.Results  // results of solved stages
	ShowMsg bool            // show messages
}

// NewMain returns a new Main structure
//
//	Input:
//	 simfilepath -- simulation (.sim) filename including full path
//	 alias       -- word to be appended to simulation key
//	 erasePrev   -- erase previous results files
//	 verbose     -- show messages
func NewMain(simfilepath, alias string, erasePrev, verbose bool) (o *Main) {

	// new Main object
	o = new(Main)
	o.ShowMsg = verbose

	// read input data
	o.Sim = inp.ReadSim(simfilepath, alias, erasePrev)
	if o.Sim == nil {
		chk.Panic("cannot read simulation input data")
	}

	// message
	if o.ShowMsg {
		io.Pf("> Initialisation step completed\n")
		io.Pf("> Simulation (.sim) file read\n")
	}

	// block densities
	err := DensitySetup(o.Sim.Asm, o.Sim.MatDb, o.Sim.Solver.Density)
	if err != nil {
		chk.Panic("cannot set block densities:\n%v", err)
	}

	// allocate solver
	if alloc, ok := allocators[o.Sim.Solver.Type]; ok {
		o.Solver = alloc(&o.Sim.Solver, &o.Sim.LinSol)
	} else {
		chk.Panic("cannot find solver type named %q", o.Sim.Solver.Type)
	}
	return
}

// Run solves all stages of the simulation and saves the results
func (o *Main) Run() (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// message
	if o.ShowMsg {
		io.Pf("> Solving stages\n")
	}

	// loop over stages
	for stgidx := range o.Sim.Stages {

		// skip stage?
		if o.Sim.Stages[stgidx].Skip {
			continue
		}

		// run
		err = o.SolveOneStage(stgidx)
		if err != nil {
			return
		}
	}
	return
}

// SolveOneStage solves one stage and saves the results
//
//	Input:
//	 stgidx -- stage index (in o.Sim.Stages)
func (o *Main) SolveOneStage(stgidx int) (err error) {

	// message
	stg := o.Sim.Stages[stgidx]
	if o.ShowMsg {
		io.Pf("> Running stage %d: %s\n", stgidx, stg.Desc)
	}

	// external loads
	p := ExternalForceSetup(o.Sim.Asm, stg, stg.Time)
	if o.Sim.Data.ListBcs && o.ShowMsg {
		for _, id := range o.Sim.Asm.FreeBlocks {
			i := o.Sim.Asm.Free2idx[id]
			io.Pf("block %3d : p = %v\n", id, p[6*i:6*i+6])
		}
	}

	// solve
	err = o.Solver.Run(o.Sim.Asm, p, o.ShowMsg)
	if err != nil {
		return
	}

	// collect and save results
	res := out.NewResults(o.Sim.Asm, stgidx, stg)
	err = res.Save(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType)
	if err != nil {
		return
	}
	o.Results = append(o.Results, res)
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// onexit prints the final message with the total cpu time
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}
	err = prevErr
	return
}
