// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from (.sim), (.mat) and (.asm) JSON files
package inp

import (
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// Data holds global data for analyses
type Data struct {
	Desc    string `json:"desc"`    // description of analysis
	Asmfile string `json:"asmfile"` // assembly file path
	Matfile string `json:"matfile"` // materials file path; "" => use global density for all blocks
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/cra
	Encoder string `json:"encoder"` // encoder name; "gob" or "json"
	ListBcs bool   `json:"listbcs"` // list applied loads
}

// LinSolData holds data for the sparse linear solver used by the Newton iterations
type LinSolData struct {
	Name      string `json:"name"`      // "umfpack" or "mumps"
	Symmetric bool   `json:"symmetric"` // use symmetric solver
	Verbose   bool   `json:"verbose"`   // verbose?
	Timing    bool   `json:"timing"`    // show timing statistics
}

// SolverData holds equilibrium solver data
type SolverData struct {

	// problem parameters
	Type    string  `json:"type"`    // solver type: {cra, cra_penalty, rbe}
	Mu      float64 `json:"mu"`      // Coulomb friction coefficient
	Density float64 `json:"density"` // global density; used for blocks without material
	Dbnd    float64 `json:"dbnd"`    // bound on virtual displacement components
	Eps     float64 `json:"eps"`     // contact overlap allowance
	Nplanes int     `json:"nplanes"` // number of planes in linearized friction cone

	// objective weights
	WgtF  float64 `json:"wgtf"`  // regularization weight on forces and displacements
	WgtNn float64 `json:"wgtnn"` // weight penalizing tensile normal forces

	// nonlinear solver
	NmaxIt   int     `json:"nmaxit"`   // max Newton iterations per barrier step
	FbTol    float64 `json:"fbtol"`    // tolerance for convergence on KKT residual
	CheckTol float64 `json:"checktol"` // tolerance for equilibrium check of results
	Binit    float64 `json:"binit"`    // initial barrier parameter
	Bfac     float64 `json:"bfac"`     // barrier reduction factor
	Bmin     float64 `json:"bmin"`     // final barrier parameter
	ShowR    bool    `json:"showr"`    // show residuals
	Timing   bool    `json:"timing"`   // show setup and solving times
}

// PointLoad holds an external load applied to the centroid of one free block
type PointLoad struct {

	// input
	Block int       `json:"block"` // block id
	F     []float64 `json:"f"`     // [3] force vector
	M     []float64 `json:"m"`     // [3] moment about the block centroid; may be nil
	Fcn   string    `json:"fcn"`   // multiplier function name; "" => constant 1

	// derived
	Mult dbf.T // multiplier function
}

// Stage holds stage data. Each stage is one static solve with its own loads
type Stage struct {
	Desc  string       `json:"desc"`  // description of stage
	Skip  bool         `json:"skip"`  // do not run stage
	Time  float64      `json:"t"`     // time at which load multipliers are evaluated
	Loads []*PointLoad `json:"loads"` // external loads
}

// Simulation holds all analysis data
type Simulation struct {

	// input
	Data      Data       `json:"data"`      // global data
	Functions FuncsData  `json:"functions"` // load multiplier functions
	LinSol    LinSolData `json:"linsol"`    // linear solver data
	Solver    SolverData `json:"solver"`    // equilibrium solver data
	Stages    []*Stage   `json:"stages"`    // all stages

	// derived
	DirOut  string    // directory to save results
	Key     string    // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType string    // encoder type
	Asm     *Assembly // the assembly
	MatDb   *MatDb    // materials database; may be nil
}

// ReadSim reads all analysis data from a .sim JSON file
func ReadSim(simfilepath, alias string, erasePrev bool) *Simulation {

	// new sim
	var o Simulation

	// read file
	b := io.ReadFile(simfilepath)

	// set default values
	o.Solver.SetDefault()
	o.LinSol.SetDefault()

	// decode
	err := json.Unmarshal(b, &o)
	if err != nil {
		chk.Panic("ReadSim: cannot unmarshal analysis file %q", simfilepath)
	}

	// input directory and filename key
	dir := filepath.Dir(simfilepath)
	fn := filepath.Base(simfilepath)
	dir = os.ExpandEnv(dir)
	fnkey := io.FnKey(fn)
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/cra/" + fnkey
	}

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// create directory
	err = os.MkdirAll(o.DirOut, 0777)
	if err != nil {
		chk.Panic("cannot create directory for output results (%s): %v", o.DirOut, err)
	}

	// erase previous results
	if erasePrev {
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, fnkey))
	}

	// check solver data
	o.Solver.PostProcess()

	// read assembly
	o.Asm, err = ReadAsm(dir, o.Data.Asmfile)
	if err != nil {
		chk.Panic("ReadSim: cannot read assembly file:\n%v", err)
	}

	// read materials database
	if o.Data.Matfile != "" {
		o.MatDb, err = ReadMat(dir, o.Data.Matfile)
		if err != nil {
			chk.Panic("loading materials failed:\n%v", err)
		}
	}

	// default stage
	if len(o.Stages) == 0 {
		o.Stages = []*Stage{{Desc: "self-weight"}}
	}

	// for all stages
	for i, stg := range o.Stages {

		// fix time
		if stg.Time < 1e-14 {
			stg.Time = float64(i + 1)
		}

		// load multiplier functions
		for _, load := range stg.Loads {
			if _, ok := o.Asm.Free2idx[load.Block]; !ok {
				chk.Panic("stage %d: load references block %d which is not a free block", i, load.Block)
			}
			if len(load.F) != 3 {
				chk.Panic("stage %d: load on block %d must have a 3-component force vector", i, load.Block)
			}
			if load.Fcn == "" {
				load.Mult = &dbf.One
				continue
			}
			load.Mult, err = o.Functions.Get(load.Fcn)
			if err != nil {
				chk.Panic("%v", err)
			}
		}
	}

	// results
	return &o
}

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets default values
func (o *LinSolData) SetDefault() {
	o.Name = "umfpack"
}

// SetDefault sets default values
func (o *SolverData) SetDefault() {

	// problem parameters
	o.Type = "cra"
	o.Mu = 0.84
	o.Density = 1.0
	o.Dbnd = 1e-3
	o.Eps = 1e-4
	o.Nplanes = 8

	// objective weights
	o.WgtF = 1e-6
	o.WgtNn = 1e3

	// nonlinear solver
	o.NmaxIt = 40
	o.FbTol = 1e-8
	o.CheckTol = 1e-7
	o.Binit = 1.0
	o.Bfac = 0.1
	o.Bmin = 1e-9
}

// PostProcess performs a post-processing of the just read json file
func (o *SolverData) PostProcess() {
	if o.Mu < 0 {
		chk.Panic("friction coefficient must be non-negative. mu=%g is invalid", o.Mu)
	}
	if o.Nplanes < 3 {
		chk.Panic("linearized friction cone needs at least 3 planes. nplanes=%d is invalid", o.Nplanes)
	}
	if o.Bfac <= 0 || o.Bfac >= 1 {
		chk.Panic("barrier reduction factor must be within (0,1). bfac=%g is invalid", o.Bfac)
	}
	switch o.Type {
	case "cra", "cra_penalty", "rbe":
	default:
		chk.Panic("solver type %q is incorrect; options are \"cra\", \"cra_penalty\" and \"rbe\"", o.Type)
	}
}
