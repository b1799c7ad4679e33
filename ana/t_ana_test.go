// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_blockonplane01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("blockonplane01")

	var sol BlockOnPlane
	sol.Init(dbf.Params{
		&dbf.P{N: "rho", V: 2.0},
		&dbf.P{N: "lz", V: 0.5},
	})
	chk.Float64(tst, "W", 1e-15, sol.Weight(), 1.0)

	// uniform reactions at four corners
	np := []float64{0.25, 0.25, 0.25, 0.25}
	nn := []float64{0, 0, 0, 0}
	u := []float64{0.1, -0.1, 0.05, -0.05}
	v := []float64{0, 0, 0, 0}
	sol.CheckReactions(tst, 1e-15, np, nn, u, v)
}

func Test_incline01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("incline01")

	var sol InclinedBlock
	sol.Init(dbf.Params{
		&dbf.P{N: "rho", V: 1.0},
		&dbf.P{N: "vol", V: 2.0},
		&dbf.P{N: "theta", V: math.Pi / 6.0},
		&dbf.P{N: "mu", V: 0.84},
	})

	// tan(30°) = 0.577 < 0.84
	if !sol.Stable() {
		tst.Errorf("block at 30 degrees with mu=0.84 must be stable")
		return
	}

	fn, ft := sol.Reactions()
	io.Pforan("fn = %v, ft = %v\n", fn, ft)
	chk.Float64(tst, "fn", 1e-14, fn, 2.0*math.Sqrt(3.0)/2.0)
	chk.Float64(tst, "ft", 1e-14, ft, 1.0)

	// steeper than the friction angle
	sol.Init(dbf.Params{
		&dbf.P{N: "theta", V: math.Pi / 4.0},
		&dbf.P{N: "mu", V: 0.5},
	})
	if sol.Stable() {
		tst.Errorf("block at 45 degrees with mu=0.5 must slide")
		return
	}
}

func Test_stack01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("stack01")

	var sol StackedColumn
	sol.Init(dbf.Params{
		&dbf.P{N: "rho", V: 2.0},
		&dbf.P{N: "vol", V: 1.0},
		&dbf.P{N: "nblocks", V: 3},
	})
	chk.Float64(tst, "interface 0", 1e-15, sol.InterfaceForce(0), 6.0)
	chk.Float64(tst, "interface 1", 1e-15, sol.InterfaceForce(1), 4.0)
	chk.Float64(tst, "interface 2", 1e-15, sol.InterfaceForce(2), 2.0)

	np := []float64{1, 1, 1, 1}
	nn := []float64{0, 0, 0, 0}
	sol.CheckInterface(tst, 1e-15, 1, np, nn)
}
