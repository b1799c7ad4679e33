// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"

	"github.com/korbireischl/compas-cra/inp"
)

// solvedAssembly returns a cube-on-support assembly with fabricated forces
func solvedAssembly(tst *testing.T) *inp.Assembly {
	faces := [][]int{{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7}}
	a := &inp.Assembly{
		Blocks: []*inp.Block{
			{Id: 0, IsSupport: true,
				V: [][]float64{
					{0, 0, -0.5}, {1, 0, -0.5}, {1, 1, -0.5}, {0, 1, -0.5},
					{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
				}, F: faces},
			{Id: 1,
				V: [][]float64{
					{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
					{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
				}, F: faces},
		},
		Contacts: []*inp.Contact{
			{I: 0, J: 1,
				Points: [][]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
				U:      []float64{1, 0, 0}, V: []float64{0, 1, 0}, W: []float64{0, 0, 1},
			},
		},
	}
	err := a.Derived()
	if err != nil {
		tst.Fatalf("cannot build assembly:\n%v", err)
	}
	a.Blocks[1].Rho = 2
	a.Contacts[0].Forces = []*inp.PointForce{
		{Np: 0.5}, {Np: 0.5, U: 0.01}, {Np: 0.5, V: -0.02}, {Np: 0.45, Nn: 0.05},
	}
	a.Blocks[1].Displacement = []float64{0, 0, -1e-4, 0, 0, 0}
	return a
}

func Test_res01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("res01. save and read results")

	a := solvedAssembly(tst)
	stg := &inp.Stage{Desc: "self-weight", Time: 1}
	res := NewResults(a, 0, stg)
	chk.Float64(tst, "max tension", 1e-15, res.MaxTension(), 0.05)
	chk.Float64(tst, "max force", 1e-15, res.MaxForce(), 0.5)

	for _, enctype := range []string{"json", "gob"} {
		err := res.Save("/tmp/cra", "res01", enctype)
		if err != nil {
			tst.Errorf("test failed:\n%v", err)
			return
		}
		io.Pforan("file = %q\n", ResPath("/tmp/cra", "res01", enctype, 0))

		r, err := ReadResults("/tmp/cra", "res01", enctype, 0)
		if err != nil {
			tst.Errorf("test failed:\n%v", err)
			return
		}
		if r.Desc != "self-weight" {
			tst.Errorf("description is incorrect: %q", r.Desc)
			return
		}
		chk.IntAssert(len(r.Forces), 1)
		chk.IntAssert(len(r.Forces[0].Forces), 4)
		chk.Float64(tst, "np3", 1e-15, r.Forces[0].Forces[3].Np, 0.45)
		chk.Float64(tst, "nn3", 1e-15, r.Forces[0].Forces[3].Nn, 0.05)
		chk.Array(tst, "displ", 1e-15, r.Displacements[1], []float64{0, 0, -1e-4, 0, 0, 0})
	}
}

func Test_res02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("res02. missing results file")

	_, err := ReadResults("/tmp/cra", "nonexistent", "gob", 0)
	if err == nil {
		tst.Errorf("ReadResults must fail for missing files")
		return
	}
	io.Pfgrey("error message: %v\n", err)
}

func Test_plot01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plot01. force diagram")

	a := solvedAssembly(tst)
	stg := &inp.Stage{Desc: "self-weight", Time: 1}
	res := NewResults(a, 0, stg)

	if chk.Verbose {
		plt.Reset(true, &plt.A{Eps: true, Prop: 0.8, WidthPt: 350})
	}
	PlotAssembly2d(a, "xz", nil, true)
	sf := PlotForces2d(a, res, "xz", 0.1, 0, nil)
	io.Pforan("sf = %v\n", sf)
	PlotWeights2d(a, "xz", 0.1, 0, nil)
	PlotDisplaced2d(a, "xz", 100, nil)
	if chk.Verbose {
		Draw("/tmp/cra", "test_plot01")
	}

	// automatic scaling: coef・maxdim/fmax with maxdim=1.5 and fmax=0.5
	chk.Float64(tst, "sf", 1e-15, sf, 0.3)
}

func Test_plot02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plot02. force diagram with tensile resultant")

	a := solvedAssembly(tst)

	// net tension at the interface: the resultant points against W
	a.Contacts[0].Forces = []*inp.PointForce{
		{Nn: 0.5}, {Nn: 0.5, U: 0.01}, {Np: 0.1}, {Nn: 0.4},
	}
	stg := &inp.Stage{Desc: "pull", Time: 1}
	res := NewResults(a, 0, stg)

	if chk.Verbose {
		plt.Reset(true, &plt.A{Eps: true, Prop: 0.8, WidthPt: 350})
	}
	PlotAssembly2d(a, "xz", nil, false)
	sf := PlotForces2d(a, res, "xz", 0.1, 0, nil)
	if chk.Verbose {
		Draw("/tmp/cra", "test_plot02")
	}
	chk.Float64(tst, "sf", 1e-15, sf, 0.3)

	// reusing a given scaling factor
	sf = PlotForces2d(a, res, "xz", 0.1, 2.0, nil)
	chk.Float64(tst, "given sf", 1e-15, sf, 2.0)
}
