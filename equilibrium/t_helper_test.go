// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"github.com/korbireischl/compas-cra/inp"
)

func Test_helper01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("helper01. counts and unit basis")

	a := cubeAssembly(tst)
	chk.IntAssert(NumVertices(a), 4)
	chk.IntAssert(NumFree(a), 1)
	chk.Ints(tst, "free nodes", FreeNodes(a), []int{1})

	// unit basis: rows (w, u, v) per contact point
	basis := UnitBasis(a)
	chk.IntAssert(len(basis), 12)
	chk.Array(tst, "b0 (w)", 1e-15, basis[0], []float64{0, 0, 1})
	chk.Array(tst, "b1 (u)", 1e-15, basis[1], []float64{1, 0, 0})
	chk.Array(tst, "b2 (v)", 1e-15, basis[2], []float64{0, 1, 0})

	// penalty basis: rows (w, -w, u, v) per contact point
	basisb := UnitBasisPenalty(a)
	chk.IntAssert(len(basisb), 16)
	chk.Array(tst, "bb1 (-w)", 1e-15, basisb[1], []float64{0, 0, -1})
}

func Test_helper02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("helper02. equilibrium matrix")

	a := cubeAssembly(tst)
	A := EquilibriumSetup(a, false).ToDense().GetDeep2()
	chk.IntAssert(len(A), 6)
	chk.IntAssert(len(A[0]), 12)

	// vertical equilibrium row: unit entry for each normal force
	for vid := 0; vid < 4; vid++ {
		chk.Float64(tst, io.Sf("A[2][%d]", 3*vid), 1e-15, A[2][3*vid], 1)
	}

	// moment rows for the point at (0,0,0): r = (-0.5,-0.5,-0.5), e = (0,0,1)
	chk.Float64(tst, "A[3][0]", 1e-15, A[3][0], -0.5)
	chk.Float64(tst, "A[4][0]", 1e-15, A[4][0], +0.5)
	chk.Float64(tst, "A[5][0]", 1e-15, A[5][0], 0)

	// symmetric points cancel moments for uniform normal forces
	for j := 3; j < 6; j++ {
		sum := 0.0
		for vid := 0; vid < 4; vid++ {
			sum += A[j][3*vid]
		}
		chk.Float64(tst, io.Sf("Σ moments row %d", j), 1e-14, sum, 0)
	}

	// penalty basis: tensile column is the negated normal column
	Ab := EquilibriumSetup(a, true).ToDense().GetDeep2()
	chk.IntAssert(len(Ab[0]), 16)
	chk.Float64(tst, "Ab[2][0]", 1e-15, Ab[2][0], 1)
	chk.Float64(tst, "Ab[2][1]", 1e-15, Ab[2][1], -1)
}

func Test_helper03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("helper03. friction matrix")

	a := cubeAssembly(tst)
	mu := 0.84
	F := FrictionSetup(a, mu, 8, false).ToDense().GetDeep2()
	chk.IntAssert(len(F), 32)
	chk.IntAssert(len(F[0]), 12)

	// first plane of first point: -mu·fn + fu ≤ 0
	chk.Float64(tst, "F[0][0]", 1e-15, F[0][0], -mu)
	chk.Float64(tst, "F[0][1]", 1e-15, F[0][1], 1)
	chk.Float64(tst, "F[0][2]", 1e-15, F[0][2], 0)

	// third plane (θ=π/2): -mu·fn + fv ≤ 0
	chk.Float64(tst, "F[2][0]", 1e-15, F[2][0], -mu)
	chk.Float64(tst, "F[2][1]", 1e-14, F[2][1], 0)
	chk.Float64(tst, "F[2][2]", 1e-15, F[2][2], 1)

	// all plane directions have unit tangential norm
	for k := 0; k < 8; k++ {
		norm := math.Sqrt(F[k][1]*F[k][1] + F[k][2]*F[k][2])
		chk.Float64(tst, io.Sf("‖t‖ plane %d", k), 1e-14, norm, 1)
	}

	// penalty basis
	Fb := FrictionSetup(a, mu, 8, true).ToDense().GetDeep2()
	chk.IntAssert(len(Fb[0]), 16)
	chk.Float64(tst, "Fb[0][0]", 1e-15, Fb[0][0], -mu)
	chk.Float64(tst, "Fb[0][1]", 1e-15, Fb[0][1], +mu)
}

func Test_helper04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("helper04. densities and external forces")

	a := cubeAssembly(tst)
	err := DensitySetup(a, nil, 2)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Float64(tst, "rho", 1e-15, a.Id2blk[1].Rho, 2)

	// self-weight only
	p := ExternalForceSetup(a, nil, 0)
	chk.Array(tst, "p", 1e-14, p, []float64{0, 0, -2, 0, 0, 0})

	// stage with a lateral load through the centroid
	stg := &inp.Stage{Loads: []*inp.PointLoad{{Block: 1, F: []float64{0.3, 0, 0}, Mult: &dbf.One}}}
	p = ExternalForceSetup(a, stg, 1)
	chk.Array(tst, "p with load", 1e-14, p, []float64{0.3, 0, -2, 0, 0, 0})

	// unknown material
	a.Id2blk[1].Mat = "unobtainium"
	err = DensitySetup(a, nil, 2)
	if err == nil {
		tst.Errorf("DensitySetup must fail for unknown materials")
		return
	}
	io.Pfgrey("error message: %v\n", err)
}
