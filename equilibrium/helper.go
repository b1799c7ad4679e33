// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/korbireischl/compas-cra/inp"
)

// NumVertices returns the total number of contact points over all interfaces
func NumVertices(a *inp.Assembly) int { return a.Nvc }

// NumFree returns the number of free (non-support) blocks
func NumFree(a *inp.Assembly) int { return len(a.FreeBlocks) }

// FreeNodes returns the ids of the free blocks, in input order
func FreeNodes(a *inp.Assembly) []int { return a.FreeBlocks }

// UnitBasis returns the [3·nv][3] matrix with the global direction of each
// force component: rows (w, u, v) per contact point
func UnitBasis(a *inp.Assembly) (basis [][]float64) {
	basis = make([][]float64, 0, 3*a.Nvc)
	for _, c := range a.Contacts {
		for range c.Points {
			basis = append(basis, c.W, c.U, c.V)
		}
	}
	return
}

// UnitBasisPenalty returns the [4·nv][3] matrix for the penalty force basis:
// rows (w, -w, u, v) per contact point. The second row carries the tensile
// part of the normal force.
func UnitBasisPenalty(a *inp.Assembly) (basis [][]float64) {
	basis = make([][]float64, 0, 4*a.Nvc)
	for _, c := range a.Contacts {
		wneg := []float64{-c.W[0], -c.W[1], -c.W[2]}
		for range c.Points {
			basis = append(basis, c.W, wneg, c.U, c.V)
		}
	}
	return
}

// entry is one sparse matrix entry within a row
type entry struct {
	col int
	v   float64
}

// aeqRows assembles the equilibrium rows: 6 rows (3 force + 3 moment) per free
// block over the contact force components. Force components per contact point
// follow the order (fn, fu, fv), or (fn+, fn-, fu, fv) with the penalty basis.
// A positive normal force pushes block J along +W and block I along -W.
func aeqRows(a *inp.Assembly, penalty bool) (rows [][]entry) {
	ncf := 3
	if penalty {
		ncf = 4
	}
	rows = make([][]entry, 6*len(a.FreeBlocks))
	vid := 0
	for _, c := range a.Contacts {
		bi := a.Id2blk[c.I]
		bj := a.Id2blk[c.J]
		dirs := [][]float64{c.W, c.U, c.V}
		if penalty {
			dirs = [][]float64{c.W, {-c.W[0], -c.W[1], -c.W[2]}, c.U, c.V}
		}
		for _, xp := range c.Points {
			col0 := ncf * vid
			for k, e := range dirs {
				if !bj.IsSupport {
					addWrench(rows, 6*a.Free2idx[bj.Id], col0+k, +1, e, xp, bj.Centroid)
				}
				if !bi.IsSupport {
					addWrench(rows, 6*a.Free2idx[bi.Id], col0+k, -1, e, xp, bi.Centroid)
				}
			}
			vid++
		}
	}
	return
}

// addWrench adds the force and moment contributions of a unit force along e
// applied at xp to the six equilibrium rows starting at row0
func addWrench(rows [][]entry, row0, col int, sign float64, e, xp, cen []float64) {
	r := []float64{xp[0] - cen[0], xp[1] - cen[1], xp[2] - cen[2]}
	m := []float64{
		r[1]*e[2] - r[2]*e[1],
		r[2]*e[0] - r[0]*e[2],
		r[0]*e[1] - r[1]*e[0],
	}
	for j := 0; j < 3; j++ {
		if e[j] != 0 {
			rows[row0+j] = append(rows[row0+j], entry{col, sign * e[j]})
		}
		if m[j] != 0 {
			rows[row0+3+j] = append(rows[row0+3+j], entry{col, sign * m[j]})
		}
	}
}

// afrRows assembles the linearized friction cone rows: nplanes rows per
// contact point with -mu·fn + cosθ·fu + sinθ·fv ≤ 0
func afrRows(a *inp.Assembly, mu float64, nplanes int, penalty bool) (rows [][]entry) {
	ncf := 3
	if penalty {
		ncf = 4
	}
	rows = make([][]entry, 0, nplanes*a.Nvc)
	for vid := 0; vid < a.Nvc; vid++ {
		col0 := ncf * vid
		for k := 0; k < nplanes; k++ {
			θ := 2.0 * math.Pi * float64(k) / float64(nplanes)
			row := []entry{{col0, -mu}}
			if penalty {
				row = append(row, entry{col0 + 1, +mu})
			}
			row = append(row,
				entry{col0 + ncf - 2, math.Cos(θ)},
				entry{col0 + ncf - 1, math.Sin(θ)},
			)
			rows = append(rows, row)
		}
	}
	return
}

// displRows assembles the virtual displacement components d = Aeqᵀ·q as linear
// expressions in the block displacements q: 3 rows (dn, du, dv) per contact
// point, each a list of (q-index, coefficient) pairs
func displRows(a *inp.Assembly) (rows [][]entry) {
	aeq := aeqRows(a, false)
	rows = make([][]entry, 3*a.Nvc)
	for r, row := range aeq {
		for _, e := range row {
			rows[e.col] = append(rows[e.col], entry{r, e.v})
		}
	}
	return
}

// rowsToTriplet converts assembled rows to a sparse triplet with ncols columns
func rowsToTriplet(rows [][]entry, ncols int) (t *la.Triplet) {
	nnz := 0
	for _, row := range rows {
		nnz += len(row)
	}
	if nnz < 1 {
		nnz = 1
	}
	t = new(la.Triplet)
	t.Init(len(rows), ncols, nnz)
	for r, row := range rows {
		for _, e := range row {
			t.Put(r, e.col, e.v)
		}
	}
	return
}

// MakeAeq returns the sparse equilibrium matrix [6·nfree]×[3·nv]
// (or ×[4·nv] with the penalty basis)
func MakeAeq(a *inp.Assembly, penalty bool) *la.Triplet {
	ncf := 3
	if penalty {
		ncf = 4
	}
	return rowsToTriplet(aeqRows(a, penalty), ncf*a.Nvc)
}

// MakeAfr returns the sparse linearized friction matrix [nplanes·nv]×[3·nv]
// (or ×[4·nv] with the penalty basis)
func MakeAfr(a *inp.Assembly, mu float64, nplanes int, penalty bool) *la.Triplet {
	ncf := 3
	if penalty {
		ncf = 4
	}
	return rowsToTriplet(afrRows(a, mu, nplanes, penalty), ncf*a.Nvc)
}

// EquilibriumSetup builds the equilibrium matrix in compressed-column format
func EquilibriumSetup(a *inp.Assembly, penalty bool) *la.CCMatrix {
	return MakeAeq(a, penalty).ToMatrix(nil)
}

// FrictionSetup builds the friction matrix in compressed-column format
func FrictionSetup(a *inp.Assembly, mu float64, nplanes int, penalty bool) *la.CCMatrix {
	return MakeAfr(a, mu, nplanes, penalty).ToMatrix(nil)
}

// DensitySetup sets the density of each block: material density when the block
// has a material, otherwise the given global density
func DensitySetup(a *inp.Assembly, mdb *inp.MatDb, density float64) (err error) {
	for _, blk := range a.Blocks {
		blk.Rho = density
		if blk.Mat == "" {
			continue
		}
		if mdb == nil {
			return chk.Err("block %d references material %q but no materials database is available", blk.Id, blk.Mat)
		}
		mat := mdb.Get(blk.Mat)
		if mat == nil {
			return chk.Err("block %d references unknown material %q", blk.Id, blk.Mat)
		}
		blk.Rho = mat.Rho
	}
	return
}

// ExternalForceSetup builds the external load vector p [6·nfree]: self-weight
// through the centroid plus the stage loads evaluated at time t. DensitySetup
// must be called first.
func ExternalForceSetup(a *inp.Assembly, stg *inp.Stage, t float64) (p []float64) {
	p = make([]float64, 6*len(a.FreeBlocks))
	for _, id := range a.FreeBlocks {
		blk := a.Id2blk[id]
		p[6*a.Free2idx[id]+2] -= blk.Rho * blk.Volume
	}
	if stg == nil {
		return
	}
	for _, load := range stg.Loads {
		i := 6 * a.Free2idx[load.Block]
		mult := load.Mult.F(t, nil)
		for j := 0; j < 3; j++ {
			p[i+j] += mult * load.F[j]
		}
		if load.M != nil {
			for j := 0; j < 3; j++ {
				p[i+3+j] += mult * load.M[j]
			}
		}
	}
	return
}
