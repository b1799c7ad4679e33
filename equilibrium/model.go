// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/korbireischl/compas-cra/inp"
	"github.com/korbireischl/compas-cra/nlp"
)

// Model holds the optimization model of one equilibrium solve. Variables are
// laid out as x = [f, q, α]: contact force components (3 per contact point, or
// 4 with the penalty basis), then 6 displacement components per free block
// (when kinematics are present), then one complementarity slack per contact
// point.
type Model struct {

	// definition
	Asm       *inp.Assembly   // the assembly
	Sd        *inp.SolverData // solver parameters
	Penalty   bool            // penalty force basis (fn+, fn-, fu, fv)
	WithDispl bool            // model has virtual displacements and slacks

	// layout
	Nv   int // number of contact points
	Ncf  int // force components per contact point: 3 or 4
	NF   int // number of force variables
	NQ   int // number of displacement variables
	NA   int // number of slack variables
	OffQ int // offset of displacement variables
	OffA int // offset of slack variables

	// problem
	Pb *nlp.Problem

	// auxiliary
	drows [][]entry // d = Aeqᵀ·q rows; entries hold local q indices
}

// NewModel allocates the model and the underlying nonlinear program
func NewModel(a *inp.Assembly, sd *inp.SolverData, penalty, withDispl bool) (o *Model) {
	o = new(Model)
	o.Asm = a
	o.Sd = sd
	o.Penalty = penalty
	o.WithDispl = withDispl
	o.Nv = a.Nvc
	o.Ncf = 3
	if penalty {
		o.Ncf = 4
	}
	o.NF = o.Ncf * o.Nv
	if withDispl {
		o.NQ = 6 * len(a.FreeBlocks)
		o.NA = o.Nv
	}
	o.OffQ = o.NF
	o.OffA = o.NF + o.NQ
	o.Pb = &nlp.Problem{Nx: o.NF + o.NQ + o.NA}
	if withDispl {
		o.drows = displRows(a)
	}
	return
}

// FnIdx returns the index of the compressive normal force at contact point vid
func (o *Model) FnIdx(vid int) int { return o.Ncf * vid }

// FtIdx returns the indices of the tangential forces at contact point vid
func (o *Model) FtIdx(vid int) (iu, iv int) {
	return o.Ncf*vid + o.Ncf - 2, o.Ncf*vid + o.Ncf - 1
}

// dExpr returns the linear expression of displacement component i
// (i = 3·vid+0: dn, +1: du, +2: dv) in the problem variables
func (o *Model) dExpr(i int) (q *nlp.Quad) {
	q = new(nlp.Quad)
	for _, e := range o.drows[i] {
		q.AddLin(o.OffQ+e.col, e.v)
	}
	return
}

// Initialisations sets a strictly interior starting point. The force scale is
// taken from the external load vector p.
func Initialisations(o *Model, p []float64) {
	f0 := 1e-3
	for _, v := range p {
		if math.Abs(v) > f0 {
			f0 = math.Abs(v)
		}
	}
	f0 /= float64(o.Nv)

	x0 := make([]float64, o.Pb.Nx)
	for vid := 0; vid < o.Nv; vid++ {
		x0[o.FnIdx(vid)] = f0
		if o.Penalty {
			x0[o.FnIdx(vid)+1] = 1e-3 * f0
		}
	}
	if o.WithDispl {
		// slacks strictly above the initial constraint values, including the
		// fn+·fn- product of the penalty basis
		α0 := 10.0*f0*o.Sd.Eps + 1e-2*f0*f0 + 1e-6
		for vid := 0; vid < o.Nv; vid++ {
			x0[o.OffA+vid] = α0
		}
	}
	o.Pb.X0 = x0
}

// Bounds adds variable bound constraints
//  key -- "f"       : fn ≥ 0
//         "f_tilde" : fn+ ≥ 0 and fn- ≥ 0
//         "alpha"   : α ≥ 0
//         "d"       : |di| ≤ val for all displacement components
func Bounds(o *Model, key string, val float64) {
	switch key {
	case "f":
		for vid := 0; vid < o.Nv; vid++ {
			g := new(nlp.Quad)
			g.AddLin(o.FnIdx(vid), -1)
			o.Pb.Ineq = append(o.Pb.Ineq, g)
		}
	case "f_tilde":
		for vid := 0; vid < o.Nv; vid++ {
			gp := new(nlp.Quad)
			gp.AddLin(o.FnIdx(vid), -1)
			gn := new(nlp.Quad)
			gn.AddLin(o.FnIdx(vid)+1, -1)
			o.Pb.Ineq = append(o.Pb.Ineq, gp, gn)
		}
	case "alpha":
		for vid := 0; vid < o.Nv; vid++ {
			g := new(nlp.Quad)
			g.AddLin(o.OffA+vid, -1)
			o.Pb.Ineq = append(o.Pb.Ineq, g)
		}
	case "d":
		for i := 0; i < 3*o.Nv; i++ {
			up := o.dExpr(i)
			up.C = -val
			lo := new(nlp.Quad)
			lo.C = -val
			for _, e := range o.drows[i] {
				lo.AddLin(o.OffQ+e.col, -e.v)
			}
			o.Pb.Ineq = append(o.Pb.Ineq, up, lo)
		}
	default:
		chk.Panic("cannot find bounds named %q", key)
	}
}

// Objectives sets the objective function
//  kind -- "cra"         : Σα + wgtf·(‖f‖² + ‖q‖²)
//          "cra_penalty" : Σα + wgtf·(‖f‖² + ‖q‖²) + wgtnn·Σ(fn-)²
//          "rbe"         : Σ(fn+)² + wgtnn·Σ(fn-)² + Σ(fu² + fv²)
func Objectives(o *Model, kind string) {
	obj := &o.Pb.Obj
	switch kind {
	case "cra", "cra_penalty":
		for vid := 0; vid < o.Nv; vid++ {
			obj.AddLin(o.OffA+vid, 1)
		}
		for i := 0; i < o.NF+o.NQ; i++ {
			obj.AddQuad(i, i, o.Sd.WgtF)
		}
		if kind == "cra_penalty" {
			for vid := 0; vid < o.Nv; vid++ {
				obj.AddQuad(o.FnIdx(vid)+1, o.FnIdx(vid)+1, o.Sd.WgtNn)
			}
		}
	case "rbe":
		for vid := 0; vid < o.Nv; vid++ {
			iu, iv := o.FtIdx(vid)
			obj.AddQuad(o.FnIdx(vid), o.FnIdx(vid), 1)
			obj.AddQuad(o.FnIdx(vid)+1, o.FnIdx(vid)+1, o.Sd.WgtNn)
			obj.AddQuad(iu, iu, 1)
			obj.AddQuad(iv, iv, 1)
		}
	default:
		chk.Panic("cannot find objective named %q", kind)
	}
}

// Constraints adds contact constraints
//  key -- "contact" or
//         "penalty_contact" : fn·(dn + eps) ≤ α
//         "no_penetration"  : dn ≥ -eps
//         "fn_np"           : fn+·fn- ≤ α
//         "penalty_ft_dt"   : ft opposes dt and stays parallel to it:
//                             fu·du + fv·dv ≤ α and |fu·dv - fv·du| ≤ α
func Constraints(o *Model, key string, eps float64) {
	switch key {
	case "contact", "penalty_contact":
		for vid := 0; vid < o.Nv; vid++ {
			g := new(nlp.Quad)
			ifn := o.FnIdx(vid)
			for _, e := range o.drows[3*vid] {
				g.AddQuad(ifn, o.OffQ+e.col, e.v)
			}
			g.AddLin(ifn, eps)
			g.AddLin(o.OffA+vid, -1)
			o.Pb.Ineq = append(o.Pb.Ineq, g)
		}
	case "no_penetration":
		for vid := 0; vid < o.Nv; vid++ {
			g := new(nlp.Quad)
			g.C = -eps
			for _, e := range o.drows[3*vid] {
				g.AddLin(o.OffQ+e.col, -e.v)
			}
			o.Pb.Ineq = append(o.Pb.Ineq, g)
		}
	case "fn_np":
		for vid := 0; vid < o.Nv; vid++ {
			g := new(nlp.Quad)
			g.AddQuad(o.FnIdx(vid), o.FnIdx(vid)+1, 1)
			g.AddLin(o.OffA+vid, -1)
			o.Pb.Ineq = append(o.Pb.Ineq, g)
		}
	case "penalty_ft_dt":
		for vid := 0; vid < o.Nv; vid++ {
			iu, iv := o.FtIdx(vid)
			du := o.drows[3*vid+1]
			dv := o.drows[3*vid+2]

			// dissipation: ft·dt ≤ α
			g := new(nlp.Quad)
			for _, e := range du {
				g.AddQuad(iu, o.OffQ+e.col, e.v)
			}
			for _, e := range dv {
				g.AddQuad(iv, o.OffQ+e.col, e.v)
			}
			g.AddLin(o.OffA+vid, -1)
			o.Pb.Ineq = append(o.Pb.Ineq, g)

			// alignment: ±(fu·dv - fv·du) ≤ α
			for _, sign := range []float64{1, -1} {
				g = new(nlp.Quad)
				for _, e := range dv {
					g.AddQuad(iu, o.OffQ+e.col, sign*e.v)
				}
				for _, e := range du {
					g.AddQuad(iv, o.OffQ+e.col, -sign*e.v)
				}
				g.AddLin(o.OffA+vid, -1)
				o.Pb.Ineq = append(o.Pb.Ineq, g)
			}
		}
	default:
		chk.Panic("cannot find constraints named %q", key)
	}
}

// StaticEquilibriumConstraints adds the equilibrium equalities Aeq·f + p = 0
// and the friction cone inequalities Afr·f ≤ 0. It returns the number of
// equality and friction rows added.
func StaticEquilibriumConstraints(o *Model, aeq, afr [][]entry, p []float64) (neq, nfr int) {
	for r, row := range aeq {
		h := new(nlp.Quad)
		h.C = p[r]
		for _, e := range row {
			h.AddLin(e.col, e.v)
		}
		o.Pb.Eq = append(o.Pb.Eq, h)
	}
	for _, row := range afr {
		g := new(nlp.Quad)
		for _, e := range row {
			g.AddLin(e.col, e.v)
		}
		o.Pb.Ineq = append(o.Pb.Ineq, g)
	}
	return len(aeq), len(afr)
}

// TangentZeroConstraints pins the tangential forces to zero. Used for the
// frictionless case, where the cone collapses to the normal axis.
func TangentZeroConstraints(o *Model) {
	for vid := 0; vid < o.Nv; vid++ {
		iu, iv := o.FtIdx(vid)
		hu := new(nlp.Quad)
		hu.AddLin(iu, 1)
		hv := new(nlp.Quad)
		hv.AddLin(iv, 1)
		o.Pb.Eq = append(o.Pb.Eq, hu, hv)
	}
}

// ResultCheck verifies the solved state: the equilibrium residual must stay
// within tol and tensile normal forces are reported. Mirrors the feasibility
// check performed after solving.
func ResultCheck(o *Model, x []float64, tol float64, verbose bool) (err error) {

	// equilibrium residual
	resid := 0.0
	for _, h := range o.Pb.Eq {
		if r := math.Abs(h.Value(x)); r > resid {
			resid = r
		}
	}

	// tension
	tension := 0.0
	for vid := 0; vid < o.Nv; vid++ {
		fn := x[o.FnIdx(vid)]
		if o.Penalty {
			fn -= x[o.FnIdx(vid)+1]
		}
		if -fn > tension {
			tension = -fn
		}
	}

	if verbose {
		io.Pf("equilibrium residual = %g\n", resid)
		io.Pf("max tension          = %g\n", tension)
	}
	if resid > tol {
		return chk.Err("equilibrium violated: max residual %g exceeds tolerance %g", resid, tol)
	}
	return
}

// ResultAssembly writes contact forces and block displacements back onto the
// assembly: each contact point receives its {Np, Nn, U, V} force record and
// each free block its 6-component virtual displacement (when present)
func ResultAssembly(o *Model, x []float64) {

	// contact forces
	vid := 0
	for _, c := range o.Asm.Contacts {
		c.Forces = make([]*inp.PointForce, len(c.Points))
		for k := range c.Points {
			iu, iv := o.FtIdx(vid)
			pf := &inp.PointForce{U: x[iu], V: x[iv]}
			if o.Penalty {
				pf.Np = x[o.FnIdx(vid)]
				pf.Nn = x[o.FnIdx(vid)+1]
			} else {
				fn := x[o.FnIdx(vid)]
				pf.Np = math.Max(fn, 0)
				pf.Nn = math.Max(-fn, 0)
			}
			c.Forces[k] = pf
			vid++
		}
	}

	// displacements
	for _, id := range o.Asm.FreeBlocks {
		blk := o.Asm.Id2blk[id]
		if !o.WithDispl {
			blk.Displacement = nil
			continue
		}
		blk.Displacement = make([]float64, 6)
		copy(blk.Displacement, x[o.OffQ+6*o.Asm.Free2idx[id]:o.OffQ+6*o.Asm.Free2idx[id]+6])
	}
}
