// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nlp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// Problem holds the definition of one nonlinear program
//
//	minimize    Obj(x)
//	subject to  Eq[r](x)   = 0
//	            Ineq[k](x) ≤ 0
//
// X0 must be strictly feasible with respect to all inequalities.
type Problem struct {
	Nx   int       // number of primal variables
	Obj  Quad      // objective function
	Eq   []*Quad   // equality constraints
	Ineq []*Quad   // inequality constraints
	X0   []float64 // [Nx] initial point; strictly interior
}

// Solver implements a primal log-barrier method. Each barrier subproblem is
// solved by Newton iterations on the KKT system with the Jacobian assembled
// into a sparse triplet and factorized by a sparse linear solver.
type Solver struct {

	// configuration
	NmaxIt int     // max Newton iterations per barrier step
	FbTol  float64 // tolerance for convergence on KKT residual
	Binit  float64 // initial barrier parameter
	Bfac   float64 // barrier reduction factor
	Bmin   float64 // final barrier parameter
	ShowR  bool    // show residuals

	// linear solver
	LsName    string // "umfpack" or "mumps"
	LsVerbose bool   // linear solver verbosity

	// results
	X        []float64 // [Nx] solution
	Lam      []float64 // [neq] equality multipliers
	Fval     float64   // objective at solution
	TermCond string    // termination condition
	Niter    int       // total number of Newton iterations

	// auxiliary
	pb       *Problem
	nz       int // total number of unknowns: Nx + neq
	kb       *la.Triplet
	fb       la.Vector // residual
	wb       la.Vector // workspace (trial residual)
	oidx     []int     // workspace for sparse gradients
	oval     []float64 // workspace for sparse gradients
	lis      la.SparseSolver
	initLSol bool
}

// NewSolver returns a solver with default settings
func NewSolver(pb *Problem) (o *Solver) {
	o = new(Solver)
	o.pb = pb
	o.NmaxIt = 40
	o.FbTol = 1e-8
	o.Binit = 1.0
	o.Bfac = 0.1
	o.Bmin = 1e-9
	o.LsName = "umfpack"
	o.nz = pb.Nx + len(pb.Eq)

	// allocate
	o.X = make([]float64, pb.Nx)
	o.Lam = make([]float64, len(pb.Eq))
	o.fb = la.NewVector(o.nz)
	o.wb = la.NewVector(o.nz)
	o.kb = new(la.Triplet)
	o.kb.Init(o.nz, o.nz, o.nnzEstimate())

	// workspace for gradient outer products
	nmax := 1
	for _, g := range pb.Ineq {
		if n := g.NnzGrad(); n > nmax {
			nmax = n
		}
	}
	for _, h := range pb.Eq {
		if n := h.NnzGrad(); n > nmax {
			nmax = n
		}
	}
	o.oidx = make([]int, nmax)
	o.oval = make([]float64, nmax)
	return
}

// Free frees the linear solver memory
func (o *Solver) Free() {
	if o.initLSol {
		o.lis.Free()
		o.initLSol = false
	}
}

// Solve runs the barrier loop. On success, X, Lam and Fval hold the solution.
func (o *Solver) Solve(verbose bool) (err error) {

	// check initial point
	copy(o.X, o.pb.X0)
	la.Vector(o.Lam).Fill(0)
	for k, g := range o.pb.Ineq {
		if g.Value(o.X) >= 0 {
			o.TermCond = "infeasibleStart"
			return chk.Err("initial point violates inequality constraint # %d: g=%g", k, g.Value(o.X))
		}
	}

	// linear solver
	o.lis = la.NewSparseSolver(o.LsName)
	defer o.Free()

	// barrier loop
	o.Niter = 0
	for bprm := o.Binit; ; bprm *= o.Bfac {

		// inner tolerance; final step uses FbTol
		tol := 0.1 * bprm
		if tol < o.FbTol {
			tol = o.FbTol
		}

		// Newton iterations
		err = o.newton(bprm, tol, verbose)
		if err != nil {
			return
		}
		if bprm <= o.Bmin {
			break
		}
		if bprm*o.Bfac < o.Bmin {
			bprm = o.Bmin / o.Bfac
		}
	}

	// results
	o.Fval = o.pb.Obj.Value(o.X)
	o.TermCond = "optimal"
	return
}

// newton solves one barrier subproblem
func (o *Solver) newton(bprm, tol float64, verbose bool) (err error) {

	nx := o.pb.Nx
	dz := la.NewVector(o.nz)
	xtrial := make([]float64, nx)
	ltrial := make([]float64, len(o.pb.Eq))

	for it := 0; it < o.NmaxIt; it++ {
		o.Niter++

		// residual
		o.residual(o.fb, o.X, o.Lam, bprm)
		fbNorm := o.fb.Norm()
		if o.ShowR || verbose {
			io.Pf("barrier=%10.3e it=%3d residual=%13.6e\n", bprm, it, fbNorm)
		}
		if fbNorm < tol {
			return
		}

		// Jacobian
		o.jacobian(o.X, o.Lam, bprm)

		// solve linear system: Kb * dz = -fb
		err = o.factorise()
		if err != nil {
			o.TermCond = "singularMatrix"
			return chk.Err("factorization of KKT matrix failed:\n%v", err)
		}
		o.wb.Apply(-1, o.fb)
		err = o.backsubst(dz, o.wb)
		if err != nil {
			o.TermCond = "linearSolverFailed"
			return chk.Err("linear solve failed:\n%v", err)
		}

		// line search: keep strictly interior and reduce the residual
		t := 1.0
		accepted := false
		for iback := 0; iback < 50; iback++ {
			for i := 0; i < nx; i++ {
				xtrial[i] = o.X[i] + t*dz[i]
			}
			for r := range o.pb.Eq {
				ltrial[r] = o.Lam[r] + t*dz[nx+r]
			}
			if !o.interior(xtrial) {
				t /= 2
				continue
			}
			o.residual(o.wb, xtrial, ltrial, bprm)
			if o.wb.Norm() < (1.0-1e-4*t)*fbNorm {
				accepted = true
				break
			}
			t /= 2
		}
		if !accepted {
			o.TermCond = "lineSearchFailed"
			return chk.Err("line search cannot reduce KKT residual (barrier=%g, residual=%g)", bprm, fbNorm)
		}
		copy(o.X, xtrial)
		copy(o.Lam, ltrial)
	}

	o.TermCond = "maxIterations"
	return chk.Err("Newton iterations did not converge within %d steps (barrier=%g)", o.NmaxIt, bprm)
}

// factorise initialises the sparse solver on first use and factorises the KKT
// matrix. The solver panics on failure; the panic is converted into an error
// so that the caller can report the termination condition.
func (o *Solver) factorise() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("%v", r)
		}
	}()
	if !o.initLSol {
		o.lis.Init(o.kb, &la.SpArgs{Verbose: o.LsVerbose})
		o.initLSol = true
	}
	o.lis.Fact()
	return
}

// backsubst solves Kb * dz = rhs with the factorised matrix
func (o *Solver) backsubst(dz, rhs la.Vector) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("%v", r)
		}
	}()
	o.lis.Solve(dz, rhs, false)
	return
}

// residual computes the KKT residual of the barrier subproblem
func (o *Solver) residual(res la.Vector, x, lam []float64, bprm float64) {
	res.Fill(0)
	nx := o.pb.Nx

	// ∇f
	o.pb.Obj.AddGrad(res[:nx], 1, x)

	// barrier terms: s_k = bprm / (-g_k)
	for _, g := range o.pb.Ineq {
		gv := g.Value(x)
		g.AddGrad(res[:nx], bprm/(-gv), x)
	}

	// equality terms
	for r, h := range o.pb.Eq {
		h.AddGrad(res[:nx], lam[r], x)
		res[nx+r] = h.Value(x)
	}
}

// jacobian assembles the KKT matrix into the triplet
func (o *Solver) jacobian(x, lam []float64, bprm float64) {
	o.kb.Start()
	nx := o.pb.Nx

	// ∇²f
	o.pb.Obj.AddHess(o.kb, 1)

	// barrier terms
	for _, g := range o.pb.Ineq {
		gv := g.Value(x)
		s := bprm / (-gv)
		g.AddHess(o.kb, s)
		g.AddGradOuter(o.kb, s/(-gv), x, o.oidx, o.oval)
	}

	// equality terms
	for r, h := range o.pb.Eq {
		h.AddHess(o.kb, lam[r])
		n := 0
		add := func(i int, v float64) {
			for k := 0; k < n; k++ {
				if o.oidx[k] == i {
					o.oval[k] += v
					return
				}
			}
			o.oidx[n], o.oval[n] = i, v
			n++
		}
		for k, i := range h.Ai {
			add(i, h.Av[k])
		}
		for m, i := range h.Qi {
			j := h.Qj[m]
			add(i, h.Qv[m]*x[j])
			add(j, h.Qv[m]*x[i])
		}
		for k := 0; k < n; k++ {
			o.kb.Put(o.oidx[k], nx+r, o.oval[k])
			o.kb.Put(nx+r, o.oidx[k], o.oval[k])
		}
	}
}

// interior tells whether x satisfies all inequalities strictly
func (o *Solver) interior(x []float64) bool {
	for _, g := range o.pb.Ineq {
		if g.Value(x) >= 0 {
			return false
		}
	}
	return true
}

// nnzEstimate returns an upper bound for the number of nonzeros in the KKT matrix
func (o *Solver) nnzEstimate() (nnz int) {
	nnz = 2 * len(o.pb.Obj.Qi)
	for _, g := range o.pb.Ineq {
		n := g.NnzGrad()
		nnz += 2*len(g.Qi) + n*n
	}
	for _, h := range o.pb.Eq {
		nnz += 2*len(h.Qi) + 2*h.NnzGrad()
	}
	if nnz < o.nz {
		nnz = o.nz
	}
	return
}
