// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package nlp implements a sparse primal log-barrier solver for nonlinear
// programs with quadratic objective/constraints and linear equalities
package nlp

import "github.com/cpmech/gosl/la"

// Quad holds one sparse quadratic form
//
//	g(x) = C + Σk Av[k]·x[Ai[k]] + Σm Qv[m]·x[Qi[m]]·x[Qj[m]]
//
// Each (Qi,Qj) pair is counted once; thus a diagonal entry v·x[i]² has
// gradient 2·v·x[i] and Hessian 2·v.
type Quad struct {
	C  float64   // constant
	Ai []int     // linear part: indices
	Av []float64 // linear part: values
	Qi []int     // quadratic part: row indices
	Qj []int     // quadratic part: column indices
	Qv []float64 // quadratic part: values
}

// AddLin appends a linear term v·x[i]
func (o *Quad) AddLin(i int, v float64) {
	o.Ai = append(o.Ai, i)
	o.Av = append(o.Av, v)
}

// AddQuad appends a quadratic term v·x[i]·x[j]
func (o *Quad) AddQuad(i, j int, v float64) {
	o.Qi = append(o.Qi, i)
	o.Qj = append(o.Qj, j)
	o.Qv = append(o.Qv, v)
}

// Value computes g(x)
func (o *Quad) Value(x []float64) (res float64) {
	res = o.C
	for k, i := range o.Ai {
		res += o.Av[k] * x[i]
	}
	for m, i := range o.Qi {
		res += o.Qv[m] * x[i] * x[o.Qj[m]]
	}
	return
}

// AddGrad adds coef·∇g(x) to grad
func (o *Quad) AddGrad(grad []float64, coef float64, x []float64) {
	for k, i := range o.Ai {
		grad[i] += coef * o.Av[k]
	}
	for m, i := range o.Qi {
		j := o.Qj[m]
		grad[i] += coef * o.Qv[m] * x[j]
		grad[j] += coef * o.Qv[m] * x[i]
	}
}

// AddHess adds coef·∇²g to the triplet
func (o *Quad) AddHess(K *la.Triplet, coef float64) {
	for m, i := range o.Qi {
		j := o.Qj[m]
		K.Put(i, j, coef*o.Qv[m])
		K.Put(j, i, coef*o.Qv[m])
	}
}

// AddGradOuter adds coef·∇g(x)·∇g(x)ᵀ to the triplet. The gradient of a
// quadratic form touches few components; the outer product stays sparse.
func (o *Quad) AddGradOuter(K *la.Triplet, coef float64, x []float64, idx []int, val []float64) (n int) {

	// collect sparse gradient into caller workspace
	n = 0
	add := func(i int, v float64) {
		for k := 0; k < n; k++ {
			if idx[k] == i {
				val[k] += v
				return
			}
		}
		idx[n], val[n] = i, v
		n++
	}
	for k, i := range o.Ai {
		add(i, o.Av[k])
	}
	for m, i := range o.Qi {
		j := o.Qj[m]
		add(i, o.Qv[m]*x[j])
		add(j, o.Qv[m]*x[i])
	}

	// outer product
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			K.Put(idx[a], idx[b], coef*val[a]*val[b])
		}
	}
	return
}

// NnzGrad returns an upper bound for the number of nonzero gradient components
func (o *Quad) NnzGrad() int {
	return len(o.Ai) + 2*len(o.Qi)
}
