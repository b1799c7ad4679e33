// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements results storage and post-processing of equilibrium
// analyses, including plotting of contact forces
package out

import (
	"bytes"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/korbireischl/compas-cra/inp"
)

// ContactForces holds the solved force records of one contact interface
type ContactForces struct {
	I      int               // id of first block
	J      int               // id of second block
	Points [][]float64       // [npts][3] contact point coordinates
	Forces []*inp.PointForce // [npts] force records
}

// Results holds the solution of one stage
type Results struct {
	Desc          string            // description of stage
	StgIdx        int               // stage index
	Time          float64           // time at which load multipliers were evaluated
	Forces        []*ContactForces  // [ncontacts] all contact forces
	Displacements map[int][]float64 // block id => [6] virtual displacement; nil for forces-only solvers
}

// NewResults collects the solved state of an assembly
func NewResults(a *inp.Assembly, stgidx int, stg *inp.Stage) (o *Results) {
	o = new(Results)
	o.Desc = stg.Desc
	o.StgIdx = stgidx
	o.Time = stg.Time
	o.Forces = make([]*ContactForces, len(a.Contacts))
	for i, c := range a.Contacts {
		o.Forces[i] = &ContactForces{I: c.I, J: c.J, Points: c.Points, Forces: c.Forces}
	}
	for _, id := range a.FreeBlocks {
		blk := a.Id2blk[id]
		if blk.Displacement == nil {
			continue
		}
		if o.Displacements == nil {
			o.Displacements = make(map[int][]float64)
		}
		o.Displacements[id] = blk.Displacement
	}
	return
}

// Save saves results to file
func (o *Results) Save(dirout, fnkey, enctype string) (err error) {
	var buf bytes.Buffer
	enc := utl.NewEncoder(&buf, enctype)
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("cannot encode results:\n%v", err)
	}
	io.WriteFileD(dirout, resFileName(fnkey, enctype, o.StgIdx), &buf)
	return
}

// ReadResults reads results from file. Reading panics on a missing file; the
// panic is converted into an error.
func ReadResults(dirout, fnkey, enctype string, stgidx int) (o *Results, err error) {
	fn := ResPath(dirout, fnkey, enctype, stgidx)
	defer func() {
		if r := recover(); r != nil {
			o, err = nil, chk.Err("cannot read results file %q:\n%v", fn, r)
		}
	}()
	b := io.ReadFile(fn)
	o = new(Results)
	dec := utl.NewDecoder(bytes.NewBuffer(b), enctype)
	err = dec.Decode(o)
	if err != nil {
		return nil, chk.Err("cannot decode results file %q:\n%v", fn, err)
	}
	return
}

// MaxTension returns the largest tensile normal force over all contact points
func (o *Results) MaxTension() (tension float64) {
	for _, cf := range o.Forces {
		for _, pf := range cf.Forces {
			if pf.Nn > tension {
				tension = pf.Nn
			}
		}
	}
	return
}

// MaxForce returns the largest force component magnitude; used for scaling plots
func (o *Results) MaxForce() (fmax float64) {
	update := func(v float64) {
		if v < 0 {
			v = -v
		}
		if v > fmax {
			fmax = v
		}
	}
	for _, cf := range o.Forces {
		for _, pf := range cf.Forces {
			update(pf.Np)
			update(pf.Nn)
			update(pf.U)
			update(pf.V)
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// resFileName returns the file name of the results file of one stage
func resFileName(fnkey, enctype string, stgidx int) string {
	return io.Sf("%s_stg%04d.%s", fnkey, stgidx, enctype)
}

// ResPath returns the path of the results file of one stage
func ResPath(dirout, fnkey, enctype string, stgidx int) string {
	return dirout + "/" + resFileName(fnkey, enctype, stgidx)
}
