// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// Material holds material data for rigid blocks
type Material struct {

	// input
	Name  string     `json:"name"`  // name of material
	Type  string     `json:"type"`  // type of material; must be "rigid"
	Extra string     `json:"extra"` // extra information about this material
	Prms  dbf.Params `json:"prms"`  // parameters; e.g. "rho"

	// derived
	Rho float64 // density
}

// MatsData holds materials
type MatsData []*Material

// MatDb implements a database of materials
type MatDb struct {

	// input
	Materials MatsData `json:"materials"` // all materials

	// derived
	Rigids map[string]*Material // subset with materials: rigid blocks
}

// ReadMat reads all materials data from a .mat JSON file. Reading panics on a
// missing file; the panic is converted into an error.
func ReadMat(dir, fn string) (mdb *MatDb, err error) {
	defer func() {
		if r := recover(); r != nil {
			mdb, err = nil, chk.Err("cannot read materials file %q:\n%v", fn, r)
		}
	}()

	// read file
	mdb = new(MatDb)
	b := io.ReadFile(filepath.Join(dir, fn))

	// decode
	err = json.Unmarshal(b, mdb)
	if err != nil {
		return nil, chk.Err("cannot unmarshal materials file %q:\n%v", fn, err)
	}

	// subsets and derived data
	mdb.Rigids = make(map[string]*Material)
	for _, m := range mdb.Materials {
		if m.Type != "rigid" {
			return nil, chk.Err("material type %q is incorrect; only \"rigid\" is available", m.Type)
		}
		m.Rho = -1
		if p := m.Prms.Find("rho"); p != nil {
			m.Rho = p.V
		}
		if m.Rho < 0 {
			return nil, chk.Err("material %q must have a non-negative \"rho\" parameter", m.Name)
		}
		mdb.Rigids[m.Name] = m
	}
	return
}

// Get returns a material
//  Note: returns nil if not found
func (o MatDb) Get(name string) *Material {
	for _, mat := range o.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// String prints one material
func (o *Material) String() string {
	return io.Sf("    {\n      \"name\"  : %q,\n      \"type\"  : %q,\n      \"extra\" : %q,\n      \"prms\"  : [\n%v\n    }", o.Name, o.Type, o.Extra, o.Prms)
}

// String prints materials
func (o MatsData) String() string {
	l := "  \"materials\" : [\n"
	for i, m := range o {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("%v", m)
	}
	l += "\n  ]"
	return l
}

// String outputs all materials
func (o MatDb) String() string {
	return io.Sf("{\n%v\n}", o.Materials)
}
