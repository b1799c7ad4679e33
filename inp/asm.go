// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"math"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// PointForce holds the contact force components at one contact point.
// Np and Nn are the non-negative compressive and tensile parts of the normal
// force; U and V are the tangential components along the contact frame axes.
type PointForce struct {
	Np float64 // compressive normal component (along +W)
	Nn float64 // tensile normal component (along -W)
	U  float64 // tangential component along U
	V  float64 // tangential component along V
}

// Fn returns the net normal force
func (o *PointForce) Fn() float64 { return o.Np - o.Nn }

// Block holds one rigid block: a closed polyhedral mesh plus analysis data
type Block struct {

	// input
	Id        int         `json:"id"`      // block id
	Tag       int         `json:"tag"`     // block tag
	Mat       string      `json:"mat"`     // material name; "" => use global density
	IsSupport bool        `json:"support"` // fixed block
	V         [][]float64 `json:"v"`       // [nverts][3] vertex coordinates
	F         [][]int     `json:"f"`       // [nfaces][...] faces as vertex lists; outward normals

	// derived
	Volume   float64   // volume of the polyhedron
	Centroid []float64 // [3] centre of volume
	Rho      float64   // density; set by DensitySetup

	// results
	Displacement []float64 // [6] {tx,ty,tz, rx,ry,rz} virtual displacement; nil for supports
}

// Contact holds the planar interface between two blocks. The frame axes U, V, W
// form a right-handed triad with W normal to the interface, pointing from
// block I toward block J. A positive normal force (compression) pushes J along
// +W and I along -W.
type Contact struct {

	// input
	I      int         `json:"i"`      // id of first block
	J      int         `json:"j"`      // id of second block
	Points [][]float64 `json:"points"` // [npoints][3] contact polygon corners
	U      []float64   `json:"u"`      // [3] tangential axis; nil => derived from points
	V      []float64   `json:"v"`      // [3] tangential axis; nil => derived from points
	W      []float64   `json:"w"`      // [3] normal axis; nil => derived from points

	// results
	Forces []*PointForce // [npoints] contact forces; nil before solving
}

// Assembly holds a set of rigid blocks in contact
type Assembly struct {

	// input
	Desc     string     `json:"desc"`     // description
	Blocks   []*Block   `json:"blocks"`   // all blocks
	Contacts []*Contact `json:"contacts"` // all interfaces

	// derived
	Nvc        int            // total number of contact points
	FreeBlocks []int          // ids of free (non-support) blocks, in input order
	Free2idx   map[int]int    // block id => index in FreeBlocks
	Id2blk     map[int]*Block // block id => block

	// derived: limits (for plotting)
	Xmin, Xmax float64
	Ymin, Ymax float64
	Zmin, Zmax float64
}

// ReadAsm reads an assembly from a .asm JSON file. Reading panics on a missing
// file; the panic is converted into an error.
func ReadAsm(dir, fn string) (a *Assembly, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, chk.Err("cannot read assembly file %q:\n%v", fn, r)
		}
	}()

	// read file
	b := io.ReadFile(filepath.Join(dir, fn))

	// decode
	a = new(Assembly)
	err = json.Unmarshal(b, a)
	if err != nil {
		return nil, chk.Err("cannot unmarshal assembly file %q:\n%v", fn, err)
	}

	// derived data
	err = a.Derived()
	if err != nil {
		return nil, err
	}
	return
}

// Derived computes derived quantities: block mass properties, contact frames,
// free block maps and bounding limits
func (o *Assembly) Derived() (err error) {

	// blocks
	o.Id2blk = make(map[int]*Block)
	o.Free2idx = make(map[int]int)
	o.FreeBlocks = nil
	o.Xmin, o.Ymin, o.Zmin = math.Inf(1), math.Inf(1), math.Inf(1)
	o.Xmax, o.Ymax, o.Zmax = math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for _, blk := range o.Blocks {
		if _, ok := o.Id2blk[blk.Id]; ok {
			return chk.Err("duplicate block id %d in assembly", blk.Id)
		}
		o.Id2blk[blk.Id] = blk
		err = blk.CalcVolumeCentroid()
		if err != nil {
			return
		}
		if !blk.IsSupport {
			o.Free2idx[blk.Id] = len(o.FreeBlocks)
			o.FreeBlocks = append(o.FreeBlocks, blk.Id)
		}
		for _, x := range blk.V {
			o.Xmin, o.Xmax = math.Min(o.Xmin, x[0]), math.Max(o.Xmax, x[0])
			o.Ymin, o.Ymax = math.Min(o.Ymin, x[1]), math.Max(o.Ymax, x[1])
			o.Zmin, o.Zmax = math.Min(o.Zmin, x[2]), math.Max(o.Zmax, x[2])
		}
	}

	// contacts
	o.Nvc = 0
	for k, c := range o.Contacts {
		if _, ok := o.Id2blk[c.I]; !ok {
			return chk.Err("contact %d references unknown block id %d", k, c.I)
		}
		if _, ok := o.Id2blk[c.J]; !ok {
			return chk.Err("contact %d references unknown block id %d", k, c.J)
		}
		if len(c.Points) < 3 {
			return chk.Err("contact %d must have at least 3 points", k)
		}
		err = c.CalcFrame()
		if err != nil {
			return chk.Err("contact %d: %v", k, err)
		}
		o.Nvc += len(c.Points)
	}
	return
}

// CalcVolumeCentroid computes volume and centre of volume of the block using
// the divergence theorem over the triangulated boundary
func (o *Block) CalcVolumeCentroid() (err error) {
	vol := 0.0
	cen := make([]float64, 3)
	for _, face := range o.F {
		if len(face) < 3 {
			return chk.Err("block %d has a face with less than 3 vertices", o.Id)
		}
		for _, iv := range face {
			if iv < 0 || iv >= len(o.V) {
				return chk.Err("block %d has a face referencing vertex %d but only %d vertices are defined", o.Id, iv, len(o.V))
			}
		}
		a := o.V[face[0]]
		for i := 2; i < len(face); i++ {
			b := o.V[face[i-1]]
			c := o.V[face[i]]
			// signed volume of tetrahedron {origin, a, b, c}
			v6 := a[0]*(b[1]*c[2]-b[2]*c[1]) + a[1]*(b[2]*c[0]-b[0]*c[2]) + a[2]*(b[0]*c[1]-b[1]*c[0])
			vol += v6 / 6.0
			for j := 0; j < 3; j++ {
				cen[j] += v6 / 6.0 * (a[j] + b[j] + c[j]) / 4.0
			}
		}
	}
	if vol < 1e-14 {
		return chk.Err("block %d has non-positive volume %g; check face orientations", o.Id, vol)
	}
	for j := 0; j < 3; j++ {
		cen[j] /= vol
	}
	o.Volume = vol
	o.Centroid = cen
	return
}

// CalcFrame normalizes the contact frame or derives it from the contact
// polygon when axes are not given in the input file
func (o *Contact) CalcFrame() (err error) {

	// normal from input or via Newell's method
	if o.W == nil {
		o.W = polyNormal(o.Points)
	}
	if err = normalize(o.W); err != nil {
		return chk.Err("cannot normalize W axis: %v", err)
	}

	// tangential axes
	if o.U == nil {
		e := []float64{
			o.Points[1][0] - o.Points[0][0],
			o.Points[1][1] - o.Points[0][1],
			o.Points[1][2] - o.Points[0][2],
		}
		// remove normal component
		d := dot(e, o.W)
		for j := 0; j < 3; j++ {
			e[j] -= d * o.W[j]
		}
		o.U = e
	}
	if err = normalize(o.U); err != nil {
		return chk.Err("cannot normalize U axis: %v", err)
	}
	if o.V == nil {
		o.V = cross(o.W, o.U)
	}
	if err = normalize(o.V); err != nil {
		return chk.Err("cannot normalize V axis: %v", err)
	}

	// check triad
	if math.Abs(dot(o.U, o.W)) > 1e-10 || math.Abs(dot(o.V, o.W)) > 1e-10 || math.Abs(dot(o.U, o.V)) > 1e-10 {
		return chk.Err("contact frame axes are not orthogonal")
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func dot(a, b []float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(a []float64) (err error) {
	n := math.Sqrt(dot(a, a))
	if n < 1e-14 {
		return chk.Err("vector norm is too small (%g)", n)
	}
	for j := 0; j < 3; j++ {
		a[j] /= n
	}
	return
}

// polyNormal computes the (non-normalized) polygon normal via Newell's method
func polyNormal(points [][]float64) []float64 {
	n := make([]float64, 3)
	for i, p := range points {
		q := points[(i+1)%len(points)]
		n[0] += (p[1] - q[1]) * (p[2] + q[2])
		n[1] += (p[2] - q[2]) * (p[0] + q[0])
		n[2] += (p[0] - q[0]) * (p[1] + q[1])
	}
	return n
}
