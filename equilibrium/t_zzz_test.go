// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/korbireischl/compas-cra/inp"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// cubeFaces returns the face list of a cuboid with outward normals
func cubeFaces() [][]int {
	return [][]int{{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7}}
}

// boxVerts returns the vertices of an axis-aligned cuboid
func boxVerts(x0, x1, y0, y1, z0, z1 float64) [][]float64 {
	return [][]float64{
		{x0, y0, z0}, {x1, y0, z0}, {x1, y1, z0}, {x0, y1, z0},
		{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1},
	}
}

// cubeVerts returns the vertices of a unit-base cuboid from z0 to z1
func cubeVerts(z0, z1 float64) [][]float64 {
	return boxVerts(0, 1, 0, 1, z0, z1)
}

// squareContact returns the contact of the full unit square at elevation z
func squareContact(i, j int, z float64) *inp.Contact {
	return &inp.Contact{I: i, J: j,
		Points: [][]float64{{0, 0, z}, {1, 0, z}, {1, 1, z}, {0, 1, z}},
		U:      []float64{1, 0, 0}, V: []float64{0, 1, 0}, W: []float64{0, 0, 1},
	}
}

// cubeAssembly returns a unit cube on a support slab
func cubeAssembly(tst *testing.T) *inp.Assembly {
	a := &inp.Assembly{
		Blocks: []*inp.Block{
			{Id: 0, IsSupport: true, V: cubeVerts(-0.5, 0), F: cubeFaces()},
			{Id: 1, V: cubeVerts(0, 1), F: cubeFaces()},
		},
		Contacts: []*inp.Contact{squareContact(0, 1, 0)},
	}
	err := a.Derived()
	if err != nil {
		tst.Fatalf("cannot build cube assembly:\n%v", err)
	}
	return a
}

// stackAssembly returns two unit cubes stacked on a support slab
func stackAssembly(tst *testing.T) *inp.Assembly {
	a := &inp.Assembly{
		Blocks: []*inp.Block{
			{Id: 0, IsSupport: true, V: cubeVerts(-0.5, 0), F: cubeFaces()},
			{Id: 1, V: cubeVerts(0, 1), F: cubeFaces()},
			{Id: 2, V: cubeVerts(1, 2), F: cubeFaces()},
		},
		Contacts: []*inp.Contact{squareContact(0, 1, 0), squareContact(1, 2, 1)},
	}
	err := a.Derived()
	if err != nil {
		tst.Fatalf("cannot build stack assembly:\n%v", err)
	}
	return a
}

// rotY rotates a point about the y-axis
func rotY(p []float64, θ float64) []float64 {
	c, s := math.Cos(θ), math.Sin(θ)
	return []float64{c*p[0] + s*p[2], p[1], -s*p[0] + c*p[2]}
}

// inclineAssembly returns a unit cube on a support slab, both tilted by θ
// about the y-axis so that gravity pulls the cube downhill along the
// interface
func inclineAssembly(tst *testing.T, θ float64) *inp.Assembly {
	rot := func(pts [][]float64) (res [][]float64) {
		for _, p := range pts {
			res = append(res, rotY(p, θ))
		}
		return
	}
	c := &inp.Contact{I: 0, J: 1,
		Points: rot([][]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}),
		U:      rotY([]float64{1, 0, 0}, θ),
		V:      []float64{0, 1, 0},
		W:      rotY([]float64{0, 0, 1}, θ),
	}
	a := &inp.Assembly{
		Blocks: []*inp.Block{
			{Id: 0, IsSupport: true, V: rot(cubeVerts(-0.5, 0)), F: cubeFaces()},
			{Id: 1, V: rot(cubeVerts(0, 1)), F: cubeFaces()},
		},
		Contacts: []*inp.Contact{c},
	}
	err := a.Derived()
	if err != nil {
		tst.Fatalf("cannot build inclined assembly:\n%v", err)
	}
	return a
}

// overhangAssembly returns a cube resting on a support slab with its centroid
// beyond the contact polygon. Moment balance then requires tensile normal
// forces at the inner contact edge.
func overhangAssembly(tst *testing.T) *inp.Assembly {
	c := &inp.Contact{I: 0, J: 1,
		Points: [][]float64{{0.6, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0.6, 1, 0}},
		U:      []float64{1, 0, 0}, V: []float64{0, 1, 0}, W: []float64{0, 0, 1},
	}
	a := &inp.Assembly{
		Blocks: []*inp.Block{
			{Id: 0, IsSupport: true, V: cubeVerts(-0.5, 0), F: cubeFaces()},
			{Id: 1, V: boxVerts(0.6, 1.6, 0, 1, 0, 1), F: cubeFaces()},
		},
		Contacts: []*inp.Contact{c},
	}
	err := a.Derived()
	if err != nil {
		tst.Fatalf("cannot build overhanging assembly:\n%v", err)
	}
	return a
}

// contactSums returns the per-point force components of one contact interface
func contactSums(c *inp.Contact) (np, nn, u, v []float64) {
	for _, pf := range c.Forces {
		np = append(np, pf.Np)
		nn = append(nn, pf.Nn)
		u = append(u, pf.U)
		v = append(v, pf.V)
	}
	return
}
