// Copyright 2026 The CRA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"

	"github.com/korbireischl/compas-cra/inp"
)

// Styles holds the formats of diagram entities. Compression is drawn in blue
// and tension in red, friction in green and weights in orange. Resultants are
// one thicker line per interface.
type Styles struct {
	Blocks     plt.A // block outlines
	Supports   plt.A // support block outlines
	Displ      plt.A // displaced outlines
	Compr      plt.A // compressive normal forces
	Tension    plt.A // tensile normal forces
	Friction   plt.A // friction forces
	Weight     plt.A // weight vectors
	ResCompr   plt.A // compressive resultants
	ResTension plt.A // tensile resultants
}

// NewStyles returns the default diagram styles
func NewStyles() (o *Styles) {
	o = new(Styles)
	o.Blocks = plt.A{C: "k", Lw: 1.2, NoClip: true}
	o.Supports = plt.A{C: "#404040", Lw: 2, NoClip: true}
	o.Displ = plt.A{C: "m", Ls: "--", Lw: 0.8, NoClip: true}
	o.Compr = plt.A{C: "b", Lw: 1.5, NoClip: true}
	o.Tension = plt.A{C: "r", Lw: 1.5, NoClip: true}
	o.Friction = plt.A{C: "g", Lw: 1.2, NoClip: true}
	o.Weight = plt.A{C: "orange", Lw: 1.2, NoClip: true}
	o.ResCompr = plt.A{C: "#004d00", Lw: 2.5, NoClip: true}
	o.ResTension = plt.A{C: "r", Lw: 2.5, NoClip: true}
	return
}

// PlotAssembly2d draws the projected outlines of all blocks
//
//	Input:
//	 a      -- the assembly
//	 plane  -- projection plane: "xy", "xz" or "yz"
//	 sty    -- styles; nil => default styles
//	 withid -- write block ids at centroids
func PlotAssembly2d(a *inp.Assembly, plane string, sty *Styles, withid bool) {
	if sty == nil {
		sty = NewStyles()
	}
	for _, blk := range a.Blocks {
		fm := &sty.Blocks
		if blk.IsSupport {
			fm = &sty.Supports
		}
		plotOutline(blk.V, blk.F, plane, fm)
		if withid {
			x, y := proj(blk.Centroid, plane)
			plt.Text(x, y, io.Sf("%d", blk.Id), &plt.A{Ha: "center", Fsz: 8})
		}
	}
}

// PlotForces2d draws the solved contact forces of one stage: one line per
// contact point plus the resultant of each interface, applied at the
// force-weighted average of the contact points
//
//	Input:
//	 a     -- the assembly
//	 res   -- results of the stage
//	 plane -- projection plane: "xy", "xz" or "yz"
//	 coef  -- coefficient to scale max(dimension) divided by max force; e.g. 0.1
//	 sf    -- scaling factor. use 0 for automatic computation
//	 sty   -- styles; nil => default styles
//
//	Output:
//	 sf -- the scaling factor used
func PlotForces2d(a *inp.Assembly, res *Results, plane string, coef, sf float64, sty *Styles) float64 {
	if sty == nil {
		sty = NewStyles()
	}

	// scaling factor
	if sf < 1e-8 {
		fmax := res.MaxForce()
		sf = 1.0
		if fmax > 1e-7 {
			sf = coef * maxDim(a, plane) / fmax
		}
	}

	// loop over contact interfaces
	for i, c := range a.Contacts {
		cf := res.Forces[i]
		sumN, sumU, sumV := 0.0, 0.0, 0.0
		for k, xp := range cf.Points {
			pf := cf.Forces[k]
			sumN += pf.Fn()
			sumU += pf.U
			sumV += pf.V

			// normal force: compression pushes block J along +W
			if pf.Np > 0 {
				plotSegment(xp, c.W, sf*pf.Np, plane, &sty.Compr)
			}
			if pf.Nn > 0 {
				plotSegment(xp, c.W, -sf*pf.Nn, plane, &sty.Tension)
			}

			// friction force
			ft := []float64{
				pf.U*c.U[0] + pf.V*c.V[0],
				pf.U*c.U[1] + pf.V*c.V[1],
				pf.U*c.U[2] + pf.V*c.V[2],
			}
			fnorm := math.Sqrt(ft[0]*ft[0] + ft[1]*ft[1] + ft[2]*ft[2])
			if fnorm > 1e-10 {
				plotSegment(xp, ft, sf, plane, &sty.Friction)
			}
		}

		// resultant: applied at the average of the contact points weighted by
		// the net normal forces, drawn centred about the application point
		if math.Abs(sumN) < 1e-10 {
			continue
		}
		pos := make([]float64, 3)
		for k, xp := range cf.Points {
			wgt := cf.Forces[k].Fn() / sumN
			for j := 0; j < 3; j++ {
				pos[j] += wgt * xp[j]
			}
		}
		rf := []float64{
			sumN*c.W[0] + sumU*c.U[0] + sumV*c.V[0],
			sumN*c.W[1] + sumU*c.U[1] + sumV*c.V[1],
			sumN*c.W[2] + sumU*c.U[2] + sumV*c.V[2],
		}
		tail := []float64{pos[0] - 0.5*sf*rf[0], pos[1] - 0.5*sf*rf[1], pos[2] - 0.5*sf*rf[2]}
		fm := &sty.ResCompr
		if sumN < 0 {
			fm = &sty.ResTension
		}
		plotSegment(tail, rf, sf, plane, fm)
	}
	return sf
}

// PlotWeights2d draws the weight vector of each free block at its centroid
func PlotWeights2d(a *inp.Assembly, plane string, coef, sf float64, sty *Styles) {
	if sty == nil {
		sty = NewStyles()
	}
	if sf < 1e-8 {
		wmax := 0.0
		for _, id := range a.FreeBlocks {
			blk := a.Id2blk[id]
			wmax = utl.Max(wmax, blk.Rho*blk.Volume)
		}
		sf = 1.0
		if wmax > 1e-7 {
			sf = coef * maxDim(a, plane) / wmax
		}
	}
	down := []float64{0, 0, -1}
	for _, id := range a.FreeBlocks {
		blk := a.Id2blk[id]
		plotSegment(blk.Centroid, down, sf*blk.Rho*blk.Volume, plane, &sty.Weight)
	}
}

// PlotDisplaced2d draws the displaced outlines of the free blocks. The rigid
// motion x + t + rot×(x-centroid) is applied with the components magnified by mag.
func PlotDisplaced2d(a *inp.Assembly, plane string, mag float64, sty *Styles) {
	if sty == nil {
		sty = NewStyles()
	}
	for _, id := range a.FreeBlocks {
		blk := a.Id2blk[id]
		if blk.Displacement == nil {
			continue
		}
		t := blk.Displacement[:3]
		rot := blk.Displacement[3:]
		vd := make([][]float64, len(blk.V))
		for i, x := range blk.V {
			r := []float64{x[0] - blk.Centroid[0], x[1] - blk.Centroid[1], x[2] - blk.Centroid[2]}
			vd[i] = []float64{
				x[0] + mag*(t[0]+rot[1]*r[2]-rot[2]*r[1]),
				x[1] + mag*(t[1]+rot[2]*r[0]-rot[0]*r[2]),
				x[2] + mag*(t[2]+rot[0]*r[1]-rot[1]*r[0]),
			}
		}
		plotOutline(vd, blk.F, plane, &sty.Displ)
	}
}

// Draw saves the diagram to dirout/fnkey, or shows it when fnkey is empty
func Draw(dirout, fnkey string) {
	if fnkey == "" {
		plt.Show()
		return
	}
	if dirout == "" {
		dirout = "."
	}
	plt.Save(dirout, fnkey)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// proj projects a 3D point onto the given plane
func proj(x []float64, plane string) (px, py float64) {
	switch plane {
	case "xy":
		return x[0], x[1]
	case "xz":
		return x[0], x[2]
	case "yz":
		return x[1], x[2]
	}
	chk.Panic("cannot find projection plane named %q", plane)
	return
}

// maxDim returns the largest projected dimension of the assembly
func maxDim(a *inp.Assembly, plane string) float64 {
	switch plane {
	case "xy":
		return utl.Max(a.Xmax-a.Xmin, a.Ymax-a.Ymin)
	case "xz":
		return utl.Max(a.Xmax-a.Xmin, a.Zmax-a.Zmin)
	case "yz":
		return utl.Max(a.Ymax-a.Ymin, a.Zmax-a.Zmin)
	}
	chk.Panic("cannot find projection plane named %q", plane)
	return 0
}

// plotOutline draws the projected edges of a polyhedron
func plotOutline(v [][]float64, faces [][]int, plane string, fm *plt.A) {
	for _, face := range faces {
		n := len(face)
		xx := make([]float64, n+1)
		yy := make([]float64, n+1)
		for i, vid := range face {
			xx[i], yy[i] = proj(v[vid], plane)
		}
		xx[n], yy[n] = xx[0], yy[0]
		plt.Plot(xx, yy, fm)
	}
}

// plotSegment draws a line segment from x along scale*dir
func plotSegment(x, dir []float64, scale float64, plane string, fm *plt.A) {
	xf := []float64{x[0] + scale*dir[0], x[1] + scale*dir[1], x[2] + scale*dir[2]}
	x0, y0 := proj(x, plane)
	x1, y1 := proj(xf, plane)
	plt.Plot([]float64{x0, x1}, []float64{y0, y1}, fm)
}
