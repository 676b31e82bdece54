// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import (
	"math"

	"github.com/cpmech/gocart/grid"
	"github.com/cpmech/gosl/chk"
)

// Inset holds a named subset of regions laid out in its own coordinate
// frame, together with the working buffers of the deformation: the density
// grid, the per-iteration projected node positions and the cumulative
// projection. Position tags are "C", "L", "R", "T" or "B"
type Inset struct {

	// identification and regions
	Pos         string    // position tag
	GeoDivs     []*GeoDiv // regions with live vertex coordinates
	GeoDivsOrig []*GeoDiv // snapshot taken after simplification; never mutated

	// grid data
	Lx, Ly  int        // grid dimensions (powers of two)
	Rho     *grid.Grid // density grid, lx×ly
	Proj    [][]Point  // projected grid node positions, (lx+1)×(ly+1)
	CumProj [][]Point  // composition of all past iterations, (lx+1)×(ly+1)

	// targets
	Targets map[string]float64 // target area per region, in grid units after rescaling
	Missing map[string]bool    // per region: input target absent or negative
	AreaErr map[string]float64 // relative area error per region, from the last Update

	// rescaling from the input frame to the grid frame
	ScaleFactor    float64 // multiplicative factor
	Xmin, Ymin     float64 // input-frame offset
	Xshift, Yshift float64 // grid-frame offset
}

// NewInset returns an inset holding the given regions. Grids and projection
// arrays are allocated; targets start empty
func NewInset(pos string, lx, ly int, gds []*GeoDiv) (o *Inset) {
	o = new(Inset)
	o.Pos = pos
	o.GeoDivs = gds
	o.Lx, o.Ly = lx, ly
	o.Rho = grid.New(lx, ly)
	o.Proj = newNodeArray(lx, ly)
	o.CumProj = newNodeArray(lx, ly)
	o.Targets = make(map[string]float64)
	o.Missing = make(map[string]bool)
	o.AreaErr = make(map[string]float64)
	o.ScaleFactor = 1.0
	o.ResetProj()
	identity(o.CumProj)
	return
}

func newNodeArray(lx, ly int) [][]Point {
	res := make([][]Point, lx+1)
	for i := range res {
		res[i] = make([]Point, ly+1)
	}
	return res
}

func identity(proj [][]Point) {
	for i := range proj {
		for j := range proj[i] {
			proj[i][j] = Point{X: float64(i), Y: float64(j)}
		}
	}
}

// ResetProj sets the per-iteration projection back to the identity
func (o *Inset) ResetProj() {
	identity(o.Proj)
}

// Rescale fits all regions into the grid rectangle [0,lx]×[0,ly] with a 5 %
// margin on every side, using a uniform scale. The transform parameters are
// kept so that Unscale can restore the input frame on output
func (o *Inset) Rescale() {
	if len(o.GeoDivs) == 0 {
		chk.Panic("cannot rescale inset %q with no regions", o.Pos)
	}
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	for _, gd := range o.GeoDivs {
		for i := range gd.Pwhs {
			a, b, c, d := gd.Pwhs[i].Bounds()
			xmin = math.Min(xmin, a)
			ymin = math.Min(ymin, b)
			xmax = math.Max(xmax, c)
			ymax = math.Max(ymax, d)
		}
	}
	mx := 0.05 * float64(o.Lx)
	my := 0.05 * float64(o.Ly)
	w, h := xmax-xmin, ymax-ymin
	if w <= 0 || h <= 0 {
		chk.Panic("degenerate bounding box of inset %q: w=%g, h=%g", o.Pos, w, h)
	}
	o.ScaleFactor = math.Min((float64(o.Lx)-2.0*mx)/w, (float64(o.Ly)-2.0*my)/h)
	o.Xmin, o.Ymin = xmin, ymin

	// centre the map in the grid rectangle
	o.Xshift = (float64(o.Lx) - o.ScaleFactor*w) / 2.0
	o.Yshift = (float64(o.Ly) - o.ScaleFactor*h) / 2.0
	for _, gd := range o.GeoDivs {
		o.rescaleGd(gd)
	}
}

func (o *Inset) rescaleGd(gd *GeoDiv) {
	f := func(p Point) Point {
		return Point{
			X: (p.X-o.Xmin)*o.ScaleFactor + o.Xshift,
			Y: (p.Y-o.Ymin)*o.ScaleFactor + o.Yshift,
		}
	}
	for i := range gd.Pwhs {
		mapRing(gd.Pwhs[i].Outer, f)
		for _, hole := range gd.Pwhs[i].Holes {
			mapRing(hole, f)
		}
	}
}

// Unscale restores the given regions from the grid frame to the input frame
func (o *Inset) Unscale(gds []*GeoDiv) {
	f := func(p Point) Point {
		return Point{
			X: (p.X-o.Xshift)/o.ScaleFactor + o.Xmin,
			Y: (p.Y-o.Yshift)/o.ScaleFactor + o.Ymin,
		}
	}
	for _, gd := range gds {
		for i := range gd.Pwhs {
			mapRing(gd.Pwhs[i].Outer, f)
			for _, hole := range gd.Pwhs[i].Holes {
				mapRing(hole, f)
			}
		}
	}
}

func mapRing(r Ring, f func(Point) Point) {
	for i := range r {
		r[i] = f(r[i])
	}
}

// Snapshot records the current regions as the never-mutated originals
func (o *Inset) Snapshot() {
	o.GeoDivsOrig = make([]*GeoDiv, len(o.GeoDivs))
	for i, gd := range o.GeoDivs {
		o.GeoDivsOrig[i] = gd.Clone()
	}
}

// TotalArea returns the current area summed over regions with known targets
func (o *Inset) TotalArea() (res float64) {
	for _, gd := range o.GeoDivs {
		if !o.Missing[gd.Id] {
			res += gd.Area()
		}
	}
	return
}

// TotalTargetArea returns the target area summed over regions with known targets
func (o *Inset) TotalTargetArea() (res float64) {
	for _, gd := range o.GeoDivs {
		if !o.Missing[gd.Id] {
			res += o.Targets[gd.Id]
		}
	}
	return
}

// MeanDensity returns Σ target areas / Σ current areas over non-missing regions
func (o *Inset) MeanDensity() float64 {
	return o.TotalTargetArea() / o.TotalArea()
}

// UpdateAreaErrs recomputes the relative area error of every region and
// returns the maximum and mean errors
func (o *Inset) UpdateAreaErrs() (maxErr, meanErr float64) {
	for _, gd := range o.GeoDivs {
		e := math.Abs(gd.Area()/o.Targets[gd.Id] - 1.0)
		o.AreaErr[gd.Id] = e
		maxErr = math.Max(maxErr, e)
		meanErr += e
	}
	meanErr /= float64(len(o.GeoDivs))
	return
}

// InterpProj evaluates the projected position of an arbitrary point by
// bilinear interpolation of the node array, clamped to the grid rectangle
func InterpProj(proj [][]Point, lx, ly int, p Point) Point {
	x := math.Min(math.Max(p.X, 0), float64(lx))
	y := math.Min(math.Max(p.Y, 0), float64(ly))
	i := int(math.Min(math.Floor(x), float64(lx-1)))
	j := int(math.Min(math.Floor(y), float64(ly-1)))
	s, t := x-float64(i), y-float64(j)
	p00, p10 := proj[i][j], proj[i+1][j]
	p01, p11 := proj[i][j+1], proj[i+1][j+1]
	return Point{
		X: (1-s)*(1-t)*p00.X + s*(1-t)*p10.X + (1-s)*t*p01.X + s*t*p11.X,
		Y: (1-s)*(1-t)*p00.Y + s*(1-t)*p10.Y + (1-s)*t*p01.Y + s*t*p11.Y,
	}
}

// ProjectVertices moves every region vertex to its image under the current
// per-iteration projection
func (o *Inset) ProjectVertices() {
	f := func(p Point) Point {
		return InterpProj(o.Proj, o.Lx, o.Ly, p)
	}
	for _, gd := range o.GeoDivs {
		for i := range gd.Pwhs {
			mapRing(gd.Pwhs[i].Outer, f)
			for _, hole := range gd.Pwhs[i].Holes {
				mapRing(hole, f)
			}
		}
	}
}

// ComposeCumProj updates the cumulative projection with the projection of
// the iteration that just completed: the cumulative image of node (i,j) is
// pushed through the new per-iteration projection by bilinear lookup
func (o *Inset) ComposeCumProj() {
	for i := 0; i <= o.Lx; i++ {
		for j := 0; j <= o.Ly; j++ {
			o.CumProj[i][j] = InterpProj(o.Proj, o.Lx, o.Ly, o.CumProj[i][j])
		}
	}
}

// FindBadProj looks for NaN or Inf node positions
func (o *Inset) FindBadProj() (i, j int, found bool) {
	for i := 0; i <= o.Lx; i++ {
		for j := 0; j <= o.Ly; j++ {
			p := o.Proj[i][j]
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				return i, j, true
			}
		}
	}
	return
}
