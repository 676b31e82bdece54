// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dens implements the density rasteriser: horizontal ray sweeps
// turning polygons-with-holes and per-region target areas into a
// grid-sampled density field
package dens

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/cpmech/gocart/geo"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// intersection records one crossing between a test ray and a ring edge
type intersection struct {
	x             float64 // x-coordinate of the crossing
	targetDensity float64 // target density of the region owning the edge
	geoDivId      string  // region owning the edge
	direction     bool    // true = entering (downward crossing), false = leaving
}

// pwhEntry is the R-tree item: one polygon-with-holes with its bounding box
// and the owning region's target density
type pwhEntry struct {
	b             *geom.Bounds
	gd            *geo.GeoDiv
	pwh           *geo.PolygonWithHoles
	targetDensity float64
}

// Bounds implements geom.Geom for the R-tree
func (o *pwhEntry) Bounds() *geom.Bounds { return o.b }

// Rasterizer fills the density grid of an inset from its current region
// geometry, target areas and area errors
type Rasterizer struct {
	Res           int  // number of test rays per unit y
	DebugTrailing bool // log the trailing-region weight variant as well
}

// NewRasterizer returns a rasteriser with the given ray resolution
func NewRasterizer(res int) (o *Rasterizer) {
	o = new(Rasterizer)
	o.Res = res
	return
}

// Fill computes ρ(i,j) for every cell of the inset grid. Cells covered by
// no region receive the mean density. A TopologyError is returned when a ray
// collects an odd number of intersections on one polygon, or when two
// consecutive intersections along a ray run in the same direction
func (o *Rasterizer) Fill(ins *geo.Inset) error {

	meanDensity := ins.MeanDensity()

	// index polygons by bounding box
	tree := rtree.NewTree(25, 50)
	for _, gd := range ins.GeoDivs {
		td := meanDensity
		if !ins.Missing[gd.Id] {
			td = ins.Targets[gd.Id] / gd.Area()
		}
		for i := range gd.Pwhs {
			pwh := &gd.Pwhs[i]
			xmin, ymin, xmax, ymax := pwh.Bounds()
			tree.Insert(&pwhEntry{
				b:             &geom.Bounds{Min: geom.Point{X: xmin, Y: ymin}, Max: geom.Point{X: xmax, Y: ymax}},
				gd:            gd,
				pwh:           pwh,
				targetDensity: td,
			})
		}
	}

	// collect intersections, one ray at a time; rays are independent and
	// run on all cores
	nRays := ins.Ly * o.Res
	rays := make([][]intersection, nRays)
	nw := runtime.NumCPU()
	var wg sync.WaitGroup
	errs := make([]error, nw)
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for r := w; r < nRays; r += nw {
				rayY := (float64(r) + 0.5) / float64(o.Res)
				xs, err := o.collectRay(tree, ins, rayY)
				if err != nil {
					if errs[w] == nil {
						errs[w] = err
					}
					return
				}
				rays[r] = xs
			}
		}(w)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	// accumulate weighted densities per cell
	rhoNum := la.MatAlloc(ins.Lx, ins.Ly)
	rhoDen := la.MatAlloc(ins.Lx, ins.Ly)
	dbgCur, dbgTrail := 0.0, 0.0
	for r := 0; r < nRays; r++ {
		xs := rays[r]
		if len(xs) == 0 {
			continue
		}
		rayY := (float64(r) + 0.5) / float64(o.Res)
		k := r / o.Res

		// segments inside regions: even/odd pairs
		for l := 0; l+1 < len(xs); l += 2 {
			if xs[l].direction == xs[l+1].direction {
				return &geo.TopologyError{
					GeoDivId: xs[l].geoDivId,
					RayY:     rayY,
					Overlap:  true,
					LeftX:    xs[l].x,
					RightX:   xs[l+1].x,
				}
			}
			w := ins.AreaErr[xs[l].geoDivId]
			o.accumulate(rhoNum, rhoDen, ins.Lx, k, xs[l].x, xs[l+1].x, w, xs[l].targetDensity)
			if o.DebugTrailing {
				span := xs[l+1].x - xs[l].x
				dbgCur += w * span
				dbgTrail += ins.AreaErr[xs[len(xs)-1].geoDivId] * span
			}
		}

		// gaps between consecutive regions carry the left region's density
		for l := 1; l+1 < len(xs); l += 2 {
			w := ins.AreaErr[xs[l].geoDivId]
			o.accumulate(rhoNum, rhoDen, ins.Lx, k, xs[l].x, xs[l+1].x, w, xs[l].targetDensity)
		}

		// beyond the last intersection the ray extends to the right edge of
		// the grid carrying the last region's density
		last := xs[len(xs)-1]
		w := ins.AreaErr[last.geoDivId]
		o.accumulate(rhoNum, rhoDen, ins.Lx, k, last.x, float64(ins.Lx), w, last.targetDensity)
	}

	if o.DebugTrailing {
		io.Pf("rasteriser: current-region weight sum = %g, trailing-region variant = %g\n", dbgCur, dbgTrail)
	}

	// final density
	for i := 0; i < ins.Lx; i++ {
		for j := 0; j < ins.Ly; j++ {
			if rhoDen[i][j] > 0 {
				ins.Rho.Set(i, j, rhoNum[i][j]/rhoDen[i][j])
			} else {
				ins.Rho.Set(i, j, meanDensity)
			}
		}
	}
	return nil
}

// accumulate distributes the weighted density of the ray segment
// [leftX,rightX] over the cell columns it crosses, in row k
func (o *Rasterizer) accumulate(rhoNum, rhoDen [][]float64, lx, k int, leftX, rightX, areaErr, td float64) {
	if rightX <= leftX {
		return
	}
	c0 := int(math.Max(math.Floor(leftX), 0))
	c1 := int(math.Min(math.Ceil(rightX)-1, float64(lx-1)))
	for c := c0; c <= c1; c++ {
		overlap := math.Min(rightX, float64(c+1)) - math.Max(leftX, float64(c))
		if overlap <= 0 {
			continue
		}
		w := areaErr * overlap
		rhoNum[c][k] += w * td
		rhoDen[c][k] += w
	}
}

// collectRay gathers the sorted intersections of one test ray with every
// polygon whose bounding box straddles it
func (o *Rasterizer) collectRay(tree *rtree.Rtree, ins *geo.Inset, rayY float64) ([]intersection, error) {
	slab := &geom.Bounds{
		Min: geom.Point{X: -1.0, Y: rayY},
		Max: geom.Point{X: float64(ins.Lx) + 1.0, Y: rayY},
	}
	var all []intersection
	eps := 1e-6 / float64(o.Res)
	for _, item := range tree.SearchIntersect(slab) {
		e := item.(*pwhEntry)

		// walk the outer ring and each hole of this polygon
		var xs []intersection
		xs = o.crossRing(xs, e.pwh.Outer, rayY, eps, e)
		for _, hole := range e.pwh.Holes {
			xs = o.crossRing(xs, hole, rayY, eps, e)
		}

		// a well-formed polygon is entered and left the same number of times
		if len(xs)%2 != 0 {
			return nil, &geo.TopologyError{GeoDivId: e.gd.Id, RayY: rayY, Count: len(xs)}
		}
		sort.Slice(xs, func(a, b int) bool { return xs[a].x < xs[b].x })
		all = append(all, xs...)
	}
	// at a shared boundary two regions cross the ray at exactly the same x;
	// the leaving crossing must sort before the entering one so that the
	// merged pattern keeps alternating
	sort.SliceStable(all, func(a, b int) bool {
		if all[a].x != all[b].x {
			return all[a].x < all[b].x
		}
		return !all[a].direction && all[b].direction
	})
	return all, nil
}

// crossRing appends the intersections between the ray y = rayY and the
// edges of one ring. Horizontal edges are skipped (grazing incidence); an
// endpoint exactly on the ray is perturbed by eps so that the crossing is
// counted exactly once
func (o *Rasterizer) crossRing(xs []intersection, ring geo.Ring, rayY, eps float64, e *pwhEntry) []intersection {
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		if a.Y == b.Y {
			continue
		}

		// a vertex exactly on the ray is shifted up by eps in BOTH of its
		// edges, so a pass-through vertex yields one crossing and a touch
		// vertex yields zero or two
		if a.Y == rayY {
			a.Y += eps
		}
		if b.Y == rayY {
			b.Y += eps
		}
		if (a.Y < rayY && b.Y > rayY) || (a.Y > rayY && b.Y < rayY) {
			x := (a.X*(b.Y-rayY) + b.X*(rayY-a.Y)) / (b.Y - a.Y)

			// a downward crossing enters the region (outer rings wind CCW
			// with the interior to the left of travel, holes CW); any
			// non-alternating pattern after sorting exposes
			// self-intersections and overlaps
			xs = append(xs, intersection{x: x, targetDensity: e.targetDensity, geoDivId: e.gd.Id, direction: b.Y < a.Y})
		}
	}
	return xs
}
