// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geo implements the map model: points, rings, polygons with holes
// and geographic divisions (regions) with live, mutable vertex coordinates
package geo

import (
	"math"

	"github.com/ctessum/geom"
)

// Point holds one vertex of the planar working frame. Point is comparable
// and may be used as a map key for exact-coordinate lookups
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ring is a simple closed polygon; the closing duplicate vertex is NOT
// stored and the last-to-first edge is implicit
type Ring []Point

// SignedArea returns the signed area of the ring (positive for CCW)
func (o Ring) SignedArea() (res float64) {
	n := len(o)
	if n < 3 {
		return 0
	}
	for i := 0; i < n; i++ {
		a, b := o[i], o[(i+1)%n]
		res += a.X*b.Y - b.X*a.Y
	}
	return res / 2.0
}

// Area returns the absolute area of the ring
func (o Ring) Area() float64 {
	return math.Abs(o.SignedArea())
}

// IsClockwise tells whether the ring winds clockwise
func (o Ring) IsClockwise() bool {
	return o.SignedArea() < 0
}

// Reverse reverses the ring orientation in place
func (o Ring) Reverse() {
	for i, j := 0, len(o)-1; i < j; i, j = i+1, j-1 {
		o[i], o[j] = o[j], o[i]
	}
}

// Clone returns a deep copy
func (o Ring) Clone() Ring {
	res := make(Ring, len(o))
	copy(res, o)
	return res
}

// ToGeom converts the ring to a single-path geom.Polygon with an explicit
// closing vertex, for area/containment queries through the geom package
func (o Ring) ToGeom() geom.Polygon {
	path := make([]geom.Point, len(o)+1)
	for i, p := range o {
		path[i] = geom.Point{X: p.X, Y: p.Y}
	}
	path[len(o)] = path[0]
	return geom.Polygon{path}
}

// Bounds returns the bounding box of the ring
func (o Ring) Bounds() (xmin, ymin, xmax, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, p := range o {
		xmin = math.Min(xmin, p.X)
		ymin = math.Min(ymin, p.Y)
		xmax = math.Max(xmax, p.X)
		ymax = math.Max(ymax, p.Y)
	}
	return
}

// PolygonWithHoles holds one outer ring plus zero or more hole rings, each
// disjoint and contained in the outer ring. After Normalise, the outer ring
// winds CCW and holes wind CW
type PolygonWithHoles struct {
	Outer            Ring   `json:"outer"`
	Holes            []Ring `json:"holes,omitempty"`
	ExtRingClockwise bool   `json:"-"` // source orientation of the outer ring, for round-tripping
}

// Normalise fixes ring orientations (outer CCW, holes CW) recording the
// source orientation of the outer ring
func (o *PolygonWithHoles) Normalise() {
	o.ExtRingClockwise = o.Outer.IsClockwise()
	if o.ExtRingClockwise {
		o.Outer.Reverse()
	}
	for _, h := range o.Holes {
		if !h.IsClockwise() {
			h.Reverse()
		}
	}
}

// Area returns the outer ring area minus the hole areas
func (o *PolygonWithHoles) Area() (res float64) {
	res = o.Outer.Area()
	for _, h := range o.Holes {
		res -= h.Area()
	}
	return
}

// Bounds returns the bounding box of the outer ring
func (o *PolygonWithHoles) Bounds() (xmin, ymin, xmax, ymax float64) {
	return o.Outer.Bounds()
}

// NumPoints returns the total vertex count including holes
func (o *PolygonWithHoles) NumPoints() (n int) {
	n = len(o.Outer)
	for _, h := range o.Holes {
		n += len(h)
	}
	return
}

// Clone returns a deep copy
func (o *PolygonWithHoles) Clone() (res PolygonWithHoles) {
	res.Outer = o.Outer.Clone()
	res.ExtRingClockwise = o.ExtRingClockwise
	if len(o.Holes) > 0 {
		res.Holes = make([]Ring, len(o.Holes))
		for i, h := range o.Holes {
			res.Holes[i] = h.Clone()
		}
	}
	return
}

// GeoDiv is a named geographic division owning an ordered collection of
// polygons with holes
type GeoDiv struct {
	Id   string             `json:"id"`
	Pwhs []PolygonWithHoles `json:"polygons"`
}

// Area returns the sum of polygon areas (outer minus holes)
func (o *GeoDiv) Area() (res float64) {
	for i := range o.Pwhs {
		res += o.Pwhs[i].Area()
	}
	return
}

// NumPoints returns the total vertex count of all polygons
func (o *GeoDiv) NumPoints() (n int) {
	for i := range o.Pwhs {
		n += o.Pwhs[i].NumPoints()
	}
	return
}

// Normalise fixes ring orientations of all polygons
func (o *GeoDiv) Normalise() {
	for i := range o.Pwhs {
		o.Pwhs[i].Normalise()
	}
}

// Clone returns a deep copy
func (o *GeoDiv) Clone() (res *GeoDiv) {
	res = new(GeoDiv)
	res.Id = o.Id
	res.Pwhs = make([]PolygonWithHoles, len(o.Pwhs))
	for i := range o.Pwhs {
		res.Pwhs[i] = o.Pwhs[i].Clone()
	}
	return
}

// PointInRing tells whether p lies strictly inside the ring, using the geom
// package point-in-polygon test
func PointInRing(p Point, ring Ring) bool {
	return geom.Point{X: p.X, Y: p.Y}.Within(ring.ToGeom()) == geom.Inside
}
