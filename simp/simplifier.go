// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simp

import (
	"math"
	"sort"

	"github.com/cpmech/gocart/geo"
	"github.com/cpmech/gosl/io"
)

// owner identifies one (region, polygon) pair a polyline lies on, and
// whether it lies on a hole ring of that polygon
type owner struct {
	gd, pwh int
	hole    bool
}

// pll is one maximal polyline of the shared edge graph together with its
// owners. A polyline on the boundary between two regions has two owners
type pll struct {
	id     int
	pts    geo.Ring // first==last for closed islands
	owners []owner
}

func (o *pll) closed() bool {
	return len(o.pts) > 1 && o.pts[0] == o.pts[len(o.pts)-1]
}

// Simplifier rebuilds all regions with simplified boundaries while keeping
// shared boundaries identical on both sides
type Simplifier struct {
	DensifyChord float64 // maximum chord length, in grid cells
	SimplifyCost float64 // distance threshold as a fraction of DensifyChord
	ShowMsg      bool    // print vertex count summary
}

// NewSimplifier returns a simplifier with the given densification and cost
// parameters
func NewSimplifier(densifyChord, simplifyCost float64) (o *Simplifier) {
	o = new(Simplifier)
	o.DensifyChord = densifyChord
	o.SimplifyCost = simplifyCost
	return
}

// Run returns new regions with simplified boundaries. The input regions are
// not modified. Region ids, polygon-with-holes attribution and hole
// containment are preserved
func (o *Simplifier) Run(gds []*geo.GeoDiv) ([]*geo.GeoDiv, error) {

	// shared edge graph of every ring of every region
	graph := newEdgeGraph()
	for _, gd := range gds {
		for i := range gd.Pwhs {
			graph.insertRing(gd.Pwhs[i].Outer)
			for _, hole := range gd.Pwhs[i].Holes {
				graph.insertRing(hole)
			}
		}
	}

	// maximal polylines
	chains := graph.splitPolylines()
	plls := make([]*pll, len(chains))
	for i, c := range chains {
		plls[i] = &pll{id: i, pts: c}
	}

	// attribute polylines to regions and polygons
	if err := o.attribute(plls, gds); err != nil {
		return nil, err
	}

	// densify, then simplify each polyline exactly once
	tol := o.SimplifyCost * o.DensifyChord
	for _, p := range plls {
		p.pts = densify(p.pts, o.DensifyChord)
		p.pts = douglasPeucker(p.pts, tol*tol)
	}

	// reassemble polygons per (region, polygon) bucket
	res, err := o.reassemble(plls, gds)
	if err != nil {
		return nil, err
	}

	if o.ShowMsg {
		nin, nout := 0, 0
		for i := range gds {
			nin += gds[i].NumPoints()
			nout += res[i].NumPoints()
		}
		io.Pf("   . . . simplification: %d vertices reduced to %d\n", nin, nout)
	}
	return res, nil
}

// attribute finds the owners of every polyline: a polyline belongs to a
// polygon when at least 3 of its vertices lie on the polygon's outer ring
// (2 for two-point polylines matching a ring edge), and to a hole when at
// least 2 of its vertices lie on the hole ring
func (o *Simplifier) attribute(plls []*pll, gds []*geo.GeoDiv) error {
	for _, p := range plls {
		for g, gd := range gds {
			for w := range gd.Pwhs {
				if onRing(p, gd.Pwhs[w].Outer, 3) {
					p.owners = append(p.owners, owner{gd: g, pwh: w})
				}
				for _, hole := range gd.Pwhs[w].Holes {
					if onRing(p, hole, 2) {
						p.owners = append(p.owners, owner{gd: g, pwh: w, hole: true})
						break
					}
				}
			}
		}
		if len(p.owners) == 0 {
			return &geo.AttributionError{Polyline: p.id, V1: p.pts[0], Vl: p.pts[len(p.pts)-1]}
		}
	}
	return nil
}

// onRing counts polyline vertices among the ring vertices. Two-point
// polylines must match one ring edge exactly (in either direction)
func onRing(p *pll, ring geo.Ring, minHits int) bool {
	if len(p.pts) == 2 || (len(p.pts) == 3 && p.closed()) {
		n := len(ring)
		for i := 0; i < n; i++ {
			a, b := ring[i], ring[(i+1)%n]
			if (a == p.pts[0] && b == p.pts[1]) || (b == p.pts[0] && a == p.pts[1]) {
				return true
			}
		}
		return false
	}
	set := make(map[geo.Point]bool, len(ring))
	for _, q := range ring {
		set[q] = true
	}
	hits := 0
	for _, q := range p.pts {
		if set[q] {
			hits++
			if hits >= minHits {
				return true
			}
		}
	}
	return false
}

// densify subdivides every segment longer than chord into equal parts
func densify(pts geo.Ring, chord float64) geo.Ring {
	res := make(geo.Ring, 0, len(pts))
	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		res = append(res, a)
		d := math.Hypot(b.X-a.X, b.Y-a.Y)
		if d > chord {
			n := int(math.Ceil(d / chord))
			for m := 1; m < n; m++ {
				f := float64(m) / float64(n)
				res = append(res, geo.Point{X: a.X + f*(b.X-a.X), Y: a.Y + f*(b.Y-a.Y)})
			}
		}
	}
	return append(res, pts[len(pts)-1])
}

// douglasPeucker simplifies the polyline with a squared-distance cost,
// preserving the endpoints
func douglasPeucker(pts geo.Ring, tolSq float64) geo.Ring {
	if len(pts) < 3 {
		return pts
	}
	keep := make([]bool, len(pts))
	keep[0], keep[len(pts)-1] = true, true
	dpMark(pts, 0, len(pts)-1, tolSq, keep)
	res := make(geo.Ring, 0, len(pts))
	for i, k := range keep {
		if k {
			res = append(res, pts[i])
		}
	}
	return res
}

func dpMark(pts geo.Ring, lo, hi int, tolSq float64, keep []bool) {
	if hi-lo < 2 {
		return
	}
	imax, dmax := -1, tolSq
	for i := lo + 1; i < hi; i++ {
		d := distSqToSegment(pts[i], pts[lo], pts[hi])
		if d > dmax {
			imax, dmax = i, d
		}
	}
	if imax < 0 {
		return
	}
	keep[imax] = true
	dpMark(pts, lo, imax, tolSq, keep)
	dpMark(pts, imax, hi, tolSq, keep)
}

// distSqToSegment returns the squared distance from p to segment ab. A
// degenerate segment (closed polyline anchor) falls back to point distance
func distSqToSegment(p, a, b geo.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	ll := dx*dx + dy*dy
	if ll == 0 {
		ex, ey := p.X-a.X, p.Y-a.Y
		return ex*ex + ey*ey
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / ll
	t = math.Min(math.Max(t, 0), 1)
	ex, ey := p.X-(a.X+t*dx), p.Y-(a.Y+t*dy)
	return ex*ex + ey*ey
}

// reassemble walks the (region, polygon) buckets chaining simplified
// polylines back into closed rings, holes first
func (o *Simplifier) reassemble(plls []*pll, gds []*geo.GeoDiv) ([]*geo.GeoDiv, error) {

	// buckets in (region, polygon) order
	type bucketKey struct{ gd, pwh int }
	buckets := make(map[bucketKey][]*pll)
	holeOf := make(map[bucketKey]map[int]bool) // bucket → pll id → lies on a hole
	for _, p := range plls {
		for _, ow := range p.owners {
			k := bucketKey{ow.gd, ow.pwh}
			buckets[k] = append(buckets[k], p)
			if holeOf[k] == nil {
				holeOf[k] = make(map[int]bool)
			}
			holeOf[k][p.id] = ow.hole
		}
	}

	res := make([]*geo.GeoDiv, len(gds))
	for g, gd := range gds {
		final := &geo.GeoDiv{Id: gd.Id}
		var pendingHoles []geo.Ring
		for w := range gd.Pwhs {
			k := bucketKey{g, w}
			bucket := buckets[k]
			if len(bucket) == 0 {
				continue
			}

			// holes first, stable
			sort.SliceStable(bucket, func(a, b int) bool {
				return holeOf[k][bucket[a].id] && !holeOf[k][bucket[b].id]
			})

			visited := make(map[int]bool)
			for _, p := range bucket {
				if visited[p.id] {
					continue
				}

				// a closed polyline is a complete ring by itself; open
				// polylines are chained by matching endpoints at either end
				var ring geo.Ring
				if p.closed() {
					visited[p.id] = true
					ring = p.pts[:len(p.pts)-1].Clone()
				} else {
					var err error
					ring, err = chainBucket(p, bucket, visited, gd.Id, w)
					if err != nil {
						return nil, err
					}
				}

				// a ring seeded by a hole polyline is a hole
				if holeOf[k][p.id] {
					pendingHoles = append(pendingHoles, ring)
					continue
				}

				// attach every pending hole whose midpoint lies inside
				pwh := geo.PolygonWithHoles{Outer: ring}
				pwh.Holes, pendingHoles = takeInside(pendingHoles, ring)
				final.Pwhs = append(final.Pwhs, pwh)
			}
		}
		final.Normalise()
		res[g] = final
	}
	return res, nil
}

// chainBucket grows a deque from polyline p, repeatedly appending any
// unvisited bucket polyline that shares an endpoint with either end,
// reversing as needed, until the ring closes
func chainBucket(p *pll, bucket []*pll, visited map[int]bool, gdId string, pwh int) (geo.Ring, error) {
	visited[p.id] = true
	ring := p.pts.Clone()
	for ring[0] != ring[len(ring)-1] {
		found := false
		for _, q := range bucket {
			if visited[q.id] || q.closed() {
				continue
			}
			qf, ql := q.pts[0], q.pts[len(q.pts)-1]
			switch {
			case ring[len(ring)-1] == qf:
				ring = appendChain(ring, q.pts, false)
			case ring[len(ring)-1] == ql:
				ring = appendChain(ring, q.pts, true)
			case ring[0] == ql:
				ring = prependChain(ring, q.pts, false)
			case ring[0] == qf:
				ring = prependChain(ring, q.pts, true)
			default:
				continue
			}
			visited[q.id] = true
			found = true
			break
		}
		if !found {
			return nil, &geo.ReassemblyError{GeoDivId: gdId, Pwh: pwh}
		}
	}
	return ring[:len(ring)-1], nil
}

func appendChain(ring, pts geo.Ring, reverse bool) geo.Ring {
	if reverse {
		for i := len(pts) - 2; i >= 0; i-- {
			ring = append(ring, pts[i])
		}
		return ring
	}
	return append(ring, pts[1:]...)
}

func prependChain(ring, pts geo.Ring, reverse bool) geo.Ring {
	var head geo.Ring
	if reverse {
		head = make(geo.Ring, len(pts))
		for i, q := range pts {
			head[len(pts)-1-i] = q
		}
	} else {
		head = pts.Clone()
	}
	return append(head[:len(head)-1], ring...)
}

// takeInside splits the pending holes into those whose midpoint lies
// strictly inside the outer ring and those that stay pending
func takeInside(holes []geo.Ring, outer geo.Ring) (inside, pending []geo.Ring) {
	for _, h := range holes {
		if geo.PointInRing(h[len(h)/2], outer) {
			inside = append(inside, h)
		} else {
			pending = append(pending, h)
		}
	}
	return
}
