// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package simp implements polygon simplification through the shared edge
// graph of all region boundaries: the graph is decomposed into maximal
// polylines, each polyline is simplified exactly once, and the polygons are
// reassembled so that shared boundaries stay bit-identical on both sides
package simp

import (
	"github.com/cpmech/gocart/geo"
	"github.com/cpmech/gosl/io"
	"github.com/katalvlaran/lvlath/core"
)

// edgeGraph wraps the shared edge graph of all rings. Vertices are keyed by
// the exact coordinates, so edges traced by two adjacent regions collapse
// into a single graph edge
type edgeGraph struct {
	g     *core.Graph          // undirected graph of boundary edges
	pts   map[string]geo.Point // vertex key → coordinates
	order []string             // vertex keys in insertion order, for deterministic walks
}

func pointKey(p geo.Point) string {
	return io.Sf("%v|%v", p.X, p.Y)
}

func newEdgeGraph() (o *edgeGraph) {
	o = new(edgeGraph)
	o.g = core.NewGraph()
	o.pts = make(map[string]geo.Point)
	return
}

// insertRing adds the closed ring to the graph, one edge per consecutive
// vertex pair including the implicit closing edge
func (o *edgeGraph) insertRing(ring geo.Ring) {
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		ka, kb := o.vertex(a), o.vertex(b)
		if ka == kb {
			continue
		}
		if !o.g.HasEdge(ka, kb) {
			o.g.AddEdge(ka, kb, 0)
		}
	}
}

func (o *edgeGraph) vertex(p geo.Point) string {
	k := pointKey(p)
	if _, ok := o.pts[k]; !ok {
		o.pts[k] = p
		o.order = append(o.order, k)
		o.g.AddVertex(k)
	}
	return k
}

func (o *edgeGraph) neighbors(k string) []string {
	nbrs, err := o.g.NeighborIDs(k)
	if err != nil {
		return nil
	}
	return nbrs
}

func (o *edgeGraph) degree(k string) int {
	return len(o.neighbors(k))
}

func edgeKey(a, b string) string {
	if a < b {
		return a + ";" + b
	}
	return b + ";" + a
}

// splitPolylines cuts the graph at every vertex of degree ≠ 2 and returns
// the maximal polylines. Components whose vertices all have degree 2
// (islands) come out as closed polylines with first == last point
func (o *edgeGraph) splitPolylines() (res []geo.Ring) {
	visited := make(map[string]bool) // by normalised edge key

	// open polylines start at cut vertices
	for _, k := range o.order {
		if o.degree(k) == 2 {
			continue
		}
		for _, nb := range o.neighbors(k) {
			if visited[edgeKey(k, nb)] {
				continue
			}
			res = append(res, o.walk(k, nb, visited))
		}
	}

	// leftover components are closed rings of degree-2 vertices
	for _, k := range o.order {
		for _, nb := range o.neighbors(k) {
			if visited[edgeKey(k, nb)] {
				continue
			}
			res = append(res, o.walk(k, nb, visited))
		}
	}
	return
}

// walk follows the chain from vertex a through its neighbour b until it
// reaches a vertex of degree ≠ 2 or returns to a (closed island)
func (o *edgeGraph) walk(a, b string, visited map[string]bool) geo.Ring {
	chain := geo.Ring{o.pts[a], o.pts[b]}
	visited[edgeKey(a, b)] = true
	prev, curr := a, b
	for curr != a && o.degree(curr) == 2 {
		nbrs := o.neighbors(curr)
		next := nbrs[0]
		if next == prev {
			next = nbrs[1]
		}
		visited[edgeKey(curr, next)] = true
		chain = append(chain, o.pts[next])
		prev, curr = curr, next
	}
	return chain
}
