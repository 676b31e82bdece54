// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simp

import (
	"testing"

	"github.com/cpmech/gocart/geo"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_graph01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("graph01. two squares sharing an edge split into three polylines")

	left := &geo.GeoDiv{Id: "L", Pwhs: []geo.PolygonWithHoles{{
		Outer: geo.Ring{{0, 0}, {5, 0}, {5, 10}, {0, 10}},
	}}}
	right := &geo.GeoDiv{Id: "R", Pwhs: []geo.PolygonWithHoles{{
		Outer: geo.Ring{{5, 0}, {10, 0}, {10, 10}, {5, 10}},
	}}}

	g := newEdgeGraph()
	for _, gd := range []*geo.GeoDiv{left, right} {
		g.insertRing(gd.Pwhs[0].Outer)
	}

	// the two junction vertices have degree 3
	require.Equal(tst, 3, g.degree(pointKey(geo.Point{X: 5, Y: 0})))
	require.Equal(tst, 3, g.degree(pointKey(geo.Point{X: 5, Y: 10})))

	// three maximal polylines: left U, right U and the shared segment
	chains := g.splitPolylines()
	require.Len(tst, chains, 3)
	total := 0
	for _, c := range chains {
		require.GreaterOrEqual(tst, len(c), 2)
		total += len(c)
	}
	// 6 distinct vertices, junctions appear in all three chains
	require.Equal(tst, 10, total)
}

func Test_graph02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("graph02. an island ring becomes one closed polyline")

	g := newEdgeGraph()
	g.insertRing(geo.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}})
	chains := g.splitPolylines()
	require.Len(tst, chains, 1)
	require.Equal(tst, chains[0][0], chains[0][len(chains[0])-1])
	require.Len(tst, chains[0], 5)
}

func Test_dp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dp01. densify and Douglas–Peucker are inverse on straight chains")

	pts := geo.Ring{{0, 0}, {10, 0}}
	dense := densify(pts, 0.25)
	require.GreaterOrEqual(tst, len(dense), 41)
	for i := 0; i < len(dense)-1; i++ {
		dx := dense[i+1].X - dense[i].X
		require.LessOrEqual(tst, dx, 0.25+1e-12)
	}

	simple := douglasPeucker(dense, 0.05*0.05)
	require.Equal(tst, geo.Ring{{0, 0}, {10, 0}}, simple)

	// a genuine corner survives
	bent := geo.Ring{{0, 0}, {5, 3}, {10, 0}}
	simple = douglasPeucker(densify(bent, 0.25), 0.05*0.05)
	require.Contains(tst, simple, geo.Point{X: 5, Y: 3})
	require.Equal(tst, geo.Point{X: 0, Y: 0}, simple[0])
	require.Equal(tst, geo.Point{X: 10, Y: 0}, simple[len(simple)-1])
}

func Test_simp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("simp01. adjacent squares keep a bit-identical shared boundary")

	left := &geo.GeoDiv{Id: "L", Pwhs: []geo.PolygonWithHoles{{
		Outer: geo.Ring{{0, 0}, {5, 0}, {5, 10}, {0, 10}},
	}}}
	right := &geo.GeoDiv{Id: "R", Pwhs: []geo.PolygonWithHoles{{
		Outer: geo.Ring{{5, 0}, {10, 0}, {10, 10}, {5, 10}},
	}}}
	for _, gd := range []*geo.GeoDiv{left, right} {
		gd.Normalise()
	}

	s := NewSimplifier(0.25, 0.2)
	res, err := s.Run([]*geo.GeoDiv{left, right})
	require.NoError(tst, err)
	require.Len(tst, res, 2)

	// areas survive the round trip
	chk.Scalar(tst, "area L", 1e-12, res[0].Area(), 50.0)
	chk.Scalar(tst, "area R", 1e-12, res[1].Area(), 50.0)

	// no vertex inflation
	require.LessOrEqual(tst, res[0].NumPoints(), 4+2)
	require.LessOrEqual(tst, res[1].NumPoints(), 4+2)

	// the shared boundary points are identical on both sides
	onBoth := func(p geo.Point) bool { return p.X == 5 }
	var sharedL, sharedR []geo.Point
	for _, p := range res[0].Pwhs[0].Outer {
		if onBoth(p) {
			sharedL = append(sharedL, p)
		}
	}
	for _, p := range res[1].Pwhs[0].Outer {
		if onBoth(p) {
			sharedR = append(sharedR, p)
		}
	}
	require.ElementsMatch(tst, sharedL, sharedR)
	require.GreaterOrEqual(tst, len(sharedL), 2)
}

func Test_simp02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("simp02. donut region keeps its hole strictly inside")

	gd := &geo.GeoDiv{Id: "D", Pwhs: []geo.PolygonWithHoles{{
		Outer: geo.Ring{{0, 0}, {20, 0}, {20, 20}, {0, 20}},
		Holes: []geo.Ring{{{8, 8}, {12, 8}, {12, 12}, {8, 12}}},
	}}}
	gd.Normalise()
	before := gd.NumPoints()

	s := NewSimplifier(0.25, 0.2)
	res, err := s.Run([]*geo.GeoDiv{gd})
	require.NoError(tst, err)
	require.Len(tst, res, 1)
	require.Len(tst, res[0].Pwhs, 1)
	require.Len(tst, res[0].Pwhs[0].Holes, 1)
	require.LessOrEqual(tst, res[0].NumPoints(), before)

	// the hole is still contained in the outer ring
	for _, p := range res[0].Pwhs[0].Holes[0] {
		require.True(tst, geo.PointInRing(p, res[0].Pwhs[0].Outer))
	}
	chk.Scalar(tst, "area", 1e-12, res[0].Area(), 400.0-16.0)
}

func Test_simp03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("simp03. three regions around a T-junction reassemble cleanly")

	a := &geo.GeoDiv{Id: "A", Pwhs: []geo.PolygonWithHoles{{
		Outer: geo.Ring{{0, 0}, {6, 0}, {6, 6}, {0, 6}},
	}}}
	b := &geo.GeoDiv{Id: "B", Pwhs: []geo.PolygonWithHoles{{
		Outer: geo.Ring{{6, 0}, {12, 0}, {12, 6}, {6, 6}},
	}}}
	c := &geo.GeoDiv{Id: "C", Pwhs: []geo.PolygonWithHoles{{
		Outer: geo.Ring{{0, 6}, {12, 6}, {12, 12}, {0, 12}},
	}}}
	for _, gd := range []*geo.GeoDiv{a, b, c} {
		gd.Normalise()
	}

	s := NewSimplifier(0.25, 0.2)
	res, err := s.Run([]*geo.GeoDiv{a, b, c})
	require.NoError(tst, err)
	chk.Scalar(tst, "area A", 1e-12, res[0].Area(), 36.0)
	chk.Scalar(tst, "area B", 1e-12, res[1].Area(), 36.0)
	chk.Scalar(tst, "area C", 1e-12, res[2].Area(), 72.0)

	// every region still forms closed, well-oriented rings
	for _, gd := range res {
		for i := range gd.Pwhs {
			require.GreaterOrEqual(tst, len(gd.Pwhs[i].Outer), 3)
			require.False(tst, gd.Pwhs[i].Outer.IsClockwise())
		}
	}
}
