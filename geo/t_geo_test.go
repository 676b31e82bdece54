// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func square(x0, y0, l float64) Ring {
	return Ring{{x0, y0}, {x0 + l, y0}, {x0 + l, y0 + l}, {x0, y0 + l}}
}

func Test_ring01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ring01. signed area, orientation and reversal")

	r := square(0, 0, 10)
	chk.Scalar(tst, "signed area", 1e-14, r.SignedArea(), 100.0)
	if r.IsClockwise() {
		tst.Errorf("CCW ring reported as clockwise")
		return
	}
	r.Reverse()
	chk.Scalar(tst, "signed area reversed", 1e-14, r.SignedArea(), -100.0)
	if !r.IsClockwise() {
		tst.Errorf("CW ring reported as counter-clockwise")
		return
	}
	chk.Scalar(tst, "absolute area", 1e-14, r.Area(), 100.0)
}

func Test_pwh01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pwh01. polygon with hole: area and normalisation")

	pwh := PolygonWithHoles{
		Outer: square(0, 0, 20),
		Holes: []Ring{square(8, 8, 4)},
	}
	pwh.Outer.Reverse() // clockwise source
	pwh.Normalise()
	if !pwh.ExtRingClockwise {
		tst.Errorf("source orientation flag not recorded")
		return
	}
	if pwh.Outer.IsClockwise() {
		tst.Errorf("outer ring not normalised to CCW")
		return
	}
	if !pwh.Holes[0].IsClockwise() {
		tst.Errorf("hole not normalised to CW")
		return
	}
	chk.Scalar(tst, "area", 1e-13, pwh.Area(), 400.0-16.0)
	chk.IntAssert(pwh.NumPoints(), 8)

	gd := &GeoDiv{Id: "A", Pwhs: []PolygonWithHoles{pwh}}
	chk.Scalar(tst, "geodiv area", 1e-13, gd.Area(), 384.0)
}

func Test_pip01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pip01. point in ring")

	r := square(0, 0, 10)
	if !PointInRing(Point{5, 5}, r) {
		tst.Errorf("(5,5) should be inside the square")
		return
	}
	if PointInRing(Point{15, 5}, r) {
		tst.Errorf("(15,5) should be outside the square")
		return
	}
}

func Test_inset01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("inset01. rescaling into the grid frame and back")

	gd := &GeoDiv{Id: "A", Pwhs: []PolygonWithHoles{{Outer: square(100, 200, 50)}}}
	ins := NewInset("C", 64, 64, []*GeoDiv{gd})
	ins.Rescale()

	// the map occupies the grid rectangle up to the margin
	xmin, ymin, xmax, ymax := gd.Pwhs[0].Bounds()
	if xmin < 0 || ymin < 0 || xmax > 64 || ymax > 64 {
		tst.Errorf("rescaled map escapes the grid: [%g,%g]×[%g,%g]", xmin, xmax, ymin, ymax)
		return
	}
	chk.Scalar(tst, "area scaling", 1e-10, gd.Area(), 50.0*50.0*ins.ScaleFactor*ins.ScaleFactor)

	// round trip back to the input frame
	ins.Unscale([]*GeoDiv{gd})
	chk.Scalar(tst, "area restored", 1e-8, gd.Area(), 2500.0)
	x0, y0, _, _ := gd.Pwhs[0].Bounds()
	chk.Scalar(tst, "xmin restored", 1e-9, x0, 100.0)
	chk.Scalar(tst, "ymin restored", 1e-9, y0, 200.0)
}

func Test_inset02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("inset02. identity projection and composition")

	gd := &GeoDiv{Id: "A", Pwhs: []PolygonWithHoles{{Outer: square(1, 1, 2)}}}
	ins := NewInset("C", 8, 8, []*GeoDiv{gd})

	// identity projection leaves arbitrary points in place
	p := InterpProj(ins.Proj, 8, 8, Point{3.25, 4.75})
	chk.Scalar(tst, "x", 1e-15, p.X, 3.25)
	chk.Scalar(tst, "y", 1e-15, p.Y, 4.75)

	// vertices are unchanged under the identity
	ins.ProjectVertices()
	chk.Scalar(tst, "area", 1e-14, gd.Area(), 4.0)

	// composing with a pure translation shifts the cumulative projection
	for i := 0; i <= 8; i++ {
		for j := 0; j <= 8; j++ {
			ins.Proj[i][j] = Point{float64(i) + 0.5, float64(j)}
		}
	}
	ins.ComposeCumProj()
	q := ins.CumProj[2][3]
	chk.Scalar(tst, "cum x", 1e-14, q.X, 2.5)
	chk.Scalar(tst, "cum y", 1e-14, q.Y, 3.0)

	// targets and area errors
	ins.Targets["A"] = 8.0
	ins.Missing["A"] = false
	maxErr, meanErr := ins.UpdateAreaErrs()
	chk.Scalar(tst, "max err", 1e-14, maxErr, 0.5)
	chk.Scalar(tst, "mean err", 1e-14, meanErr, 0.5)
	chk.Scalar(tst, "mean density", 1e-14, ins.MeanDensity(), 2.0)
}
