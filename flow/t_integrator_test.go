// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"math"
	"testing"

	"github.com/cpmech/gocart/geo"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_flow01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flow01. uniform density: the flow is at rest")

	lx, ly := 16, 16
	gd := &geo.GeoDiv{Id: "A", Pwhs: []geo.PolygonWithHoles{{
		Outer: geo.Ring{{2, 2}, {14, 2}, {14, 14}, {2, 14}},
	}}}
	ins := geo.NewInset("C", lx, ly, []*geo.GeoDiv{gd})
	ins.Rho.Fill(1.0)

	integ := NewIntegrator(lx, ly, 1e-6, 1e-3)
	if err := integ.Advect(ins); err != nil {
		tst.Errorf("Advect failed:\n%v", err)
		return
	}
	if integ.Steps < 1 {
		tst.Errorf("no steps were accepted")
		return
	}
	for i := 0; i <= lx; i++ {
		for j := 0; j <= ly; j++ {
			p := ins.Proj[i][j]
			if math.Abs(p.X-float64(i)) > 1e-12 || math.Abs(p.Y-float64(j)) > 1e-12 {
				tst.Errorf("node (%d,%d) moved to (%g,%g) under a uniform density", i, j, p.X, p.Y)
				return
			}
		}
	}
	io.Pforan("steps=%d rejections=%d\n", integ.Steps, integ.Rejections)
}

func Test_flow02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flow02. dense left half pushes nodes to the right")

	lx, ly := 32, 32
	ins := geo.NewInset("C", lx, ly, nil)
	for i := 0; i < lx; i++ {
		for j := 0; j < ly; j++ {
			// smooth step from 2 on the left to 1 on the right
			ins.Rho.Set(i, j, 1.5-0.5*math.Tanh(0.5*(float64(i)-float64(lx)/2.0)))
		}
	}

	integ := NewIntegrator(lx, ly, 1e-6, 1e-3)
	if err := integ.Advect(ins); err != nil {
		tst.Errorf("Advect failed:\n%v", err)
		return
	}

	// the interface node must move toward the sparse side
	mid := ins.Proj[lx/2][ly/2]
	if mid.X <= float64(lx)/2.0 {
		tst.Errorf("interface node did not move right: x=%g", mid.X)
		return
	}

	// the density does not vary in y, so there is no y-flux: the mid row stays level
	chk.Scalar(tst, "mid y", 1e-6, mid.Y, float64(ly)/2.0)

	// the projection stays monotone along x on the mid row
	for i := 0; i < lx; i++ {
		if ins.Proj[i+1][ly/2].X <= ins.Proj[i][ly/2].X {
			tst.Errorf("projection lost monotonicity at node %d", i)
			return
		}
	}
	io.Pforan("steps=%d rejections=%d mid=%v\n", integ.Steps, integ.Rejections, mid)
}

func Test_flow03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flow03. adaptive stepping takes several steps and is deterministic")

	lx, ly := 16, 16
	ins := geo.NewInset("C", lx, ly, nil)
	for i := 0; i < lx; i++ {
		for j := 0; j < ly; j++ {
			ins.Rho.Set(i, j, 1.0+0.3*math.Cos(math.Pi*float64(i)/float64(lx))*math.Cos(math.Pi*float64(j)/float64(ly)))
		}
	}

	integ := NewIntegrator(lx, ly, 1e-8, 1e-4)
	if err := integ.Advect(ins); err != nil {
		tst.Errorf("Advect failed:\n%v", err)
		return
	}
	if integ.Steps < 2 {
		tst.Errorf("expected several adaptive steps, got %d", integ.Steps)
		return
	}

	// a second advection over the same field from the same start must be
	// deterministic
	first := ins.Proj[5][7]
	ins.ResetProj()
	if err := integ.Advect(ins); err != nil {
		tst.Errorf("second Advect failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "determinism x", 1e-15, ins.Proj[5][7].X, first.X)
	chk.Scalar(tst, "determinism y", 1e-15, ins.Proj[5][7].Y, first.Y)
}
