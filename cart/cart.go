// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cart implements the cartogram engine: the outer loop that owns
// the map model, the configuration and the per-inset working buffers, and
// that drives rasterisation, blurring, integration and the convergence test
package cart

import (
	"context"
	"sync"

	"github.com/cpmech/gocart/geo"
	"github.com/cpmech/gocart/inp"
	"github.com/cpmech/gocart/simp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Cart holds all data for one cartogram computation
type Cart struct {
	Input   *inp.MapInput    // input map, targets and inset assignment
	Conf    *inp.Config      // engine configuration
	Insets  []*geo.Inset     // one per position tag, input order preserved
	ShowMsg bool             // show messages
	failed  map[string]error // insets broken during preparation; reported, not run
}

// New returns a new engine after validating the configuration and the
// input, grouping regions into insets, rescaling each inset to its grid
// frame, simplifying the boundaries and repairing the target areas
func New(input *inp.MapInput, conf *inp.Config, verbose bool) (o *Cart, err error) {

	// validation
	if conf == nil {
		conf = inp.NewConfig()
	}
	if err = conf.Validate(); err != nil {
		return nil, err
	}
	if err = input.Check(); err != nil {
		return nil, err
	}

	// new engine
	o = new(Cart)
	o.Input = input
	o.Conf = conf
	o.ShowMsg = verbose

	// group regions into insets, preserving input order
	groups := make(map[string][]*geo.GeoDiv)
	var order []string
	for _, gd := range input.Regions {
		pos := input.InsetPos(gd.Id)
		if _, ok := groups[pos]; !ok {
			order = append(order, pos)
		}
		groups[pos] = append(groups[pos], gd)
	}
	for _, pos := range order {
		ins := geo.NewInset(pos, conf.GridLx, conf.GridLy, groups[pos])
		o.Insets = append(o.Insets, ins)
	}

	// prepare each inset; a broken inset is recorded and skipped so the
	// others still run
	o.failed = make(map[string]error)
	for _, ins := range o.Insets {
		for _, gd := range ins.GeoDivs {
			gd.Normalise()
		}
		ins.Rescale()
		if conf.Simplify {
			s := simp.NewSimplifier(conf.DensifyChord, conf.SimplifyCost)
			s.ShowMsg = o.ShowMsg
			gds, err := s.Run(ins.GeoDivs)
			if err != nil {
				o.failed[ins.Pos] = err
				continue
			}
			ins.GeoDivs = gds
		}
		ins.Snapshot()
		o.repairTargets(ins)
	}
	if o.ShowMsg {
		io.Pf("> Initialisation step completed\n")
	}
	return
}

// Run computes the cartogram. Insets are processed in parallel; they share
// no mutable state. A TopologyError or AttributionError is fatal for its
// inset only and is reported in the output; a NumericError (or a cancelled
// context) terminates the entire run
func (o *Cart) Run(ctx context.Context) (out *MapOutput, err error) {

	if o.ShowMsg {
		io.Pf("> Running diffusion iterations\n")
	}
	results := make([]*insetResult, len(o.Insets))
	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for i, ins := range o.Insets {
		if e, broken := o.failed[ins.Pos]; broken {
			results[i] = &insetResult{ins: ins, err: e}
			continue
		}
		wg.Add(1)
		go func(i int, ins *geo.Inset) {
			defer wg.Done()
			results[i] = o.runInset(ctx, ins)
			if isFatal(results[i].err) {
				cancel() // stop the other insets at their next iteration boundary
			}
		}(i, ins)
	}
	wg.Wait()

	// a numeric error (or cancellation) aborts everything
	for _, res := range results {
		if isFatal(res.err) {
			return nil, res.err
		}
	}
	return o.collect(results), nil
}

// isFatal tells whether an inset error must terminate the whole run
func isFatal(err error) bool {
	if err == nil {
		return false
	}
	switch err.(type) {
	case *geo.TopologyError, *geo.AttributionError, *geo.ReassemblyError:
		return false
	}
	return true
}

// repairTargets fills missing target areas, replaces zero and very small
// ones, and scales all targets to the inset grid frame so that the total
// target area equals the total current area
func (o *Cart) repairTargets(ins *geo.Inset) {

	// mark missing values and accumulate known totals
	totalArea, totalTarget := 0.0, 0.0
	for _, gd := range ins.GeoDivs {
		if o.Input.TargetIsMissing(gd.Id) {
			ins.Missing[gd.Id] = true
			continue
		}
		ins.Missing[gd.Id] = false
		ins.Targets[gd.Id] = o.Input.Targets[gd.Id]
		totalArea += gd.Area()
		totalTarget += o.Input.Targets[gd.Id]
	}

	// replace zero and very small targets by the threshold; when the
	// threshold itself is zero, by the minimum positive region area
	threshold := 2e-5 * totalTarget
	replacement := threshold
	if threshold == 0 {
		replacement = minPositiveArea(ins.GeoDivs)
	}
	for _, gd := range ins.GeoDivs {
		if ins.Missing[gd.Id] {
			continue
		}
		if t := ins.Targets[gd.Id]; t < threshold || t == 0 {
			if o.ShowMsg {
				io.Pf("   . . . replacing small target of %q: %g to %g\n", gd.Id, t, replacement)
			}
			totalTarget += replacement - t
			ins.Targets[gd.Id] = replacement
		}
	}

	// fill missing targets by proportionality; when every target is
	// missing, targets are the current geographic areas
	for _, gd := range ins.GeoDivs {
		if !ins.Missing[gd.Id] {
			continue
		}
		if totalTarget == 0 {
			ins.Targets[gd.Id] = gd.Area()
		} else {
			ins.Targets[gd.Id] = gd.Area() * totalTarget / totalArea
		}
	}

	// express targets in grid units: at convergence each region's grid
	// area equals its target exactly
	sumArea, sumTarget := 0.0, 0.0
	for _, gd := range ins.GeoDivs {
		sumArea += gd.Area()
		sumTarget += ins.Targets[gd.Id]
	}
	if sumTarget <= 0 {
		chk.Panic("total target area of inset %q is not positive: %g", ins.Pos, sumTarget)
	}
	for id := range ins.Targets {
		ins.Targets[id] *= sumArea / sumTarget
	}
}

func minPositiveArea(gds []*geo.GeoDiv) float64 {
	res := 0.0
	for _, gd := range gds {
		if a := gd.Area(); a > 0 && (res == 0 || a < res) {
			res = a
		}
	}
	return res
}
