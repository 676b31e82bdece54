// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cart

import (
	"context"

	"github.com/cpmech/gocart/dens"
	"github.com/cpmech/gocart/flow"
	"github.com/cpmech/gocart/geo"
	"github.com/cpmech/gocart/grid"
	"github.com/cpmech/gosl/io"
)

// insetResult holds the outcome of one inset computation
type insetResult struct {
	ins        *geo.Inset
	traces     []*IterationTrace
	iterations int
	maxErr     float64
	err        error
}

// blurFloor: standard deviations below this many grid cells are treated as
// zero and the blur pass is skipped
const blurFloor = 0.1

// runInset drives the iteration loop of one inset: area errors →
// rasterise → blur → integrate → project vertices, until the maximum area
// error falls below tolerance or the iteration budget is exhausted. Both
// terminations are successful returns
func (o *Cart) runInset(ctx context.Context, ins *geo.Inset) (res *insetResult) {

	res = &insetResult{ins: ins}
	rast := dens.NewRasterizer(o.Conf.RayRes)
	rast.DebugTrailing = o.Conf.DebugTrailing
	integ := flow.NewIntegrator(ins.Lx, ins.Ly, o.Conf.AbsTol, o.Conf.RelTol)
	integ.ShowMsg = o.ShowMsg
	plans := grid.NewPlans(ins.Lx, ins.Ly)

	sigma := o.Conf.BlurStart
	if sigma == 0 {
		l := ins.Lx
		if ins.Ly > l {
			l = ins.Ly
		}
		sigma = float64(l) / 16.0
	}

	for n := 0; n < o.Conf.MaxIter; n++ {

		// cancellation is honoured between iterations only
		select {
		case <-ctx.Done():
			res.err = ctx.Err()
			return
		default:
		}

		// convergence test on the area errors of the iteration start
		maxErr, meanErr := ins.UpdateAreaErrs()
		res.maxErr = maxErr
		if maxErr <= o.Conf.ErrTol {
			return
		}
		if o.ShowMsg {
			io.Pf("  inset %s: it=%d σ=%g max_err=%g\n", ins.Pos, n, sigma, maxErr)
		}

		// density field
		if err := rast.Fill(ins); err != nil {
			res.err = err
			return
		}
		if i, j, bad := ins.Rho.FindBad(); bad {
			res.err = &geo.NumericError{Where: "rho", I: i, J: j}
			return
		}
		plans.GaussianBlur(ins.Rho, sigma)

		// advect the grid nodes and carry the vertices along
		ins.ResetProj()
		if err := integ.Advect(ins); err != nil {
			res.err = err
			return
		}
		if i, j, bad := ins.FindBadProj(); bad {
			res.err = &geo.NumericError{Where: "proj", I: i, J: j}
			return
		}
		ins.ProjectVertices()
		ins.ComposeCumProj()

		// bookkeeping
		rhoMin, rhoMax, rhoMean := ins.Rho.MinMaxMean()
		res.traces = append(res.traces, &IterationTrace{
			Inset:         ins.Pos,
			N:             n,
			Sigma:         sigma,
			MaxErr:        maxErr,
			MeanErr:       meanErr,
			RhoMin:        rhoMin,
			RhoMax:        rhoMax,
			RhoMean:       rhoMean,
			RkfSteps:      integ.Steps,
			RkfRejections: integ.Rejections,
		})
		res.iterations++

		// blur schedule: geometric decrease, floored at zero
		factor := o.Conf.BlurFactor
		if factor == 0 {
			factor = 0.5
		}
		sigma *= factor
		if sigma < blurFloor {
			sigma = 0
		}
	}

	// out of iterations: a normal return; final_max_err may still be above tolerance
	res.maxErr, _ = ins.UpdateAreaErrs()
	return
}
