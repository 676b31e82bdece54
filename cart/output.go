// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cart

import (
	"math"

	"github.com/cpmech/gocart/geo"
)

// IterationTrace holds diagnostics of one iteration of one inset
type IterationTrace struct {
	Inset         string  `json:"inset"`          // inset position tag
	N             int     `json:"n"`              // iteration number
	Sigma         float64 `json:"sigma"`          // blur standard deviation
	MaxErr        float64 `json:"max_err"`        // maximum relative area error at iteration start
	MeanErr       float64 `json:"mean_err"`       // mean relative area error at iteration start
	RhoMin        float64 `json:"rho_min"`        // minimum density (after blur)
	RhoMax        float64 `json:"rho_max"`        // maximum density
	RhoMean       float64 `json:"rho_mean"`       // mean density
	RkfSteps      int     `json:"rkf_steps"`      // accepted integration steps
	RkfRejections int     `json:"rkf_rejections"` // rejected trial steps
}

// MapOutput holds the deformed regions (back in the input coordinate
// frame), the cumulative node projection per inset and the convergence
// diagnostics
type MapOutput struct {
	RegionsDeformed []*geo.GeoDiv            `json:"regions"`       // deformed regions, input order
	CumProj         map[string][][]geo.Point `json:"-"`             // per inset: composed node projection
	FinalMaxErr     float64                  `json:"final_max_err"` // maximum area error over all insets
	Iterations      int                      `json:"iterations"`    // iterations of the slowest inset
	AreaErrors      map[string]float64       `json:"area_errors"`   // final relative area error per region
	Traces          []*IterationTrace        `json:"traces"`        // all iteration traces
	InsetErrors     map[string]error         `json:"-"`             // per-inset fatal errors (topology/attribution)
}

// collect assembles the output from the per-inset results. Deformed
// regions are cloned and restored to the input coordinate frame; the live
// inset state stays in grid coordinates
func (o *Cart) collect(results []*insetResult) (out *MapOutput) {
	out = new(MapOutput)
	out.CumProj = make(map[string][][]geo.Point)
	out.AreaErrors = make(map[string]float64)
	out.InsetErrors = make(map[string]error)
	for _, res := range results {
		ins := res.ins
		if res.err != nil {
			out.InsetErrors[ins.Pos] = res.err
			continue
		}
		deformed := make([]*geo.GeoDiv, len(ins.GeoDivs))
		for i, gd := range ins.GeoDivs {
			deformed[i] = gd.Clone()
		}
		ins.Unscale(deformed)
		out.RegionsDeformed = append(out.RegionsDeformed, deformed...)
		out.CumProj[ins.Pos] = ins.CumProj
		for id, e := range ins.AreaErr {
			out.AreaErrors[id] = e
		}
		out.FinalMaxErr = math.Max(out.FinalMaxErr, res.maxErr)
		if res.iterations > out.Iterations {
			out.Iterations = res.iterations
		}
		out.Traces = append(out.Traces, res.traces...)
	}
	return
}
