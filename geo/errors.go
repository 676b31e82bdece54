// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import "github.com/cpmech/gosl/io"

// TopologyError reports an invalid map topology found by the ray sweeps:
// either an odd number of ray/boundary intersections, or two consecutive
// intersections entering (or leaving) at once, meaning overlapping polygons
type TopologyError struct {
	GeoDivId string  // region where the problem was found
	RayY     float64 // y-coordinate of the offending test ray
	Count    int     // number of intersections collected (odd case)
	Overlap  bool    // true for the equal-direction (overlap) case
	LeftX    float64 // left x of the offending pair (overlap case)
	RightX   float64 // right x of the offending pair (overlap case)
}

func (e *TopologyError) Error() string {
	if e.Overlap {
		return io.Sf("invalid topology: polygons/holes overlap near region %q at ray y=%g between x=%g and x=%g", e.GeoDivId, e.RayY, e.LeftX, e.RightX)
	}
	return io.Sf("invalid topology: region %q has %d intersections (odd) at ray y=%g", e.GeoDivId, e.Count, e.RayY)
}

// AttributionError reports a boundary polyline that could not be matched to
// any polygon of any region
type AttributionError struct {
	Polyline int   // polyline index
	V1, Vl   Point // polyline endpoints
}

func (e *AttributionError) Error() string {
	return io.Sf("polyline %d from (%g,%g) to (%g,%g) does not lie on any polygon boundary", e.Polyline, e.V1.X, e.V1.Y, e.Vl.X, e.Vl.Y)
}

// ReassemblyError reports a polygon whose simplified polylines cannot be
// chained into a closed ring
type ReassemblyError struct {
	GeoDivId string // region of the open polygon
	Pwh      int    // polygon index within the region
}

func (e *ReassemblyError) Error() string {
	return io.Sf("cannot close boundary of region %q, polygon %d from its simplified polylines", e.GeoDivId, e.Pwh)
}

// NumericError reports NaN or Inf values in the density grid or in the
// projected node positions. It terminates the entire run
type NumericError struct {
	Where string // which array went bad; e.g. "rho", "proj"
	I, J  int    // grid indices of the first bad value
}

func (e *NumericError) Error() string {
	return io.Sf("non-finite value in %s at (%d,%d)", e.Where, e.I, e.J)
}

// ConfigError reports invalid engine configuration or an empty region set
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return io.Sf("invalid configuration: %s", e.Msg)
}
