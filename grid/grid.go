// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid implements fixed-size 2D scalar grids and the real-to-real
// spectral kernels (DCT/DST pairs, Poisson solve, Gaussian blur) used by the
// cartogram density flow
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Grid holds a lx×ly scalar field in a contiguous row-major buffer
// (x-index major), so that in-place real-to-real transforms can run along
// either axis
type Grid struct {
	lx, ly int       // dimensions
	v      []float64 // values; v[i*ly+j] holds element (i,j)
}

// New returns a new grid with all elements set to zero
func New(lx, ly int) (o *Grid) {
	if lx < 1 || ly < 1 {
		chk.Panic("grid dimensions must be positive. lx=%d, ly=%d is invalid", lx, ly)
	}
	o = new(Grid)
	o.lx, o.ly = lx, ly
	o.v = make([]float64, lx*ly)
	return
}

// Lx returns the number of cells along x
func (o *Grid) Lx() int { return o.lx }

// Ly returns the number of cells along y
func (o *Grid) Ly() int { return o.ly }

// At returns the value of element (i,j)
func (o *Grid) At(i, j int) float64 { return o.v[i*o.ly+j] }

// Set sets the value of element (i,j)
func (o *Grid) Set(i, j int, val float64) { o.v[i*o.ly+j] = val }

// Add increments element (i,j)
func (o *Grid) Add(i, j int, val float64) { o.v[i*o.ly+j] += val }

// Fill sets all elements to val
func (o *Grid) Fill(val float64) {
	for k := range o.v {
		o.v[k] = val
	}
}

// Data gives access to the backing buffer
func (o *Grid) Data() []float64 { return o.v }

// CopyInto copies this grid into res. Both grids must have the same dimensions
func (o *Grid) CopyInto(res *Grid) {
	if res.lx != o.lx || res.ly != o.ly {
		chk.Panic("cannot copy %d×%d grid into %d×%d grid", o.lx, o.ly, res.lx, res.ly)
	}
	copy(res.v, o.v)
}

// Clone returns a deep copy of this grid
func (o *Grid) Clone() (res *Grid) {
	res = New(o.lx, o.ly)
	copy(res.v, o.v)
	return
}

// MinMaxMean returns the minimum, maximum and mean values
func (o *Grid) MinMaxMean() (min, max, mean float64) {
	min, max = o.v[0], o.v[0]
	for _, val := range o.v {
		min = math.Min(min, val)
		max = math.Max(max, val)
		mean += val
	}
	mean /= float64(len(o.v))
	return
}

// Mean returns the spatial mean
func (o *Grid) Mean() (mean float64) {
	for _, val := range o.v {
		mean += val
	}
	return mean / float64(len(o.v))
}

// FindBad looks for NaN of Inf elements. found is false if all values are finite
func (o *Grid) FindBad() (i, j int, found bool) {
	for k, val := range o.v {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return k / o.ly, k % o.ly, true
		}
	}
	return
}
