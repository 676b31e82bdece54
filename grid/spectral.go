// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Plans holds reusable quarter-wave FFT plans for one grid size, plus the
// scratch buffers for strided (along-x) passes. The transforms follow the
// FFTW r2r conventions: a forward (DCT-II) plan followed by an inverse
// (DCT-III) plan multiplies the input by 4·lx·ly
type Plans struct {
	lx, ly int                     // grid dimensions
	qx, qy *fourier.QuarterWaveFFT // per-axis plans
	colA   []float64               // strided gather buffer (length lx)
	colB   []float64               // strided transform output (length lx)
	rowB   []float64               // row transform output (length ly)
}

// NewPlans returns transform plans for lx×ly grids
func NewPlans(lx, ly int) (o *Plans) {
	if lx < 1 || ly < 1 {
		chk.Panic("transform plans need positive dimensions. lx=%d, ly=%d is invalid", lx, ly)
	}
	o = new(Plans)
	o.lx, o.ly = lx, ly
	o.qx = fourier.NewQuarterWaveFFT(lx)
	o.qy = fourier.NewQuarterWaveFFT(ly)
	o.colA = make([]float64, lx)
	o.colB = make([]float64, lx)
	o.rowB = make([]float64, ly)
	return
}

// transform kinds
const (
	dct2 = iota // DCT-II (FFTW REDFT10)
	dct3        // DCT-III (FFTW REDFT01)
	dst3        // DST-III (FFTW RODFT01)
)

// alongY runs the 1D transform over every row of g, in place
func (o *Plans) alongY(g *Grid, kind int) {
	for i := 0; i < o.lx; i++ {
		row := g.v[i*o.ly : (i+1)*o.ly]
		switch kind {
		case dct2:
			o.qy.CosCoefficients(o.rowB, row)
		case dct3:
			o.qy.CosSequence(o.rowB, row)
		case dst3:
			o.qy.SinSequence(o.rowB, row)
		}
		copy(row, o.rowB)
	}
}

// alongX runs the 1D transform over every column of g, in place
func (o *Plans) alongX(g *Grid, kind int) {
	for j := 0; j < o.ly; j++ {
		for i := 0; i < o.lx; i++ {
			o.colA[i] = g.v[i*o.ly+j]
		}
		switch kind {
		case dct2:
			o.qx.CosCoefficients(o.colB, o.colA)
		case dct3:
			o.qx.CosSequence(o.colB, o.colA)
		case dst3:
			o.qx.SinSequence(o.colB, o.colA)
		}
		for i := 0; i < o.lx; i++ {
			g.v[i*o.ly+j] = o.colB[i]
		}
	}
}

// Dct2 computes the unnormalised forward DCT-II along both axes, in place
func (o *Plans) Dct2(g *Grid) {
	o.checkDims(g)
	o.alongX(g, dct2)
	o.alongY(g, dct2)
}

// Idct2 computes the unnormalised DCT-III along both axes, in place.
// Dct2 followed by Idct2 scales the grid by 4·lx·ly
func (o *Plans) Idct2(g *Grid) {
	o.checkDims(g)
	o.alongX(g, dct3)
	o.alongY(g, dct3)
}

// InvSinCos computes the DST-III along x and the DCT-III along y, in place.
// It recovers x-gradient fields whose coefficients were shifted one slot
// down in x (coefficient of spatial frequency k stored at k-1)
func (o *Plans) InvSinCos(g *Grid) {
	o.checkDims(g)
	o.alongX(g, dst3)
	o.alongY(g, dct3)
}

// InvCosSin computes the DCT-III along x and the DST-III along y, in place
func (o *Plans) InvCosSin(g *Grid) {
	o.checkDims(g)
	o.alongX(g, dct3)
	o.alongY(g, dst3)
}

// Poisson solves ∇²φ = ρ − ρ̄ on the grid rectangle with zero normal
// derivative at all four edges, where ∇² is the 5-point Laplacian with
// mirrored boundary values. ρ is not modified
//  Input:
//   rho -- right-hand side (any mean; the mean is subtracted in mode space)
//  Output:
//   phi -- potential with zero (0,0)-mode
func (o *Plans) Poisson(phi, rho *Grid) {
	o.checkDims(rho)
	o.checkDims(phi)
	rho.CopyInto(phi)
	o.Dct2(phi)
	norm := 1.0 / (4.0 * float64(o.lx) * float64(o.ly))
	for i := 0; i < o.lx; i++ {
		eigx := 2.0*math.Cos(math.Pi*float64(i)/float64(o.lx)) - 2.0
		for j := 0; j < o.ly; j++ {
			if i == 0 && j == 0 {
				phi.Set(0, 0, 0)
				continue
			}
			eigy := 2.0*math.Cos(math.Pi*float64(j)/float64(o.ly)) - 2.0
			phi.Set(i, j, phi.At(i, j)*norm/(eigx+eigy))
		}
	}
	o.Idct2(phi)
}

// Laplacian applies the mirrored 5-point Laplacian to g and puts the result
// into res. The mirrored stencil matches the Neumann boundary condition of
// Poisson: Laplacian(Poisson(ρ)) = ρ − ρ̄ to working precision
func (o *Plans) Laplacian(res, g *Grid) {
	o.checkDims(g)
	o.checkDims(res)
	at := func(i, j int) float64 {
		if i < 0 {
			i = 0
		}
		if i > o.lx-1 {
			i = o.lx - 1
		}
		if j < 0 {
			j = 0
		}
		if j > o.ly-1 {
			j = o.ly - 1
		}
		return g.At(i, j)
	}
	for i := 0; i < o.lx; i++ {
		for j := 0; j < o.ly; j++ {
			res.Set(i, j, at(i-1, j)+at(i+1, j)+at(i, j-1)+at(i, j+1)-4.0*g.At(i, j))
		}
	}
}

// GaussianBlur smooths g in place by multiplying its cosine coefficients by
// the Fourier transform of a Gaussian kernel of standard deviation sigma
// (in grid cells). sigma ≤ 0 leaves the grid untouched
func (o *Plans) GaussianBlur(g *Grid, sigma float64) {
	if sigma <= 0 {
		return
	}
	o.checkDims(g)
	o.Dct2(g)
	norm := 1.0 / (4.0 * float64(o.lx) * float64(o.ly))
	for i := 0; i < o.lx; i++ {
		kx := math.Pi * float64(i) / float64(o.lx)
		for j := 0; j < o.ly; j++ {
			ky := math.Pi * float64(j) / float64(o.ly)
			decay := math.Exp(-(kx*kx + ky*ky) * sigma * sigma / 2.0)
			g.Set(i, j, g.At(i, j)*decay*norm)
		}
	}
	o.Idct2(g)
}

func (o *Plans) checkDims(g *Grid) {
	if g.lx != o.lx || g.ly != o.ly {
		chk.Panic("grid size %d×%d does not match plans for %d×%d", g.lx, g.ly, o.lx, o.ly)
	}
}
