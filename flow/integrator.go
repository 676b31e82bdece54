// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package flow implements the spectral diffusion integrator: the density
// grid evolves toward uniformity by linear diffusion computed in the cosine
// domain, and all grid nodes are carried along the flow velocity
//   v(x,t) = −∇ρ(x,t) / ρ(x,t)
// for unit time with an adaptive Runge–Kutta–Fehlberg 4/5 scheme
package flow

import (
	"math"
	"runtime"
	"sync"

	"github.com/cpmech/gocart/geo"
	"github.com/cpmech/gocart/grid"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Runge–Kutta–Fehlberg tableau
var (
	rkfC = []float64{0, 1.0 / 4.0, 3.0 / 8.0, 12.0 / 13.0, 1, 1.0 / 2.0}
	rkfA = [][]float64{
		{},
		{1.0 / 4.0},
		{3.0 / 32.0, 9.0 / 32.0},
		{1932.0 / 2197.0, -7200.0 / 2197.0, 7296.0 / 2197.0},
		{439.0 / 216.0, -8.0, 3680.0 / 513.0, -845.0 / 4104.0},
		{-8.0 / 27.0, 2.0, -3544.0 / 2565.0, 1859.0 / 4104.0, -11.0 / 40.0},
	}
	rkfB4 = []float64{25.0 / 216.0, 0, 1408.0 / 2565.0, 2197.0 / 4104.0, -1.0 / 5.0, 0}
	rkfB5 = []float64{16.0 / 135.0, 0, 6656.0 / 12825.0, 28561.0 / 56430.0, -9.0 / 50.0, 2.0 / 55.0}
)

// Integrator advects the grid nodes of one inset along the diffusion flow
// of its density grid. One Integrator serves one inset and is reused across
// iterations; it is not safe for concurrent use
type Integrator struct {

	// control
	AbsTol  float64 // absolute tolerance of the adaptive step
	RelTol  float64 // relative tolerance of the adaptive step
	ShowMsg bool    // print stepping messages

	// statistics of the last Advect call
	Steps      int // accepted steps
	Rejections int // rejected trial steps

	// grid data
	lx, ly int
	plans  *grid.Plans
	rhoHat *grid.Grid // normalised cosine coefficients of ρ at t=0

	// velocity grids: start-of-step and trial-step
	vxS, vyS *grid.Grid // velocity at the current time t
	vxT, vyT *grid.Grid // velocity at a stage time
	rhoT     *grid.Grid // scratch: diffused density at a stage time

	// node state, flattened over the (lx+1)×(ly+1) nodes
	px, py []float64    // positions
	kx, ky [6][]float64 // stage derivatives
}

// NewIntegrator returns an integrator for lx×ly grids
func NewIntegrator(lx, ly int, absTol, relTol float64) (o *Integrator) {
	if absTol <= 0 {
		chk.Panic("absolute tolerance must be positive; %g is invalid", absTol)
	}
	o = new(Integrator)
	o.AbsTol, o.RelTol = absTol, relTol
	o.lx, o.ly = lx, ly
	o.plans = grid.NewPlans(lx, ly)
	o.rhoHat = grid.New(lx, ly)
	o.vxS, o.vyS = grid.New(lx, ly), grid.New(lx, ly)
	o.vxT, o.vyT = grid.New(lx, ly), grid.New(lx, ly)
	o.rhoT = grid.New(lx, ly)
	n := (lx + 1) * (ly + 1)
	o.px, o.py = make([]float64, n), make([]float64, n)
	for s := 0; s < 6; s++ {
		o.kx[s] = make([]float64, n)
		o.ky[s] = make([]float64, n)
	}
	return
}

// Advect transports every grid node of the inset along the flow velocity
// from t=0 to t=1 and stores the images in ins.Proj. The density grid is
// not modified
func (o *Integrator) Advect(ins *geo.Inset) error {
	if ins.Lx != o.lx || ins.Ly != o.ly {
		chk.Panic("inset grid %d×%d does not match integrator for %d×%d", ins.Lx, ins.Ly, o.lx, o.ly)
	}

	// cosine coefficients of the initial density
	ins.Rho.CopyInto(o.rhoHat)
	o.plans.Dct2(o.rhoHat)
	norm := 1.0 / (4.0 * float64(o.lx) * float64(o.ly))
	for i := 0; i < o.lx; i++ {
		for j := 0; j < o.ly; j++ {
			o.rhoHat.Set(i, j, o.rhoHat.At(i, j)*norm)
		}
	}

	// node positions start from the current projection
	n := 0
	for i := 0; i <= o.lx; i++ {
		for j := 0; j <= o.ly; j++ {
			o.px[n], o.py[n] = ins.Proj[i][j].X, ins.Proj[i][j].Y
			n++
		}
	}

	// adaptive time stepping
	o.Steps, o.Rejections = 0, 0
	t, h := 0.0, 1e-2
	hmax := 1.0 // unit grid spacing ties the ceiling to one diffusion time
	o.velocity(t, o.vxS, o.vyS)
	for t < 1.0 {
		if t+h > 1.0 {
			h = 1.0 - t
		}
		maxRatio := o.trialStep(t, h)
		if maxRatio <= 1.0 {

			// accept: advance with the 5th-order estimate
			o.applyStep(h)
			t += h
			o.Steps++
			if t >= 1.0 {
				break
			}
			o.velocity(t, o.vxS, o.vyS)
		} else {
			o.Rejections++
		}
		fac := 0.9 * math.Pow(1.0/math.Max(maxRatio, 1e-300), 0.2)
		h *= math.Min(fac, 2.0)
		h = math.Min(h, hmax)
		if h < 1e-12 {
			return chk.Err("time step underflow at t=%g after %d steps and %d rejections", t, o.Steps, o.Rejections)
		}
	}
	if o.ShowMsg {
		io.Pf("   . . . advection: %d steps, %d rejections\n", o.Steps, o.Rejections)
	}

	// write images back
	n = 0
	for i := 0; i <= o.lx; i++ {
		for j := 0; j <= o.ly; j++ {
			ins.Proj[i][j] = geo.Point{X: o.px[n], Y: o.py[n]}
			n++
		}
	}
	return nil
}

// trialStep evaluates all six RKF stages for every node and returns the
// maximum ratio of local error to tolerance. Stage derivatives are left in
// o.kx/o.ky for applyStep
func (o *Integrator) trialStep(t, h float64) (maxRatio float64) {

	// stage 1 uses the cached start-of-step velocity
	o.evalStage(0, h, o.vxS, o.vyS)

	// remaining stages interpolate freshly diffused velocity grids
	for s := 1; s < 6; s++ {
		o.velocity(t+rkfC[s]*h, o.vxT, o.vyT)
		o.evalStage(s, h, o.vxT, o.vyT)
	}

	// local error against per-node tolerance
	nn := len(o.px)
	nw := runtime.NumCPU()
	ratios := make([]float64, nw)
	var wg sync.WaitGroup
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < nn; i += nw {
				ex, ey := 0.0, 0.0
				for s := 0; s < 6; s++ {
					d := rkfB5[s] - rkfB4[s]
					ex += d * o.kx[s][i]
					ey += d * o.ky[s][i]
				}
				err := h * math.Hypot(ex, ey)
				tol := o.AbsTol + o.RelTol*math.Hypot(o.kx[0][i], o.ky[0][i])
				ratios[w] = math.Max(ratios[w], err/tol)
			}
		}(w)
	}
	wg.Wait()
	for _, r := range ratios {
		maxRatio = math.Max(maxRatio, r)
	}
	return
}

// evalStage computes stage s derivatives for all nodes by sampling the
// given velocity grids at the intermediate positions
func (o *Integrator) evalStage(s int, h float64, vx, vy *grid.Grid) {
	nn := len(o.px)
	nw := runtime.NumCPU()
	var wg sync.WaitGroup
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < nn; i += nw {
				x, y := o.px[i], o.py[i]
				for m := 0; m < s; m++ {
					x += h * rkfA[s][m] * o.kx[m][i]
					y += h * rkfA[s][m] * o.ky[m][i]
				}
				o.kx[s][i] = o.sample(vx, x, y)
				o.ky[s][i] = o.sample(vy, x, y)
			}
		}(w)
	}
	wg.Wait()
}

// applyStep advances all nodes with the 5th-order estimate
func (o *Integrator) applyStep(h float64) {
	nn := len(o.px)
	nw := runtime.NumCPU()
	var wg sync.WaitGroup
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < nn; i += nw {
				dx, dy := 0.0, 0.0
				for s := 0; s < 6; s++ {
					dx += rkfB5[s] * o.kx[s][i]
					dy += rkfB5[s] * o.ky[s][i]
				}
				o.px[i] += h * dx
				o.py[i] += h * dy
			}
		}(w)
	}
	wg.Wait()
}

// velocity fills vx,vy with the flow velocity at diffusion time t. The
// diffused density and its negated gradient are reconstructed from the
// decayed cosine coefficients: the gradient inverse uses the DST-III with
// the coefficient of spatial frequency k stored at slot k-1
func (o *Integrator) velocity(t float64, vx, vy *grid.Grid) {
	dlx, dly := float64(o.lx), float64(o.ly)

	// diffused density ρ(t)
	for i := 0; i < o.lx; i++ {
		kx := math.Pi * float64(i) / dlx
		for j := 0; j < o.ly; j++ {
			ky := math.Pi * float64(j) / dly
			o.rhoT.Set(i, j, o.rhoHat.At(i, j)*math.Exp(-(kx*kx+ky*ky)*t))
		}
	}
	o.plans.Idct2(o.rhoT)

	// x-flux −∂ρ/∂x
	for i := 0; i < o.lx; i++ {
		var kx float64
		if i < o.lx-1 {
			kx = math.Pi * float64(i+1) / dlx
		}
		for j := 0; j < o.ly; j++ {
			if i == o.lx-1 {
				vx.Set(i, j, 0)
				continue
			}
			ky := math.Pi * float64(j) / dly
			vx.Set(i, j, o.rhoHat.At(i+1, j)*kx*math.Exp(-(kx*kx+ky*ky)*t))
		}
	}
	o.plans.InvSinCos(vx)

	// y-flux −∂ρ/∂y
	for i := 0; i < o.lx; i++ {
		kx := math.Pi * float64(i) / dlx
		for j := 0; j < o.ly; j++ {
			if j == o.ly-1 {
				vy.Set(i, j, 0)
				continue
			}
			ky := math.Pi * float64(j+1) / dly
			vy.Set(i, j, o.rhoHat.At(i, j+1)*ky*math.Exp(-(kx*kx+ky*ky)*t))
		}
	}
	o.plans.InvCosSin(vy)

	// v = flux / ρ
	for i := 0; i < o.lx; i++ {
		for j := 0; j < o.ly; j++ {
			vx.Set(i, j, vx.At(i, j)/o.rhoT.At(i, j))
			vy.Set(i, j, vy.At(i, j)/o.rhoT.At(i, j))
		}
	}
}

// sample interpolates a cell-centred grid bilinearly at (x,y), clamping to
// the grid rectangle
func (o *Integrator) sample(g *grid.Grid, x, y float64) float64 {
	u := math.Min(math.Max(x-0.5, 0), float64(o.lx-1))
	v := math.Min(math.Max(y-0.5, 0), float64(o.ly-1))
	i := int(math.Min(math.Floor(u), float64(o.lx-2)))
	j := int(math.Min(math.Floor(v), float64(o.ly-2)))
	s, r := u-float64(i), v-float64(j)
	return (1-s)*(1-r)*g.At(i, j) + s*(1-r)*g.At(i+1, j) +
		(1-s)*r*g.At(i, j+1) + s*r*g.At(i+1, j+1)
}
