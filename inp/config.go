// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gocart/geo"
	"github.com/cpmech/gosl/io"
)

// Config holds the engine configuration. All fields are optional in the
// JSON input: a document decoded over a default configuration (NewConfig)
// keeps the defaults of the fields it omits. SetDefault sets every field
type Config struct {

	// grid
	GridLx int `json:"grid_lx"` // grid cells along x; power of two
	GridLy int `json:"grid_ly"` // grid cells along y; power of two

	// iteration control
	ErrTol  float64 `json:"err_tol"`  // maximum relative area error for convergence
	MaxIter int     `json:"max_iter"` // maximum number of iterations

	// rasterisation
	RayRes int `json:"ray_res"` // number of test rays per unit y

	// simplification
	Simplify     bool    `json:"simplify"`      // run the polyline simplifier before the first iteration
	DensifyChord float64 `json:"densify_chord"` // maximum chord length, as a fraction of one grid cell
	SimplifyCost float64 `json:"simplify_cost"` // simplification threshold, as a fraction of the densification length

	// integrator tolerances
	AbsTol float64 `json:"abs_tol"` // absolute tolerance of the adaptive step
	RelTol float64 `json:"rel_tol"` // relative tolerance of the adaptive step

	// blur schedule
	BlurStart  float64 `json:"blur_start"`  // σ of the first iteration; 0 ⇒ max(lx,ly)/16
	BlurFactor float64 `json:"blur_factor"` // geometric factor between iterations; 0 ⇒ 0.5

	// debugging
	DebugTrailing bool `json:"debug_trailing"` // log trailing-region rasteriser weights as well
}

// SetDefault sets default values
func (o *Config) SetDefault() {
	o.GridLx = 512
	o.GridLy = 512
	o.ErrTol = 0.01
	o.MaxIter = 100
	o.RayRes = 16
	o.Simplify = true
	o.DensifyChord = 0.25
	o.SimplifyCost = 0.2
	o.AbsTol = 1e-6
	o.RelTol = 1e-3
	o.BlurFactor = 0.5
}

// NewConfig returns a configuration with default values
func NewConfig() (o *Config) {
	o = new(Config)
	o.SetDefault()
	return
}

// Validate returns a ConfigError describing the first invalid field
func (o *Config) Validate() error {
	if !isPow2(o.GridLx) || !isPow2(o.GridLy) || o.GridLx < 4 || o.GridLy < 4 {
		return &geo.ConfigError{Msg: io.Sf("grid dimensions must be powers of two, at least 4; %d×%d is invalid", o.GridLx, o.GridLy)}
	}
	if o.ErrTol <= 0 {
		return &geo.ConfigError{Msg: io.Sf("err_tol must be positive; %g is invalid", o.ErrTol)}
	}
	if o.MaxIter < 1 {
		return &geo.ConfigError{Msg: io.Sf("max_iter must be at least 1; %d is invalid", o.MaxIter)}
	}
	if o.RayRes < 1 {
		return &geo.ConfigError{Msg: io.Sf("ray_res must be at least 1; %d is invalid", o.RayRes)}
	}
	if o.DensifyChord <= 0 {
		return &geo.ConfigError{Msg: io.Sf("densify_chord must be positive; %g is invalid", o.DensifyChord)}
	}
	if o.SimplifyCost < 0 {
		return &geo.ConfigError{Msg: io.Sf("simplify_cost cannot be negative; %g is invalid", o.SimplifyCost)}
	}
	if o.AbsTol <= 0 || o.RelTol < 0 {
		return &geo.ConfigError{Msg: io.Sf("integrator tolerances abs_tol=%g, rel_tol=%g are invalid", o.AbsTol, o.RelTol)}
	}
	if o.BlurStart < 0 || o.BlurFactor < 0 || o.BlurFactor >= 1 {
		return &geo.ConfigError{Msg: io.Sf("blur schedule start=%g, factor=%g is invalid", o.BlurStart, o.BlurFactor)}
	}
	return nil
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
