// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.map) JSON file
package inp

import (
	"encoding/json"

	"github.com/cpmech/gocart/geo"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// RGB holds one visual-variable colour
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// MapInput holds everything the engine consumes. Ingesters (GeoJSON loader,
// CSV visual-variable loader) populate this structure; the engine itself
// only reads the already-projected planar coordinates stored here
type MapInput struct {
	IsWorldMap bool               `json:"is_world_map"` // longitudinal wrap handled by preprocessing
	IdHeader   string             `json:"id_header"`    // name of the id column in the visual-variables file
	Regions    []*geo.GeoDiv      `json:"regions"`      // all regions
	Targets    map[string]float64 `json:"targets"`      // target area per region id; absent or negative = missing
	Colors     map[string]RGB     `json:"colors"`       // optional colour per region id
	Labels     map[string]string  `json:"labels"`       // optional label per region id
	Insets     map[string]string  `json:"insets"`       // region id → inset position tag {C,L,R,T,B}; empty = all in "C"
}

// ReadMap reads a map input (.map) JSON file
func ReadMap(filename string) (o *MapInput) {
	b, err := io.ReadFile(filename)
	if err != nil {
		chk.Panic("ReadMap: cannot read map file %q", filename)
	}
	o = new(MapInput)
	err = json.Unmarshal(b, o)
	if err != nil {
		chk.Panic("ReadMap: cannot unmarshal map file %q:\n%v", filename, err)
	}
	return
}

// Check verifies the consistency of the input, returning a ConfigError on
// an empty region set, duplicated ids or empty rings
func (o *MapInput) Check() error {
	if len(o.Regions) == 0 {
		return &geo.ConfigError{Msg: "empty region set"}
	}
	seen := make(map[string]bool)
	for _, gd := range o.Regions {
		if gd.Id == "" {
			return &geo.ConfigError{Msg: "region with empty id"}
		}
		if seen[gd.Id] {
			return &geo.ConfigError{Msg: io.Sf("duplicated region id %q", gd.Id)}
		}
		seen[gd.Id] = true
		if len(gd.Pwhs) == 0 {
			return &geo.ConfigError{Msg: io.Sf("region %q has no polygons", gd.Id)}
		}
		for i := range gd.Pwhs {
			if len(gd.Pwhs[i].Outer) < 3 {
				return &geo.ConfigError{Msg: io.Sf("region %q, polygon %d: outer ring has %d vertices", gd.Id, i, len(gd.Pwhs[i].Outer))}
			}
			for _, h := range gd.Pwhs[i].Holes {
				if len(h) < 3 {
					return &geo.ConfigError{Msg: io.Sf("region %q, polygon %d: hole with %d vertices", gd.Id, i, len(h))}
				}
			}
		}
	}
	return nil
}

// InsetPos returns the inset position tag of a region ("C" by default)
func (o *MapInput) InsetPos(id string) string {
	if pos, ok := o.Insets[id]; ok {
		return pos
	}
	return "C"
}

// TargetIsMissing tells whether the input target of a region is absent or negative
func (o *MapInput) TargetIsMissing(id string) bool {
	t, ok := o.Targets[id]
	return !ok || t < 0
}
