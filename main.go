// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/cpmech/gocart/cart"
	"github.com/cpmech/gocart/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func main() {

	// options
	verbose := true

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	// message
	io.PfWhite("\nGocart -- density-equalising cartograms\n\n")

	// map filenamepath
	flag.Parse()
	var fnamepath string
	if len(flag.Args()) > 0 {
		fnamepath = flag.Arg(0)
	} else {
		chk.Panic("Please, provide a filename. Ex.: usa.map")
	}

	// check extension
	if io.FnExt(fnamepath) == "" {
		fnamepath += ".map"
	}

	// other options
	if len(flag.Args()) > 1 {
		verbose = io.Atob(flag.Arg(1))
	}

	// read input and configuration; the configuration lives in the same
	// JSON document under "config"
	input := inp.ReadMap(fnamepath)
	conf := readConf(fnamepath)

	// run
	engine, err := cart.New(input, conf, verbose)
	if err != nil {
		chk.Panic("cannot initialise engine:\n%v", err)
	}
	out, err := engine.Run(context.Background())
	if err != nil {
		chk.Panic("run failed:\n%v", err)
	}

	// report
	for pos, e := range out.InsetErrors {
		io.PfRed("inset %s failed: %v\n", pos, e)
	}
	io.Pf("iterations   = %d\n", out.Iterations)
	io.Pf("final maxerr = %g\n", out.FinalMaxErr)

	// write deformed regions next to the input
	fnkey := fnamepath[:len(fnamepath)-len(io.FnExt(fnamepath))]
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		chk.Panic("cannot encode output:\n%v", err)
	}
	fnout := fnkey + "-cartogram.json"
	if err = os.WriteFile(fnout, b, 0644); err != nil {
		chk.Panic("cannot write %q:\n%v", fnout, err)
	}
	io.Pf("file <%s> written\n", fnout)
}

// readConf decodes the optional "config" object of the map file
func readConf(fnamepath string) (conf *inp.Config) {
	conf = inp.NewConfig()
	b, err := io.ReadFile(fnamepath)
	if err != nil {
		chk.Panic("cannot read map file %q", fnamepath)
	}
	var doc struct {
		Config *json.RawMessage `json:"config"`
	}
	if err = json.Unmarshal(b, &doc); err == nil && doc.Config != nil {
		if err = json.Unmarshal(*doc.Config, conf); err != nil {
			chk.Panic("cannot unmarshal config of %q:\n%v", fnamepath, err)
		}
	}
	return
}
