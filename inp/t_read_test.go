// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_read01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("read01. read map file")

	m := ReadMap("data/square.map")
	if err := m.Check(); err != nil {
		tst.Errorf("Check failed:\n%v", err)
		return
	}
	chk.IntAssert(len(m.Regions), 2)
	chk.StrAssert(m.Regions[0].Id, "A")
	chk.StrAssert(m.Regions[1].Id, "B")
	chk.IntAssert(len(m.Regions[0].Pwhs), 1)
	chk.IntAssert(len(m.Regions[0].Pwhs[0].Outer), 4)
	chk.Scalar(tst, "target A", 1e-17, m.Targets["A"], 75.0)
	chk.Scalar(tst, "target B", 1e-17, m.Targets["B"], 25.0)
	chk.StrAssert(m.InsetPos("A"), "C")
	chk.StrAssert(m.InsetPos("Z"), "C")
	if m.TargetIsMissing("A") {
		tst.Errorf("target of A should not be missing")
		return
	}
	if !m.TargetIsMissing("Z") {
		tst.Errorf("target of Z should be missing")
		return
	}
	chk.Scalar(tst, "area A", 1e-13, m.Regions[0].Area(), 100.0)
}

func Test_conf01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conf01. configuration defaults and validation")

	conf := NewConfig()
	if err := conf.Validate(); err != nil {
		tst.Errorf("default configuration is invalid:\n%v", err)
		return
	}
	chk.IntAssert(conf.GridLx, 512)
	chk.IntAssert(conf.MaxIter, 100)
	chk.Scalar(tst, "err_tol", 1e-17, conf.ErrTol, 0.01)
	chk.IntAssert(conf.RayRes, 16)
	chk.Scalar(tst, "densify", 1e-17, conf.DensifyChord, 0.25)
	chk.Scalar(tst, "simplify", 1e-17, conf.SimplifyCost, 0.2)

	conf.GridLx = 100 // not a power of two
	if conf.Validate() == nil {
		tst.Errorf("validation accepted grid_lx=100")
		return
	}
	conf.GridLx = 64
	conf.ErrTol = -1
	if conf.Validate() == nil {
		tst.Errorf("validation accepted err_tol=-1")
		return
	}
}
