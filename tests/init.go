// Copyright 2016 The Gocart Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tests runs end-to-end scenarios through the whole engine
package tests

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

// Verbose turns messages on
func Verbose() {
	io.Verbose = true
	chk.Verbose = true
}
