// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/dncore/containerpacker"
)

func runImport(c *cli.Context) error {
	in := c.Args().Get(0)
	if "" == in {
		return fmt.Errorf("import: input file argument is required")
	}

	f, err := os.Open(in)
	if nil != err {
		return err
	}
	defer f.Close()

	ctr, err := containerpacker.Unpack(
		c.GlobalString("volume-root"),
		c.GlobalString("scm"),
		c.GlobalUint64("container-id"),
		f,
	)
	if nil != err {
		return err
	}
	return printJson(c.App.Writer, ctr.Descriptor())
}
