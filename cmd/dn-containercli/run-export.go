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

func runExport(c *cli.Context) error {
	out := c.Args().Get(0)
	if "" == out {
		return fmt.Errorf("export: output file argument is required")
	}

	ctr, err := openContainer(c)
	if nil != err {
		return err
	}

	session, err := ctr.PrepareExport()
	if nil != err {
		return err
	}
	defer session.Close()

	f, err := os.Create(out)
	if nil != err {
		return err
	}
	defer f.Close()

	return containerpacker.Pack(session, f)
}
