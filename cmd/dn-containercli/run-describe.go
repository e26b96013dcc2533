// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
)

func runDescribe(c *cli.Context) error {
	ctr, err := openContainer(c)
	if nil != err {
		return err
	}
	return printJson(c.App.Writer, ctr.Descriptor())
}
