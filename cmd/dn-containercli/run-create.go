// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/dncore/container"
	"github.com/bitmark-inc/dncore/volume"
)

// runCreate selects a volume for the new container via a single-volume
// Set (spec.md §5: creation holds the set's read lock and reserves
// capacity while selecting), then creates the container there. The CLI
// is one-shot, so the Set exists only for the duration of this call;
// a long-running caller (e.g. a datanode process) would keep one Set
// alive across many creates instead.
func runCreate(c *cli.Context) error {
	maxSize := c.Uint64("max-size")
	vol := &volume.Volume{Root: c.GlobalString("volume-root"), Capacity: c.GlobalUint64("volume-capacity")}
	set := volume.NewSet(vol)

	chosen, err := set.SelectForCreate(maxSize, func(vs []*volume.Volume) int {
		if 0 == len(vs) {
			return -1
		}
		return 0
	})
	if nil != err {
		return err
	}

	ctr, err := container.Create(
		chosen,
		c.GlobalString("scm"),
		c.GlobalUint64("container-id"),
		maxSize,
		c.String("origin-node"),
		c.String("origin-pipeline"),
	)
	if nil != err {
		return err
	}
	return printJson(c.App.Writer, ctr.Descriptor())
}
