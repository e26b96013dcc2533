// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/dncore/container"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp()
	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "dn-containercli"
	app.Usage = "inspect and drive a datanode container through its lifecycle"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "volume-root, r",
			Value: "",
			Usage: "*volume root directory `PATH`",
		},
		cli.StringFlag{
			Name:  "scm, s",
			Value: "",
			Usage: "*storage container manager id subdirectory `NAME`",
		},
		cli.Uint64Flag{
			Name:  "container-id, c",
			Usage: "*container id `ID`",
		},
		cli.Uint64Flag{
			Name:  "volume-capacity",
			Value: 1 << 40,
			Usage: " volume total capacity in bytes `SIZE`, consulted by create's capacity check",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "create",
			Usage:     "create a new OPEN container",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "max-size, m",
					Value: 1 << 30,
					Usage: " maximum container size in bytes `SIZE`",
				},
				cli.StringFlag{
					Name:  "origin-node, n",
					Value: "",
					Usage: "*originating datanode id `NODE`",
				},
				cli.StringFlag{
					Name:  "origin-pipeline, p",
					Value: "",
					Usage: "*originating replica pipeline id `PIPELINE`",
				},
			},
			Action: runCreate,
		},
		{
			Name:   "close",
			Usage:  "transition a container CLOSING then CLOSED",
			Action: runClose,
		},
		{
			Name:   "describe",
			Usage:  "print a container's descriptor as JSON",
			Action: runDescribe,
		},
		{
			Name:      "export",
			Usage:     "pack a CLOSED container's metadata and chunks into a tar archive",
			ArgsUsage: "OUTPUT-FILE\n   (* = required)",
			Action:    runExport,
		},
		{
			Name:      "import",
			Usage:     "unpack a tar archive produced by export into a new container",
			ArgsUsage: "INPUT-FILE\n   (* = required)",
			Action:    runImport,
		},
	}

	app.Before = func(c *cli.Context) error {
		if "" == c.GlobalString("volume-root") {
			return fmt.Errorf("volume-root is required")
		}
		if "" == c.GlobalString("scm") {
			return fmt.Errorf("scm is required")
		}
		return nil
	}

	return app
}

func openContainer(c *cli.Context) (*container.Container, error) {
	return container.Open(c.GlobalString("volume-root"), c.GlobalString("scm"), c.GlobalUint64("container-id"))
}
