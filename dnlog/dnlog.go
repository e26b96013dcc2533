// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dnlog

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dncore/fault"
)

// Initialise starts process-wide logging and the fault package's
// critical log, mirroring bitmarkd.go's main(): logging comes up first,
// then fault.Initialise() so its critical channel has somewhere to write.
func Initialise(cfg logger.Configuration) error {
	if err := logger.Initialise(cfg); nil != err {
		return err
	}
	return fault.Initialise()
}

// Finalise flushes the fault critical log and shuts down process-wide
// logging, in the reverse order of Initialise.
func Finalise() {
	fault.Finalise()
	logger.Finalise()
}
