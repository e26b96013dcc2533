// Copyright (c) 2014-2016 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"

	"github.com/bitmark-inc/logger"
)

// channelName is the logger channel every process that links this
// package logs its critical-but-non-fatal faults to, regardless of
// which subsystem (container, dnstore, a future namespace-manager
// main) triggers one.
const channelName = "CRITICAL"

// hold a logger channel
var log *logger.L

// Initialise sets up the package-wide critical-fault log channel. Safe
// to call once per process; a daemon main calls this before anything
// that might use Critical/Criticalf, never per-subsystem.
func Initialise() error {
	if nil != log {
		return ErrAlreadyInitialised
	}
	log = logger.New(channelName)
	if nil == log {
		return ErrInvalidLoggerChannel
	}
	return nil
}

// flush any data
func Finalise() {
	if nil != log {
		log.Flush()
	}
}

// Critical writes message to the process-wide critical log channel
// without panicking, for recording a fault severe enough to note but
// not severe enough to abort the whole process — see dnstore.Evict's
// caller in container.Delete, which force-closes a container's store
// regardless of outstanding references and logs here rather than
// panicking, since one container's irregular teardown must not take
// down every other container this process is serving.
func Critical(message string) {
	internalCriticalf("%s", message)
}

// Criticalf is Critical with fmt.Sprintf-style arguments.
func Criticalf(format string, arguments ...interface{}) {
	internalCriticalf(format, arguments...)
}

// internal routine to handle an uninitialised logger channel
func internalCriticalf(format string, arguments ...interface{}) {
	if nil == log {
		fmt.Printf("*** "+format+"\n", arguments...)
	} else {
		log.Criticalf(format, arguments...)
		log.Flush() // make sure log file is saved
	}
}
