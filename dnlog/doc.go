// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dnlog wraps github.com/bitmark-inc/logger the way
// bitmarkd.go's main() does: one process-wide Initialise/Finalise
// pair, with every subsystem obtaining its own named channel via
// logger.New.
package dnlog
