// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package container implements the on-disk lifecycle of a key/value
// container: its path layout, its self-checksummed descriptor file,
// and the state machine that governs OPEN, CLOSING, QUASI_CLOSED,
// CLOSED, UNHEALTHY and DELETED containers.
//
// Every state-mutating operation runs under the container's own
// read/write lock (see lock.go) and every descriptor rewrite is
// write-to-temp-then-rename so a crash never leaves a partial
// descriptor on disk.
package container
