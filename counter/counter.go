// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package counter provides a lock-free uint64 counter, used by
// container for its hot-path read/write operation tallies so that
// IncrementReadOps/IncrementWriteOps never contend on the container
// lock merely to bump a counter.
package counter

import (
	"sync/atomic"
)

// Counter is a 64 bit unsigned integer that can be incremented,
// decremented, or bulk-added to synchronously.
type Counter uint64

// Increment adds 1, returning the new value.
func (ic *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(ic), 1)
}

// Decrement subtracts 1, returning the new value.
func (ic *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(ic), ^uint64(0))
}

// Add adds delta, returning the new value. Used for byte tallies
// (ReadBytes/WriteBytes) rather than one-at-a-time op counts.
func (ic *Counter) Add(delta uint64) uint64 {
	return atomic.AddUint64((*uint64)(ic), delta)
}

// Uint64 returns the current value.
func (ic *Counter) Uint64() uint64 {
	return atomic.AddUint64((*uint64)(ic), 0)
}

// IsZero reports whether the counter is currently zero.
func (ic *Counter) IsZero() bool {
	return atomic.AddUint64((*uint64)(ic), 0) == 0
}
