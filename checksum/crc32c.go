// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package checksum

import (
	"github.com/klauspost/crc32"
)

// castagnoliTable is computed once; klauspost/crc32 selects the
// SSE4.2 hardware path automatically when the CPU supports it.
var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// ByteBufferView is a possibly-discontiguous view over checksum input,
// mirroring the source's ByteBuffer/ByteBufferView abstraction: some
// callers hand over a single backing array, others a scatter/gather
// list of segments.
type ByteBufferView interface {
	// Segments returns the view's backing byte slices in order. A
	// single-element result is the contiguous case.
	Segments() [][]byte
}

// CRC32C is a single-threaded, incremental CRC-32C (Castagnoli)
// accumulator.
type CRC32C struct {
	sum uint32
}

// New returns a freshly reset CRC-32C engine.
func New() *CRC32C {
	return &CRC32C{}
}

// Feed accumulates a single byte.
func (c *CRC32C) Feed(b byte) {
	c.sum = crc32.Update(c.sum, castagnoliTable, []byte{b})
}

// FeedSlice accumulates buf[offset : offset+length].
func (c *CRC32C) FeedSlice(buf []byte, offset int, length int) {
	c.sum = crc32.Update(c.sum, castagnoliTable, buf[offset:offset+length])
}

// FeedBytes accumulates the whole of buf.
func (c *CRC32C) FeedBytes(buf []byte) {
	c.sum = crc32.Update(c.sum, castagnoliTable, buf)
}

// FeedView accumulates a ByteBufferView. Contiguous views (a single
// segment) are fed directly; discontiguous views are copied into a
// bounce buffer first since the underlying table-driven update
// requires a single contiguous slice.
func (c *CRC32C) FeedView(v ByteBufferView) {
	segments := v.Segments()
	if len(segments) == 1 {
		c.FeedBytes(segments[0])
		return
	}
	total := 0
	for _, s := range segments {
		total += len(s)
	}
	bounce := make([]byte, 0, total)
	for _, s := range segments {
		bounce = append(bounce, s...)
	}
	c.FeedBytes(bounce)
}

// Sum64 returns the current checksum value widened to 64 bits, matching
// the descriptor and chunk checksum fields which are stored as u64.
func (c *CRC32C) Sum64() uint64 {
	return uint64(c.sum)
}

// Sum32 returns the current 32-bit CRC value.
func (c *CRC32C) Sum32() uint32 {
	return c.sum
}

// Reset returns the engine to its initial state.
func (c *CRC32C) Reset() {
	c.sum = 0
}

// Of is a convenience one-shot helper: CRC-32C of a single buffer.
func Of(buf []byte) uint64 {
	c := New()
	c.FeedBytes(buf)
	return c.Sum64()
}
