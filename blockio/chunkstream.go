// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockio

import (
	"context"
	"encoding/binary"
	"io"
	"sync"

	proto "github.com/golang/protobuf/proto"

	"github.com/bitmark-inc/dncore/checksum"
	"github.com/bitmark-inc/dncore/fault"
	"github.com/bitmark-inc/dncore/pipeline"
	"github.com/bitmark-inc/dncore/wireschema"
)

// ChunkInputStream is the chunk read stream (C5): a lazily-connected
// reader over one chunk of one block.
type ChunkInputStream struct {
	mu sync.Mutex

	info    *wireschema.ChunkInfo
	blockID *wireschema.DatanodeBlockID
	token   []byte

	verifyChecksum bool
	pool           *pipeline.Pool
	pipelineOf     func() pipeline.Pipeline

	client *pipeline.ClientHandle
	pos    uint64
}

// NewChunkInputStream builds a chunk read stream. No RPC is made until
// the first Read; Seek only moves the position.
func NewChunkInputStream(
	info *wireschema.ChunkInfo,
	blockID *wireschema.DatanodeBlockID,
	token []byte,
	verifyChecksum bool,
	pool *pipeline.Pool,
	pipelineOf func() pipeline.Pipeline,
) *ChunkInputStream {
	return &ChunkInputStream{
		info:           info,
		blockID:        blockID,
		token:          token,
		verifyChecksum: verifyChecksum,
		pool:           pool,
		pipelineOf:     pipelineOf,
	}
}

// Length is the chunk's declared length.
func (s *ChunkInputStream) Length() uint64 { return s.info.Length }

// Remaining is the number of unread bytes left in the chunk.
func (s *ChunkInputStream) Remaining() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

func (s *ChunkInputStream) remainingLocked() uint64 {
	if s.pos >= s.info.Length {
		return 0
	}
	return s.info.Length - s.pos
}

// Pos is the stream's current position within the chunk.
func (s *ChunkInputStream) Pos() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Seek repositions the stream within the chunk. A position at or past
// the chunk's declared length fails EndOfStream, except on a zero-length
// chunk, which accepts any position.
func (s *ChunkInputStream) Seek(offset uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset >= s.info.Length && s.info.Length > 0 {
		return fault.ErrEndOfStream
	}
	s.pos = offset
	return nil
}

func (s *ChunkInputStream) connectLocked(ctx context.Context) error {
	if nil != s.client {
		return nil
	}
	client, err := s.pool.AcquireReadClient(ctx, s.pipelineOf())
	if nil != err {
		return err
	}
	s.client = client
	return nil
}

// Read fills buf starting at the stream's current position, advancing
// it by the number of bytes returned. Returns io.EOF only once the
// chunk is fully consumed; a short read where more data was believed
// to exist is reported by the caller (blockio.BlockInputStream) as
// InconsistentChunkRead, since a mid-chunk short read is never legal.
func (s *ChunkInputStream) Read(ctx context.Context, buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.remainingLocked()
	if 0 == remaining {
		return 0, io.EOF
	}
	if err := s.connectLocked(ctx); nil != err {
		return 0, err
	}

	length := uint64(len(buf))
	if length > remaining {
		length = remaining
	}
	offset := s.pos

	req := &wireschema.ReadChunkRequest{
		BlockID:    s.blockID,
		ChunkInfo:  s.info,
		ReadOffset: &offset,
		ReadLength: &length,
		Token:      s.token,
	}
	reqBytes, err := req.Marshal()
	if nil != err {
		return 0, fault.ErrInternal
	}

	respBytes, err := s.pool.SendBlocking(ctx, s.client, reqBytes)
	if nil != err {
		return 0, err
	}

	resp := &wireschema.ReadChunkResponse{}
	if err := proto.Unmarshal(respBytes, resp); nil != err {
		return 0, fault.ErrRpcTransport
	}
	if err := containerResultError(resp.Result); nil != err {
		return 0, err
	}

	if s.verifyChecksum {
		if err := verifyBoundaries(s.info.Checksum, offset, resp.Data); nil != err {
			return 0, err
		}
	}

	n := copy(buf, resp.Data)
	s.pos += uint64(n)
	return n, nil
}

// Unbuffer persists the current position and releases the RPC client
// so the connection can be pooled; a subsequent Read transparently
// re-acquires it.
func (s *ChunkInputStream) Unbuffer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseClientLocked(false)
}

// ReleaseClient hands the stream's connection back to the pool,
// invalidating it (forcing a fresh connect on next use) when
// invalidate is true.
func (s *ChunkInputStream) ReleaseClient(invalidate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseClientLocked(invalidate)
}

func (s *ChunkInputStream) releaseClientLocked(invalidate bool) {
	if nil == s.client {
		return
	}
	s.pool.ReleaseReadClient(s.client, invalidate)
	s.client = nil
}

// Close releases the RPC client. Idempotent.
func (s *ChunkInputStream) Close() {
	s.ReleaseClient(false)
}

// verifyBoundaries checks every checksum-boundary segment fully
// contained within data (which starts at chunk offset readOffset)
// against the chunk's embedded checksum list. Boundary segments only
// partially covered by this read (at either end) cannot be verified in
// isolation and are skipped, matching the source's per-bytesPerChecksum
// verification granularity. A chunk's final segment that is shorter than
// BytesPerChecksum is never a full segment, so it is not verified either.
func verifyBoundaries(cd *wireschema.ChecksumData, readOffset uint64, data []byte) error {
	if nil == cd || 0 == cd.BytesPerChecksum || 0 == len(cd.Checksums) {
		return nil
	}
	bpc := uint64(cd.BytesPerChecksum)
	dataEnd := readOffset + uint64(len(data))

	firstBoundary := (readOffset + bpc - 1) / bpc * bpc
	for boundaryStart := firstBoundary; boundaryStart+bpc <= dataEnd; boundaryStart += bpc {
		idx := boundaryStart / bpc
		if idx >= uint64(len(cd.Checksums)) {
			break
		}
		segStart := boundaryStart - readOffset
		segment := data[segStart : segStart+bpc]
		got := checksum.Of(segment)
		want := decodeChecksum(cd.Checksums[idx])
		if got != want {
			return fault.ErrChecksumMismatch
		}
	}
	return nil
}

func decodeChecksum(b []byte) uint64 {
	switch len(b) {
	case 4:
		return uint64(binary.BigEndian.Uint32(b))
	case 8:
		return binary.BigEndian.Uint64(b)
	default:
		return 0
	}
}
