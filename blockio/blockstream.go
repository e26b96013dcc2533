// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockio

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	proto "github.com/golang/protobuf/proto"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dncore/fault"
	"github.com/bitmark-inc/dncore/pipeline"
	"github.com/bitmark-inc/dncore/retry"
	"github.com/bitmark-inc/dncore/wireschema"
)

// containerResultError translates a wire-level BlockIOResult into the
// fault.ContainerError the retry/refresh logic classifies on, or nil
// for BlockIOResultOK. Distinct from a transport failure (fault.
// ErrRpcTransport), which means no response was received at all.
func containerResultError(r wireschema.BlockIOResult) error {
	switch r {
	case wireschema.BlockIOResultOK:
		return nil
	case wireschema.BlockIOResultContainerNotRetriable:
		return fault.ErrContainerNotRetriable
	default:
		return fault.ErrContainerUnavailable
	}
}

// PipelineRefresher looks up a fresh replica pipeline for blockID, for
// use after a storage-container failure (spec.md §4.6 "Pipeline
// refresh"). A nil pipeline (with a nil error) means no replacement is
// available.
type PipelineRefresher func(blockID *wireschema.DatanodeBlockID) (*pipeline.Pipeline, error)

// BlockInputStream is the block read stream (C6): composes one
// ChunkInputStream per chunk, initializing lazily from a GetBlock RPC
// and weaving retry + pipeline refresh through every read.
type BlockInputStream struct {
	mu sync.Mutex

	blockID  *wireschema.DatanodeBlockID
	token    []byte
	verify   bool
	pool     *pipeline.Pool
	refresh  PipelineRefresher
	policy   retry.Policy
	counter  retry.Counter
	log      *logger.L

	currentPipeline pipeline.Pipeline
	blockClient     *pipeline.ClientHandle

	initialized  bool
	blockPosition uint64 // valid only before initialize()

	length       uint64
	chunks       []*ChunkInputStream
	chunkOffsets []uint64
	chunkIndex   int
}

// NewBlockInputStream builds a block read stream. No RPC happens
// before the first Read or Seek.
func NewBlockInputStream(
	blockID *wireschema.DatanodeBlockID,
	token []byte,
	verifyChecksum bool,
	initialPipeline pipeline.Pipeline,
	pool *pipeline.Pool,
	refresh PipelineRefresher,
	policy retry.Policy,
) *BlockInputStream {
	return &BlockInputStream{
		blockID:         blockID,
		token:           token,
		verify:          verifyChecksum,
		pool:            pool,
		refresh:         refresh,
		policy:          policy,
		currentPipeline: initialPipeline,
		log:             logger.New("blockio"),
	}
}

func (b *BlockInputStream) pipelineOf() pipeline.Pipeline { return b.currentPipeline }

// initializeLocked issues GetBlock at most once. On a retryable
// container-class failure it first tries a pipeline refresh, which — on
// its first call only — does not count against the retry budget
// (spec.md §9); transport failures go straight to the retry policy.
func (b *BlockInputStream) initializeLocked(ctx context.Context) error {
	if b.initialized {
		return nil
	}

	client, err := b.pool.AcquireReadClient(ctx, b.currentPipeline)
	if nil != err {
		return err
	}

	var blockData *wireschema.BlockData
	refreshedOnce := false
	for {
		req := &wireschema.GetBlockRequest{BlockID: b.blockID, Token: b.token}
		reqBytes, mErr := req.Marshal()
		if nil != mErr {
			b.pool.ReleaseReadClient(client, true)
			return fault.ErrInternal
		}

		respBytes, sendErr := b.pool.SendBlocking(ctx, client, reqBytes)
		var attemptErr error
		if nil == sendErr {
			resp := &wireschema.GetBlockResponse{}
			if uErr := proto.Unmarshal(respBytes, resp); nil != uErr {
				b.pool.ReleaseReadClient(client, true)
				return fault.ErrRpcTransport
			}
			if cErr := containerResultError(resp.Result); nil != cErr {
				attemptErr = cErr
			} else {
				blockData = resp.BlockData
				break
			}
		} else {
			attemptErr = sendErr
		}

		if !fault.Retryable(attemptErr) {
			b.pool.ReleaseReadClient(client, true)
			return attemptErr
		}

		if !refreshedOnce && fault.IsErrContainer(attemptErr) && b.tryRefresh() {
			refreshedOnce = true
			b.pool.ReleaseReadClient(client, true)
			client, err = b.pool.AcquireReadClient(ctx, b.currentPipeline)
			if nil != err {
				return err
			}
			continue
		}

		if retry.FAIL == b.counter.Fail(b.policy, attemptErr) {
			b.pool.ReleaseReadClient(client, true)
			return attemptErr
		}
		time.Sleep(b.policy.Delay)
		b.pool.ReleaseReadClient(client, true)
		client, err = b.pool.AcquireReadClient(ctx, b.currentPipeline)
		if nil != err {
			return err
		}
	}

	b.counter.Reset()
	b.blockClient = client
	b.length = blockData.Length()
	b.chunks = make([]*ChunkInputStream, len(blockData.Chunks))
	b.chunkOffsets = make([]uint64, len(blockData.Chunks))
	var offset uint64
	for i, ci := range blockData.Chunks {
		b.chunkOffsets[i] = offset
		b.chunks[i] = NewChunkInputStream(ci, b.blockID, b.token, b.verify, b.pool, b.pipelineOf)
		offset += ci.Length
	}
	b.initialized = true

	if b.blockPosition > 0 {
		saved := b.blockPosition
		b.blockPosition = 0
		if err := b.seekLocked(saved); nil != err {
			return err
		}
	}
	return nil
}

// tryRefresh adopts a refreshed pipeline if the refresher is set and
// returns one with no datanode overlap with the current pipeline
// (spec.md §4.6 "Pipeline refresh").
func (b *BlockInputStream) tryRefresh() bool {
	if nil == b.refresh {
		return false
	}
	next, err := b.refresh(b.blockID)
	if nil != err || nil == next {
		return false
	}
	if b.currentPipeline.Overlaps(*next) {
		return false
	}
	b.currentPipeline = *next
	return true
}

// Read reads up to len(p) bytes, initializing the stream on first use.
func (b *BlockInputStream) Read(ctx context.Context, p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.initializeLocked(ctx); nil != err {
		return 0, err
	}

	totalRead := 0
	for len(p[totalRead:]) > 0 {
		if 0 == len(b.chunks) {
			if 0 == totalRead {
				return 0, io.EOF
			}
			return totalRead, nil
		}

		cur := b.chunks[b.chunkIndex]
		isLast := b.chunkIndex == len(b.chunks)-1
		if isLast && 0 == cur.Remaining() {
			if 0 == totalRead {
				return 0, io.EOF
			}
			return totalRead, nil
		}
		if !isLast && 0 == cur.Remaining() {
			b.chunkIndex++
			continue
		}

		want := len(p) - totalRead
		if remaining := int(cur.Remaining()); remaining < want {
			want = remaining
		}

		n, err := cur.Read(ctx, p[totalRead:totalRead+want])
		if nil != err {
			if fault.IsErrContainer(err) {
				if retry.FAIL == b.counter.Fail(b.policy, err) {
					return totalRead, err
				}
				time.Sleep(b.policy.Delay)
				b.handleReadError(ctx)
				continue
			}
			if fault.IsErrTransport(err) {
				if retry.FAIL == b.counter.Fail(b.policy, err) {
					return totalRead, err
				}
				time.Sleep(b.policy.Delay)
				cur.ReleaseClient(true)
				continue
			}
			return totalRead, err
		}
		if n != want {
			return totalRead, fault.ErrInconsistentChunkRead
		}

		b.counter.Reset()
		totalRead += n
		if 0 == cur.Remaining() && !isLast {
			b.chunkIndex++
		}
	}
	return totalRead, nil
}

// handleReadError releases the block's RPC client and every chunk
// stream's client, refreshes the pipeline if possible, then
// reacquires a block client (spec.md §4.6 step 3).
func (b *BlockInputStream) handleReadError(ctx context.Context) {
	if nil != b.blockClient {
		b.pool.ReleaseReadClient(b.blockClient, true)
		b.blockClient = nil
	}
	for _, c := range b.chunks {
		c.ReleaseClient(true)
	}
	b.tryRefresh()
	client, err := b.pool.AcquireReadClient(ctx, b.currentPipeline)
	if nil == err {
		b.blockClient = client
	} else {
		b.log.Debugf("failed to reacquire block client after refresh: %v", err)
	}
}

// Seek repositions the block stream.
func (b *BlockInputStream) Seek(pos uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seekLocked(pos)
}

func (b *BlockInputStream) seekLocked(pos uint64) error {
	if !b.initialized {
		b.blockPosition = pos
		return nil
	}
	if 0 == pos && 0 == b.length {
		return nil
	}
	if pos >= b.length {
		return fault.ErrEndOfStream
	}

	idx := sort.Search(len(b.chunkOffsets), func(i int) bool {
		return b.chunkOffsets[i] > pos
	}) - 1
	if idx < 0 {
		idx = 0
	}

	_ = b.chunks[b.chunkIndex].Seek(0)
	for i := idx + 1; i < len(b.chunks); i++ {
		b.chunks[i].Seek(0)
	}

	if err := b.chunks[idx].Seek(pos - b.chunkOffsets[idx]); nil != err {
		return err
	}
	b.chunkIndex = idx
	return nil
}

// Pos returns the stream's current logical position within the block.
func (b *BlockInputStream) Pos() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return b.blockPosition
	}
	return b.chunkOffsets[b.chunkIndex] + b.chunks[b.chunkIndex].Pos()
}

// Close releases the block's RPC client and closes every chunk stream.
// Idempotent.
func (b *BlockInputStream) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if nil != b.blockClient {
		b.pool.ReleaseReadClient(b.blockClient, false)
		b.blockClient = nil
	}
	for _, c := range b.chunks {
		c.Close()
	}
}

// Unbuffer saves the current position, releases the block's RPC
// client, and asks every chunk stream to unbuffer.
func (b *BlockInputStream) Unbuffer() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized {
		b.blockPosition = b.chunkOffsets[b.chunkIndex] + b.chunks[b.chunkIndex].Pos()
	}
	if nil != b.blockClient {
		b.pool.ReleaseReadClient(b.blockClient, false)
		b.blockClient = nil
	}
	for _, c := range b.chunks {
		c.Unbuffer()
	}
}
