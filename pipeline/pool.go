// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dncore/fault"
)

// ClientHandle is a leased connection to one datanode, returned by
// AcquireReadClient and consumed by SendBlocking/ReleaseReadClient.
type ClientHandle struct {
	node DatanodeID
	conn Conn
}

// Node reports which datanode this handle is connected to.
func (h *ClientHandle) Node() DatanodeID { return h.node }

// Pool is the replica pipeline client (C7): it hands out pooled
// connections to a pipeline's standalone read target, modelled on
// zmqutil's package-level client map but keyed per datanode instead
// of per socket, since any number of block streams may share one
// datanode's idle connections.
type Pool struct {
	mu        sync.Mutex
	transport Transport
	idle      map[DatanodeID][]Conn
	log       *logger.L
}

// NewPool builds a client pool over the given transport.
func NewPool(transport Transport) *Pool {
	return &Pool{
		transport: transport,
		idle:      make(map[DatanodeID][]Conn),
		log:       logger.New("pipeline"),
	}
}

// AcquireReadClient returns a handle connected to p's standalone read
// target (spec.md §4.7), reusing an idle connection to that datanode
// if one is available.
func (pool *Pool) AcquireReadClient(ctx context.Context, p Pipeline) (*ClientHandle, error) {
	standalone := p.Standalone()
	node := standalone.Leader()
	if "" == node {
		return nil, fault.ErrRpcTransport
	}

	pool.mu.Lock()
	if conns := pool.idle[node]; len(conns) > 0 {
		conn := conns[len(conns)-1]
		pool.idle[node] = conns[:len(conns)-1]
		pool.mu.Unlock()
		return &ClientHandle{node: node, conn: conn}, nil
	}
	pool.mu.Unlock()

	conn, err := pool.transport.Connect(ctx, node)
	if nil != err {
		pool.log.Debugf("connect to %s failed: %v", node, err)
		return nil, fault.ErrRpcTransport
	}
	return &ClientHandle{node: node, conn: conn}, nil
}

// ReleaseReadClient returns a handle to the pool for reuse, or
// discards it (closing the underlying connection) when invalidate is
// true — used after an in-flight RPC is abandoned on cancellation or a
// transport error (spec.md §5's "client is returned to the pool marked
// invalid").
func (pool *Pool) ReleaseReadClient(h *ClientHandle, invalidate bool) {
	if nil == h {
		return
	}
	if invalidate {
		_ = h.conn.Close()
		return
	}
	pool.mu.Lock()
	pool.idle[h.node] = append(pool.idle[h.node], h.conn)
	pool.mu.Unlock()
}

// SendBlocking performs one request/response round trip over h,
// translating any transport failure into fault.ErrRpcTransport so the
// caller's retry policy (§4.8) can classify it uniformly.
func (pool *Pool) SendBlocking(ctx context.Context, h *ClientHandle, request []byte) ([]byte, error) {
	response, err := h.conn.Send(ctx, request)
	if nil != err {
		pool.log.Debugf("send to %s failed: %v", h.node, err)
		return nil, fault.ErrRpcTransport
	}
	return response, nil
}
