// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/dncore/pipeline"
)

func TestStandaloneKeepsOnlyLeader(t *testing.T) {
	p := pipeline.Pipeline{
		ID:          "p1",
		Nodes:       []pipeline.DatanodeID{"dn-1", "dn-2", "dn-3"},
		Replication: pipeline.Ratis,
	}
	s := p.Standalone()
	assert.Equal(t, []pipeline.DatanodeID{"dn-1"}, s.Nodes)
	assert.Equal(t, pipeline.StandAlone, s.Replication)
	assert.Equal(t, pipeline.DatanodeID("dn-1"), s.Leader())
}

func TestOverlaps(t *testing.T) {
	a := pipeline.Pipeline{Nodes: []pipeline.DatanodeID{"dn-1", "dn-2"}}
	b := pipeline.Pipeline{Nodes: []pipeline.DatanodeID{"dn-2", "dn-3"}}
	c := pipeline.Pipeline{Nodes: []pipeline.DatanodeID{"dn-4"}}

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
}

func TestLeaderEmptyPipeline(t *testing.T) {
	var p pipeline.Pipeline
	assert.Equal(t, pipeline.DatanodeID(""), p.Leader())
}

// countingConn tracks how many times it has been closed, for asserting
// that ReleaseReadClient(invalidate=true) actually drops the connection
// rather than returning it to the idle pool.
type countingConn struct {
	closed int
}

func (c *countingConn) Send(ctx context.Context, req []byte) ([]byte, error) {
	return append([]byte(nil), req...), nil
}

func (c *countingConn) Close() error {
	c.closed++
	return nil
}

type countingTransport struct {
	connects int
	conns    []*countingConn
}

func (t *countingTransport) Connect(ctx context.Context, node pipeline.DatanodeID) (pipeline.Conn, error) {
	t.connects++
	c := &countingConn{}
	t.conns = append(t.conns, c)
	return c, nil
}

type failingTransport struct{}

func (failingTransport) Connect(ctx context.Context, node pipeline.DatanodeID) (pipeline.Conn, error) {
	return nil, errors.New("connection refused")
}

func TestAcquireReadClientReusesIdleConnection(t *testing.T) {
	transport := &countingTransport{}
	pool := pipeline.NewPool(transport)
	p := pipeline.Pipeline{Nodes: []pipeline.DatanodeID{"dn-1"}}

	h1, err := pool.AcquireReadClient(context.Background(), p)
	require.NoError(t, err)
	pool.ReleaseReadClient(h1, false)

	h2, err := pool.AcquireReadClient(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 1, transport.connects, "second acquire should reuse the released connection, not dial again")
	assert.Equal(t, pipeline.DatanodeID("dn-1"), h2.Node())
}

func TestReleaseReadClientInvalidateClosesConnection(t *testing.T) {
	transport := &countingTransport{}
	pool := pipeline.NewPool(transport)
	p := pipeline.Pipeline{Nodes: []pipeline.DatanodeID{"dn-1"}}

	h, err := pool.AcquireReadClient(context.Background(), p)
	require.NoError(t, err)
	pool.ReleaseReadClient(h, true)

	require.Len(t, transport.conns, 1)
	assert.Equal(t, 1, transport.conns[0].closed)

	// A subsequent acquire must dial again since the invalidated
	// connection was discarded rather than pooled.
	_, err = pool.AcquireReadClient(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 2, transport.connects)
}

func TestAcquireReadClientEmptyPipelineFails(t *testing.T) {
	pool := pipeline.NewPool(&countingTransport{})
	_, err := pool.AcquireReadClient(context.Background(), pipeline.Pipeline{})
	assert.Error(t, err)
}

func TestAcquireReadClientTransportFailure(t *testing.T) {
	pool := pipeline.NewPool(failingTransport{})
	p := pipeline.Pipeline{Nodes: []pipeline.DatanodeID{"dn-1"}}
	_, err := pool.AcquireReadClient(context.Background(), p)
	assert.Error(t, err)
}

func TestSendBlockingRoundTrip(t *testing.T) {
	transport := &countingTransport{}
	pool := pipeline.NewPool(transport)
	p := pipeline.Pipeline{Nodes: []pipeline.DatanodeID{"dn-1"}}

	h, err := pool.AcquireReadClient(context.Background(), p)
	require.NoError(t, err)

	resp, err := pool.SendBlocking(context.Background(), h, []byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), resp)
}
