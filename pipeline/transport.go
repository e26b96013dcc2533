// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import "context"

// Conn is one connected transport session to a single datanode,
// modelled on zmqutil.Client's connect/send/receive/close lifecycle.
type Conn interface {
	Send(ctx context.Context, requestBytes []byte) (responseBytes []byte, err error)
	Close() error
}

// Transport opens connections to individual datanodes. The concrete
// implementation (ZeroMQ, gRPC, or otherwise) is an external
// collaborator per spec.md §1; this repo only depends on the
// interface so the block/chunk read path can be tested against an
// in-process fake.
type Transport interface {
	Connect(ctx context.Context, node DatanodeID) (Conn, error)
}
