// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package volume implements the bookkeeping a datanode keeps for the
// set of volumes it stores containers on: free-space accounting and
// the read/write lock a container-creation call holds while it selects
// a volume. Volume *selection policy* (which volume to prefer) is
// explicitly out of scope, per spec.md §1; this package only offers
// the primitives a policy would be built on.
package volume
