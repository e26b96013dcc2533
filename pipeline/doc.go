// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pipeline implements the replica pipeline client (C7):
// acquiring/releasing a pooled read client for a pipeline and sending
// blocking requests over it. The actual wire transport is a pluggable
// Transport, modelled on the teacher's zmqutil.Client pool but with
// the socket layer abstracted out, since the concrete transport is an
// external collaborator per spec.md §1.
package pipeline
