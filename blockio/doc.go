// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockio implements the chunk read stream (C5) and block
// read stream (C6): the two-level lazily-connected reader that turns
// a block id into a byte stream over one or more replica chunks,
// with retry and pipeline-refresh woven through the read path
// (spec.md §4.5, §4.6).
package blockio
