// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package checksum - streaming CRC-32C over byte buffers
//
// Used both for a container descriptor's self-checksum and for
// verifying chunk data at checksum-boundary granularity on the block
// read path.
package checksum
