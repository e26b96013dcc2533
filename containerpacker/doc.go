// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package containerpacker implements the container packer (C4):
// pack streams a closed container's metadata and chunk files into a
// deterministic zstd-compressed archive/tar stream; unpack extracts that stream into a
// freshly created container directory tree and hands the recovered
// descriptor bytes to container.Import.
package containerpacker
