// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package retry implements the block read stream's retry policy
// (spec.md §4.8): a small decision function over an error and the
// current attempt count.
package retry
