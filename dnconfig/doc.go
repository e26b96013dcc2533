// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dnconfig loads the datanode's typed configuration from a Lua
// file via the configuration package, the same way the teacher loads
// its top-level Options struct in bitmarkd.go's main().
package dnconfig
