// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dnstore - the embedded key/value store that lives inside a
// container's metadata directory.
//
// One goleveldb database backs each container. Handles are reference
// counted: Acquire increments a per-container count and Release
// decrements it. Release never closes the database: an entry whose
// count drops to zero stays open and cached, and only EndExport or
// Evict close it and remove it from the cache. Export needs the
// database quiesced and not reopened mid-stream, so BeginExport marks
// the cached entry as exporting, which refuses new Acquire calls until
// EndExport, instead of taking a normal handle.
package dnstore
