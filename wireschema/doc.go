// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wireschema defines the wire envelopes and payload messages
// exchanged with the namespace manager and between clients and datanodes (spec.md
// §6), following the teacher's announce/peer package convention of
// hand-declared protobuf-tagged struct types marshaled with
// github.com/golang/protobuf/proto rather than a bespoke binary
// codec.
package wireschema
