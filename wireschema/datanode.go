// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wireschema

import proto "github.com/golang/protobuf/proto"

// DatanodeBlockID addresses one block within one container (spec.md
// §6).
type DatanodeBlockID struct {
	ContainerID uint64 `protobuf:"varint,1,req,name=containerID" json:"containerID"`
	LocalID     uint64 `protobuf:"varint,2,req,name=localID" json:"localID"`
	BlockCommitSequenceID uint64 `protobuf:"varint,3,opt,name=blockCommitSequenceID" json:"blockCommitSequenceID,omitempty"`
}

func (m *DatanodeBlockID) Reset()         { *m = DatanodeBlockID{} }
func (m *DatanodeBlockID) String() string { return protoString(m) }
func (*DatanodeBlockID) ProtoMessage()    {}

// ChecksumType enumerates the supported per-chunk checksum algorithms.
// This repo only ever produces CRC32C (see checksum.CRC32C) but the
// field is carried as an enum for wire compatibility with peers that
// may use another algorithm.
type ChecksumType int32

const (
	ChecksumTypeNone  ChecksumType = 0
	ChecksumTypeCRC32 ChecksumType = 1
	ChecksumTypeCRC32C ChecksumType = 2
	ChecksumTypeSHA256 ChecksumType = 3
)

// ChecksumData carries the per-checksum-boundary checksum list for one
// chunk (spec.md §6).
type ChecksumData struct {
	Algorithm        ChecksumType `protobuf:"varint,1,req,name=algorithm,enum=wireschema.ChecksumType" json:"algorithm"`
	BytesPerChecksum uint32       `protobuf:"varint,2,req,name=bytesPerChecksum" json:"bytesPerChecksum"`
	Checksums        [][]byte     `protobuf:"bytes,3,rep,name=checksums" json:"checksums,omitempty"`
}

func (m *ChecksumData) Reset()         { *m = ChecksumData{} }
func (m *ChecksumData) String() string { return protoString(m) }
func (*ChecksumData) ProtoMessage()    {}

// ChunkInfo describes one chunk of a block (spec.md §6).
type ChunkInfo struct {
	ChunkName string        `protobuf:"bytes,1,req,name=chunkName" json:"chunkName"`
	Offset    uint64        `protobuf:"varint,2,req,name=offset" json:"offset"`
	Length    uint64        `protobuf:"varint,3,req,name=length" json:"length"`
	Checksum  *ChecksumData `protobuf:"bytes,4,opt,name=checksum" json:"checksum,omitempty"`
}

func (m *ChunkInfo) Reset()         { *m = ChunkInfo{} }
func (m *ChunkInfo) String() string { return protoString(m) }
func (*ChunkInfo) ProtoMessage()    {}

// BlockIOResult reports whether a GetBlock/ReadChunk RPC was served
// normally or rejected at the remote container level, distinct from a
// transport-level failure (which never produces a response at all).
// Mirrors the original's StorageContainerException result codes,
// trimmed to the ones this repo's retry/refresh logic distinguishes.
type BlockIOResult int32

const (
	// BlockIOResultOK is the zero value: the RPC succeeded.
	BlockIOResultOK BlockIOResult = 0
	// BlockIOResultContainerUnavailable means the remote datanode is
	// reachable but reports the target container unavailable (e.g.
	// still replicating, or temporarily closed) — retryable, and
	// worth a pipeline refresh before retrying.
	BlockIOResultContainerUnavailable BlockIOResult = 1
	// BlockIOResultContainerNotRetriable means the remote container
	// failure is permanent for this request (e.g. the container was
	// deleted) — never retried, regardless of retry budget.
	BlockIOResultContainerNotRetriable BlockIOResult = 2
)

// BlockData is the GetBlock response payload: the ordered chunk list
// making up a block.
type BlockData struct {
	BlockID *DatanodeBlockID `protobuf:"bytes,1,req,name=blockID" json:"blockID"`
	Chunks  []*ChunkInfo     `protobuf:"bytes,2,rep,name=chunks" json:"chunks,omitempty"`
}

func (m *BlockData) Reset()         { *m = BlockData{} }
func (m *BlockData) String() string { return protoString(m) }
func (*BlockData) ProtoMessage()    {}

// Length returns the block's declared total length, the sum of its
// chunk lengths.
func (m *BlockData) Length() uint64 {
	var total uint64
	for _, c := range m.Chunks {
		total += c.Length
	}
	return total
}

// GetBlockRequest fetches a block's chunk list.
type GetBlockRequest struct {
	BlockID *DatanodeBlockID `protobuf:"bytes,1,req,name=blockID" json:"blockID"`
	Token   []byte           `protobuf:"bytes,2,opt,name=token" json:"token,omitempty"`
}

func (m *GetBlockRequest) Reset()         { *m = GetBlockRequest{} }
func (m *GetBlockRequest) String() string { return protoString(m) }
func (*GetBlockRequest) ProtoMessage()    {}

// getBlockRequestWire has GetBlockRequest's fields but no Marshal
// method, so proto.Marshal encodes it by reflection instead of calling
// back into GetBlockRequest.Marshal.
type getBlockRequestWire GetBlockRequest

func (m *getBlockRequestWire) Reset()         { *m = getBlockRequestWire{} }
func (m *getBlockRequestWire) String() string { return protoString(m) }
func (*getBlockRequestWire) ProtoMessage()    {}

// Marshal encodes the request.
func (m *GetBlockRequest) Marshal() ([]byte, error) {
	return proto.Marshal((*getBlockRequestWire)(m))
}

// GetBlockResponse is the GetBlock RPC's response payload. BlockData is
// only populated when Result is BlockIOResultOK.
type GetBlockResponse struct {
	BlockData *BlockData    `protobuf:"bytes,1,opt,name=blockData" json:"blockData,omitempty"`
	Result    BlockIOResult `protobuf:"varint,2,opt,name=result,enum=wireschema.BlockIOResult" json:"result"`
}

func (m *GetBlockResponse) Reset()         { *m = GetBlockResponse{} }
func (m *GetBlockResponse) String() string { return protoString(m) }
func (*GetBlockResponse) ProtoMessage()    {}

// ReadChunkRequest reads (a sub-range of) one chunk's bytes.
type ReadChunkRequest struct {
	BlockID    *DatanodeBlockID `protobuf:"bytes,1,req,name=blockID" json:"blockID"`
	ChunkInfo  *ChunkInfo       `protobuf:"bytes,2,req,name=chunkInfo" json:"chunkInfo"`
	ReadOffset *uint64          `protobuf:"varint,3,opt,name=readOffset" json:"readOffset,omitempty"`
	ReadLength *uint64          `protobuf:"varint,4,opt,name=readLength" json:"readLength,omitempty"`
	Token      []byte           `protobuf:"bytes,5,opt,name=token" json:"token,omitempty"`
}

func (m *ReadChunkRequest) Reset()         { *m = ReadChunkRequest{} }
func (m *ReadChunkRequest) String() string { return protoString(m) }
func (*ReadChunkRequest) ProtoMessage()    {}

// readChunkRequestWire has ReadChunkRequest's fields but no Marshal
// method, so proto.Marshal encodes it by reflection instead of calling
// back into ReadChunkRequest.Marshal.
type readChunkRequestWire ReadChunkRequest

func (m *readChunkRequestWire) Reset()         { *m = readChunkRequestWire{} }
func (m *readChunkRequestWire) String() string { return protoString(m) }
func (*readChunkRequestWire) ProtoMessage()    {}

// Marshal encodes the request.
func (m *ReadChunkRequest) Marshal() ([]byte, error) {
	return proto.Marshal((*readChunkRequestWire)(m))
}

// ReadChunkResponse carries the chunk bytes read. Data is only
// populated when Result is BlockIOResultOK.
type ReadChunkResponse struct {
	ChunkInfo *ChunkInfo    `protobuf:"bytes,1,opt,name=chunkInfo" json:"chunkInfo,omitempty"`
	Data      []byte        `protobuf:"bytes,2,opt,name=data" json:"data,omitempty"`
	Result    BlockIOResult `protobuf:"varint,3,opt,name=result,enum=wireschema.BlockIOResult" json:"result"`
}

func (m *ReadChunkResponse) Reset()         { *m = ReadChunkResponse{} }
func (m *ReadChunkResponse) String() string { return protoString(m) }
func (*ReadChunkResponse) ProtoMessage()    {}
