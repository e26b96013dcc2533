// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wireschema

import proto "github.com/golang/protobuf/proto"

// CmdType enumerates the namespace-manager request/response tag
// (spec.md §6). Only the subset this repo's components touch is
// enumerated; the rest of the original's ~60-entry tag list is not
// declared. Tags are grouped by tens per payload family, leaving gaps
// between the groups.
type CmdType int32

const (
	CmdTypeUnknown CmdType = 0

	CmdTypeCreateVolume CmdType = 11
	CmdTypeSetVolumeProperty CmdType = 12
	CmdTypeCheckVolumeAccess CmdType = 13
	CmdTypeInfoVolume  CmdType = 14
	CmdTypeDeleteVolume CmdType = 15
	CmdTypeListVolume  CmdType = 16

	CmdTypeCreateBucket CmdType = 21
	CmdTypeInfoBucket  CmdType = 22
	CmdTypeSetBucketProperty CmdType = 23
	CmdTypeDeleteBucket CmdType = 24
	CmdTypeListBuckets CmdType = 25

	CmdTypeAllocateBlock CmdType = 31
	CmdTypeCreateKey   CmdType = 32
	CmdTypeLookupKey   CmdType = 33
	CmdTypeRenameKey   CmdType = 34
	CmdTypeDeleteKey   CmdType = 35
	CmdTypeCommitKey   CmdType = 36
	CmdTypeListKeys    CmdType = 37

	CmdTypeInitiateMultiPartUpload CmdType = 41
	CmdTypeCommitMultiPartUpload CmdType = 42
	CmdTypeAbortMultiPartUpload CmdType = 43
	CmdTypeListMultiPartUploadParts CmdType = 44

	CmdTypeGetAcl    CmdType = 51
	CmdTypeAddAcl    CmdType = 52
	CmdTypeRemoveAcl CmdType = 53
	CmdTypeSetAcl    CmdType = 54

	CmdTypeGetDelegationToken    CmdType = 61
	CmdTypeRenewDelegationToken  CmdType = 62
	CmdTypeCancelDelegationToken CmdType = 63

	CmdTypeGetS3Secret CmdType = 71
)

// Status mirrors the namespace-manager's status enum: OK plus the
// error code space (spec.md §6 says "~60 error codes"; only the ones
// this repo's code paths produce are named).
type Status int32

const (
	StatusOK Status = 0

	StatusVolumeNotFound   Status = 100
	StatusVolumeAlreadyExists Status = 101

	StatusBucketNotFound    Status = 200
	StatusBucketAlreadyExists Status = 201

	StatusKeyNotFound  Status = 300
	StatusKeyAlreadyExists Status = 301

	StatusContainerNotOpen   Status = 400
	StatusContainerNotClosed Status = 401

	StatusInternalError Status = 900
)

// UserInfo identifies the caller for an auditable request.
type UserInfo struct {
	UserName  string `protobuf:"bytes,1,opt,name=userName" json:"userName,omitempty"`
	RemoteAddress string `protobuf:"bytes,2,opt,name=remoteAddress" json:"remoteAddress,omitempty"`
}

func (m *UserInfo) Reset()         { *m = UserInfo{} }
func (m *UserInfo) String() string { return protoString(m) }
func (*UserInfo) ProtoMessage()    {}

// Request is the namespace-manager request envelope.
type Request struct {
	CmdType       CmdType   `protobuf:"varint,1,req,name=cmdType,enum=wireschema.CmdType" json:"cmdType"`
	TraceID       *string   `protobuf:"bytes,2,opt,name=traceID" json:"traceID,omitempty"`
	ClientID      string    `protobuf:"bytes,3,req,name=clientID" json:"clientID"`
	UserInfo      *UserInfo `protobuf:"bytes,4,opt,name=userInfo" json:"userInfo,omitempty"`
	Version       *uint32   `protobuf:"varint,5,opt,name=version" json:"version,omitempty"`
	LayoutVersion *uint32   `protobuf:"varint,6,opt,name=layoutVersion" json:"layoutVersion,omitempty"`
	S3Auth        []byte    `protobuf:"bytes,7,opt,name=s3Auth" json:"s3Auth,omitempty"`

	// at most one of these is populated, selected by CmdType.
	CreateVolume *CreateVolumeRequest `protobuf:"bytes,11,opt,name=createVolume" json:"createVolume,omitempty"`
	InfoVolume   *InfoVolumeRequest   `protobuf:"bytes,14,opt,name=infoVolume" json:"infoVolume,omitempty"`
	CreateBucket *CreateBucketRequest `protobuf:"bytes,21,opt,name=createBucket" json:"createBucket,omitempty"`
	LookupKey    *LookupKeyRequest    `protobuf:"bytes,33,opt,name=lookupKey" json:"lookupKey,omitempty"`
	GetDelegationToken *GetDelegationTokenRequest `protobuf:"bytes,61,opt,name=getDelegationToken" json:"getDelegationToken,omitempty"`
	GetS3Secret  *GetS3SecretRequest  `protobuf:"bytes,71,opt,name=getS3Secret" json:"getS3Secret,omitempty"`
}

func (m *Request) Reset()         { *m = Request{} }
func (m *Request) String() string { return protoString(m) }
func (*Request) ProtoMessage()    {}

// requestWire has Request's fields but no Marshal method, so
// proto.Marshal encodes it by reflection instead of calling back into
// Request.Marshal.
type requestWire Request

func (m *requestWire) Reset()         { *m = requestWire{} }
func (m *requestWire) String() string { return protoString(m) }
func (*requestWire) ProtoMessage()    {}

// Marshal encodes the request with proto2 wire semantics.
func (m *Request) Marshal() ([]byte, error) { return proto.Marshal((*requestWire)(m)) }

// UnmarshalRequest decodes a namespace-manager request.
func UnmarshalRequest(data []byte) (*Request, error) {
	m := &Request{}
	if err := proto.Unmarshal(data, m); nil != err {
		return nil, err
	}
	return m, nil
}

// Response is the namespace-manager response envelope.
type Response struct {
	CmdType       CmdType `protobuf:"varint,1,req,name=cmdType,enum=wireschema.CmdType" json:"cmdType"`
	TraceID       *string `protobuf:"bytes,2,opt,name=traceID" json:"traceID,omitempty"`
	Success       bool    `protobuf:"varint,3,req,name=success" json:"success"`
	Message       *string `protobuf:"bytes,4,opt,name=message" json:"message,omitempty"`
	Status        Status  `protobuf:"varint,5,req,name=status,enum=wireschema.Status" json:"status"`
	LeaderNodeID  *string `protobuf:"bytes,6,opt,name=leaderNodeID" json:"leaderNodeID,omitempty"`

	CreateVolume *CreateVolumeResponse `protobuf:"bytes,11,opt,name=createVolume" json:"createVolume,omitempty"`
	InfoVolume   *InfoVolumeResponse   `protobuf:"bytes,14,opt,name=infoVolume" json:"infoVolume,omitempty"`
	CreateBucket *CreateBucketResponse `protobuf:"bytes,21,opt,name=createBucket" json:"createBucket,omitempty"`
	LookupKey    *LookupKeyResponse    `protobuf:"bytes,33,opt,name=lookupKey" json:"lookupKey,omitempty"`
	GetDelegationToken *GetDelegationTokenResponse `protobuf:"bytes,61,opt,name=getDelegationToken" json:"getDelegationToken,omitempty"`
	GetS3Secret  *GetS3SecretResponse  `protobuf:"bytes,71,opt,name=getS3Secret" json:"getS3Secret,omitempty"`
}

func (m *Response) Reset()         { *m = Response{} }
func (m *Response) String() string { return protoString(m) }
func (*Response) ProtoMessage()    {}

// responseWire has Response's fields but no Marshal method, so
// proto.Marshal encodes it by reflection instead of calling back into
// Response.Marshal.
type responseWire Response

func (m *responseWire) Reset()         { *m = responseWire{} }
func (m *responseWire) String() string { return protoString(m) }
func (*responseWire) ProtoMessage()    {}

// Marshal encodes the response with proto2 wire semantics.
func (m *Response) Marshal() ([]byte, error) { return proto.Marshal((*responseWire)(m)) }

// UnmarshalResponse decodes a namespace-manager response.
func UnmarshalResponse(data []byte) (*Response, error) {
	m := &Response{}
	if err := proto.Unmarshal(data, m); nil != err {
		return nil, err
	}
	return m, nil
}

func protoString(m proto.Message) string { return proto.MarshalTextString(m) }
