// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wireschema

// Volume, Bucket, Key, DelegationToken and S3Secret payload messages
// (spec.md §6). Multipart and Acl commands have CmdType tags but no
// payload messages, and there is no service-list payload. Only the
// fields this repo's
// components (container creation, block lookup, token plumbing)
// actually reference are carried; the remaining fields of the
// original's much larger schema are out of scope per spec.md §1.

type CreateVolumeRequest struct {
	VolumeName string `protobuf:"bytes,1,req,name=volumeName" json:"volumeName"`
	AdminName  string `protobuf:"bytes,2,req,name=adminName" json:"adminName"`
	Quota      uint64 `protobuf:"varint,3,opt,name=quota" json:"quota,omitempty"`
}

func (m *CreateVolumeRequest) Reset()         { *m = CreateVolumeRequest{} }
func (m *CreateVolumeRequest) String() string { return protoString(m) }
func (*CreateVolumeRequest) ProtoMessage()    {}

type CreateVolumeResponse struct{}

func (m *CreateVolumeResponse) Reset()         { *m = CreateVolumeResponse{} }
func (m *CreateVolumeResponse) String() string { return protoString(m) }
func (*CreateVolumeResponse) ProtoMessage()    {}

type InfoVolumeRequest struct {
	VolumeName string `protobuf:"bytes,1,req,name=volumeName" json:"volumeName"`
}

func (m *InfoVolumeRequest) Reset()         { *m = InfoVolumeRequest{} }
func (m *InfoVolumeRequest) String() string { return protoString(m) }
func (*InfoVolumeRequest) ProtoMessage()    {}

type InfoVolumeResponse struct {
	VolumeName string `protobuf:"bytes,1,req,name=volumeName" json:"volumeName"`
	Quota      uint64 `protobuf:"varint,2,opt,name=quota" json:"quota,omitempty"`
}

func (m *InfoVolumeResponse) Reset()         { *m = InfoVolumeResponse{} }
func (m *InfoVolumeResponse) String() string { return protoString(m) }
func (*InfoVolumeResponse) ProtoMessage()    {}

type CreateBucketRequest struct {
	VolumeName string `protobuf:"bytes,1,req,name=volumeName" json:"volumeName"`
	BucketName string `protobuf:"bytes,2,req,name=bucketName" json:"bucketName"`
}

func (m *CreateBucketRequest) Reset()         { *m = CreateBucketRequest{} }
func (m *CreateBucketRequest) String() string { return protoString(m) }
func (*CreateBucketRequest) ProtoMessage()    {}

type CreateBucketResponse struct{}

func (m *CreateBucketResponse) Reset()         { *m = CreateBucketResponse{} }
func (m *CreateBucketResponse) String() string { return protoString(m) }
func (*CreateBucketResponse) ProtoMessage()    {}

type LookupKeyRequest struct {
	VolumeName string `protobuf:"bytes,1,req,name=volumeName" json:"volumeName"`
	BucketName string `protobuf:"bytes,2,req,name=bucketName" json:"bucketName"`
	KeyName    string `protobuf:"bytes,3,req,name=keyName" json:"keyName"`
}

func (m *LookupKeyRequest) Reset()         { *m = LookupKeyRequest{} }
func (m *LookupKeyRequest) String() string { return protoString(m) }
func (*LookupKeyRequest) ProtoMessage()    {}

// LookupKeyResponse carries enough of a key's location for the
// datanode block read path to act on: the replica pipeline id and the
// ordered block ids that make up the key.
type LookupKeyResponse struct {
	DataSize   uint64   `protobuf:"varint,1,opt,name=dataSize" json:"dataSize,omitempty"`
	PipelineID string   `protobuf:"bytes,2,opt,name=pipelineID" json:"pipelineID,omitempty"`
	BlockIDs   []uint64 `protobuf:"varint,3,rep,name=blockIDs" json:"blockIDs,omitempty"`
}

func (m *LookupKeyResponse) Reset()         { *m = LookupKeyResponse{} }
func (m *LookupKeyResponse) String() string { return protoString(m) }
func (*LookupKeyResponse) ProtoMessage()    {}

type GetDelegationTokenRequest struct {
	Renewer string `protobuf:"bytes,1,opt,name=renewer" json:"renewer,omitempty"`
}

func (m *GetDelegationTokenRequest) Reset()         { *m = GetDelegationTokenRequest{} }
func (m *GetDelegationTokenRequest) String() string { return protoString(m) }
func (*GetDelegationTokenRequest) ProtoMessage()    {}

type GetDelegationTokenResponse struct {
	Token []byte `protobuf:"bytes,1,opt,name=token" json:"token,omitempty"`
}

func (m *GetDelegationTokenResponse) Reset()         { *m = GetDelegationTokenResponse{} }
func (m *GetDelegationTokenResponse) String() string { return protoString(m) }
func (*GetDelegationTokenResponse) ProtoMessage()    {}

type GetS3SecretRequest struct {
	AwsAccessId string `protobuf:"bytes,1,req,name=awsAccessId" json:"awsAccessId"`
}

func (m *GetS3SecretRequest) Reset()         { *m = GetS3SecretRequest{} }
func (m *GetS3SecretRequest) String() string { return protoString(m) }
func (*GetS3SecretRequest) ProtoMessage()    {}

type GetS3SecretResponse struct {
	AwsSecret []byte `protobuf:"bytes,1,opt,name=awsSecret" json:"awsSecret,omitempty"`
}

func (m *GetS3SecretResponse) Reset()         { *m = GetS3SecretResponse{} }
func (m *GetS3SecretResponse) String() string { return protoString(m) }
func (*GetS3SecretResponse) ProtoMessage()    {}
