// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package container

import (
	"bufio"
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bitmark-inc/dncore/checksum"
	"github.com/bitmark-inc/dncore/fault"
	"github.com/bitmark-inc/logger"
)

// Descriptor is every persisted attribute of a container (spec.md §3
// and §6), plus its own content checksum.
type Descriptor struct {
	ContainerID           uint64
	ContainerType         string // currently only "KeyValueContainer"
	SchemaVersion         string
	LayoutVersion         int
	State                 State
	MaxSize               uint64
	BytesUsed             uint64
	ReadCount             uint64
	WriteCount            uint64
	ReadBytes             uint64
	WriteBytes            uint64
	KeyCount              uint64
	BlockCommitSequenceID uint64
	DeleteTransactionID   uint64
	OriginNodeID          string
	OriginPipelineID      string
	LastDataScanTimestamp int64
	Metadata              map[string]string
	ChecksumOfContent     uint64
}

const checksumFieldName = "checksumOfContent"

// serialize renders the descriptor as key/value lines, using
// checksumValue for the checksumOfContent field (the caller passes 0 to
// compute the value that will be checksummed, and the real value to
// produce the file that is actually written).
func (d *Descriptor) serialize(checksumValue uint64) []byte {
	var buf bytes.Buffer

	line := func(key string, value interface{}) {
		fmt.Fprintf(&buf, "%s: %v\n", key, value)
	}

	line("containerID", d.ContainerID)
	line("containerType", d.ContainerType)
	line("schemaVersion", d.SchemaVersion)
	line("layoutVersion", d.LayoutVersion)
	line("state", d.State.String())
	line("maxSize", d.MaxSize)
	line("bytesUsed", d.BytesUsed)
	line("readCount", d.ReadCount)
	line("writeCount", d.WriteCount)
	line("readBytes", d.ReadBytes)
	line("writeBytes", d.WriteBytes)
	line("keyCount", d.KeyCount)
	line("blockCommitSequenceId", d.BlockCommitSequenceID)
	line("deleteTransactionId", d.DeleteTransactionID)
	line("originNodeId", d.OriginNodeID)
	line("originPipelineId", d.OriginPipelineID)
	line("lastDataScanTimestamp", d.LastDataScanTimestamp)

	keys := make([]string, 0, len(d.Metadata))
	for k := range d.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line("metadata."+k, d.Metadata[k])
	}

	line(checksumFieldName, checksumValue)

	return buf.Bytes()
}

// contentChecksum computes the checksum of the descriptor's serialized
// form with the checksum field zeroed, per §4.2.
func (d *Descriptor) contentChecksum() uint64 {
	return checksum.Of(d.serialize(0))
}

// Bytes returns the final on-disk representation, with the checksum
// field set to the descriptor's actual content checksum.
func (d *Descriptor) Bytes() []byte {
	d.ChecksumOfContent = d.contentChecksum()
	return d.serialize(d.ChecksumOfContent)
}

// WriteAtomic serializes and writes the descriptor to path using
// write-to-temp-then-rename in the same directory, per §4.2. On any
// failure the temp file is removed and the descriptor on disk is left
// untouched.
func WriteAtomic(path string, d *Descriptor) error {
	content := d.Bytes()

	dir := filepath.Dir(path)
	tmp, err := ioutil.TempFile(dir, filepath.Base(path)+".tmp-")
	if nil != err {
		return fault.ErrFileWriteError
	}
	tmpName := tmp.Name()

	ok := false
	defer func() {
		if !ok {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); nil != err {
		tmp.Close()
		return fault.ErrFileWriteError
	}
	if err := tmp.Sync(); nil != err {
		tmp.Close()
		return fault.ErrFileWriteError
	}
	if err := tmp.Close(); nil != err {
		return fault.ErrFileWriteError
	}
	if err := os.Rename(tmpName, path); nil != err {
		return fault.ErrFileWriteError
	}
	ok = true
	return nil
}

// Load reads and parses a descriptor file, validating its self
// checksum. A checksum mismatch marks the returned descriptor
// UNHEALTHY rather than returning an error — per §4.2, "a mismatch
// marks the container UNHEALTHY without raising a fatal error from the
// load path".
func Load(path string) (*Descriptor, error) {
	raw, err := ioutil.ReadFile(path)
	if nil != err {
		return nil, err
	}
	d, err := parseDescriptorBytes(raw)
	if nil != err {
		return nil, err
	}
	if nil != descriptorLog && d.State == UNHEALTHY {
		descriptorLog.Warnf("descriptor %s failed checksum validation, marking UNHEALTHY", path)
	}
	return d, nil
}

// parseDescriptorBytes parses a serialized descriptor and validates its
// self checksum, marking the result UNHEALTHY on mismatch (see Load).
// Content that does not re-serialize to exactly raw (such as an extra
// line the parser skipped) also counts as a mismatch.
func parseDescriptorBytes(raw []byte) (*Descriptor, error) {
	fields := make(map[string]string)
	metadata := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		text := scanner.Text()
		if "" == strings.TrimSpace(text) {
			continue
		}
		idx := strings.Index(text, ": ")
		if idx < 0 {
			continue
		}
		key := text[:idx]
		value := text[idx+2:]
		if strings.HasPrefix(key, "metadata.") {
			metadata[strings.TrimPrefix(key, "metadata.")] = value
			continue
		}
		fields[key] = value
	}
	if err := scanner.Err(); nil != err {
		return nil, err
	}

	d := &Descriptor{Metadata: metadata}

	d.ContainerID = parseUint(fields["containerID"])
	d.ContainerType = fields["containerType"]
	d.SchemaVersion = fields["schemaVersion"]
	d.LayoutVersion = int(parseUint(fields["layoutVersion"]))
	if st, ok := ParseState(fields["state"]); ok {
		d.State = st
	} else {
		d.State = UNHEALTHY
	}
	d.MaxSize = parseUint(fields["maxSize"])
	d.BytesUsed = parseUint(fields["bytesUsed"])
	d.ReadCount = parseUint(fields["readCount"])
	d.WriteCount = parseUint(fields["writeCount"])
	d.ReadBytes = parseUint(fields["readBytes"])
	d.WriteBytes = parseUint(fields["writeBytes"])
	d.KeyCount = parseUint(fields["keyCount"])
	d.BlockCommitSequenceID = parseUint(fields["blockCommitSequenceId"])
	d.DeleteTransactionID = parseUint(fields["deleteTransactionId"])
	d.OriginNodeID = fields["originNodeId"]
	d.OriginPipelineID = fields["originPipelineId"]
	d.LastDataScanTimestamp = int64(parseUint(fields["lastDataScanTimestamp"]))
	d.ChecksumOfContent = parseUint(fields[checksumFieldName])

	if d.contentChecksum() != d.ChecksumOfContent || !bytes.Equal(raw, d.serialize(d.ChecksumOfContent)) {
		d.State = UNHEALTHY
	}

	return d, nil
}

func parseUint(s string) uint64 {
	n, _ := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	return n
}

var descriptorLog *logger.L

// SetLogger installs the *logger.L channel used to report checksum
// validation failures during Load. Optional; Load works without it.
func SetLogger(log *logger.L) {
	descriptorLog = log
}
