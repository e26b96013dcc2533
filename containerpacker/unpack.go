// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package containerpacker

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/bitmark-inc/dncore/container"
	"github.com/bitmark-inc/dncore/fault"
)

// Unpack extracts a zstd-compressed tar archive produced by Pack into a fresh container
// directory tree rooted at <volumeRoot>/<idSubdir>/<containerID>, then
// hands the recovered descriptor bytes to container.Import.
//
// The descriptor entry is identified structurally — "metadata/<name>.container"
// with no further path separator — rather than by matching containerID
// against the archived name, since the destination containerID assigned
// here need not equal the source container's original id.
func Unpack(volumeRoot string, idSubdir string, containerID uint64, in io.Reader) (*container.Container, error) {
	chunksDir := container.ChunksDir(volumeRoot, idSubdir, containerID)
	metadataDir := container.MetadataDir(volumeRoot, idSubdir, containerID)

	cleanup := func() {
		os.RemoveAll(chunksDir)
		os.RemoveAll(metadataDir)
		os.RemoveAll(container.ContainerRoot(volumeRoot, idSubdir, containerID))
	}

	if err := os.MkdirAll(chunksDir, 0o750); nil != err {
		cleanup()
		return nil, err
	}
	if err := os.MkdirAll(metadataDir, 0o750); nil != err {
		cleanup()
		return nil, err
	}

	zr, err := zstd.NewReader(in)
	if nil != err {
		cleanup()
		return nil, err
	}
	defer zr.Close()

	var descriptorBytes []byte
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if io.EOF == err {
			break
		}
		if nil != err {
			cleanup()
			return nil, err
		}
		if tar.TypeDir == hdr.Typeflag {
			continue
		}

		if isDescriptorEntry(hdr.Name) {
			buf := &bytes.Buffer{}
			if _, err := io.Copy(buf, tr); nil != err {
				cleanup()
				return nil, err
			}
			descriptorBytes = buf.Bytes()
			continue
		}

		dest, err := destinationPath(hdr.Name, chunksDir, metadataDir)
		if nil != err {
			cleanup()
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o750); nil != err {
			cleanup()
			return nil, err
		}
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
		if nil != err {
			cleanup()
			return nil, err
		}
		_, err = io.Copy(f, tr)
		f.Close()
		if nil != err {
			cleanup()
			return nil, err
		}
	}

	if nil == descriptorBytes {
		cleanup()
		return nil, fault.ErrDescriptorMissing
	}

	// Import's own os.MkdirAll(metadataDir) is a no-op over our
	// already-extracted tree, and its os.Stat(descriptorPath) check
	// still succeeds since we never wrote the descriptor file itself.
	c, err := container.Import(volumeRoot, idSubdir, containerID, descriptorBytes)
	if nil != err {
		cleanup()
		return nil, err
	}
	return c, nil
}

// isDescriptorEntry reports whether name is the archive's descriptor
// entry: "metadata/<basename>.container" with no nested path.
func isDescriptorEntry(name string) bool {
	name = filepath.ToSlash(name)
	if !strings.HasPrefix(name, "metadata/") {
		return false
	}
	rest := strings.TrimPrefix(name, "metadata/")
	if strings.Contains(rest, "/") {
		return false
	}
	return strings.HasSuffix(rest, ".container")
}

// destinationPath maps an archive entry to its on-disk location under
// the freshly created chunksDir/metadataDir.
func destinationPath(name, chunksDir, metadataDir string) (string, error) {
	name = filepath.ToSlash(name)
	switch {
	case strings.HasPrefix(name, "chunks/"):
		return filepath.Join(chunksDir, filepath.FromSlash(strings.TrimPrefix(name, "chunks/"))), nil
	case strings.HasPrefix(name, "metadata/"):
		return filepath.Join(metadataDir, filepath.FromSlash(strings.TrimPrefix(name, "metadata/"))), nil
	default:
		return "", fault.ErrInvalidArchiveEntry
	}
}
