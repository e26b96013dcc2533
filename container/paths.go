// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package container

import (
	"fmt"
	"path/filepath"
)

// ContainerRoot returns <volumeRoot>/<idSubdir>/<containerID>.
func ContainerRoot(volumeRoot string, idSubdir string, containerID uint64) string {
	return filepath.Join(volumeRoot, idSubdir, fmt.Sprintf("%d", containerID))
}

// MetadataDir returns the container's metadata subdirectory.
func MetadataDir(volumeRoot string, idSubdir string, containerID uint64) string {
	return filepath.Join(ContainerRoot(volumeRoot, idSubdir, containerID), "metadata")
}

// ChunksDir returns the container's chunks subdirectory.
func ChunksDir(volumeRoot string, idSubdir string, containerID uint64) string {
	return filepath.Join(ContainerRoot(volumeRoot, idSubdir, containerID), "chunks")
}

// DescriptorPath returns the path of the <containerID>.container
// descriptor file.
func DescriptorPath(volumeRoot string, idSubdir string, containerID uint64) string {
	return filepath.Join(MetadataDir(volumeRoot, idSubdir, containerID), fmt.Sprintf("%d.container", containerID))
}

// EmbeddedStorePath returns the directory of the embedded key/value
// store, <containerID>-dn-container.db.
func EmbeddedStorePath(volumeRoot string, idSubdir string, containerID uint64) string {
	return filepath.Join(MetadataDir(volumeRoot, idSubdir, containerID), fmt.Sprintf("%d-dn-container.db", containerID))
}

// ChunkFileName returns the opaque on-disk name of chunk n of block
// blockID, e.g. "42_chunk_3".
func ChunkFileName(blockID uint64, n int) string {
	return fmt.Sprintf("%d_chunk_%d", blockID, n)
}
