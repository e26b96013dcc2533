// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package containerpacker_test

import (
	"archive/tar"
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/dncore/container"
	"github.com/bitmark-inc/dncore/containerpacker"
	"github.com/bitmark-inc/dncore/volume"
)

func tempVolume(t *testing.T) string {
	dir, err := ioutil.TempDir("", "containerpacker-test-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func closedContainerWithChunk(t *testing.T, volumeRoot string, containerID uint64) *container.Container {
	vol := &volume.Volume{Root: volumeRoot, Capacity: 10 << 30}
	c, err := container.Create(vol, "scm-1", containerID, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)

	chunkPath := filepath.Join(container.ChunksDir(volumeRoot, "scm-1", containerID), container.ChunkFileName(7, 0))
	require.NoError(t, os.MkdirAll(filepath.Dir(chunkPath), 0o750))
	require.NoError(t, ioutil.WriteFile(chunkPath, []byte("chunk-payload"), 0o640))

	require.NoError(t, c.MarkForClose())
	require.NoError(t, c.Close())
	return c
}

func TestPackUnpackRoundTrip(t *testing.T) {
	srcVolume := tempVolume(t)
	c := closedContainerWithChunk(t, srcVolume, 1)

	session, err := c.PrepareExport()
	require.NoError(t, err)
	defer session.Close()

	var archive bytes.Buffer
	require.NoError(t, containerpacker.Pack(session, &archive))

	dstVolume := tempVolume(t)
	restored, err := containerpacker.Unpack(dstVolume, "scm-2", 42, bytes.NewReader(archive.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, uint64(42), restored.ID())
	assert.Equal(t, container.CLOSED, restored.State())

	chunkPath := filepath.Join(container.ChunksDir(dstVolume, "scm-2", 42), container.ChunkFileName(7, 0))
	data, err := ioutil.ReadFile(chunkPath)
	require.NoError(t, err)
	assert.Equal(t, "chunk-payload", string(data))

	assert.FileExists(t, container.DescriptorPath(dstVolume, "scm-2", 42))
}

// TestUnpackFindsDescriptorRegardlessOfPosition rebuilds an archive by
// hand with the descriptor entry written first, proving Unpack locates
// it structurally rather than assuming Pack's own entry ordering.
func TestUnpackFindsDescriptorRegardlessOfPosition(t *testing.T) {
	srcVolume := tempVolume(t)
	c := closedContainerWithChunk(t, srcVolume, 5)

	session, err := c.PrepareExport()
	require.NoError(t, err)
	defer session.Close()

	descBytes, err := ioutil.ReadFile(session.DescriptorPath())
	require.NoError(t, err)
	chunkBytes, err := ioutil.ReadFile(filepath.Join(session.ChunksDir(), container.ChunkFileName(7, 0)))
	require.NoError(t, err)

	var archive bytes.Buffer
	zw, err := zstd.NewWriter(&archive)
	require.NoError(t, err)
	tw := tar.NewWriter(zw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: "metadata/5.container", Typeflag: tar.TypeReg, Size: int64(len(descBytes)), Mode: 0o640,
	}))
	_, err = tw.Write(descBytes)
	require.NoError(t, err)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: "chunks/7_chunk_0", Typeflag: tar.TypeReg, Size: int64(len(chunkBytes)), Mode: 0o640,
	}))
	_, err = tw.Write(chunkBytes)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())

	dstVolume := tempVolume(t)
	restored, err := containerpacker.Unpack(dstVolume, "scm-2", 99, bytes.NewReader(archive.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, uint64(99), restored.ID())
}

func TestUnpackFailsAndCleansUpOnMissingDescriptor(t *testing.T) {
	var archive bytes.Buffer
	zw, err := zstd.NewWriter(&archive)
	require.NoError(t, err)
	tw := tar.NewWriter(zw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: "chunks/7_chunk_0", Typeflag: tar.TypeReg, Size: 4, Mode: 0o640,
	}))
	_, err = tw.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())

	dstVolume := tempVolume(t)
	_, err = containerpacker.Unpack(dstVolume, "scm-3", 1, bytes.NewReader(archive.Bytes()))
	require.Error(t, err)
	assert.NoDirExists(t, container.ContainerRoot(dstVolume, "scm-3", 1))
}
