// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package container_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/dncore/container"
	"github.com/bitmark-inc/dncore/fault"
	"github.com/bitmark-inc/dncore/volume"
)

func tempVolume(t *testing.T) string {
	dir, err := ioutil.TempDir("", "container-test-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// tempVol builds a *volume.Volume backed by a fresh temp directory,
// with capacity bytes of free space to reserve against.
func tempVol(t *testing.T, capacity uint64) *volume.Volume {
	return &volume.Volume{Root: tempVolume(t), Capacity: capacity}
}

func TestCreateCloseExport(t *testing.T) {
	vol := tempVol(t, 10<<30)

	c, err := container.Create(vol, "scm-1", 1, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)
	assert.Equal(t, container.OPEN, c.State())

	require.NoError(t, c.MarkForClose())
	assert.Equal(t, container.CLOSING, c.State())

	require.NoError(t, c.Close())
	assert.Equal(t, container.CLOSED, c.State())

	session, err := c.PrepareExport()
	require.NoError(t, err)
	assert.DirExists(t, session.MetadataDir())
	session.Close()

	// three descriptor versions were written: create, markForClose, close
	d, err := container.Load(container.DescriptorPath(vol.Root, "scm-1", 1))
	require.NoError(t, err)
	assert.Equal(t, container.CLOSED, d.State)
}

func TestMarkForCloseFromClosedFails(t *testing.T) {
	vol := tempVol(t, 10<<30)

	c, err := container.Create(vol, "scm-1", 2, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)
	require.NoError(t, c.Close()) // legal directly from OPEN

	err = c.MarkForClose()
	assert.Equal(t, fault.ErrNotOpen, err)
}

func TestCloseDirectlyFromOpenIsAccepted(t *testing.T) {
	vol := tempVol(t, 10<<30)

	c, err := container.Create(vol, "scm-1", 3, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.Equal(t, container.CLOSED, c.State())
}

func TestFailedDescriptorWriteRollsBack(t *testing.T) {
	vol := tempVol(t, 10<<30)

	c, err := container.Create(vol, "scm-1", 4, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)

	metaDir := container.MetadataDir(vol.Root, "scm-1", 4)
	require.NoError(t, os.Chmod(metaDir, 0o500)) // read+execute only: no new files
	defer os.Chmod(metaDir, 0o750)

	err = c.MarkForClose()
	assert.Equal(t, fault.ErrFileWriteError, err)
	assert.Equal(t, container.OPEN, c.State(), "state must roll back to OPEN")
}

func TestExportBansNonClosedStates(t *testing.T) {
	vol := tempVol(t, 10<<30)

	c, err := container.Create(vol, "scm-1", 5, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)

	_, err = c.PrepareExport()
	assert.Equal(t, fault.ErrInvalidState, err)
}

func TestDeleteRemovesTree(t *testing.T) {
	vol := tempVol(t, 10<<30)

	c, err := container.Create(vol, "scm-1", 6, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Delete())

	assert.Equal(t, container.DELETED, c.State())
	root := container.ContainerRoot(vol.Root, "scm-1", 6)
	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateRequiresOpenUnlessForced(t *testing.T) {
	vol := tempVol(t, 10<<30)

	c, err := container.Create(vol, "scm-1", 7, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	err = c.Update(map[string]string{"k": "v"}, false)
	assert.Equal(t, fault.ErrUnsupportedRequest, err)

	require.NoError(t, c.Update(map[string]string{"k": "v"}, true))
	assert.Equal(t, "v", c.Descriptor().Metadata["k"])
}

func TestDescriptorChecksumMismatchMarksUnhealthy(t *testing.T) {
	vol := tempVol(t, 10<<30)

	c, err := container.Create(vol, "scm-1", 8, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)

	path := container.DescriptorPath(vol.Root, "scm-1", 8)
	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)

	corrupted := append([]byte{}, raw...)
	corrupted = append(corrupted, []byte("extra-garbage\n")...)
	require.NoError(t, ioutil.WriteFile(path, corrupted, 0o640))

	d, err := container.Load(path)
	require.NoError(t, err)
	assert.Equal(t, container.UNHEALTHY, d.State)

	_ = c // keep the in-memory container reachable for clarity
}

func TestBlockCommitSequenceIsMonotonic(t *testing.T) {
	vol := tempVol(t, 10<<30)

	c, err := container.Create(vol, "scm-1", 9, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)

	require.NoError(t, c.RecordBlockCommit(10))
	require.NoError(t, c.RecordBlockCommit(5)) // must not regress
	assert.Equal(t, uint64(10), c.Descriptor().BlockCommitSequenceID)

	require.NoError(t, c.RecordBlockCommit(20))
	assert.Equal(t, uint64(20), c.Descriptor().BlockCommitSequenceID)
}

func TestFoldCountersAccumulatesOpsAndBytes(t *testing.T) {
	vol := tempVol(t, 10<<30)

	c, err := container.Create(vol, "scm-1", 10, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)

	c.IncrementReadOps(100)
	c.IncrementReadOps(50)
	c.IncrementWriteOps(200)

	require.NoError(t, c.FoldCounters())

	d := c.Descriptor()
	assert.Equal(t, uint64(2), d.ReadCount)
	assert.Equal(t, uint64(150), d.ReadBytes)
	assert.Equal(t, uint64(1), d.WriteCount)
	assert.Equal(t, uint64(200), d.WriteBytes)

	// a second fold with no further activity must not double-count
	require.NoError(t, c.FoldCounters())
	d = c.Descriptor()
	assert.Equal(t, uint64(2), d.ReadCount)
	assert.Equal(t, uint64(150), d.ReadBytes)
}

// TestCreateReservesVolumeCapacity exercises spec.md §8 scenario 1:
// creating a container with maxSize 1 GiB on a 10 GiB volume succeeds
// and leaves the volume's free space reduced by exactly that amount.
func TestCreateReservesVolumeCapacity(t *testing.T) {
	vol := tempVol(t, 10<<30)
	set := volume.NewSet(vol)

	chosen, err := set.SelectForCreate(1<<30, func(vs []*volume.Volume) int { return 0 })
	require.NoError(t, err)
	assert.Same(t, vol, chosen)
	assert.Equal(t, uint64(9<<30), vol.FreeBytes())

	c, err := container.Create(chosen, "scm-1", 11, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)
	assert.Equal(t, container.OPEN, c.State())
	assert.Equal(t, uint64(9<<30), vol.FreeBytes(), "a successful Create must not release the reservation")
}

// TestCreateFailsDiskOutOfSpace exercises spec.md §7's DiskOutOfSpace
// error path: a volume too small for the requested maxSize is never
// even handed to Create.
func TestCreateFailsDiskOutOfSpace(t *testing.T) {
	vol := tempVol(t, 1<<20)
	set := volume.NewSet(vol)

	_, err := set.SelectForCreate(1<<30, func(vs []*volume.Volume) int { return 0 })
	assert.Equal(t, fault.ErrDiskOutOfSpace, err)
	assert.Equal(t, uint64(1<<20), vol.FreeBytes(), "a rejected reservation must not consume capacity")
}

// TestCreateFailureReleasesReservation confirms that when Create fails
// after a volume has already reserved capacity for it, that capacity
// is returned to the volume rather than leaked.
func TestCreateFailureReleasesReservation(t *testing.T) {
	vol := tempVol(t, 10<<30)
	set := volume.NewSet(vol)

	chosen, err := set.SelectForCreate(1<<30, func(vs []*volume.Volume) int { return 0 })
	require.NoError(t, err)

	_, err = container.Create(chosen, "scm-1", 12, 1<<30, "dn-1", "pipeline-1")
	require.NoError(t, err)

	// a second create of the same id collides on AlreadyExists; its
	// reservation must be rolled back.
	_, err = set.SelectForCreate(1<<30, func(vs []*volume.Volume) int { return 0 })
	require.NoError(t, err)
	_, err = container.Create(vol, "scm-1", 12, 1<<30, "dn-1", "pipeline-1")
	assert.Equal(t, fault.ErrContainerAlreadyExists, err)
	assert.Equal(t, uint64(9<<30), vol.FreeBytes(), "the failed create's reservation must be released back")
}

func TestPaths(t *testing.T) {
	root := container.ContainerRoot("/vol", "scm", 42)
	assert.Equal(t, filepath.Join("/vol", "scm", "42"), root)
	assert.Equal(t, filepath.Join(root, "metadata", "42.container"), container.DescriptorPath("/vol", "scm", 42))
	assert.Equal(t, filepath.Join(root, "metadata", "42-dn-container.db"), container.EmbeddedStorePath("/vol", "scm", 42))
	assert.Equal(t, filepath.Join(root, "chunks"), container.ChunksDir("/vol", "scm", 42))
	assert.Equal(t, "7_chunk_3", container.ChunkFileName(7, 3))
}
