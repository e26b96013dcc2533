// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package container

import (
	"os"

	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/dncore/dnstore"
	"github.com/bitmark-inc/dncore/fault"
)

// ExportSession holds the container's read lock (downgraded from a
// write lock, per §9's "downgrade during export" note) for the
// duration of archive streaming, and the compacted, quiesced embedded
// store handle if the container has one.
type ExportSession struct {
	c        *Container
	hadStore bool
}

// PrepareExport validates that the container is CLOSED or
// QUASI_CLOSED, compacts its embedded store if one is cached and marks
// it as exporting (refusing new handles) so the archive doesn't observe
// a mutating database, then downgrades the container's write lock to a
// read lock so concurrent reads may proceed while the archive streams.
// The store is closed and evicted when the session is closed. The
// caller must call Close on the returned session exactly once.
func (c *Container) PrepareExport() (*ExportSession, error) {
	c.lock.Lock()

	if c.desc.State != CLOSED && c.desc.State != QUASI_CLOSED {
		c.lock.Unlock()
		return nil, fault.ErrInvalidState
	}

	store, err := dnstore.BeginExport(c.desc.ContainerID)
	if nil != err {
		c.lock.Unlock()
		return nil, err
	}
	if nil != store {
		if err := store.Compact(); nil != err {
			dnstore.EndExport(c.desc.ContainerID)
			c.lock.Unlock()
			return nil, err
		}
	}

	c.lock.Downgrade()
	return &ExportSession{c: c, hadStore: nil != store}, nil
}

// MetadataDir returns the metadata directory to pack.
func (es *ExportSession) MetadataDir() string { return es.c.metadataDir() }

// ChunksDir returns the chunks directory to pack.
func (es *ExportSession) ChunksDir() string { return es.c.chunksDir() }

// DescriptorPath returns the descriptor file path to pack.
func (es *ExportSession) DescriptorPath() string { return es.c.descriptorPath() }

// Close releases the read lock and, if the store was evicted for
// export, allows it to be reopened by future acquires.
func (es *ExportSession) Close() {
	if es.hadStore {
		dnstore.EndExport(es.c.desc.ContainerID)
	}
	es.c.lock.RUnlock()
}

// Import creates a brand-new container directory tree at
// <volumeRoot>/<idSubdir>/<containerID> and writes a local descriptor
// derived from descriptorBytes (the bytes captured by unpacking an
// archive, per containerpacker.Unpack). It fails AlreadyExists if a
// descriptor is already present. Any failure deletes the metadata,
// chunks, and container-root directories.
func Import(volumeRoot string, idSubdir string, containerID uint64, descriptorBytes []byte) (*Container, error) {
	c := &Container{
		volumeRoot: volumeRoot,
		idSubdir:   idSubdir,
	}

	if _, err := os.Stat(c.descriptorPath()); nil == err {
		return nil, fault.ErrDescriptorAlreadyExists
	}

	parsed, err := parseDescriptorBytes(descriptorBytes)
	if nil != err {
		return nil, err
	}
	parsed.ContainerID = containerID
	c.desc = *parsed

	cleanup := func() {
		os.RemoveAll(c.chunksDir())
		os.RemoveAll(c.metadataDir())
		os.RemoveAll(ContainerRoot(volumeRoot, idSubdir, containerID))
	}

	if err := os.MkdirAll(c.metadataDir(), 0o750); nil != err {
		cleanup()
		return nil, err
	}

	if err := c.writeDescriptorLocked(); nil != err {
		cleanup()
		return nil, err
	}

	if err := c.rebuildCountersFromStore(); nil != err {
		cleanup()
		return nil, err
	}

	return c, nil
}

// rebuildCountersFromStore scans the embedded store (if present after
// unpacking) to recompute keyCount, per §4.3's import contract.
func (c *Container) rebuildCountersFromStore() error {
	if _, err := os.Stat(c.EmbeddedStorePath()); nil != err {
		return nil
	}
	store, err := dnstore.Acquire(c.desc.ContainerID, c.EmbeddedStorePath())
	if nil != err {
		return err
	}
	defer dnstore.Release(c.desc.ContainerID)

	iter := store.Iterator(&ldb_util.Range{})
	defer iter.Release()

	var count uint64
	for iter.Next() {
		count++
	}
	if err := iter.Error(); nil != err {
		return err
	}

	c.desc.KeyCount = count
	return c.writeDescriptorLocked()
}
