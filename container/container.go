// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package container

import (
	"os"
	"time"

	"github.com/bitmark-inc/dncore/counter"
	"github.com/bitmark-inc/dncore/dnstore"
	"github.com/bitmark-inc/dncore/fault"
	"github.com/bitmark-inc/dncore/volume"
	"github.com/bitmark-inc/logger"
)

// SchemaVersionV1 is the only on-disk descriptor schema version.
const SchemaVersionV1 = "1"

// KeyValueContainer is currently the only container type.
const KeyValueContainer = "KeyValueContainer"

// Container is one datanode key/value container: its descriptor plus
// the read/write lock guarding every mutation.
type Container struct {
	lock RWLock
	desc Descriptor

	volumeRoot string
	idSubdir   string

	// readOps/writeOps/readBytes/writeBytes mirror
	// descriptor.ReadCount/WriteCount/ReadBytes/WriteBytes but are kept
	// as lock-free atomics so hot-path reads don't contend on the
	// container lock merely to bump a counter; they are folded back
	// into the descriptor on the next mutation that rewrites it.
	readOps    counter.Counter
	writeOps   counter.Counter
	readBytes  counter.Counter
	writeBytes counter.Counter

	log *logger.L
}

// Descriptor returns a copy of the container's current descriptor.
// Safe to call concurrently.
func (c *Container) Descriptor() Descriptor {
	c.lock.RLock()
	defer c.lock.RUnlock()
	d := c.desc
	d.Metadata = make(map[string]string, len(c.desc.Metadata))
	for k, v := range c.desc.Metadata {
		d.Metadata[k] = v
	}
	return d
}

// State returns the container's current state.
func (c *Container) State() State {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.desc.State
}

// ID returns the container's id.
func (c *Container) ID() uint64 {
	return c.desc.ContainerID
}

func (c *Container) descriptorPath() string {
	return DescriptorPath(c.volumeRoot, c.idSubdir, c.desc.ContainerID)
}

func (c *Container) metadataDir() string {
	return MetadataDir(c.volumeRoot, c.idSubdir, c.desc.ContainerID)
}

func (c *Container) chunksDir() string {
	return ChunksDir(c.volumeRoot, c.idSubdir, c.desc.ContainerID)
}

// EmbeddedStorePath returns the directory of this container's
// embedded key/value store.
func (c *Container) EmbeddedStorePath() string {
	return EmbeddedStorePath(c.volumeRoot, c.idSubdir, c.desc.ContainerID)
}

// Create makes a brand-new OPEN container at
// <vol.Root>/<idSubdir>/<containerID>, failing with AlreadyExists if a
// descriptor is already present there. vol must already have maxSize
// reserved against it (spec.md §5: creation holds the volume set's
// read lock and checks capacity while selecting a volume, via
// volume.Set.SelectForCreate) — on any failure here that reservation
// is rolled back with vol.Release so the volume's free space is
// accurate again.
func Create(vol *volume.Volume, idSubdir string, containerID uint64, maxSize uint64, originNodeID string, originPipelineID string) (*Container, error) {
	c := &Container{
		volumeRoot: vol.Root,
		idSubdir:   idSubdir,
		log:        logger.New("container"),
		desc: Descriptor{
			ContainerID:      containerID,
			ContainerType:    KeyValueContainer,
			SchemaVersion:    SchemaVersionV1,
			LayoutVersion:    1,
			State:            OPEN,
			MaxSize:          maxSize,
			OriginNodeID:     originNodeID,
			OriginPipelineID: originPipelineID,
			Metadata:         make(map[string]string),
		},
	}

	if _, err := os.Stat(c.descriptorPath()); nil == err {
		vol.Release(maxSize)
		return nil, fault.ErrContainerAlreadyExists
	}

	if err := os.MkdirAll(c.metadataDir(), 0o750); nil != err {
		vol.Release(maxSize)
		return nil, err
	}
	if err := os.MkdirAll(c.chunksDir(), 0o750); nil != err {
		vol.Release(maxSize)
		return nil, err
	}

	if err := WriteAtomic(c.descriptorPath(), &c.desc); nil != err {
		os.RemoveAll(c.chunksDir())
		os.RemoveAll(c.metadataDir())
		vol.Release(maxSize)
		return nil, err
	}

	return c, nil
}

// Open loads an existing container's descriptor from disk.
func Open(volumeRoot string, idSubdir string, containerID uint64) (*Container, error) {
	c := &Container{
		volumeRoot: volumeRoot,
		idSubdir:   idSubdir,
		log:        logger.New("container"),
	}
	d, err := Load(DescriptorPath(volumeRoot, idSubdir, containerID))
	if nil != err {
		return nil, err
	}
	c.desc = *d
	return c, nil
}

// writeDescriptorLocked rewrites the descriptor atomically. Caller
// must hold the write lock.
func (c *Container) writeDescriptorLocked() error {
	return WriteAtomic(c.descriptorPath(), &c.desc)
}

// transitionLocked applies newState, rewrites the descriptor, and
// rolls the in-memory state back on write failure unless the state is
// (or has become) UNHEALTHY, per §4.3 step 4. Caller must hold the
// write lock.
func (c *Container) transitionLocked(newState State) error {
	old := c.desc.State
	c.desc.State = newState
	if err := c.writeDescriptorLocked(); nil != err {
		if c.desc.State != UNHEALTHY {
			c.desc.State = old
		}
		return fault.ErrFileWriteError
	}
	return nil
}

// MarkForClose transitions OPEN -> CLOSING. It fails NotOpen from any
// other state, including CLOSED.
func (c *Container) MarkForClose() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.desc.State != OPEN {
		return fault.ErrNotOpen
	}
	return c.transitionLocked(CLOSING)
}

// closeLike performs the two-phase flush+fsync discipline from §4.3 and
// §5: an expensive flush without the container lock, then a cheap flush
// while holding it, immediately before recording the transition to
// target. The flushes are skipped for a container that has no embedded
// store yet (e.g. never written to).
func (c *Container) closeLike(target State) error {
	path := c.EmbeddedStorePath()
	var storeHandle interface {
		FlushAndSync() error
	}
	if _, err := os.Stat(path); nil == err {
		s, err := dnstore.Acquire(c.desc.ContainerID, path)
		if nil != err {
			return err
		}
		defer dnstore.Release(c.desc.ContainerID)
		storeHandle = s

		// expensive flush, taken before the container lock
		if err := s.FlushAndSync(); nil != err {
			return err
		}
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if nil != storeHandle {
		// cheap flush, covers writes interleaved between the two fsyncs
		if err := storeHandle.FlushAndSync(); nil != err {
			return err
		}
	}

	if c.desc.State == OPEN {
		if err := c.transitionLocked(CLOSING); nil != err {
			return err
		}
	}
	if c.desc.State != CLOSING {
		return fault.ErrNotOpen
	}
	return c.transitionLocked(target)
}

// Close transitions to CLOSED, requiring a successful flush+sync of
// the embedded store. It is legal to call directly from OPEN (the
// container passes through CLOSING first) as well as from CLOSING.
func (c *Container) Close() error {
	return c.closeLike(CLOSED)
}

// QuasiClose transitions to QUASI_CLOSED, taken when full
// quorum-certified close isn't possible. Same flush discipline as
// Close.
func (c *Container) QuasiClose() error {
	return c.closeLike(QUASI_CLOSED)
}

// MarkUnhealthy transitions unconditionally to UNHEALTHY from any
// non-terminal state.
func (c *Container) MarkUnhealthy() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.desc.State.terminal() {
		return fault.ErrInvalidState
	}
	return c.transitionLocked(UNHEALTHY)
}

// Delete transitions to DELETED and removes the container's on-disk
// tree. Legal only from CLOSED, QUASI_CLOSED, or UNHEALTHY.
func (c *Container) Delete() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.desc.State.deletable() {
		return fault.ErrInvalidState
	}

	if err := c.transitionLocked(DELETED); nil != err {
		return err
	}

	// Evict force-closes the embedded store regardless of outstanding
	// references, which is irregular enough to note in the
	// process-wide critical log — but not fatal enough to abort the
	// whole process, since other containers' stores are unaffected.
	if dnstore.Evict(c.desc.ContainerID) {
		fault.Criticalf("container %d: embedded store evicted with outstanding references during delete", c.desc.ContainerID)
	}

	if err := os.RemoveAll(c.chunksDir()); nil != err {
		return err
	}
	if err := os.RemoveAll(c.metadataDir()); nil != err {
		return err
	}
	return os.RemoveAll(ContainerRoot(c.volumeRoot, c.idSubdir, c.desc.ContainerID))
}

// Update merges patch into the container's metadata map. Permitted in
// OPEN by default; permitted in any other state only when force is
// true. On a descriptor write failure the prior metadata is restored.
func (c *Container) Update(patch map[string]string, force bool) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.desc.State != OPEN && !force {
		return fault.ErrUnsupportedRequest
	}

	previous := make(map[string]string, len(c.desc.Metadata))
	for k, v := range c.desc.Metadata {
		previous[k] = v
	}

	if nil == c.desc.Metadata {
		c.desc.Metadata = make(map[string]string)
	}
	for k, v := range patch {
		c.desc.Metadata[k] = v
	}

	if err := c.writeDescriptorLocked(); nil != err {
		c.desc.Metadata = previous
		return fault.ErrFileWriteError
	}
	return nil
}

// RecordBlockCommit sets the container's block-commit-sequence-id if
// seq is not less than the current value, keeping the id monotonically
// non-decreasing (§3 invariant), then rewrites the descriptor under the
// write lock.
func (c *Container) RecordBlockCommit(seq uint64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if seq < c.desc.BlockCommitSequenceID {
		return nil
	}
	old := c.desc.BlockCommitSequenceID
	c.desc.BlockCommitSequenceID = seq
	if err := c.writeDescriptorLocked(); nil != err {
		c.desc.BlockCommitSequenceID = old
		return fault.ErrFileWriteError
	}
	return nil
}

// IncrementReadOps bumps the lock-free read counters that track chunk
// reads served out of this container; FoldCounters later folds them
// into the persisted descriptor.
func (c *Container) IncrementReadOps(bytes uint64) {
	c.readOps.Increment()
	c.readBytes.Add(bytes)
}

// IncrementWriteOps is the write-path analogue of IncrementReadOps.
func (c *Container) IncrementWriteOps(bytes uint64) {
	c.writeOps.Increment()
	c.writeBytes.Add(bytes)
}

// FoldCounters folds the lock-free read/write operation counters into
// the descriptor's readCount/writeCount/readBytes/writeBytes fields and
// rewrites it. This keeps the hot path (IncrementReadOps/
// IncrementWriteOps) free of per-call descriptor rewrites or lock
// contention.
func (c *Container) FoldCounters() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.desc.ReadCount += c.readOps.Uint64()
	c.desc.WriteCount += c.writeOps.Uint64()
	c.desc.ReadBytes += c.readBytes.Uint64()
	c.desc.WriteBytes += c.writeBytes.Uint64()
	c.readOps = counter.Counter(0)
	c.writeOps = counter.Counter(0)
	c.readBytes = counter.Counter(0)
	c.writeBytes = counter.Counter(0)
	return c.writeDescriptorLocked()
}

// RecordScan stamps lastDataScanTimestamp with now and rewrites the
// descriptor.
func (c *Container) RecordScan(now time.Time) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	old := c.desc.LastDataScanTimestamp
	c.desc.LastDataScanTimestamp = now.Unix()
	if err := c.writeDescriptorLocked(); nil != err {
		c.desc.LastDataScanTimestamp = old
		return fault.ErrFileWriteError
	}
	return nil
}
