// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package volume

import (
	"sync"

	"github.com/bitmark-inc/dncore/fault"
)

// Volume is one storage volume a datanode places containers on.
type Volume struct {
	Root      string
	Capacity  uint64
	usedBytes uint64
}

// FreeBytes returns the volume's remaining capacity.
func (v *Volume) FreeBytes() uint64 {
	if v.usedBytes >= v.Capacity {
		return 0
	}
	return v.Capacity - v.usedBytes
}

// Reserve accounts for a new container of the given max size,
// failing DiskOutOfSpace if the volume doesn't have room.
func (v *Volume) Reserve(size uint64) error {
	if size > v.FreeBytes() {
		return fault.ErrDiskOutOfSpace
	}
	v.usedBytes += size
	return nil
}

// Release gives back size bytes of previously reserved capacity, e.g.
// after a container is deleted.
func (v *Volume) Release(size uint64) {
	if size > v.usedBytes {
		v.usedBytes = 0
		return
	}
	v.usedBytes -= size
}

// Set is the collection of volumes a datanode owns, guarded by its own
// read/write lock: container creation holds the read lock while
// choosing a volume (§5), and any volume-set-wide reconfiguration
// (e.g. adding/removing a volume) takes the write lock.
type Set struct {
	mu      sync.RWMutex
	volumes []*Volume
}

// NewSet builds a volume set from the given volumes.
func NewSet(volumes ...*Volume) *Set {
	return &Set{volumes: volumes}
}

// Add registers a new volume, taking the set's write lock.
func (s *Set) Add(v *Volume) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes = append(s.volumes, v)
}

// SelectForCreate holds the set's read lock while running choose over
// the current volume list and reserving size bytes on whichever volume
// it picks. choose receives a snapshot slice and returns an index into
// it, or -1 to indicate no suitable volume — the actual selection
// policy is supplied by the caller since it is out of this package's
// scope.
func (s *Set) SelectForCreate(size uint64, choose func([]*Volume) int) (*Volume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.volumes) == 0 {
		return nil, fault.ErrDiskOutOfSpace
	}

	idx := choose(s.volumes)
	if idx < 0 || idx >= len(s.volumes) {
		return nil, fault.ErrDiskOutOfSpace
	}

	chosen := s.volumes[idx]
	if err := chosen.Reserve(size); nil != err {
		return nil, err
	}
	return chosen, nil
}

// Volumes returns a snapshot of the current volume list.
func (s *Set) Volumes() []*Volume {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Volume, len(s.volumes))
	copy(out, s.volumes)
	return out
}
