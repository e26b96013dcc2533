// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dnstore

import (
	"sync"

	"github.com/bitmark-inc/dncore/fault"
)

// entry tracks one open Store and how many callers currently hold it.
type entry struct {
	store     *Store
	refs      int
	exporting bool
}

var registry = struct {
	sync.Mutex
	byContainer map[uint64]*entry
}{
	byContainer: make(map[uint64]*entry),
}

// Acquire opens (or reuses) the embedded store for containerID and
// increments its reference count. The caller must call Release exactly
// once for every successful Acquire.
func Acquire(containerID uint64, path string) (*Store, error) {
	registry.Lock()
	defer registry.Unlock()

	if e, ok := registry.byContainer[containerID]; ok {
		if e.exporting {
			return nil, fault.ErrStoreInUse
		}
		e.refs++
		return e.store, nil
	}

	store, err := open(path)
	if nil != err {
		return nil, err
	}
	registry.byContainer[containerID] = &entry{store: store, refs: 1}
	return store, nil
}

// Release drops one reference on containerID's store. The entry stays
// cached with the database open even once refs reaches zero, so the
// next Acquire reuses the same handle instead of reopening it; only
// EndExport and Evict actually close and evict an entry. This is what
// lets BeginExport claim a ref-zero-but-still-cached entry for
// compaction: a ref-zero entry is exactly the state an ordinary
// Acquire/Release pair leaves behind.
func Release(containerID uint64) {
	registry.Lock()
	defer registry.Unlock()

	e, ok := registry.byContainer[containerID]
	if !ok {
		return
	}
	e.refs--
}

// BeginExport marks containerID's cached entry as exporting, which
// refuses new Acquire calls until EndExport, and returns its store so a
// concurrent export can compact and stream the database without a
// writer reopening it underneath. The entry stays in the cache until
// EndExport. When no entry is cached it returns nil, nil and refuses
// nothing. It fails with ErrStoreInUse if the store still has
// outstanding references (i.e. some other goroutine is
// mid-Acquire/Release).
func BeginExport(containerID uint64) (*Store, error) {
	registry.Lock()
	defer registry.Unlock()

	e, ok := registry.byContainer[containerID]
	if !ok {
		return nil, nil
	}
	if e.refs > 0 {
		return nil, fault.ErrStoreInUse
	}
	e.exporting = true
	return e.store, nil
}

// EndExport closes and evicts the store used during BeginExport.
func EndExport(containerID uint64) {
	registry.Lock()
	defer registry.Unlock()

	e, ok := registry.byContainer[containerID]
	if !ok {
		return
	}
	e.store.close()
	delete(registry.byContainer, containerID)
}

// Evict force-closes and removes containerID's store regardless of
// reference count. Used by the delete path. Reports whether the entry
// still had outstanding references at eviction time, so the caller can
// decide whether that was irregular enough to note.
func Evict(containerID uint64) (hadOutstandingRefs bool) {
	registry.Lock()
	defer registry.Unlock()

	e, ok := registry.byContainer[containerID]
	if !ok {
		return false
	}
	hadOutstandingRefs = e.refs > 0
	e.store.close()
	delete(registry.byContainer, containerID)
	return hadOutstandingRefs
}
