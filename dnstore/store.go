// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dnstore

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/dncore/fault"
)

// Store wraps one container's embedded goleveldb database. All methods
// are safe for concurrent use; the write batch is guarded by mu so a
// flush can't race a put.
type Store struct {
	mu    sync.Mutex
	db    *leveldb.DB
	batch *leveldb.Batch
	path  string
}

func open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, &ldb_opt.Options{
		ErrorIfMissing: false,
	})
	if nil != err {
		return nil, err
	}
	return &Store{
		db:    db,
		batch: new(leveldb.Batch),
		path:  path,
	}, nil
}

// Put stages a key/value write into the pending batch.
func (s *Store) Put(key []byte, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch.Put(key, value)
}

// Delete stages a key removal into the pending batch.
func (s *Store) Delete(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch.Delete(key)
}

// Get reads a key, bypassing the pending (unflushed) batch.
func (s *Store) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

// Has reports whether a key is present, bypassing the pending batch.
func (s *Store) Has(key []byte) (bool, error) {
	return s.db.Has(key, nil)
}

// Iterator returns a raw iterator over the given key range.
func (s *Store) Iterator(r *ldb_util.Range) iterator.Iterator {
	return s.db.NewIterator(r, nil)
}

// FlushAndSync writes the pending batch with Sync:true and resets it.
// This is the "cheap, under the write lock" half of the two-phase
// discipline described in the container state machine's close path;
// the "expensive, without the lock" half is a plain FlushAndSync call
// made before the lock is taken.
func (s *Store) FlushAndSync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.db.Write(s.batch, &ldb_opt.WriteOptions{Sync: true})
	s.batch.Reset()
	if nil != err {
		return fault.ErrDbSyncError
	}
	return nil
}

// Compact triggers a full-range compaction, used before packing a
// container so the archive doesn't observe a mutating database.
func (s *Store) Compact() error {
	if err := s.db.CompactRange(ldb_util.Range{}); nil != err {
		return fault.ErrDbCompactError
	}
	return nil
}

// Path returns the on-disk directory backing this store.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) close() error {
	return s.db.Close()
}
