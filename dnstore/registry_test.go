// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dnstore_test

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/dncore/dnstore"
	"github.com/bitmark-inc/dncore/fault"
)

func tempDBDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "dnstore-test-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestAcquireIsRefCounted(t *testing.T) {
	dir := tempDBDir(t)

	s1, err := dnstore.Acquire(1, dir)
	require.NoError(t, err)

	s2, err := dnstore.Acquire(1, dir)
	require.NoError(t, err)
	assert.Same(t, s1, s2, "second acquire should return the same handle")

	dnstore.Release(1)
	// still one outstanding reference
	_, err = dnstore.BeginExport(1)
	assert.Equal(t, fault.ErrStoreInUse, err)

	dnstore.Release(1)
	store, err := dnstore.BeginExport(1)
	require.NoError(t, err)
	require.NotNil(t, store)
	dnstore.EndExport(1)
}

func TestPutGetRoundTrip(t *testing.T) {
	dir := tempDBDir(t)

	store, err := dnstore.Acquire(2, dir)
	require.NoError(t, err)
	defer dnstore.Release(2)

	store.Put([]byte("k"), []byte("v"))
	require.NoError(t, store.FlushAndSync())

	value, err := store.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)

	has, err := store.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestExportRefusesNewAcquire(t *testing.T) {
	dir := tempDBDir(t)

	_, err := dnstore.Acquire(3, dir)
	require.NoError(t, err)
	dnstore.Release(3)

	_, err = dnstore.BeginExport(3)
	require.NoError(t, err)

	_, err = dnstore.Acquire(3, dir)
	assert.Equal(t, fault.ErrStoreInUse, err)

	dnstore.EndExport(3)

	// a fresh acquire re-opens the database after export completes
	store, err := dnstore.Acquire(3, dir)
	require.NoError(t, err)
	require.NotNil(t, store)
	dnstore.Release(3)
}
