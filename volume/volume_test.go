// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package volume_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/dncore/fault"
	"github.com/bitmark-inc/dncore/volume"
)

func firstFit(size uint64) func([]*volume.Volume) int {
	return func(vols []*volume.Volume) int {
		for i, v := range vols {
			if v.FreeBytes() >= size {
				return i
			}
		}
		return -1
	}
}

func TestSelectForCreateReservesSpace(t *testing.T) {
	v1 := &volume.Volume{Root: "/v1", Capacity: 10 << 30}
	set := volume.NewSet(v1)

	chosen, err := set.SelectForCreate(1<<30, firstFit(1<<30))
	require.NoError(t, err)
	assert.Same(t, v1, chosen)
	assert.Equal(t, uint64(9<<30), v1.FreeBytes())
}

func TestSelectForCreateOutOfSpace(t *testing.T) {
	v1 := &volume.Volume{Root: "/v1", Capacity: 1 << 20}
	set := volume.NewSet(v1)

	_, err := set.SelectForCreate(1<<30, firstFit(1<<30))
	assert.Equal(t, fault.ErrDiskOutOfSpace, err)
}

func TestReleaseGivesBackCapacity(t *testing.T) {
	v1 := &volume.Volume{Root: "/v1", Capacity: 10 << 30}
	require.NoError(t, v1.Reserve(4<<30))
	v1.Release(4 << 30)
	assert.Equal(t, uint64(10<<30), v1.FreeBytes())
}
