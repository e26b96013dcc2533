// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dnconfig_test

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/dncore/dnconfig"
)

const sampleConfig = `
return {
  node_id = "dn-1",

  volumes = {
    { root = "/data/v1", capacity = 1073741824 },
    { root = "/data/v2", capacity = 2147483648 },
  },

  retry = {
    max_retries = 5,
    delay_seconds = 2,
  },

  logging = {
    directory = ".",
    file = "test.log",
    size = 1048576,
    count = 5,
    levels = {
      N = "info",
    },
  },
}
`

func TestLoadAppliesFileOverDefaults(t *testing.T) {
	f, err := ioutil.TempFile("", "dnconfig-*.conf")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	_, err = f.WriteString(sampleConfig)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cfg, err := dnconfig.Load(f.Name())
	require.NoError(t, err)

	assert.Equal(t, "dn-1", cfg.NodeID)
	assert.Len(t, cfg.Volumes, 2)
	assert.Equal(t, uint64(1073741824), cfg.Volumes[0].Capacity)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay())
	assert.Equal(t, 1, cfg.SchemaVersion, "unset field keeps its default")
}
