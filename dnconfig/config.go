// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dnconfig

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/dncore/configuration"
)

// VolumeConfig is one entry of the volume_roots table.
type VolumeConfig struct {
	Root     string `gluamapper:"root" json:"root"`
	Capacity uint64 `gluamapper:"capacity" json:"capacity"`
}

// RetryConfig mirrors retry.Policy's fields for Lua configurability.
type RetryConfig struct {
	MaxRetries   int `gluamapper:"max_retries" json:"max_retries"`
	DelaySeconds int `gluamapper:"delay_seconds" json:"delay_seconds"`
}

// Config is the datanode's top-level configuration, loaded the way the
// teacher loads its GlobalMockConfiguration in network/p2ptest/main.go:
// a Lua file mapped by field tag onto this struct.
type Config struct {
	NodeID        string               `gluamapper:"node_id" json:"node_id"`
	Volumes       []VolumeConfig       `gluamapper:"volumes" json:"volumes"`
	SchemaVersion int                  `gluamapper:"schema_version" json:"schema_version"`
	LayoutVersion int                  `gluamapper:"layout_version" json:"layout_version"`
	Retry         RetryConfig          `gluamapper:"retry" json:"retry"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// defaults matches the shape of the teacher's schema-version/log
// defaults in its Options struct, scaled down to what this repo needs.
func defaults() Config {
	return Config{
		SchemaVersion: 1,
		LayoutVersion: 1,
		Retry:         RetryConfig{MaxRetries: 3, DelaySeconds: 1},
		Logging: logger.Configuration{
			Directory: ".",
			File:      "dn-container.log",
			Size:      1024 * 1024,
			Count:     10,
			Levels: map[string]string{
				logger.DefaultTag: "info",
			},
		},
	}
}

// Load reads and parses fileName, filling in defaults for anything the
// file leaves unset.
func Load(fileName string) (*Config, error) {
	cfg := defaults()
	if err := configuration.ParseConfigurationFile(fileName, &cfg); nil != err {
		return nil, err
	}
	return &cfg, nil
}

// RetryDelay returns the configured retry delay as a time.Duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Retry.DelaySeconds) * time.Second
}
