// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration parses a Lua configuration file and maps the
// table it returns onto a Go struct via gluamapper tags. Most of base
// Lua is available to the script, including reading files and getenv
// for environment-supplied values; dnconfig builds the datanode's
// typed Config on top of this.
package configuration
