// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package container

// State is a container's lifecycle state.
type State int

const (
	OPEN State = iota
	CLOSING
	QUASI_CLOSED
	CLOSED
	UNHEALTHY
	DELETED
)

var stateNames = [...]string{
	OPEN:         "OPEN",
	CLOSING:      "CLOSING",
	QUASI_CLOSED: "QUASI_CLOSED",
	CLOSED:       "CLOSED",
	UNHEALTHY:    "UNHEALTHY",
	DELETED:      "DELETED",
}

func (s State) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// ParseState maps a descriptor's persisted state name back to a State.
func ParseState(name string) (State, bool) {
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return UNHEALTHY, false
}

// terminal reports whether no further transition is possible.
func (s State) terminal() bool {
	return s == DELETED
}

// deletable reports whether delete() may be called from this state.
func (s State) deletable() bool {
	return s == CLOSED || s == QUASI_CLOSED || s == UNHEALTHY
}
