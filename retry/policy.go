// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/bitmark-inc/dncore/fault"
)

// Outcome is the result of consulting a Policy about a failed attempt.
type Outcome int

const (
	// FAIL means the caller must give up and surface cause.
	FAIL Outcome = iota
	// RETRY means the caller should wait Policy.Delay and try again.
	RETRY
)

// Policy is the block read stream's retry policy (spec.md §4.8):
// every chunk/block read that fails with a retryable cause gets up to
// MaxRetries attempts, each separated by Delay.
type Policy struct {
	MaxRetries int
	Delay      time.Duration
}

// DefaultPolicy matches spec.md §4.8's defaults.
var DefaultPolicy = Policy{MaxRetries: 3, Delay: time.Second}

// Decide reports whether attempt should be retried for cause.
// SecurityError and any non-retryable error class never retry,
// regardless of attempt. attempt is 1-based: it counts the failed
// attempt just made, so Decide(cause, 1) is the decision taken after
// the first failure.
func (p Policy) Decide(cause error, attempt int) Outcome {
	if fault.IsErrSecurity(cause) {
		return FAIL
	}
	if !fault.Retryable(cause) {
		return FAIL
	}
	if attempt >= p.MaxRetries {
		return FAIL
	}
	return RETRY
}

// Counter tracks retry attempts across a sequence of reads on a single
// chunk/block stream, the way container.Container tracks read/write
// ops with counter.Counter: every successful read resets it to zero,
// so a stream that fails once, succeeds, then fails again still gets
// the full MaxRetries budget on the second failure.
type Counter struct {
	attempts int
}

// Attempts reports the number of consecutive failed attempts so far.
func (c *Counter) Attempts() int { return c.attempts }

// Fail records a failed attempt and asks the policy whether to retry.
func (c *Counter) Fail(p Policy, cause error) Outcome {
	c.attempts++
	return p.Decide(cause, c.attempts)
}

// Reset clears the failure count after a successful read.
func (c *Counter) Reset() { c.attempts = 0 }
