// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package auth

// DefaultMaxLoginAttempts is the number of wrong passwords a single login
// invocation tolerates before locking out.
const DefaultMaxLoginAttempts = 5

// AttemptCounter counts failed password checks within one login invocation.
// It is never persisted; Login creates a fresh counter on every call.
type AttemptCounter struct {
	max    int
	failed int
}

// NewAttemptCounter creates a counter allowing max failures.
// Values below 1 fall back to DefaultMaxLoginAttempts.
func NewAttemptCounter(maxAttempts int) *AttemptCounter {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxLoginAttempts
	}
	return &AttemptCounter{max: maxAttempts}
}

// RecordFailure consumes one attempt and returns the attempts remaining.
func (c *AttemptCounter) RecordFailure() int {
	c.failed++
	return c.Remaining()
}

// Failed returns the number of failures recorded.
func (c *AttemptCounter) Failed() int {
	return c.failed
}

// Remaining returns the attempts left, never negative.
func (c *AttemptCounter) Remaining() int {
	if c.failed >= c.max {
		return 0
	}
	return c.max - c.failed
}

// Exhausted returns true once every attempt has been consumed.
func (c *AttemptCounter) Exhausted() bool {
	return c.failed >= c.max
}
