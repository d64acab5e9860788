// Package testutil provides deterministic test doubles for the
// harness, chiefly a fake wall clock for exercising the timed
// executor's repetition policy without real sleeps.
package testutil

import (
	"sync"
	"time"
)

// StepClock is a deterministic time source: every call to Now advances
// the clock by a fixed step. Injected into bench.Options.Now, it makes
// the pass-loop stop decision a pure function of call count, so policy
// tests assert exact invocation counts instead of racing real time.
//
// Thread-safety: all methods are safe for concurrent use, though the
// harness itself is single-threaded.
type StepClock struct {
	mu    sync.Mutex
	now   time.Time
	step  time.Duration
	calls int
}

// NewStepClock creates a clock starting at start that advances by step
// on every Now call.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{now: start, step: step}
}

// Now returns the current fake time, then advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	c.calls++
	return t
}

// Calls returns how many times Now has been invoked.
func (c *StepClock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
