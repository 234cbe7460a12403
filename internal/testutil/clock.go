package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a thread-safe clock for tests that advances by one
// second on every call to Now.
//
// The first call returns the start time. Reset rewinds it so the same test
// can run twice with identical timestamps.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	ticks int64
}

// NewDeterministicClock creates a clock starting at start.
func NewDeterministicClock(start time.Time) *DeterministicClock {
	return &DeterministicClock{start: start}
}

// Now returns the current time and advances the clock.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.start.Add(time.Duration(c.ticks) * time.Second)
	c.ticks++
	return now
}

// Reset rewinds the clock to its start time.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
