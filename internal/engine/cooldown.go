package engine

import (
	"sync"
	"time"
)

// CooldownTracker remembers when a signal was last emitted per pair. It is
// injected into the engine so tests can control time.
type CooldownTracker struct {
	mu       sync.Mutex
	last     map[string]time.Time
	interval time.Duration
	now      func() time.Time
}

// NewCooldownTracker builds a tracker with the given minimum interval.
func NewCooldownTracker(interval time.Duration) *CooldownTracker {
	return &CooldownTracker{
		last:     make(map[string]time.Time),
		interval: interval,
		now:      time.Now,
	}
}

// SetClock replaces the time source. Intended for tests.
func (c *CooldownTracker) SetClock(now func() time.Time) { c.now = now }

// Active reports whether the pair is still inside its cooldown window and,
// if so, how long remains.
func (c *CooldownTracker) Active(pair string) (bool, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	last, ok := c.last[pair]
	if !ok {
		return false, 0
	}
	elapsed := c.now().Sub(last)
	if elapsed >= c.interval {
		return false, 0
	}
	return true, c.interval - elapsed
}

// Mark records a signal emission for the pair.
func (c *CooldownTracker) Mark(pair string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[pair] = c.now()
}

// Reset clears the pair's cooldown.
func (c *CooldownTracker) Reset(pair string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.last, pair)
}
