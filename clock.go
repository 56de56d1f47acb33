package stepseq

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// clockSleepSlice bounds how long a single sleep inside BlockUntilNextTick
// lasts before the deadline and the current time are re-read. The deadline
// being waited on is not changed by UpdateTickTime, and the wait itself
// cannot be cancelled: it always runs until that deadline passes.
const clockSleepSlice = time.Millisecond

// Clock paces sequencer ticks against a deadline that advances by exactly
// one period per tick. It never recomputes the deadline from "now": a late
// caller gets the deadline it missed immediately, and the next deadline is
// still exactly one period past the one that just fired, regardless of how
// late the caller was. It is backed by a github.com/benbjohnson/clock.Clock
// so tests can swap in a *clock.Mock instead of sleeping on the wall clock.
type Clock struct {
	clock clock.Clock

	mu       sync.Mutex
	period   time.Duration
	deadline time.Time
}

// NewClock returns a Clock that paces ticks at period against the real wall
// clock.
func NewClock(period time.Duration) *Clock {
	return NewClockWithSource(period, clock.New())
}

// NewClockWithSource returns a Clock backed by an arbitrary clock.Clock,
// typically a *clock.Mock in tests.
func NewClockWithSource(period time.Duration, source clock.Clock) *Clock {
	return &Clock{clock: source, period: period}
}

// Start arms the clock: the first deadline is now + period.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = c.clock.Now().Add(c.period)
}

// UpdateTickTime changes the period used for subsequent deadlines. The
// deadline already scheduled by the previous Start/BlockUntilNextTick call
// still fires at its original time; only later deadlines use the new
// period.
func (c *Clock) UpdateTickTime(period time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.period = period
}

// BlockUntilNextTick blocks until the scheduled deadline passes, then
// advances the deadline by exactly one period. If the caller arrives after
// the deadline has already passed it returns immediately; it does not
// attempt to catch up by firing more than once for time lost beyond a
// single period.
func (c *Clock) BlockUntilNextTick() {
	for {
		c.mu.Lock()
		deadline := c.deadline
		c.mu.Unlock()

		now := c.clock.Now()
		if !now.Before(deadline) {
			break
		}

		remaining := deadline.Sub(now)
		if remaining > clockSleepSlice {
			remaining = clockSleepSlice
		}
		c.clock.Sleep(remaining)
	}

	c.mu.Lock()
	c.deadline = c.deadline.Add(c.period)
	c.mu.Unlock()
}

// Deadline returns the next scheduled tick deadline, mostly useful for
// tests.
func (c *Clock) Deadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deadline
}
