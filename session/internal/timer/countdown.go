// Package timer implements wall-clock countdowns that survive process
// suspension: remaining time is reduced by the measured gap between ticks,
// so a long pause is settled in a single tick.
package timer

import (
	"math"
	"time"
)

type state uint8

const (
	running state = iota
	fired
	cancelled
)

// Countdown is not safe for concurrent use; its owner serialises access.
type Countdown struct {
	deadline  time.Time
	remaining time.Duration
	lastTick  time.Time
	fn        func(now time.Time)
	state     state
}

func NewCountdown(now, deadline time.Time, fn func(now time.Time)) *Countdown {
	return &Countdown{
		deadline:  deadline,
		remaining: deadline.Sub(now),
		lastTick:  now,
		fn:        fn,
	}
}

// Tick advances the countdown to now and fires the callback once when it
// reaches zero. It reports whether this tick fired.
func (c *Countdown) Tick(now time.Time) bool {
	if !c.advance(now) {
		return false
	}
	c.fire(now)
	return true
}

func (c *Countdown) advance(now time.Time) bool {
	if c.state != running {
		return false
	}
	elapsed := now.Sub(c.lastTick)
	if elapsed < 0 {
		elapsed = 0
	}
	c.remaining -= elapsed
	c.lastTick = now
	return c.remaining <= 0
}

func (c *Countdown) fire(now time.Time) {
	if c.state != running {
		return
	}
	c.state = fired
	c.remaining = 0
	if c.fn != nil {
		c.fn(now)
	}
}

// Cancel stops the countdown. Calling it again, or after it fired, is a no-op.
func (c *Countdown) Cancel() {
	if c.state == running {
		c.state = cancelled
	}
}

func (c *Countdown) Running() bool   { return c.state == running }
func (c *Countdown) Fired() bool     { return c.state == fired }
func (c *Countdown) Cancelled() bool { return c.state == cancelled }

func (c *Countdown) Deadline() time.Time { return c.deadline }

// Remaining is as of the last tick and never negative.
func (c *Countdown) Remaining() time.Duration {
	if c.remaining < 0 || c.state != running {
		return 0
	}
	return c.remaining
}

// SecondsRemaining rounds up so that a countdown shows 1 until it fires.
func (c *Countdown) SecondsRemaining() int {
	return int(math.Ceil(c.Remaining().Seconds()))
}

// RemainingAt projects Remaining to now without advancing the countdown.
func (c *Countdown) RemainingAt(now time.Time) time.Duration {
	if c.state != running {
		return 0
	}
	elapsed := now.Sub(c.lastTick)
	if elapsed < 0 {
		elapsed = 0
	}
	if r := c.remaining - elapsed; r > 0 {
		return r
	}
	return 0
}
