package game

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Countdown is a schedulable timeout with pause/resume, built on a quartz
// clock so tests can advance virtual time instead of waiting on wall-clock
// timers. The fire callback runs at most once per Start/Reset cycle, from
// the clock's timer goroutine.
type Countdown struct {
	clock quartz.Clock
	fire  func()

	mu        sync.Mutex
	remaining time.Duration
	startedAt time.Time
	running   bool
	timer     *quartz.Timer
}

// NewCountdown creates a stopped countdown holding d on the clock.
func NewCountdown(clock quartz.Clock, d time.Duration, fire func()) *Countdown {
	return &Countdown{clock: clock, remaining: d, fire: fire}
}

// Start begins (or resumes) the countdown from its remaining duration.
func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.remaining <= 0 {
		return
	}
	c.startedAt = c.clock.Now()
	c.running = true
	c.timer = c.clock.AfterFunc(c.remaining, c.expire)
}

// Pause stops the countdown, preserving the remaining duration.
func (c *Countdown) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.timer.Stop()
	c.remaining -= c.clock.Now().Sub(c.startedAt)
	if c.remaining < 0 {
		c.remaining = 0
	}
	c.running = false
}

// Resume is an alias for Start, for call sites that paired it with Pause.
func (c *Countdown) Resume() {
	c.Start()
}

// Reset stops the countdown and rearms it with d. It does not restart.
func (c *Countdown) Reset(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.timer.Stop()
		c.running = false
	}
	c.remaining = d
}

// Stop halts the countdown without firing.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.timer.Stop()
		c.remaining -= c.clock.Now().Sub(c.startedAt)
		if c.remaining < 0 {
			c.remaining = 0
		}
		c.running = false
	}
}

// Remaining returns the time left on the countdown.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return c.remaining
	}
	left := c.remaining - c.clock.Now().Sub(c.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the countdown has run out.
func (c *Countdown) Expired() bool {
	return c.Remaining() <= 0
}

func (c *Countdown) expire() {
	c.mu.Lock()
	c.remaining = 0
	c.running = false
	c.mu.Unlock()
	if c.fire != nil {
		c.fire()
	}
}
