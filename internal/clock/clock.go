package clock

import (
	"sync"
	"time"
)

// Clock samples wall time once per tick so every component in the tick
// observes the same instant.
type Clock struct {
	now   func() time.Time
	start time.Time
	cur   time.Time
	last  time.Time
	delta time.Duration
}

// New returns a Clock reading time from now. A nil now uses time.Now.
func New(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	t := now()
	return &Clock{now: now, start: t, cur: t, last: t}
}

// Update samples the time source and records the delta since the last sample.
func (c *Clock) Update() {
	c.last = c.cur
	c.cur = c.now()
	c.delta = c.cur.Sub(c.last)
	if c.delta < 0 {
		c.delta = 0
	}
}

func (c *Clock) Now() time.Time        { return c.cur }
func (c *Clock) Delta() time.Duration  { return c.delta }
func (c *Clock) Uptime() time.Duration { return c.cur.Sub(c.start) }

// DeltaMicros is the last tick's elapsed time in whole microseconds.
func (c *Clock) DeltaMicros() uint32 {
	return uint32(c.delta / time.Microsecond)
}

// Millis is the uptime in milliseconds, wrapping like a hardware counter.
func (c *Clock) Millis() uint32 {
	return uint32(c.Uptime() / time.Millisecond)
}

// Manual is a hand-driven time source for tests and simulations.
type Manual struct {
	mu sync.RWMutex
	t  time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{t: start}
}

func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.t
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.t = m.t.Add(d)
	m.mu.Unlock()
}
