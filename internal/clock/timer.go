package clock

import "time"

// Timer is a deadline compared against the owning Clock on each tick.
type Timer struct {
	clock *Clock
	end   time.Time
	mark  time.Time
}

func NewTimer(c *Clock) *Timer {
	return &Timer{clock: c, end: c.Now(), mark: c.Now()}
}

// Start sets the deadline d after the current tick and marks the start time.
func (t *Timer) Start(d time.Duration) {
	t.end = t.clock.Now().Add(d)
	t.mark = t.clock.Now()
}

// Stop makes the timer end on the next tick.
func (t *Timer) Stop() {
	t.Start(0)
}

// Snooze pushes the deadline forward by d.
func (t *Timer) Snooze(d time.Duration) {
	t.end = t.end.Add(d)
}

func (t *Timer) Ended() bool {
	return t.clock.Now().After(t.end)
}

// Every reports true at most once per d, snoozing the deadline each time it
// fires. Late ticks fire immediately and do not accumulate.
func (t *Timer) Every(d time.Duration) bool {
	if !t.Ended() {
		return false
	}
	t.Snooze(d)
	if t.Ended() {
		t.end = t.clock.Now().Add(d)
	}
	return true
}

// SinceMark is the time elapsed since the last Start.
func (t *Timer) SinceMark() time.Duration {
	return t.clock.Now().Sub(t.mark)
}

func (t *Timer) Deadline() time.Time { return t.end }
