package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockDelta(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	c := New(m.Now)

	m.Advance(1500 * time.Microsecond)
	c.Update()
	assert.Equal(t, uint32(1500), c.DeltaMicros())
	assert.Equal(t, uint32(1), c.Millis())

	c.Update()
	assert.Equal(t, uint32(0), c.DeltaMicros(), "no time passed between samples")
}

func TestTimerEndedAndSnooze(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	c := New(m.Now)
	tm := NewTimer(c)

	tm.Start(10 * time.Millisecond)
	m.Advance(10 * time.Millisecond)
	c.Update()
	assert.False(t, tm.Ended(), "deadline is exclusive")

	m.Advance(time.Millisecond)
	c.Update()
	require.True(t, tm.Ended())

	tm.Snooze(5 * time.Millisecond)
	assert.False(t, tm.Ended())
	assert.Equal(t, 11*time.Millisecond, tm.SinceMark())
}

func TestTimerEvery(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	c := New(m.Now)
	tm := NewTimer(c)

	fired := 0
	for i := 0; i < 100; i++ {
		m.Advance(time.Millisecond)
		c.Update()
		if tm.Every(10 * time.Millisecond) {
			fired++
		}
	}
	assert.InDelta(t, 10, fired, 1)
}

func TestTimerEveryDoesNotBurstAfterStall(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	c := New(m.Now)
	tm := NewTimer(c)

	m.Advance(time.Second)
	c.Update()
	assert.True(t, tm.Every(10*time.Millisecond))
	assert.False(t, tm.Every(10*time.Millisecond))
}
