package beats

import (
	"time"

	"github.com/coreman2200/funtimes-tubes/internal/clock"
)

const (
	maxTaps    = 16
	minTaps    = 5
	tapTimeout = 10 * time.Second
)

// TapTempo estimates a tempo from a run of button taps.
type TapTempo struct {
	timer *clock.Timer
	taps  int
	est   Tempo
}

func NewTapTempo(c *clock.Clock) *TapTempo {
	return &TapTempo{timer: clock.NewTimer(c)}
}

// Taps is the number of taps in the current run.
func (t *TapTempo) Taps() int { return t.taps }

// Estimate is the running tempo estimate, 0 until enough taps arrived.
func (t *TapTempo) Estimate() Tempo { return t.est }

// Tap records a tap. It returns the tempo and true on the final tap of a run.
func (t *TapTempo) Tap() (Tempo, bool) {
	if t.taps == 0 {
		t.timer.Start(0)
		t.est = 0
	}
	t.taps++

	if t.taps >= minTaps {
		ms := uint64(t.timer.SinceMark() / time.Millisecond)
		if ms > 0 {
			bpm := 60000 * 256 * uint64(t.taps-1) / ms
			switch {
			case bpm < 70*256:
				bpm *= 2
			case bpm > 140*256:
				bpm /= 2
			}
			if bpm > 0xFFFF {
				bpm = 0xFFFF
			}
			t.est = Tempo(bpm)
		}
	}

	if t.taps == maxTaps {
		t.taps = 0
		return t.est, t.est != 0
	}
	return 0, false
}

// Expire abandons a run that has been idle too long. It reports whether a
// run was dropped.
func (t *TapTempo) Expire() bool {
	if t.taps == 0 || t.timer.SinceMark() <= tapTimeout {
		return false
	}
	t.taps = 0
	t.est = 0
	return true
}
