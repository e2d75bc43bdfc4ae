package beats

import (
	"github.com/rs/zerolog"
)

// DefaultTempo is the tempo a Controller starts with.
const DefaultTempo Tempo = 120 << 8

// Controller turns elapsed microseconds into phase at the current tempo.
// It is owned by the tick loop and is not safe for concurrent use.
type Controller struct {
	tempo Tempo
	phase Phase
	accum uint64 // 24.8 microseconds not yet converted into fracs
	mpf   uint64

	// OnTempoChange is called after a sync that changed the tempo.
	OnTempoChange func(Tempo)

	log zerolog.Logger
}

// NewController returns a Controller at DefaultTempo and phase 0.
func NewController(log zerolog.Logger) *Controller {
	c := &Controller{log: log.With().Str("component", "beats").Logger()}
	c.Sync(DefaultTempo, 0)
	return c
}

func (c *Controller) Tempo() Tempo { return c.tempo }
func (c *Controller) Phase() Phase { return c.phase }

// MicrosPerFrac is the 24.8 fixed point conversion constant for the current tempo.
func (c *Controller) MicrosPerFrac() uint64 { return c.mpf }

// Advance accumulates elapsed microseconds and returns how many fracs the
// phase moved. A zero tempo holds the phase still.
func (c *Controller) Advance(micros uint32) uint32 {
	if c.mpf == 0 {
		return 0
	}
	c.accum += uint64(micros) << 8
	n := c.accum / c.mpf
	c.accum -= n * c.mpf
	c.phase += Phase(n)
	return uint32(n)
}

// Sync sets tempo and phase together and drops any partial frac. It reports
// whether the tempo changed.
func (c *Controller) Sync(t Tempo, phase Phase) bool {
	changed := t != c.tempo
	c.tempo = t
	c.phase = phase
	c.accum = 0
	c.mpf = microsPerFrac(t)
	if changed {
		c.log.Info().Stringer("bpm", t).Msg("tempo changed")
		if c.OnTempoChange != nil {
			c.OnTempoChange(t)
		}
	}
	return changed
}

// SetTempo changes the tempo, keeping the current phase.
func (c *Controller) SetTempo(t Tempo) bool {
	return c.Sync(t, c.phase)
}

// AdjustTempo moves the tempo by a signed 8.8 delta, clamped to a playable range.
func (c *Controller) AdjustTempo(delta int32) bool {
	t := int32(c.tempo) + delta
	if t < 1 {
		t = 1
	}
	if t > 0xFFFF {
		t = 0xFFFF
	}
	return c.Sync(Tempo(t), c.phase)
}

// RestartPhrase rewinds the phase to the most recent phrase boundary.
func (c *Controller) RestartPhrase() {
	c.phase = c.phase.PhraseStart()
	c.accum = 0
}

// SetPhasePosition moves to the start of beat within the current phrase,
// keeping the phrase count.
func (c *Controller) SetPhasePosition(beat uint8) {
	c.phase = c.phase.PhraseStart() | Phase(beat%BeatsPerPhrase)<<beatShift
	c.accum = 0
}

// Nudge realigns the beat to a tapped position in the phrase. A tap landing
// on the current beat means the node runs ahead and the tempo is pulled back;
// a tap on the following beat means it lags and the tempo is pushed forward.
func (c *Controller) Nudge(beat uint8) {
	beat %= BeatsPerPhrase
	cur := c.phase.BeatInPhrase()
	frac := int32(c.phase.Frac())
	switch beat {
	case cur:
		c.AdjustTempo(-frac * 2)
	case (cur + 1) % BeatsPerPhrase:
		c.AdjustTempo((255 - frac) * 2)
	}
	c.SetPhasePosition(beat)
}
