package tube

import (
	"fmt"

	"github.com/coreman2200/funtimes-tubes/internal/beats"
)

// SyncMode selects how a virtual strip bends the shared phase.
type SyncMode uint8

const (
	All SyncMode = iota
	SinDrift
	Pulse
	Swing
	SwingDrift
)

var syncNames = map[SyncMode]string{
	All:        "all",
	SinDrift:   "sindrift",
	Pulse:      "pulse",
	Swing:      "swing",
	SwingDrift: "swingdrift",
}

func (m SyncMode) String() string {
	if n, ok := syncNames[m]; ok {
		return n
	}
	return fmt.Sprintf("sync(%d)", uint8(m))
}

// Duration buckets how many phrases a pattern or effect stays.
type Duration uint8

const (
	Short     Duration = 0
	Medium    Duration = 10
	Long      Duration = 20
	ExtraLong Duration = 30
)

// Energy is the intensity a piece of content needs from the music.
type Energy uint8

const (
	LowEnergy    Energy = 0
	MediumEnergy Energy = 10
	HighEnergy   Energy = 20
)

var (
	highEnergyTempo   = beats.BPM(125)
	mediumEnergyTempo = beats.BPM(122)
)

// EnergyFor derives the available energy from the tempo.
func EnergyFor(t beats.Tempo) Energy {
	switch {
	case t >= highEnergyTempo:
		return HighEnergy
	case t >= mediumEnergyTempo:
		return MediumEnergy
	default:
		return LowEnergy
	}
}

func (e Energy) String() string {
	switch e {
	case LowEnergy:
		return "low"
	case MediumEnergy:
		return "medium"
	case HighEnergy:
		return "high"
	}
	return fmt.Sprintf("energy(%d)", uint8(e))
}

// Control is the scheduling metadata attached to a pattern or effect.
type Control struct {
	Duration Duration
	Energy   Energy
}

// Allows reports whether content with this control may play at energy e.
// Only a strictly higher requirement disqualifies.
func (c Control) Allows(e Energy) bool {
	return c.Energy <= e
}

// PenMode is the compositing rule used when drawing a particle.
type PenMode uint8

const (
	Draw PenMode = iota
	Blend
	Erase
	Invert
	Brighten
	Darken
	Flicker
	White
	Black
)

var penNames = [...]string{"draw", "blend", "erase", "invert", "brighten", "darken", "flicker", "white", "black"}

func (p PenMode) String() string {
	if int(p) < len(penNames) {
		return penNames[p]
	}
	return fmt.Sprintf("pen(%d)", uint8(p))
}

// EffectMode selects the particle spawner of an effect.
type EffectMode uint8

const (
	None EffectMode = iota
	Glitter
	Bubble
	Beatbox
	Spark
	Flash
	Drop
)

var effectNames = [...]string{"none", "glitter", "bubble", "beatbox", "spark", "flash", "drop"}

func (m EffectMode) String() string {
	if int(m) < len(effectNames) {
		return effectNames[m]
	}
	return fmt.Sprintf("effect(%d)", uint8(m))
}
