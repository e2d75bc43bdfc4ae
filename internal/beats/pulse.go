package beats

import "strings"

// Pulse is a bit mask of the beat subdivisions whose boundary was crossed
// between two phases. Each bit flips when the phase crosses a boundary of
// that granularity, so one comparison detects all of them at once.
type Pulse uint8

const (
	Continuous   Pulse = 0
	ThirtySecond Pulse = 1 << (iota - 1)
	Sixteenth
	Eighth
	Beat
	TwoBeats
	Measure
	TwoMeasures
	Phrase
)

// pulseShift is the shift of the lowest granularity: 32 fracs, an eighth of a beat.
const pulseShift = 5

// PulseBetween computes the pulse mask for the move from prev to cur.
func PulseBetween(prev, cur Phase) Pulse {
	var p Pulse
	for i := uint(0); i < 8; i++ {
		if cur>>(pulseShift+i) != prev>>(pulseShift+i) {
			p |= 1 << i
		}
	}
	return p
}

// Has reports whether any bit of gate fired. The Continuous gate always fires.
func (p Pulse) Has(gate Pulse) bool {
	return gate == Continuous || p&gate != 0
}

var pulseNames = [...]string{"32nd", "16th", "8th", "beat", "2beat", "measure", "2measure", "phrase"}

func (p Pulse) String() string {
	if p == 0 {
		return "continuous"
	}
	var parts []string
	for i, n := range pulseNames {
		if p&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}
