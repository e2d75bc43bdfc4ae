package beats

import "fmt"

// Phase is a 24.8 fixed point musical position: the high bits count beats,
// the low 8 bits are the fraction of the current beat ("fracs").
type Phase uint32

const (
	FracsPerBeat   = 256
	BeatsPerPhrase = 16

	beatShift   = 8
	phraseShift = 12
	phraseMask  = 1<<phraseShift - 1
	fracMask    = FracsPerBeat - 1
)

// Phrase is the number of 16 beat phrases elapsed.
func (p Phase) Phrase() uint16 { return uint16(p >> phraseShift) }

// Beat is the absolute beat count.
func (p Phase) Beat() uint32 { return uint32(p) >> beatShift }

// BeatInPhrase is the beat index within the current phrase, 0..15.
func (p Phase) BeatInPhrase() uint8 { return uint8((p >> beatShift) % BeatsPerPhrase) }

// Frac is the position within the current beat, 0..255.
func (p Phase) Frac() uint8 { return uint8(p & fracMask) }

// PhraseStart truncates the phase to the most recent phrase boundary.
func (p Phase) PhraseStart() Phase { return p &^ phraseMask }

func (p Phase) String() string {
	return fmt.Sprintf("%d:%02d.%03d", p.Phrase(), p.BeatInPhrase(), p.Frac())
}

// Tempo is beats per minute in 8.8 fixed point.
type Tempo uint16

// BPM builds a Tempo from a whole number of beats per minute.
func BPM(bpm uint8) Tempo { return Tempo(uint16(bpm) << 8) }

// Float is the tempo as floating point bpm.
func (t Tempo) Float() float64 { return float64(t) / 256 }

// Whole is the integer part of the tempo.
func (t Tempo) Whole() uint8 { return uint8(t >> 8) }

// Hundredths is the fractional part of the tempo scaled to 0..99.
func (t Tempo) Hundredths() uint8 { return uint8(uint32(t&0xFF) * 100 / 256) }

func (t Tempo) String() string {
	return fmt.Sprintf("%d.%02dbpm", t.Whole(), t.Hundredths())
}

// microsPerFrac is the 24.8 count of microseconds in one frac at tempo t.
// A zero tempo returns 0, which Controller treats as "stopped".
func microsPerFrac(t Tempo) uint64 {
	if t == 0 {
		return 0
	}
	return 15360000000 / uint64(t)
}
