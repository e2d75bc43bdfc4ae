// Package tube holds the replicated state a tube renders and broadcasts,
// plus its explicit little-endian wire encoding.
package tube

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-tubes/internal/beats"
)

// StateSize is the encoded length of a State.
const StateSize = 19

// OptionsSize is the encoded length of Options.
const OptionsSize = 2

var ErrShortBuffer = errors.New("tube: buffer too short")

// State is the unit of consensus between tubes: what to render now, or
// what to switch to at the given phrases.
type State struct {
	Tempo beats.Tempo
	Phase beats.Phase

	PatternID     uint8
	Sync          SyncMode
	PatternPhrase uint16

	PaletteID     uint8
	PalettePhrase uint16

	Effect       EffectParams
	EffectPhrase uint16
}

// EffectParams configures the particle overlay.
type EffectParams struct {
	Mode   EffectMode
	Pen    PenMode
	Beat   beats.Pulse
	Chance uint8
}

// MarshalBinary encodes s in its fixed wire layout.
func (s State) MarshalBinary() ([]byte, error) {
	b := make([]byte, StateSize)
	s.Put(b)
	return b, nil
}

// Put writes s into b, which must hold StateSize bytes.
func (s State) Put(b []byte) {
	_ = b[StateSize-1]
	binary.LittleEndian.PutUint16(b[0:], uint16(s.Tempo))
	binary.LittleEndian.PutUint32(b[2:], uint32(s.Phase))
	b[6] = s.PatternID
	b[7] = uint8(s.Sync)
	binary.LittleEndian.PutUint16(b[8:], s.PatternPhrase)
	binary.LittleEndian.PutUint16(b[10:], s.PalettePhrase)
	binary.LittleEndian.PutUint16(b[12:], s.EffectPhrase)
	b[14] = s.PaletteID
	b[15] = uint8(s.Effect.Mode)
	b[16] = uint8(s.Effect.Pen)
	b[17] = uint8(s.Effect.Beat)
	b[18] = s.Effect.Chance
}

// UnmarshalBinary decodes a State, ignoring trailing padding.
func (s *State) UnmarshalBinary(b []byte) error {
	if len(b) < StateSize {
		return fmt.Errorf("decode state: %d bytes: %w", len(b), ErrShortBuffer)
	}
	s.Tempo = beats.Tempo(binary.LittleEndian.Uint16(b[0:]))
	s.Phase = beats.Phase(binary.LittleEndian.Uint32(b[2:]))
	s.PatternID = b[6]
	s.Sync = SyncMode(b[7])
	s.PatternPhrase = binary.LittleEndian.Uint16(b[8:])
	s.PalettePhrase = binary.LittleEndian.Uint16(b[10:])
	s.EffectPhrase = binary.LittleEndian.Uint16(b[12:])
	s.PaletteID = b[14]
	s.Effect = EffectParams{
		Mode:   EffectMode(b[15]),
		Pen:    PenMode(b[16]),
		Beat:   beats.Pulse(b[17]),
		Chance: b[18],
	}
	return nil
}

func (s State) MarshalZerologObject(e *zerolog.Event) {
	e.Stringer("phase", s.Phase).
		Stringer("bpm", s.Tempo).
		Uint8("pattern", s.PatternID).
		Stringer("sync", s.Sync).
		Uint8("palette", s.PaletteID).
		Stringer("effect", s.Effect.Mode)
}

func (s State) String() string {
	return fmt.Sprintf("[%s %d:%d,%d,%d %s]",
		s.Phase, s.PatternID, s.Sync, s.PaletteID, s.Effect.Mode, s.Tempo)
}

// Options are the display settings a master-class tube may push to peers.
type Options struct {
	Debug      bool
	Brightness uint8
}

func (o Options) MarshalBinary() ([]byte, error) {
	b := []byte{0, o.Brightness}
	if o.Debug {
		b[0] = 1
	}
	return b, nil
}

func (o *Options) UnmarshalBinary(b []byte) error {
	if len(b) < OptionsSize {
		return fmt.Errorf("decode options: %d bytes: %w", len(b), ErrShortBuffer)
	}
	o.Debug = b[0] != 0
	o.Brightness = b[1]
	return nil
}
