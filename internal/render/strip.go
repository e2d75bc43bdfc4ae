package render

import (
	"errors"
	"math/rand"

	"github.com/coreman2200/funtimes-tubes/internal/beats"
	"github.com/coreman2200/funtimes-tubes/internal/color"
	"github.com/coreman2200/funtimes-tubes/internal/layout"
	"github.com/coreman2200/funtimes-tubes/internal/tube"
)

const (
	DefaultFadeSpeed  = 100
	DefaultBrightness = 192
)

var ErrNotDead = errors.New("render: strip is still live")

// Fade is the crossfade state of a Strip.
type Fade uint8

const (
	Dead Fade = iota
	FadingIn
	Steady
	FadingOut
)

func (f Fade) String() string {
	switch f {
	case Dead:
		return "dead"
	case FadingIn:
		return "fading-in"
	case Steady:
		return "steady"
	case FadingOut:
		return "fading-out"
	}
	return "unknown"
}

// Background is what a strip animates: a pattern, its palette and the
// phase transform applied before drawing.
type Background struct {
	Pattern Pattern
	Palette color.Palette
	Sync    tube.SyncMode
}

// Strip is an off-screen buffer holding one background. Strips are created
// once and reloaded in place; Dead marks a strip as reusable.
type Strip struct {
	LEDs       []color.RGB
	Brightness uint8

	// Per-frame inputs seen by the pattern.
	Phase  beats.Phase
	Beat   uint8
	Hue    uint8
	Pulse  beats.Pulse
	Millis uint32
	Rand   *rand.Rand

	bg    Background
	fade  Fade
	fader uint16
	speed uint16
	seed  uint16
	noise []uint8
}

// NewStrip allocates a dead strip of n virtual pixels.
func NewStrip(n int, rng *rand.Rand) *Strip {
	return &Strip{
		LEDs:  make([]color.RGB, n),
		noise: make([]uint8, n),
		Rand:  rng,
		fade:  Dead,
	}
}

func (s *Strip) Fade() Fade              { return s.fade }
func (s *Strip) Fader() uint16           { return s.fader }
func (s *Strip) Background() Background { return s.bg }
func (s *Strip) Live() bool              { return s.fade != Dead }

// Load starts fading in a new background. Only dead strips can be loaded.
func (s *Strip) Load(bg Background, speed uint16) error {
	if s.fade != Dead {
		return ErrNotDead
	}
	s.bg = bg
	s.fade = FadingIn
	s.fader = 0
	s.speed = speed
	s.Brightness = DefaultBrightness
	s.seed = uint16(s.Rand.Intn(1 << 16))
	color.Fill(s.LEDs, color.Black)
	for i := range s.noise {
		s.noise[i] = 0
	}
	return nil
}

// FadeOut starts retiring a live strip.
func (s *Strip) FadeOut(speed uint16) {
	if s.fade == Dead {
		return
	}
	s.fade = FadingOut
	s.speed = speed
}

// Kill retires the strip immediately.
func (s *Strip) Kill() {
	s.fade = Dead
	s.fader = 0
}

// Update transforms the phase, animates the pattern and advances the fade.
func (s *Strip) Update(phase beats.Phase, pulse beats.Pulse, ms uint32) {
	if s.fade == Dead {
		return
	}
	s.Millis = ms
	s.Phase = Transform(s.bg.Sync, phase, ms)
	if s.bg.Sync == tube.Pulse {
		s.Brightness = color.Scale8(color.BeatSin8(10, ms, 0, 255), 180) + 30
	}
	s.Hue = uint8(s.Phase >> 4)
	s.Beat = s.Phase.BeatInPhrase()
	s.Pulse = pulse

	if s.bg.Pattern.Draw != nil {
		s.bg.Pattern.Draw(s)
	}

	switch s.fade {
	case FadingIn:
		if 65535-s.fader < s.speed {
			s.fader = 65535
			s.fade = Steady
		} else {
			s.fader += s.speed
		}
	case FadingOut:
		if s.fader < s.speed {
			s.fader = 0
			s.fade = Dead
		} else {
			s.fader -= s.speed
		}
	}
}

// Blend composites the strip into out, scaled by its own brightness, the
// global brightness and the fade. The first strip overwrites, later ones OR.
func (s *Strip) Blend(out []color.RGB, l layout.Layout, brightness uint8, overwrite bool) {
	if s.fade == Dead {
		return
	}
	b := color.Scale8(s.Brightness, brightness)
	f := uint8(s.fader >> 8)
	for i := range out {
		c := l.Sample(s.LEDs, i).Scale(b).Scale(f)
		if overwrite {
			out[i] = c
		} else {
			out[i] = out[i].Or(c)
		}
	}
}

// Transform applies a sync mode to the shared phase.
func Transform(mode tube.SyncMode, phase beats.Phase, ms uint32) beats.Phase {
	switch mode {
	case tube.SinDrift:
		return phase + drift(ms)
	case tube.Swing:
		return SwingPhase(phase)
	case tube.SwingDrift:
		return SwingPhase(phase) + drift(ms)
	}
	return phase
}

func drift(ms uint32) beats.Phase {
	return beats.Phase(color.BeatSin16(5, ms, 0, 65535) >> 6)
}

// SwingPhase eases the phase within each four-beat window so motion
// bunches up around the window boundaries.
func SwingPhase(phase beats.Phase) beats.Phase {
	return phase&^0x3FF | beats.Phase(ease10(uint32(phase&0x3FF)))
}

// ease10 is a quadratic ease in and out over 0..1023.
func ease10(x uint32) uint32 {
	if x < 512 {
		return 2 * x * x / 1024
	}
	y := 1023 - x
	return 1023 - 2*y*y/1024
}

// PaletteColor samples the strip palette at c plus offset.
func (s *Strip) PaletteColor(c, offset uint8) color.RGB {
	return s.bg.Palette.At(c+offset, 255)
}

// HueColor is a saturated color at the strip hue plus offset.
func (s *Strip) HueColor(offset uint8) color.RGB {
	return color.HSV(s.Hue+offset, 255, 192)
}

func (s *Strip) Darken(amount uint8) { color.FadeToBlack(s.LEDs, amount) }
func (s *Strip) Fill(c color.RGB)    { color.Fill(s.LEDs, c) }

// PhaseSin maps the phase onto a sine between lo and hi, one cycle per 2 beats.
func (s *Strip) PhaseSin(lo, hi uint16) uint8 {
	return color.Scaled16To8(uint16(int32(color.Sin16(uint16(s.Phase<<7)))+32768), lo, hi)
}
