// Package effects spawns beat-triggered particles over the background and
// composites them onto the output buffer.
package effects

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-tubes/internal/beats"
	"github.com/coreman2200/funtimes-tubes/internal/color"
	"github.com/coreman2200/funtimes-tubes/internal/render"
	"github.com/coreman2200/funtimes-tubes/internal/tube"
)

// DefaultCapacity is the particle store size.
const DefaultCapacity = 20

// Effects owns the particle store and the active effect parameters.
type Effects struct {
	params    tube.EffectParams
	particles *Particles
	rng       *rand.Rand
	now       beats.Phase
	evicted   uint64
	log       zerolog.Logger
}

func New(capacity int, rng *rand.Rand, log zerolog.Logger) *Effects {
	return &Effects{
		particles: NewParticles(capacity),
		rng:       rng,
		log:       log.With().Str("component", "effects").Logger(),
	}
}

func (e *Effects) Params() tube.EffectParams { return e.params }
func (e *Effects) Particles() *Particles     { return e.particles }

// Evicted counts particles dropped because the store was full.
func (e *Effects) Evicted() uint64 { return e.evicted }

// Load switches the active effect. Live particles keep running.
func (e *Effects) Load(p tube.EffectParams) {
	e.params = p
	e.log.Debug().Stringer("effect", p.Mode).Stringer("pen", p.Pen).
		Stringer("beat", p.Beat).Uint8("chance", p.Chance).Msg("effect loaded")
}

// Update ages particles and runs one spawn trial for the active effect.
// bg is the first live strip, used for palette colors; it may be nil.
func (e *Effects) Update(bg *render.Strip, phase beats.Phase, pulse beats.Pulse) {
	e.now = phase
	e.particles.Update(phase)

	p := e.params
	if p.Mode == tube.None || p.Chance == 0 {
		return
	}
	if uint8(e.rng.Intn(256)) > p.Chance || !pulse.Has(p.Beat) {
		return
	}
	e.spawn(p.Mode, p.Pen, e.baseColor(bg))
}

// Draw composites live particles onto out.
func (e *Effects) Draw(out []color.RGB, ms uint32) {
	e.particles.Draw(out, ms)
}

// Flash adds a whole-strip acknowledge flash.
func (e *Effects) Flash(c color.RGB) {
	e.add(NewParticle(e.now, 0, c, 512, FlashAll))
}

// Glitter adds n glitter points at once.
func (e *Effects) Glitter(n int) {
	for i := 0; i < n; i++ {
		e.spawn(tube.Glitter, tube.Blend, color.White)
	}
}

func (e *Effects) baseColor(bg *render.Strip) color.RGB {
	if bg == nil {
		return color.White
	}
	return bg.PaletteColor(uint8(e.rng.Intn(256)), bg.Hue)
}

func (e *Effects) random16() uint16 { return uint16(e.rng.Intn(1 << 16)) }

func (e *Effects) spawn(mode tube.EffectMode, pen tube.PenMode, base color.RGB) {
	var p Particle
	switch mode {
	case tube.Glitter:
		p = NewParticle(e.now, e.random16(), color.White, 128, Point)
	case tube.Spark:
		p = NewParticle(e.now, e.random16(), color.White, 64, Point)
		r := int16(e.rng.Intn(256))
		if r > 128 {
			p.Velocity = r
		} else {
			p.Velocity = -(128 + r)
		}
	case tube.Beatbox:
		p = NewParticle(e.now, e.random16(), base, 256, Box)
	case tube.Bubble:
		p = NewParticle(e.now, e.random16(), base, 1024, Pop)
		p.Velocity = int16(e.rng.Intn(40) - 20)
	case tube.Flash:
		p = NewParticle(e.now, e.random16(), color.Blue, 512, FlashAll)
	case tube.Drop:
		p = NewParticle(e.now, 65535, color.HSV(uint8(e.rng.Intn(256)), 255, 255), 360, Point)
		p.Velocity = -500
		p.Gravity = -10
	default:
		return
	}
	p.Pen = pen
	e.add(p)
}

func (e *Effects) add(p Particle) {
	if e.particles.Add(p) {
		e.evicted++
	}
}
