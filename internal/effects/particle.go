package effects

import (
	"github.com/coreman2200/funtimes-tubes/internal/beats"
	"github.com/coreman2200/funtimes-tubes/internal/color"
	"github.com/coreman2200/funtimes-tubes/internal/tube"
)

// DefaultParticleBrightness is the 8.8 starting brightness of a particle.
const DefaultParticleBrightness = 192 << 8

// DrawKind selects how a particle is rendered.
type DrawKind uint8

const (
	Point DrawKind = iota
	FlashAll
	Pop
	Box
)

// Particle is a short-lived overlay entity. Position spans the whole strip
// as 0..65535 regardless of LED count.
type Particle struct {
	Born     beats.Phase
	Lifetime beats.Phase
	Age      beats.Phase

	Position uint16
	Velocity int16
	Gravity  int16

	Color      color.RGB
	Brightness uint16
	Pen        tube.PenMode
	Kind       DrawKind
}

// NewParticle starts a particle at phase now.
func NewParticle(now beats.Phase, pos uint16, c color.RGB, lifetime beats.Phase, kind DrawKind) Particle {
	return Particle{
		Born:       now,
		Lifetime:   lifetime,
		Position:   pos,
		Color:      c,
		Brightness: DefaultParticleBrightness,
		Pen:        tube.Blend,
		Kind:       kind,
	}
}

func (p *Particle) update(now beats.Phase) {
	p.Age = now - p.Born
	p.Position = udelta16(p.Position, p.Velocity)
	p.Velocity = delta16(p.Velocity, p.Gravity)
}

// Expired reports whether the particle outlived its lifetime.
func (p *Particle) Expired() bool { return p.Age > p.Lifetime }

// AgeFrac is age/lifetime scaled to 0..65535.
func (p *Particle) AgeFrac() uint16 {
	if p.Lifetime == 0 || p.Age >= p.Lifetime {
		return 65535
	}
	return uint16(uint64(p.Age) * 65536 / uint64(p.Lifetime))
}

// ColorAt dims the particle color as it ages.
func (p *Particle) ColorAt(ageFrac uint16) color.RGB {
	a := uint8(ageFrac >> 8)
	return p.Color.Scale(color.Scale8(uint8(p.Brightness>>8), 255-a))
}

func udelta16(x uint16, dx int16) uint16 {
	v := int32(x) + int32(dx)
	if v > 65535 {
		return 65535
	}
	if v < 0 {
		return 0
	}
	return uint16(v)
}

func delta16(x, dx int16) int16 {
	v := int32(x) + int32(dx)
	if v > 32767 {
		return 32767
	}
	if v < -32767 {
		return -32767
	}
	return int16(v)
}

// Particles is a fixed-capacity particle store. Adding to a full store
// evicts the oldest particle.
type Particles struct {
	items []Particle
}

func NewParticles(capacity int) *Particles {
	if capacity < 1 {
		capacity = 1
	}
	return &Particles{items: make([]Particle, 0, capacity)}
}

func (ps *Particles) Len() int      { return len(ps.items) }
func (ps *Particles) Cap() int      { return cap(ps.items) }
func (ps *Particles) At(i int) Particle { return ps.items[i] }

// Add stores p and reports whether the oldest particle was evicted for it.
func (ps *Particles) Add(p Particle) bool {
	if len(ps.items) < cap(ps.items) {
		ps.items = append(ps.items, p)
		return false
	}
	copy(ps.items, ps.items[1:])
	ps.items[len(ps.items)-1] = p
	return true
}

// Update ages every particle and drops the expired ones, keeping order.
func (ps *Particles) Update(now beats.Phase) {
	kept := ps.items[:0]
	for _, p := range ps.items {
		p.update(now)
		if p.Expired() {
			continue
		}
		kept = append(kept, p)
	}
	ps.items = kept
}

// Draw renders particles newest first into out.
func (ps *Particles) Draw(out []color.RGB, ms uint32) {
	for i := len(ps.items) - 1; i >= 0; i-- {
		draw(&ps.items[i], out, ms)
	}
}

func (ps *Particles) Clear() { ps.items = ps.items[:0] }
