package render

import (
	"fmt"
	"math/rand"

	"github.com/coreman2200/funtimes-tubes/internal/beats"
	"github.com/coreman2200/funtimes-tubes/internal/color"
	"github.com/coreman2200/funtimes-tubes/internal/layout"
)

// Pool is the fixed set of strips backgrounds crossfade through. Loading
// fades out every live strip and reuses slots round-robin.
type Pool struct {
	strips []*Strip
	next   int
	layout layout.Layout
	speed  uint16
}

// NewPool allocates n strips sized for l. At least two strips are needed
// for a crossfade.
func NewPool(n int, l layout.Layout, rng *rand.Rand) (*Pool, error) {
	if n < 2 {
		return nil, fmt.Errorf("render: pool needs at least 2 strips, got %d", n)
	}
	if l.Count <= 0 {
		return nil, fmt.Errorf("render: invalid led count %d", l.Count)
	}
	p := &Pool{layout: l, speed: DefaultFadeSpeed}
	for i := 0; i < n; i++ {
		p.strips = append(p.strips, NewStrip(l.Virtual(), rng))
	}
	return p, nil
}

// SetFadeSpeed changes the fade step used by later loads.
func (p *Pool) SetFadeSpeed(speed uint16) { p.speed = speed }

func (p *Pool) Strips() []*Strip      { return p.strips }
func (p *Pool) Layout() layout.Layout { return p.layout }

// Live counts strips that are not dead.
func (p *Pool) Live() int {
	n := 0
	for _, s := range p.strips {
		if s.Live() {
			n++
		}
	}
	return n
}

// Load fades out everything live and fades bg in on the next slot. A slot
// that is still fading is skipped for a dead one, and if none is dead the
// slot is cut off.
func (p *Pool) Load(bg Background) *Strip {
	for _, s := range p.strips {
		s.FadeOut(p.speed)
	}
	s := p.strips[p.next]
	if s.Live() {
		for _, d := range p.strips {
			if !d.Live() {
				s = d
				break
			}
		}
	}
	if s.Live() {
		s.Kill()
	}
	_ = s.Load(bg, p.speed)
	p.next = (p.next + 1) % len(p.strips)
	return s
}

// Render updates every live strip and blends it into out. It returns the
// first live strip, or nil when nothing is live and out was cleared.
func (p *Pool) Render(out []color.RGB, phase beats.Phase, pulse beats.Pulse, ms uint32, brightness uint8) *Strip {
	var first *Strip
	for _, s := range p.strips {
		if !s.Live() {
			continue
		}
		s.Update(phase, pulse, ms)
		if !s.Live() {
			continue
		}
		if first == nil {
			first = s
		}
		s.Blend(out, p.layout, brightness, s == first)
	}
	if first == nil {
		color.Fill(out, color.Black)
	}
	return first
}
