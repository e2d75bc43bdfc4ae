package effects

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-tubes/internal/beats"
	"github.com/coreman2200/funtimes-tubes/internal/color"
	"github.com/coreman2200/funtimes-tubes/internal/tube"
)

func newEffects(capacity int) *Effects {
	return New(capacity, rand.New(rand.NewSource(7)), zerolog.Nop())
}

func TestParticleAging(t *testing.T) {
	p := NewParticle(100, 0, color.White, 200, Point)
	p.update(200)
	assert.Equal(t, beats.Phase(100), p.Age)
	assert.Equal(t, uint16(32768), p.AgeFrac())
	assert.False(t, p.Expired())

	p.update(300)
	assert.Equal(t, uint16(65535), p.AgeFrac())
	assert.False(t, p.Expired(), "a particle lives through age == lifetime")

	p.update(301)
	assert.True(t, p.Expired())
}

func TestParticleDimsWithAge(t *testing.T) {
	p := NewParticle(0, 0, color.White, 100, Point)
	young := p.ColorAt(0)
	old := p.ColorAt(60000)
	assert.Greater(t, young.R, old.R)
	assert.Equal(t, uint8(192), young.R)
}

func TestParticleMotionSaturates(t *testing.T) {
	p := NewParticle(0, 65000, color.White, 1000, Point)
	p.Velocity = 1000
	p.update(1)
	assert.Equal(t, uint16(65535), p.Position)

	p.Velocity = -32000
	p.Gravity = -32000
	p.update(2)
	assert.Equal(t, uint16(33535), p.Position)
	assert.Equal(t, int16(-32767), p.Velocity)
}

func TestParticlesEvictOldest(t *testing.T) {
	ps := NewParticles(3)
	for i := 0; i < 3; i++ {
		assert.False(t, ps.Add(NewParticle(beats.Phase(i), 0, color.White, 100, Point)))
	}
	assert.True(t, ps.Add(NewParticle(3, 0, color.White, 100, Point)))
	require.Equal(t, 3, ps.Len())
	assert.Equal(t, beats.Phase(1), ps.At(0).Born)
	assert.Equal(t, beats.Phase(3), ps.At(2).Born)
	assert.Equal(t, 3, ps.Cap())
}

func TestParticlesUpdateRemovesExpired(t *testing.T) {
	ps := NewParticles(4)
	ps.Add(NewParticle(0, 0, color.White, 10, Point))
	ps.Add(NewParticle(0, 0, color.White, 100, Point))
	ps.Add(NewParticle(0, 0, color.White, 20, Point))

	ps.Update(15)
	require.Equal(t, 2, ps.Len())
	assert.Equal(t, beats.Phase(100), ps.At(0).Lifetime)
	assert.Equal(t, beats.Phase(20), ps.At(1).Lifetime)

	ps.Clear()
	assert.Equal(t, 0, ps.Len())
}

func TestApplyPens(t *testing.T) {
	base := color.RGB{R: 100, G: 100, B: 100}
	c := color.RGB{R: 200, G: 0, B: 0}
	tests := []struct {
		pen  tube.PenMode
		ms   uint32
		want color.RGB
	}{
		{tube.Draw, 0, c},
		{tube.Blend, 0, color.RGB{R: 100 | 200, G: 100, B: 100}},
		{tube.Erase, 0, color.RGB{R: 100 &^ 200, G: 100, B: 100}},
		{tube.Invert, 0, color.RGB{R: 100 ^ 200, G: 100, B: 100}},
		{tube.Brighten, 0, base.Add(gray(c))},
		{tube.Darken, 0, base.Sub(gray(c))},
		{tube.Flicker, 0, base.Add(gray(c))},
		{tube.Flicker, 1, base.Sub(gray(c))},
		{tube.White, 0, color.White},
		{tube.Black, 0, color.Black},
	}
	for _, tt := range tests {
		t.Run(tt.pen.String(), func(t *testing.T) {
			dst := base
			Apply(tt.pen, &dst, c, tt.ms)
			assert.Equal(t, tt.want, dst)
		})
	}
}

func TestApplyForcedPensIgnoreParticleColor(t *testing.T) {
	dim := color.RGB{R: 60}
	dst := color.RGB{R: 10, G: 20, B: 30}
	Apply(tube.White, &dst, dim, 0)
	assert.Equal(t, color.White, dst)

	dst = color.RGB{R: 200, G: 200, B: 200}
	Apply(tube.Black, &dst, dim, 0)
	assert.Equal(t, color.Black, dst)

	dst = color.RGB{R: 200, G: 200, B: 200}
	Apply(tube.Black, &dst, color.Black, 0)
	assert.Equal(t, color.Black, dst)
}

func TestDrawKinds(t *testing.T) {
	out := make([]color.RGB, 11)

	p := NewParticle(0, 65535, color.White, 100, Point)
	draw(&p, out, 0)
	assert.NotEqual(t, color.Black, out[10])
	assert.Equal(t, color.Black, out[0])

	color.Fill(out, color.Black)
	f := NewParticle(0, 0, color.White, 100, FlashAll)
	draw(&f, out, 0)
	for _, c := range out {
		require.NotEqual(t, color.Black, c)
	}

	color.Fill(out, color.Black)
	b := NewParticle(0, 32768, color.White, 100, Box)
	draw(&b, out, 0)
	lit := 0
	for _, c := range out {
		if c != color.Black {
			lit++
		}
	}
	assert.Equal(t, 9, lit, "a box lights radius 5 on both sides")

	draw(&b, nil, 0)
}

func TestUpdateSpawnGating(t *testing.T) {
	tests := []struct {
		name   string
		params tube.EffectParams
		pulse  beats.Pulse
		spawn  bool
	}{
		{"no effect", tube.EffectParams{Mode: tube.None, Chance: 255}, 0xFF, false},
		{"zero chance", tube.EffectParams{Mode: tube.Glitter, Chance: 0}, 0xFF, false},
		{"continuous", tube.EffectParams{Mode: tube.Glitter, Chance: 255}, 0, true},
		{"gated miss", tube.EffectParams{Mode: tube.Glitter, Beat: beats.Measure, Chance: 255}, beats.Beat, false},
		{"gated hit", tube.EffectParams{Mode: tube.Glitter, Beat: beats.Measure, Chance: 255}, beats.Beat | beats.Measure, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEffects(DefaultCapacity)
			e.Load(tt.params)
			e.Update(nil, 10, tt.pulse)
			assert.Equal(t, tt.spawn, e.Particles().Len() == 1)
		})
	}
}

func TestSpawnersAndEviction(t *testing.T) {
	e := newEffects(5)
	modes := []tube.EffectMode{tube.Glitter, tube.Spark, tube.Beatbox, tube.Bubble, tube.Flash, tube.Drop}
	for _, m := range modes {
		e.Load(tube.EffectParams{Mode: m, Pen: tube.Draw, Chance: 255})
		e.Update(nil, 0, 0)
	}
	assert.Equal(t, 5, e.Particles().Len())
	assert.Equal(t, uint64(1), e.Evicted())
	last := e.Particles().At(4)
	assert.Equal(t, int16(-500), last.Velocity)
	assert.Equal(t, tube.Draw, last.Pen)

	out := make([]color.RGB, 16)
	e.Draw(out, 0)
}

func TestFlashAndGlitter(t *testing.T) {
	e := newEffects(DefaultCapacity)
	e.Update(nil, 1000, 0)
	e.Flash(color.Green)
	e.Glitter(3)
	require.Equal(t, 4, e.Particles().Len())
	assert.Equal(t, beats.Phase(1000), e.Particles().At(0).Born)
	assert.Equal(t, FlashAll, e.Particles().At(0).Kind)
}

func TestDefaultEffects(t *testing.T) {
	r := DefaultEffects()
	require.Greater(t, r.Len(), 1)
	assert.Equal(t, tube.None, r.Get(0).Params.Mode)
	assert.Equal(t, tube.LowEnergy, r.Get(0).Control.Energy)
	assert.Equal(t, r.Get(1), r.Get(uint8(r.Len()+1)))
	assert.Equal(t, "none", NewRegistry().Get(3).Name)
}
