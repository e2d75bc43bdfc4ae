package render

import (
	"fmt"

	"github.com/coreman2200/funtimes-tubes/internal/color"
	"github.com/coreman2200/funtimes-tubes/internal/tube"
)

// Pattern is a background animation. Draw fills the strip buffer for one
// frame from the strip's phase-derived inputs.
type Pattern struct {
	Name    string
	Draw    func(s *Strip)
	Control tube.Control
}

// Registry maps pattern ids to patterns. Ids are assigned in registration
// order and wrap modulo the registry length.
type Registry struct {
	list   []Pattern
	byName map[string]uint8
}

func NewRegistry() *Registry { return &Registry{byName: map[string]uint8{}} }

func (r *Registry) Register(p Pattern) uint8 {
	id := uint8(len(r.list))
	r.list = append(r.list, p)
	if _, ok := r.byName[p.Name]; !ok {
		r.byName[p.Name] = id
	}
	return id
}

func (r *Registry) Len() int { return len(r.list) }

// Get returns the pattern for id. An empty registry yields a black pattern.
func (r *Registry) Get(id uint8) Pattern {
	if len(r.list) == 0 {
		return Pattern{Name: "black", Draw: SolidBlack}
	}
	return r.list[int(id)%len(r.list)]
}

func (r *Registry) Lookup(name string) (uint8, error) {
	id, ok := r.byName[name]
	if !ok {
		return 0, fmt.Errorf("pattern not found: %s", name)
	}
	return id, nil
}

func (r *Registry) List() []string {
	out := make([]string, 0, len(r.list))
	for _, p := range r.list {
		out = append(out, p.Name)
	}
	return out
}

// DefaultPatterns is the built-in rotation. Noise is weighted by repetition;
// index 0 is the low-energy fallback.
func DefaultPatterns() *Registry {
	r := NewRegistry()
	short := tube.Control{Duration: tube.Short}
	medium := tube.Control{Duration: tube.Medium}
	long := tube.Control{Duration: tube.Long}

	r.Register(Pattern{"noise", Noise, short})
	r.Register(Pattern{"noise", Noise, short})
	r.Register(Pattern{"noise", Noise, medium})
	r.Register(Pattern{"noise", Noise, medium})
	r.Register(Pattern{"noise", Noise, medium})
	r.Register(Pattern{"noise", Noise, long})
	r.Register(Pattern{"noise", Noise, long})
	r.Register(Pattern{"rainbow", Rainbow, short})
	r.Register(Pattern{"confetti", Confetti, short})
	r.Register(Pattern{"confetti", Confetti, medium})
	r.Register(Pattern{"juggle", Juggle, short})
	r.Register(Pattern{"sinelon", Sinelon, short})
	r.Register(Pattern{"biwave", Biwave, medium})
	r.Register(Pattern{"stripes", Stripes, short})
	r.Register(Pattern{"stripes", Stripes, tube.Control{Duration: tube.Medium, Energy: tube.HighEnergy}})
	return r
}

func SolidBlack(s *Strip) { s.Fill(color.Black) }

func Rainbow(s *Strip) { color.Rainbow(s.LEDs, s.Hue, 7) }

func Confetti(s *Strip) {
	s.Darken(8)
	pos := s.Rand.Intn(len(s.LEDs))
	s.LEDs[pos] = s.LEDs[pos].Add(s.PaletteColor(uint8(s.Rand.Intn(64)), s.Hue))
}

// Sinelon sweeps a dot back and forth with a fading trail.
func Sinelon(s *Strip) {
	s.Darken(30)
	v := uint16(int32(color.Sin16(uint16(s.Phase<<5))) + 32768)
	pos := color.Scale16(v, uint16(len(s.LEDs)-1))
	s.LEDs[pos] = s.LEDs[pos].Add(s.HueColor(0))
}

// Stripes pulses palette stripes with the beat.
func Stripes(s *Strip) {
	beat := s.PhaseSin(64, 255)
	for i := range s.LEDs {
		s.LEDs[i] = color.Party.At(s.Hue+uint8(i*2), beat-s.Hue+uint8(i*10))
	}
}

// Juggle weaves eight dots in and out of sync with each other.
func Juggle(s *Strip) {
	s.Darken(20)
	var hue uint8
	last := uint16(len(s.LEDs) - 1)
	for i := 0; i < 8; i++ {
		pos := color.BeatSin16(uint16(i+7), s.Millis, 0, last)
		s.LEDs[pos] = s.LEDs[pos].Or(s.PaletteColor(hue, s.Hue))
		hue += 32
	}
}

// Biwave fills the span between two swinging sine positions.
func Biwave(s *Strip) {
	frame := uint16(SwingPhase(s.Phase%512) << 7)
	last := uint16(len(s.LEDs) - 1)
	l := uint16(int32(color.Sin16(frame+s.seed)) + 32768)
	r := uint16(int32(color.Sin16(frame+s.seed+4000)) + 32768)
	p1, p2 := color.Scale16(l, last), color.Scale16(r, last)
	if p2 < p1 {
		p1, p2 = p2, p1
	}
	s.Fill(color.Black)
	c := s.PaletteColor(s.Hue, 0)
	for p := p1; p <= p2; p++ {
		s.LEDs[p] = c
	}
}

// Noise smooths value noise drifting with the phase through the palette.
func Noise(s *Strip) {
	const scale = 17
	const smoothing = 240
	y := uint16(s.Phase >> 4)
	for i := range s.LEDs {
		data := color.Noise8(uint16(i*scale), y)
		data = color.QSub8(data, 16)
		data = color.QAdd8(data, color.Scale8(data, 39))
		s.noise[i] = color.Scale8(s.noise[i], smoothing) + color.Scale8(data, 255-smoothing)
		s.LEDs[i] = s.PaletteColor(s.noise[i], s.Hue)
	}
}
