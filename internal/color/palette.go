package color

import "fmt"

// Stop is one anchor of a gradient palette.
type Stop struct {
	Pos   uint8
	Color RGB
}

// Palette is a named gradient sampled by a byte index.
type Palette struct {
	Name  string
	Stops []Stop
}

// At samples the gradient at index and scales it by brightness.
func (p Palette) At(index, brightness uint8) RGB {
	if len(p.Stops) == 0 {
		return Black
	}
	c := p.Stops[len(p.Stops)-1].Color
	if index <= p.Stops[0].Pos {
		c = p.Stops[0].Color
	} else {
		for i := 1; i < len(p.Stops); i++ {
			hi := p.Stops[i]
			if index > hi.Pos {
				continue
			}
			lo := p.Stops[i-1]
			span := uint16(hi.Pos) - uint16(lo.Pos)
			if span == 0 {
				c = hi.Color
				break
			}
			c = lo.Color.Lerp(hi.Color, uint8(uint16(index-lo.Pos)*255/span))
			break
		}
	}
	if brightness == 255 {
		return c
	}
	return c.Scale(brightness)
}

// Party is a bright rainbow-like palette used by the stripe pattern.
var Party = Palette{"party", []Stop{
	{0, RGB{85, 0, 171}},
	{32, RGB{132, 0, 124}},
	{64, RGB{181, 0, 75}},
	{96, RGB{229, 0, 27}},
	{128, RGB{232, 23, 0}},
	{160, RGB{184, 71, 0}},
	{192, RGB{171, 119, 0}},
	{224, RGB{194, 71, 0}},
	{255, RGB{85, 0, 171}},
}}

// Palettes is the palette registry, indexed by palette id.
type Palettes struct {
	list []Palette
}

// DefaultPalettes returns the built-in gradient collection.
func DefaultPalettes() *Palettes {
	return &Palettes{list: gradients}
}

func NewPalettes(list ...Palette) *Palettes {
	return &Palettes{list: list}
}

func (r *Palettes) Len() int { return len(r.list) }

// Get returns the palette for id, wrapping out-of-range ids.
func (r *Palettes) Get(id uint8) Palette {
	if len(r.list) == 0 {
		return Palette{}
	}
	return r.list[int(id)%len(r.list)]
}

// Lookup finds a palette by name.
func (r *Palettes) Lookup(name string) (uint8, error) {
	for i, p := range r.list {
		if p.Name == name {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("palette %q not found", name)
}
