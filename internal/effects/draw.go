package effects

import (
	"github.com/coreman2200/funtimes-tubes/internal/color"
	"github.com/coreman2200/funtimes-tubes/internal/tube"
)

func draw(p *Particle, out []color.RGB, ms uint32) {
	if len(out) == 0 {
		return
	}
	age := p.AgeFrac()
	c := p.ColorAt(age)
	pos := int(color.Scale16(p.Position, uint16(len(out)-1)))

	switch p.Kind {
	case Point:
		Apply(p.Pen, &out[pos], c, ms)
	case FlashAll:
		for i := range out {
			Apply(p.Pen, &out[i], c, ms)
		}
	case Pop:
		s := color.Sin16(age / 2)
		if s < 0 {
			s = 0
		}
		radius := int(color.Scale16(uint16(s)*2, 8))
		drawRadius(p.Pen, out, pos, radius, c, true, ms)
	case Box:
		drawRadius(p.Pen, out, pos, 5, c, false, ms)
	}
}

func drawRadius(pen tube.PenMode, out []color.RGB, pos, radius int, c color.RGB, dim bool, ms uint32) {
	for i := 0; i < radius; i++ {
		cc := c
		if dim {
			cc = c.Scale(uint8((radius - i) * 255 / radius))
		}
		if y := pos - i; y >= 0 && y < len(out) {
			Apply(pen, &out[y], cc, ms)
		}
		if i == 0 {
			continue
		}
		if y := pos + i; y >= 0 && y < len(out) {
			Apply(pen, &out[y], cc, ms)
		}
	}
}

// Apply composites c onto dst with the given pen. White and Black force the
// pixel whatever c is.
func Apply(pen tube.PenMode, dst *color.RGB, c color.RGB, ms uint32) {
	switch pen {
	case tube.Draw:
		*dst = c
	case tube.Blend:
		*dst = dst.Or(c)
	case tube.Erase:
		*dst = dst.And(c.Invert())
	case tube.Invert:
		*dst = color.RGB{R: dst.R ^ c.R, G: dst.G ^ c.G, B: dst.B ^ c.B}
	case tube.Brighten:
		*dst = dst.Add(gray(c))
	case tube.Darken:
		*dst = dst.Sub(gray(c))
	case tube.Flicker:
		if ms&1 == 0 {
			*dst = dst.Add(gray(c))
		} else {
			*dst = dst.Sub(gray(c))
		}
	case tube.White:
		*dst = color.White
	case tube.Black:
		*dst = color.Black
	default:
		*dst = dst.Or(c)
	}
}

func gray(c color.RGB) color.RGB {
	l := c.Luma()
	return color.RGB{R: l, G: l, B: l}
}
