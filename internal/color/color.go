package color

import "math"

// RGB is one 24-bit pixel.
type RGB struct {
	R, G, B uint8
}

var (
	Black  = RGB{}
	White  = RGB{255, 255, 255}
	Red    = RGB{255, 0, 0}
	Green  = RGB{0, 255, 0}
	Blue   = RGB{0, 0, 255}
	Yellow = RGB{255, 255, 0}
	Gray   = RGB{128, 128, 128}
)

// Scale dims every channel by s/256.
func (c RGB) Scale(s uint8) RGB {
	return RGB{Scale8(c.R, s), Scale8(c.G, s), Scale8(c.B, s)}
}

// Add is the saturating per-channel sum.
func (c RGB) Add(o RGB) RGB {
	return RGB{QAdd8(c.R, o.R), QAdd8(c.G, o.G), QAdd8(c.B, o.B)}
}

// Sub is the per-channel difference floored at zero.
func (c RGB) Sub(o RGB) RGB {
	return RGB{QSub8(c.R, o.R), QSub8(c.G, o.G), QSub8(c.B, o.B)}
}

// Or is the per-channel bitwise or used for additive compositing.
func (c RGB) Or(o RGB) RGB {
	return RGB{c.R | o.R, c.G | o.G, c.B | o.B}
}

func (c RGB) And(o RGB) RGB {
	return RGB{c.R & o.R, c.G & o.G, c.B & o.B}
}

func (c RGB) Invert() RGB {
	return RGB{^c.R, ^c.G, ^c.B}
}

// Luma approximates perceived brightness.
func (c RGB) Luma() uint8 {
	return Scale8(c.R, 54) + Scale8(c.G, 183) + Scale8(c.B, 18)
}

// Lerp moves from c toward o by amt/255.
func (c RGB) Lerp(o RGB, amt uint8) RGB {
	return RGB{lerp8(c.R, o.R, amt), lerp8(c.G, o.G, amt), lerp8(c.B, o.B, amt)}
}

func (c RGB) IsBlack() bool { return c == Black }

func lerp8(a, b, amt uint8) uint8 {
	if b > a {
		return a + Scale8(b-a, amt)
	}
	return a - Scale8(a-b, amt)
}

// HSV converts 8-bit hue, saturation and value into RGB.
func HSV(h, s, v uint8) RGB {
	r, g, b := hsvToRGB(float64(h)/256, float64(s)/255, float64(v)/255)
	return RGB{to8(r), to8(g), to8(b)}
}

func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - f*s)
	t := v * (1.0 - (1.0-f)*s)
	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

func to8(x float64) uint8 {
	return uint8(math.Round(clamp(x, 0, 1) * 255))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Fill sets every pixel of buf to c.
func Fill(buf []RGB, c RGB) {
	for i := range buf {
		buf[i] = c
	}
}

// FadeToBlack dims every pixel of buf by amount/256.
func FadeToBlack(buf []RGB, amount uint8) {
	keep := 255 - amount
	for i := range buf {
		buf[i] = buf[i].Scale(keep)
	}
}

// Rainbow fills buf with hues starting at hue and stepping by delta.
func Rainbow(buf []RGB, hue, delta uint8) {
	for i := range buf {
		buf[i] = HSV(hue, 240, 255)
		hue += delta
	}
}
