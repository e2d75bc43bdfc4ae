package color

// Noise8 is smooth two dimensional value noise over byte lattice cells,
// returning roughly 0..255. x and y carry 8 bits of fraction.
func Noise8(x, y uint16) uint8 {
	xi, yi := uint8(x>>8), uint8(y>>8)
	xf, yf := Ease8InOut(uint8(x)), Ease8InOut(uint8(y))

	a := lattice(xi, yi)
	b := lattice(xi+1, yi)
	c := lattice(xi, yi+1)
	d := lattice(xi+1, yi+1)

	top := lerp8(a, b, xf)
	bot := lerp8(c, d, xf)
	return lerp8(top, bot, yf)
}

// lattice hashes a cell corner into a stable pseudo-random byte.
func lattice(x, y uint8) uint8 {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ h>>13) * 1274126177
	return uint8(h ^ h>>16)
}
