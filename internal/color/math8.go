package color

import "math"

// Scale8 returns i scaled by s/256, keeping 255*255 at 255.
func Scale8(i, s uint8) uint8 {
	return uint8(uint16(i) * (1 + uint16(s)) >> 8)
}

// Scale16 returns i scaled by s/65536.
func Scale16(i, s uint16) uint16 {
	return uint16(uint32(i) * (1 + uint32(s)) >> 16)
}

func QAdd8(a, b uint8) uint8 {
	if s := uint16(a) + uint16(b); s < 255 {
		return uint8(s)
	}
	return 255
}

func QSub8(a, b uint8) uint8 {
	if a < b {
		return 0
	}
	return a - b
}

// Sin8 maps a byte angle to 0..255 with 128 at zero.
func Sin8(theta uint8) uint8 {
	return uint8(math.Round(127.5 + 127.5*math.Sin(float64(theta)*2*math.Pi/256)))
}

// Sin16 maps a 16-bit angle to -32767..32767.
func Sin16(theta uint16) int16 {
	return int16(math.Round(32767 * math.Sin(float64(theta)*2*math.Pi/65536)))
}

func Cos16(theta uint16) int16 { return Sin16(theta + 16384) }

// Beat16 is a sawtooth completing bpm cycles per minute at time ms.
// A bpm below 256 is whole beats per minute, otherwise 8.8 fixed point.
func Beat16(bpm uint16, ms uint32) uint16 {
	b := uint64(bpm)
	if b < 256 {
		b <<= 8
	}
	return uint16(uint64(ms) * b * 280 >> 16)
}

// BeatSin8 oscillates between lo and hi at bpm.
func BeatSin8(bpm uint16, ms uint32, lo, hi uint8) uint8 {
	return lo + Scale8(Sin8(uint8(Beat16(bpm, ms)>>8)), hi-lo)
}

// BeatSin16 oscillates between lo and hi at bpm.
func BeatSin16(bpm uint16, ms uint32, lo, hi uint16) uint16 {
	s := uint16(int32(Sin16(Beat16(bpm, ms))) + 32768)
	return lo + Scale16(s, hi-lo)
}

// Scaled16To8 maps v into lo..hi, truncated to a byte.
func Scaled16To8(v, lo, hi uint16) uint8 {
	return uint8(lo + Scale16(v, hi-lo))
}

// Ease8InOut is a quadratic ease in and out over a byte.
func Ease8InOut(i uint8) uint8 {
	j := i
	if j&0x80 != 0 {
		j = 255 - j
	}
	jj := Scale8(j, j) << 1
	if i&0x80 != 0 {
		jj = 255 - jj
	}
	return jj
}
