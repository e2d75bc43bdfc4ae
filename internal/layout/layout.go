package layout

import "github.com/coreman2200/funtimes-tubes/internal/color"

// Layout maps physical LEDs onto a virtual strip buffer.
type Layout struct {
	Count   int  // physical LEDs
	Reverse bool // LED 0 is at the far end of the tube
	Doubled bool // virtual strip runs at 2:1 and is averaged down
}

// Virtual is the length of the virtual buffer patterns draw into.
func (l Layout) Virtual() int {
	if l.Doubled {
		return l.Count*2 + 1
	}
	return l.Count
}

// Index maps physical LED i to the pixel it samples in the virtual buffer.
func (l Layout) Index(i int) int {
	if l.Reverse {
		i = l.Count - 1 - i
	}
	if l.Doubled {
		return 2*i + 1
	}
	return i
}

// Sample returns the color physical LED i shows from virtual buffer v.
// Doubled layouts average the sampled pixel with both neighbours.
func (l Layout) Sample(v []color.RGB, i int) color.RGB {
	pos := l.Index(i)
	if pos < 0 || pos >= len(v) {
		return color.Black
	}
	c := v[pos]
	if !l.Doubled || pos == 0 || pos+1 >= len(v) {
		return c
	}
	c1 := v[pos-1].Lerp(c, 128)
	c = c.Lerp(v[pos+1], 128)
	return c.Lerp(c1, 128)
}
