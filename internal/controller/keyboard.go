package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-tubes/internal/beats"
	"github.com/coreman2200/funtimes-tubes/internal/protocol"
	"github.com/coreman2200/funtimes-tubes/internal/tube"
)

var (
	ErrRejected       = errors.New("controller: value out of range")
	ErrUnknownCommand = errors.New("controller: unknown command")
)

const brightnessStep = 5

const help = `b###.# - set bpm
s - start phrase
t - tap tempo
n## - push to beat
p### - patterns
m### - sync mode
c### - colors
e### - effects
%### - effect chance
i### - set ID
d - toggle debugging
l### - brightness
+/- - brighter/dimmer
f - fireworks
h - hello
g - glitter`

// ParseNumber reads a decimal like "128.5" into 8.8 fixed point. Leading
// spaces are skipped and parsing stops at the first non-digit. Values past
// 255.996 saturate at 0xFFFF.
func ParseNumber(s string) uint16 {
	s = strings.TrimLeft(s, " ")
	var n, d uint32
	i := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n < 1<<16 {
			n = n*10 + uint32(s[i]-'0')
		}
	}
	if i < len(s) && s[i] == '.' {
		div := uint32(1)
		for i++; i < len(s) && s[i] >= '0' && s[i] <= '9' && div < 10000; i++ {
			d = d*10 + uint32(s[i]-'0')
			div *= 10
		}
		d = d << 8 / div
	}
	if v := n<<8 + d; v < 0xFFFF {
		return uint16(v)
	}
	return 0xFFFF
}

// Command runs one line of the serial command surface. It returns text to
// show the operator, if any.
func (c *PatternController) Command(line string) (string, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", nil
	}
	arg := ParseNumber(line[1:])

	switch line[0] {
	case 'f':
		_ = c.radio.SendFrom(protocol.EphemeralID, protocol.Firework, nil)
		c.OnCommand(protocol.BroadcastID, protocol.Firework, nil)

	case 'i':
		if arg>>8 >= uint16(protocol.EphemeralID) {
			return "nope", ErrRejected
		}
		c.radio.ResetID(uint8(arg >> 8))

	case 'd':
		c.SetDebug(!c.options.Debug)

	case '-', '+':
		steps := len(line) - len(strings.TrimLeft(line, line[:1]))
		b := int(c.options.Brightness)
		if line[0] == '-' {
			b -= steps * brightnessStep
		} else {
			b += steps * brightnessStep
		}
		c.SetBrightness(uint8(min(max(b, 0), 255)))

	case 'l':
		if arg < 5<<8 {
			return "nope", ErrRejected
		}
		c.SetBrightness(uint8(arg >> 8))

	case 'b':
		if arg < 60<<8 {
			return "nope", ErrRejected
		}
		c.beats.SetTempo(beats.Tempo(arg))
		c.updateBeat()
		c.SendUpdate()

	case 's':
		c.beats.RestartPhrase()
		c.updateBeat()
		c.SendUpdate()

	case 't':
		t, done := c.tap.Tap()
		if !done {
			return fmt.Sprintf("tap %d %s", c.tap.Taps(), c.tap.Estimate()), nil
		}
		c.beats.SetTempo(t)
		c.updateBeat()
		c.SendUpdate()
		return t.String(), nil

	case 'n':
		c.beats.Nudge(uint8(arg >> 8))
		c.updateBeat()
		c.SendUpdate()

	case 'p':
		c.next.PatternPhrase = 0
		c.next.PatternID = uint8(arg >> 8)
		c.next.Sync = tube.All
		c.sendNext()

	case 'm':
		c.next.PatternPhrase = 0
		c.next.PatternID = c.current.PatternID
		c.next.Sync = tube.SyncMode(arg >> 8)
		c.sendNext()

	case 'c':
		c.next.PalettePhrase = 0
		c.next.PaletteID = uint8(arg >> 8)
		c.sendNext()

	case 'e':
		c.next.EffectPhrase = 0
		c.next.Effect = c.defs.Get(uint8(arg >> 8)).Params
		c.sendNext()

	case '%':
		c.next.EffectPhrase = 0
		c.next.Effect = c.current.Effect
		c.next.Effect.Chance = uint8(arg >> 8)
		c.sendNext()

	case 'h':
		c.OnCommand(protocol.BroadcastID, protocol.Hello, nil)

	case 'g':
		c.effects.Glitter(10)

	case '?':
		return help, nil

	default:
		return "", fmt.Errorf("%q: %w", line[0], ErrUnknownCommand)
	}
	return "", nil
}
