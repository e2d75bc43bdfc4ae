// Package controller decides what a tube renders: it keeps the current and
// next TubeState, rolls new patterns, palettes and effects at phrase
// boundaries, obeys its master and broadcasts its own state when it has none.
package controller

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-tubes/internal/beats"
	"github.com/coreman2200/funtimes-tubes/internal/clock"
	"github.com/coreman2200/funtimes-tubes/internal/color"
	"github.com/coreman2200/funtimes-tubes/internal/effects"
	"github.com/coreman2200/funtimes-tubes/internal/metrics"
	"github.com/coreman2200/funtimes-tubes/internal/protocol"
	"github.com/coreman2200/funtimes-tubes/internal/render"
	"github.com/coreman2200/funtimes-tubes/internal/tube"
)

const (
	DefaultBrightness = 144
	DefaultFrameRate  = 300

	// Tubes at or above this id push display options to their peers.
	optionsMinID = 250
)

type Config struct {
	Period      time.Duration // broadcast period
	BootSilence time.Duration // wait for a master after boot
	Silence     time.Duration // master timeout after an accepted update
	FrameRate   int
	Brightness  uint8
	Debug       bool
}

func (c Config) withDefaults() Config {
	if c.Period <= 0 {
		c.Period = time.Second
	}
	if c.BootSilence <= 0 {
		c.BootSilence = 3 * c.Period
	}
	if c.Silence <= 0 {
		c.Silence = 8 * c.Period
	}
	if c.FrameRate <= 0 {
		c.FrameRate = DefaultFrameRate
	}
	return c
}

// Deps are the collaborators a PatternController drives.
type Deps struct {
	Clock    *clock.Clock
	Beats    *beats.Controller
	Radio    *protocol.Radio
	Pool     *render.Pool
	Effects  *effects.Effects
	Patterns *render.Registry
	Palettes *color.Palettes
	Defs     *effects.Registry
	Rand     *rand.Rand
	Metrics  metrics.Collector
}

// PatternController is owned by the tick loop and is not safe for
// concurrent use.
type PatternController struct {
	cfg Config

	clock    *clock.Clock
	beats    *beats.Controller
	radio    *protocol.Radio
	pool     *render.Pool
	effects  *effects.Effects
	patterns *render.Registry
	palettes *color.Palettes
	defs     *effects.Registry
	rng      *rand.Rand
	metrics  metrics.Collector
	log      zerolog.Logger

	options tube.Options
	energy  tube.Energy
	current tube.State
	next    tube.State

	graphicsTimer *clock.Timer
	updateTimer   *clock.Timer
	slaveTimer    *clock.Timer
	tap           *beats.TapTempo

	out       []color.RGB
	lastPhase beats.Phase
	pulse     beats.Pulse
	evicted   uint64
}

func New(cfg Config, d Deps, log zerolog.Logger) *PatternController {
	cfg = cfg.withDefaults()
	if d.Metrics == nil {
		d.Metrics = metrics.NewNoopCollector()
	}
	return &PatternController{
		cfg:           cfg,
		clock:         d.Clock,
		beats:         d.Beats,
		radio:         d.Radio,
		pool:          d.Pool,
		effects:       d.Effects,
		patterns:      d.Patterns,
		palettes:      d.Palettes,
		defs:          d.Defs,
		rng:           d.Rand,
		metrics:       d.Metrics,
		log:           log.With().Str("component", "controller").Logger(),
		options:       tube.Options{Debug: cfg.Debug, Brightness: cfg.Brightness},
		graphicsTimer: clock.NewTimer(d.Clock),
		updateTimer:   clock.NewTimer(d.Clock),
		slaveTimer:    clock.NewTimer(d.Clock),
		tap:           beats.NewTapTempo(d.Clock),
		out:           make([]color.RGB, d.Pool.Layout().Count),
	}
}

// Setup rolls the first transitions, greets the network and starts
// listening for a master.
func (c *PatternController) Setup() {
	c.updateBeat()
	c.rollPattern()
	c.rollPalette()
	c.rollEffect()
	c.next.PatternPhrase = 0
	c.next.PalettePhrase = 0
	c.next.EffectPhrase = 0

	_ = c.radio.Send(protocol.Hello, nil)
	c.slaveTimer.Start(c.cfg.BootSilence)
	c.updateTimer.Start(c.cfg.Period)
	c.log.Info().Uint8("id", c.radio.ID()).Msg("controller ready")
}

// Update runs one tick. It reports whether a new frame was rendered.
func (c *PatternController) Update() bool {
	if c.radio.MasterID() != 0 && c.slaveTimer.Ended() {
		c.log.Info().Msg("I have no master")
		c.radio.ClearMaster()
	}
	if c.tap.Expire() {
		c.log.Debug().Msg("tap tempo abandoned")
	}

	c.updateBeat()

	phrase := c.current.Phase.Phrase()
	if phrase >= c.next.PatternPhrase {
		c.loadPattern(c.next)
		c.next.PatternPhrase = phrase + c.rollPattern()
	}
	if phrase >= c.next.PalettePhrase {
		c.loadPalette(c.next)
		c.next.PalettePhrase = phrase + c.rollPalette()
	}
	if phrase >= c.next.EffectPhrase {
		c.loadEffect(c.next)
		c.next.EffectPhrase = phrase + c.rollEffect()
	}

	if c.radio.MasterID() == 0 && c.updateTimer.Ended() {
		c.SendUpdate()
	}

	c.radio.Receive(c)

	if c.graphicsTimer.Every(time.Second / time.Duration(c.cfg.FrameRate)) {
		c.renderFrame()
		return true
	}
	return false
}

func (c *PatternController) updateBeat() {
	c.current.Tempo = c.beats.Tempo()
	c.next.Tempo = c.current.Tempo
	c.current.Phase = c.beats.Phase()
	if e := tube.EnergyFor(c.current.Tempo); e != c.energy {
		c.energy = e
		c.log.Debug().Stringer("energy", e).Msg("energy changed")
	}
}

// SendUpdate broadcasts the current state followed by the next one. A failed
// update backs off by an id-derived delay so colliding tubes spread out.
func (c *PatternController) SendUpdate() {
	cur, _ := c.current.MarshalBinary()
	d := c.cfg.Period
	if err := c.radio.Send(protocol.Update, cur); err != nil {
		d = time.Duration(c.radio.ID()&0x7F) * time.Millisecond
		c.log.Debug().Err(err).Dur("backoff", d).Msg("update failed")
	}
	c.updateTimer.Snooze(d)
	if c.updateTimer.Ended() {
		c.updateTimer.Start(d)
	}

	phrase := c.current.Phase.Phrase()
	c.log.Debug().EmbedObject(c.current).
		Int("pattern_in", int(c.next.PatternPhrase)-int(phrase)).
		Int("palette_in", int(c.next.PalettePhrase)-int(phrase)).
		Int("effect_in", int(c.next.EffectPhrase)-int(phrase)).
		Msg("sent update")
	c.sendNext()
}

func (c *PatternController) sendNext() {
	b, _ := c.next.MarshalBinary()
	_ = c.radio.Send(protocol.Next, b)
}

// gatePattern substitutes the fallback for patterns the energy forbids.
func (c *PatternController) gatePattern(id uint8) uint8 {
	if c.patterns.Len() == 0 {
		return 0
	}
	id = uint8(int(id) % c.patterns.Len())
	if !c.patterns.Get(id).Control.Allows(c.energy) {
		return 0
	}
	return id
}

func (c *PatternController) loadPattern(s tube.State) {
	id := c.gatePattern(s.PatternID)
	if c.current.PatternID == id && c.current.Sync == s.Sync && c.pool.Live() > 0 {
		return
	}
	c.current.PatternPhrase = s.PatternPhrase
	c.current.PatternID = id
	c.current.Sync = s.Sync
	c.log.Info().Str("pattern", c.patterns.Get(id).Name).Uint8("id", id).Stringer("sync", s.Sync).Msg("change pattern")
	c.updateBackground()
}

func (c *PatternController) loadPalette(s tube.State) {
	id := s.PaletteID
	if n := c.palettes.Len(); n > 0 {
		id = uint8(int(id) % n)
	}
	if c.current.PaletteID == id && c.pool.Live() > 0 {
		return
	}
	c.current.PalettePhrase = s.PalettePhrase
	c.current.PaletteID = id
	c.log.Info().Str("palette", c.palettes.Get(id).Name).Uint8("id", id).Msg("change palette")
	c.updateBackground()
}

func (c *PatternController) loadEffect(s tube.State) {
	if c.current.Effect == s.Effect {
		return
	}
	c.current.Effect = s.Effect
	c.current.EffectPhrase = s.EffectPhrase
	c.effects.Load(s.Effect)
	c.log.Info().Stringer("effect", s.Effect.Mode).Stringer("pen", s.Effect.Pen).Msg("change effect")
}

// updateBackground fades out every strip and starts the current pattern and
// palette on the next pool slot.
func (c *PatternController) updateBackground() {
	c.pool.Load(render.Background{
		Pattern: c.patterns.Get(c.current.PatternID),
		Palette: c.palettes.Get(c.current.PaletteID),
		Sync:    c.current.Sync,
	})
}

func (c *PatternController) random8(lo, hi int) uint16 {
	return uint16(lo + c.rng.Intn(hi-lo))
}

// rollPattern picks the next pattern and returns how many phrases the
// current one should still run.
func (c *PatternController) rollPattern() uint16 {
	var id uint8
	if n := c.patterns.Len(); n > 0 {
		id = c.gatePattern(uint8(c.rng.Intn(n)))
	}
	c.next.PatternID = id
	c.next.Sync = c.randomSyncMode()

	switch c.patterns.Get(id).Control.Duration {
	case tube.Short:
		return c.random8(5, 15)
	case tube.Medium:
		return c.random8(15, 25)
	case tube.Long:
		return c.random8(35, 45)
	case tube.ExtraLong:
		return c.random8(70, 100)
	}
	return 5
}

func (c *PatternController) rollPalette() uint16 {
	if n := c.palettes.Len(); n > 0 {
		c.next.PaletteID = uint8(c.rng.Intn(n))
	}
	return c.random8(4, 40)
}

// rollEffect mostly picks no effect at all.
func (c *PatternController) rollEffect() uint16 {
	def := c.defs.Get(0)
	if n := c.defs.Len(); n > 0 {
		def = c.defs.Get(uint8(c.rng.Intn(n)))
	}
	if c.rng.Intn(256) < 200 || !def.Control.Allows(c.energy) {
		def = c.defs.Get(0)
	}
	c.next.Effect = def.Params

	switch def.Control.Duration {
	case tube.Short:
		return 3
	case tube.Medium:
		return 6
	case tube.Long:
		return 10
	case tube.ExtraLong:
		return 20
	}
	return 1
}

func (c *PatternController) randomSyncMode() tube.SyncMode {
	r := c.rng.Intn(128)
	switch {
	case r < 40:
		return tube.SinDrift
	case r < 65:
		return tube.Pulse
	case r < 72:
		return tube.Swing
	case r < 84:
		return tube.SwingDrift
	}
	return tube.All
}

func (c *PatternController) renderFrame() {
	phase := c.current.Phase
	c.pulse = beats.PulseBetween(c.lastPhase, phase)
	c.lastPhase = phase

	ms := c.clock.Millis()
	first := c.pool.Render(c.out, phase, c.pulse, ms, c.options.Brightness)
	c.effects.Update(first, phase, c.pulse)
	c.effects.Draw(c.out, ms)

	for ev := c.effects.Evicted(); c.evicted < ev; c.evicted++ {
		c.metrics.ParticleEvicted()
	}
	c.metrics.FrameRendered()
}

// OnCommand handles a dispatched radio command. It reports whether the
// command was obeyed.
func (c *PatternController) OnCommand(from uint8, cmd protocol.Command, payload []byte) bool {
	log := c.log.With().Uint8("from", from).Stringer("cmd", cmd).Logger()

	switch cmd {
	case protocol.Firework:
		log.Info().Msg("fireworks")
		c.acknowledge()
		return true

	case protocol.Reset:
		log.Info().Msg("reset")
		return true

	case protocol.Brightness:
		if len(payload) < 1 {
			return false
		}
		c.SetBrightness(payload[0])
		return true

	case protocol.Hello:
		log.Info().Msg("hello")
		c.updateTimer.Stop()
		return true

	case protocol.Options:
		var o tube.Options
		if err := o.UnmarshalBinary(payload); err != nil {
			log.Warn().Err(err).Msg("bad options")
			return false
		}
		c.options = o
		log.Info().Bool("debug", o.Debug).Uint8("brightness", o.Brightness).Msg("options")
		c.acknowledge()
		return true

	case protocol.Next:
		if from < c.radio.MasterID() {
			log.Debug().Uint8("master", c.radio.MasterID()).Msg("ignoring next")
			return false
		}
		var s tube.State
		if err := s.UnmarshalBinary(payload); err != nil {
			log.Warn().Err(err).Msg("bad next")
			return false
		}
		c.next = s
		log.Debug().EmbedObject(s).Msg("obeying next")
		return true

	case protocol.Update:
		if from < c.radio.MasterID() {
			log.Debug().Uint8("master", c.radio.MasterID()).Msg("ignoring update")
			return false
		}
		var s tube.State
		if err := s.UnmarshalBinary(payload); err != nil {
			log.Warn().Err(err).Msg("bad update")
			return false
		}
		log.Debug().EmbedObject(s).Msg("obeying update")

		c.slaveTimer.Start(c.cfg.Silence)
		c.beats.Sync(s.Tempo, s.Phase)
		c.updateBeat()
		c.loadPattern(s)
		c.loadPalette(s)
		c.loadEffect(s)
		return true
	}

	log.Warn().Msg("unknown command")
	return false
}

func (c *PatternController) acknowledge() {
	c.effects.Flash(color.White)
}

func (c *PatternController) SetBrightness(b uint8) {
	c.log.Info().Uint8("brightness", b).Msg("brightness")
	c.options.Brightness = b
	c.optionsChanged()
}

func (c *PatternController) SetDebug(on bool) {
	c.log.Info().Bool("debug", on).Msg("debugging")
	c.options.Debug = on
	c.optionsChanged()
}

func (c *PatternController) optionsChanged() {
	if c.radio.ID() < optionsMinID {
		return
	}
	b, _ := c.options.MarshalBinary()
	_ = c.radio.Send(protocol.Options, b)
}

func (c *PatternController) Current() tube.State   { return c.current }
func (c *PatternController) Next() tube.State      { return c.next }
func (c *PatternController) Options() tube.Options { return c.options }
func (c *PatternController) Energy() tube.Energy   { return c.energy }
func (c *PatternController) Pulse() beats.Pulse    { return c.pulse }

// Output is the physical frame last rendered. It is overwritten by the
// next render.
func (c *PatternController) Output() []color.RGB { return c.out }

func (c *PatternController) Radio() *protocol.Radio  { return c.radio }
func (c *PatternController) Beats() *beats.Controller { return c.beats }

func (c *PatternController) String() string {
	return fmt.Sprintf("tube %d (master %d) %s next %s", c.radio.ID(), c.radio.Master(), c.current, c.next)
}
