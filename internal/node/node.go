// Package node runs one tube: it ticks the clock, the beat clock, the radio
// and the pattern controller in order and pushes rendered frames to a sink.
package node

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-tubes/internal/beats"
	"github.com/coreman2200/funtimes-tubes/internal/clock"
	"github.com/coreman2200/funtimes-tubes/internal/color"
	"github.com/coreman2200/funtimes-tubes/internal/config"
	"github.com/coreman2200/funtimes-tubes/internal/controller"
	"github.com/coreman2200/funtimes-tubes/internal/effects"
	"github.com/coreman2200/funtimes-tubes/internal/layout"
	"github.com/coreman2200/funtimes-tubes/internal/led"
	"github.com/coreman2200/funtimes-tubes/internal/metrics"
	"github.com/coreman2200/funtimes-tubes/internal/protocol"
	"github.com/coreman2200/funtimes-tubes/internal/render"
)

// beatsPerReport is how often the debug overlay logs the phrase length.
const beatsPerReport = 32

// Status is a snapshot of the tube for /health and the simulator.
type Status struct {
	ID       uint8   `json:"id"`
	Master   uint8   `json:"master"`
	Phase    string  `json:"phase"`
	BPM      string  `json:"bpm"`
	Pattern  uint8   `json:"pattern"`
	Palette  uint8   `json:"palette"`
	Effect   string  `json:"effect"`
	Failures uint64  `json:"failures"`
	Restarts uint64  `json:"restarts"`
	Alive    bool    `json:"alive"`
	FPS      float64 `json:"fps"`
}

func (s Status) MarshalZerologObject(e *zerolog.Event) {
	e.Uint8("id", s.ID).Uint8("master", s.Master).Str("bpm", s.BPM).
		Uint8("pattern", s.Pattern).Uint8("palette", s.Palette)
}

// Node owns every per-tube component. Tick, Command and Close must be called
// from one goroutine; Status may be read from any.
type Node struct {
	clock *clock.Clock
	beats *beats.Controller
	radio *protocol.Radio
	ctl   *controller.PatternController
	gate  *led.Gate
	frame []color.RGB
	log   zerolog.Logger

	reportBeat uint32
	reportMark time.Time

	mu     sync.RWMutex
	status Status
}

// Build assembles and boots a tube from cfg. now may be nil for wall time.
func Build(cfg *config.Config, open protocol.Opener, sink led.Sink, now func() time.Time, m metrics.Collector, log zerolog.Logger) (*Node, error) {
	if m == nil {
		m = metrics.NewNoopCollector()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	clk := clock.New(now)

	radio, err := protocol.NewRadio(protocol.Config{
		Period:           cfg.Protocol.Period(),
		FailureThreshold: cfg.Protocol.FailureThreshold,
		RelayModulus:     cfg.Protocol.RelayModulus,
		RelayCache:       cfg.Protocol.RelayCache,
		Designated:       cfg.Master,
		RestartBase:      cfg.Protocol.RestartBase(),
		RestartMax:       cfg.Protocol.RestartMax(),
	}, open, clk, rng, m, log)
	if err != nil {
		return nil, fmt.Errorf("radio: %w", err)
	}

	pool, err := render.NewPool(cfg.Pool.Strips, layout.Layout{
		Count:   cfg.NumLEDs,
		Reverse: cfg.Reverse,
		Doubled: cfg.Doubled,
	}, rng)
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	pool.SetFadeSpeed(uint16(cfg.Pool.FadeSpeed))

	bc := beats.NewController(log)
	ctl := controller.New(controller.Config{
		Period:      cfg.Protocol.Period(),
		BootSilence: cfg.Protocol.BootSilence(),
		Silence:     cfg.Protocol.Silence(),
		FrameRate:   cfg.FPS,
		Brightness:  uint8(cfg.Brightness),
		Debug:       cfg.Debug,
	}, controller.Deps{
		Clock:    clk,
		Beats:    bc,
		Radio:    radio,
		Pool:     pool,
		Effects:  effects.New(cfg.Pool.Particles, rng, log),
		Patterns: render.DefaultPatterns(),
		Palettes: color.DefaultPalettes(),
		Defs:     effects.DefaultEffects(),
		Rand:     rng,
		Metrics:  m,
	}, log)

	n := &Node{
		clock:      clk,
		beats:      bc,
		radio:      radio,
		ctl:        ctl,
		gate:       led.NewGate(sink, cfg.SinkFPS, clk, m, log),
		frame:      make([]color.RGB, cfg.NumLEDs),
		log:        log.With().Str("component", "node").Logger(),
		reportMark: clk.Now(),
	}
	ctl.Setup()
	n.refresh()
	return n, nil
}

// Tick runs one pass of the main loop. It reports whether a frame reached
// the sink.
func (n *Node) Tick() (bool, error) {
	n.clock.Update()
	n.beats.Advance(n.clock.DeltaMicros())
	n.radio.Maintain()

	if !n.ctl.Update() {
		n.refresh()
		return false, nil
	}
	copy(n.frame, n.ctl.Output())
	if n.ctl.Options().Debug {
		n.overlay(n.frame)
	}
	shown, err := n.gate.Show(n.frame)
	n.refresh()
	if err != nil {
		return false, fmt.Errorf("show: %w", err)
	}
	return shown, nil
}

// overlay marks protocol state on the strip: the beat in the phrase and the
// local id in white, the master in green when it is us and yellow otherwise,
// and pending failures and past restarts in red on pixels 1 and 2.
func (n *Node) overlay(px []color.RGB) {
	if len(px) == 0 {
		return
	}
	phase := n.beats.Phase()
	if b := int(phase.BeatInPhrase()); b < len(px) {
		px[b] = color.White
	}
	id, master := n.radio.ID(), n.radio.Master()
	px[at(id, len(px))] = color.White
	if master == id {
		px[at(master, len(px))] = color.Green
	} else {
		px[at(master, len(px))] = color.Yellow
	}
	if n.radio.Failures() > 0 && len(px) > 1 {
		px[1] = color.Red
	}
	if n.radio.Restarts() > 0 && len(px) > 2 {
		px[2] = color.Red
	}

	if beat := phase.Beat(); beat/beatsPerReport != n.reportBeat/beatsPerReport {
		now := n.clock.Now()
		n.log.Debug().Dur("took", now.Sub(n.reportMark)).Uint32("beat", beat).Msg("phrase")
		n.reportBeat, n.reportMark = beat, now
	}
}

// at maps an id onto a strip of n pixels.
func at(id uint8, n int) int {
	return int(id) * n >> 8
}

// Command runs a keyboard line against the controller.
func (n *Node) Command(line string) (string, error) {
	out, err := n.ctl.Command(line)
	n.refresh()
	return out, err
}

func (n *Node) refresh() {
	cur := n.ctl.Current()
	s := Status{
		ID:       n.radio.ID(),
		Master:   n.radio.MasterID(),
		Phase:    cur.Phase.String(),
		BPM:      cur.Tempo.String(),
		Pattern:  cur.PatternID,
		Palette:  cur.PaletteID,
		Effect:   cur.Effect.Mode.String(),
		Failures: n.radio.Failures(),
		Restarts: n.radio.Restarts(),
		Alive:    n.radio.Alive(),
		FPS:      n.gate.FPS(),
	}
	n.mu.Lock()
	n.status = s
	n.mu.Unlock()
}

func (n *Node) Status() Status {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.status
}

// Frame is the last frame handed to the sink, debug overlay included.
func (n *Node) Frame() []color.RGB { return n.frame }

func (n *Node) Controller() *controller.PatternController { return n.ctl }
func (n *Node) Radio() *protocol.Radio                    { return n.radio }
func (n *Node) Clock() *clock.Clock                       { return n.clock }

// Close shuts down the sink and the radio, reporting every failure.
func (n *Node) Close() error {
	var result *multierror.Error
	if err := n.gate.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("sink: %w", err))
	}
	if err := n.radio.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("radio: %w", err))
	}
	return result.ErrorOrNil()
}
