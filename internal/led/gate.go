package led

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/coreman2200/funtimes-tubes/internal/clock"
	"github.com/coreman2200/funtimes-tubes/internal/color"
	"github.com/coreman2200/funtimes-tubes/internal/metrics"
)

const (
	DefaultFPS = 100
	fpsSlack   = 20
)

// Gate forwards frames to a Sink no faster than its rated refresh and
// monitors the refresh actually achieved. Frames offered too early are
// skipped, not queued.
type Gate struct {
	sink    Sink
	limiter *rate.Limiter
	clock   *clock.Clock
	target  int
	window  *clock.Timer
	frames  int
	fps     float64
	metrics metrics.Collector
	log     zerolog.Logger
}

func NewGate(s Sink, fps int, c *clock.Clock, m metrics.Collector, log zerolog.Logger) *Gate {
	if fps <= 0 {
		fps = DefaultFPS
	}
	g := &Gate{
		sink:    s,
		limiter: rate.NewLimiter(rate.Limit(fps), 1),
		clock:   c,
		target:  fps,
		window:  clock.NewTimer(c),
		metrics: m,
		log:     log.With().Str("component", "sink").Logger(),
	}
	g.window.Start(time.Second)
	return g
}

// Show passes px to the sink if the cadence allows. It reports whether the
// frame was shown.
func (g *Gate) Show(px []color.RGB) (bool, error) {
	now := g.clock.Now()
	g.measure()
	if !g.limiter.AllowN(now, 1) {
		return false, nil
	}
	g.frames++
	return true, g.sink.Show(px)
}

func (g *Gate) measure() {
	if !g.window.Ended() {
		return
	}
	elapsed := g.window.SinceMark()
	if elapsed > 0 {
		g.fps = float64(g.frames) / elapsed.Seconds()
	}
	g.frames = 0
	g.window.Start(time.Second)
	g.metrics.SinkFPS(g.fps)
	if g.fps < float64(g.target-fpsSlack) {
		g.log.Warn().Float64("fps", g.fps).Int("target", g.target).Msg("sink refresh behind")
	}
}

// FPS is the refresh measured over the last window.
func (g *Gate) FPS() float64 { return g.fps }

func (g *Gate) Sink() Sink { return g.sink }

func (g *Gate) Close() error { return g.sink.Close() }
