// Package sim runs a flock of tubes over a shared lossy Air on a manual
// clock, so convergence can be watched faster than real time.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-tubes/internal/clock"
	"github.com/coreman2200/funtimes-tubes/internal/config"
	"github.com/coreman2200/funtimes-tubes/internal/led"
	"github.com/coreman2200/funtimes-tubes/internal/metrics"
	"github.com/coreman2200/funtimes-tubes/internal/node"
	"github.com/coreman2200/funtimes-tubes/internal/protocol"
	"github.com/coreman2200/funtimes-tubes/internal/transport"
)

// DefaultStep is the simulated time advanced per step.
const DefaultStep = time.Millisecond

type Options struct {
	Tubes   int
	Loss    float64
	Step    time.Duration
	Workers int // 0 uses one per CPU
}

// Sim steps every live tube once per simulated tick. Each tube is only ever
// touched by one worker at a time.
type Sim struct {
	air    *transport.Air
	manual *clock.Manual
	start  time.Time
	step   time.Duration
	pool   *workerpool.WorkerPool

	nodes []*node.Node
	sinks []*led.Memory
	live  []bool

	log zerolog.Logger
}

// New boots opt.Tubes tubes from cfg. Every tube gets its own seed derived
// from cfg.Seed so their ids differ.
func New(cfg *config.Config, opt Options, m metrics.Collector, log zerolog.Logger) (*Sim, error) {
	if opt.Tubes <= 0 {
		return nil, fmt.Errorf("%w: %d tubes", config.ErrInvalid, opt.Tubes)
	}
	if opt.Step <= 0 {
		opt.Step = DefaultStep
	}
	if opt.Workers <= 0 {
		opt.Workers = runtime.NumCPU()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Unix(0, 0)
	s := &Sim{
		air:    transport.NewAir(opt.Loss, rand.New(rand.NewSource(seed))),
		manual: clock.NewManual(start),
		start:  start,
		step:   opt.Step,
		pool:   workerpool.New(opt.Workers),
		log:    log.With().Str("component", "sim").Logger(),
	}
	open := func() (protocol.Transport, error) { return s.air.Join(), nil }
	for i := 0; i < opt.Tubes; i++ {
		c := *cfg
		c.Seed = seed + int64(i) + 1
		c.Master = false
		sink := led.NewMemory()
		n, err := node.Build(&c, open, sink, s.manual.Now, m, log.With().Int("tube", i).Logger())
		if err != nil {
			s.pool.Stop()
			return nil, fmt.Errorf("tube %d: %w", i, err)
		}
		s.nodes = append(s.nodes, n)
		s.sinks = append(s.sinks, sink)
		s.live = append(s.live, true)
	}
	return s, nil
}

// Step advances the clock by one step and ticks every live tube.
func (s *Sim) Step() error {
	s.manual.Advance(s.step)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result *multierror.Error
	)
	for i, n := range s.nodes {
		if !s.live[i] {
			continue
		}
		i, n := i, n
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			if _, err := n.Tick(); err != nil {
				mu.Lock()
				result = multierror.Append(result, fmt.Errorf("tube %d: %w", i, err))
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	return result.ErrorOrNil()
}

// Run steps for d of simulated time, calling report every interval with the
// simulated elapsed time. A zero interval never reports.
func (s *Sim) Run(ctx context.Context, d, interval time.Duration, report func(elapsed time.Duration)) error {
	end := s.Elapsed() + d
	next := s.Elapsed() + interval
	for s.Elapsed() < end {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(); err != nil {
			return err
		}
		if interval > 0 && report != nil && s.Elapsed() >= next {
			report(s.Elapsed())
			next += interval
		}
	}
	return nil
}

func (s *Sim) Elapsed() time.Duration { return s.manual.Now().Sub(s.start) }

// Drop switches tube i off, as if it left the installation.
func (s *Sim) Drop(i int) error {
	if !s.live[i] {
		return nil
	}
	s.live[i] = false
	s.log.Info().Int("tube", i).Uint8("id", s.nodes[i].Radio().ID()).Msg("tube dropped")
	return s.nodes[i].Close()
}

func (s *Sim) Nodes() []*node.Node { return s.nodes }

// Shown counts the frames tube i put on its strip.
func (s *Sim) Shown(i int) int { return s.sinks[i].Frames() }

// Statuses snapshots every live tube.
func (s *Sim) Statuses() []node.Status {
	var out []node.Status
	for i, n := range s.nodes {
		if s.live[i] {
			out = append(out, n.Status())
		}
	}
	return out
}

// Leaders is the tube each live tube follows: its observed master, or
// itself without one.
func (s *Sim) Leaders() []uint8 {
	var out []uint8
	for _, st := range s.Statuses() {
		if st.Master != 0 {
			out = append(out, st.Master)
		} else {
			out = append(out, st.ID)
		}
	}
	return out
}

// Converged reports whether every live tube follows the highest live id.
func (s *Sim) Converged() bool {
	var top uint8
	for _, st := range s.Statuses() {
		top = max(top, st.ID)
	}
	for _, l := range s.Leaders() {
		if l != top {
			return false
		}
	}
	return true
}

// Report logs the leader of every live tube.
func (s *Sim) Report(elapsed time.Duration) {
	ev := s.log.Info().Dur("elapsed", elapsed).Bool("converged", s.Converged())
	arr := zerolog.Arr()
	for _, st := range s.Statuses() {
		arr = arr.Object(st)
	}
	ev.Array("tubes", arr).Msg("flock")
}

// Close stops the workers and switches every live tube off.
func (s *Sim) Close() error {
	s.pool.StopWait()
	var result *multierror.Error
	for i := range s.nodes {
		if err := s.Drop(i); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
