package protocol

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/coreman2200/funtimes-tubes/internal/clock"
	"github.com/coreman2200/funtimes-tubes/internal/metrics"
)

var ErrNotAlive = errors.New("protocol: radio is down")

// Config tunes the radio. Zero values are replaced by defaults.
type Config struct {
	Period           time.Duration // broadcast period
	FailureThreshold int           // consecutive failures before a restart
	RelayModulus     int           // relay when r%RelayModulus == 0 and r >= id
	RelayCache       int           // recently relayed messages remembered
	Designated       bool          // boot with the designated master id
	RestartBase      time.Duration // first reopen retry delay
	RestartMax       time.Duration // reopen retry delay cap
}

func (c Config) withDefaults() Config {
	if c.Period <= 0 {
		c.Period = time.Second
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 100
	}
	if c.RelayModulus <= 0 {
		c.RelayModulus = 3
	}
	if c.RelayCache <= 0 {
		c.RelayCache = 64
	}
	if c.RestartBase <= 0 {
		c.RestartBase = 250 * time.Millisecond
	}
	if c.RestartMax <= 0 {
		c.RestartMax = 30 * time.Second
	}
	return c
}

type relayKey struct {
	origin uint8
	cmd    Command
	crc    uint16
}

// Radio implements the leaderless sync protocol on top of a Transport:
// id assignment and collision healing, master inference, relaying and
// send failure escalation.
type Radio struct {
	cfg    Config
	open   Opener
	tr     Transport
	alive  bool
	closed bool

	id     uint8
	master uint8

	failures uint64
	restarts uint64

	lastDirect time.Time
	relayed    *lru.Cache[relayKey, struct{}]
	backoff    retry.Backoff
	retryAt    time.Time

	clock   *clock.Clock
	rng     *rand.Rand
	metrics metrics.Collector
	log     zerolog.Logger
}

// NewRadio assigns an id and opens the transport. A transport that fails to
// open leaves the radio down with a reopen scheduled; it is not an error.
func NewRadio(cfg Config, open Opener, c *clock.Clock, rng *rand.Rand, m metrics.Collector, log zerolog.Logger) (*Radio, error) {
	cfg = cfg.withDefaults()
	cache, err := lru.New[relayKey, struct{}](cfg.RelayCache)
	if err != nil {
		return nil, fmt.Errorf("relay cache: %w", err)
	}
	r := &Radio{
		cfg:     cfg,
		open:    open,
		relayed: cache,
		clock:   c,
		rng:     rng,
		metrics: m,
		log:     log.With().Str("component", "radio").Logger(),
	}
	if cfg.Designated {
		r.ResetID(DesignatedID)
	} else {
		r.ResetID(0)
	}
	r.reopen()
	return r, nil
}

func (r *Radio) ID() uint8 { return r.id }

// MasterID is the observed master, 0 when none.
func (r *Radio) MasterID() uint8 { return r.master }

// Master is the tube this radio currently follows: the observed master,
// or itself when none is observed.
func (r *Radio) Master() uint8 {
	if r.master == 0 {
		return r.id
	}
	return r.master
}

func (r *Radio) Alive() bool      { return r.alive }
func (r *Radio) Failures() uint64 { return r.failures }
func (r *Radio) Restarts() uint64 { return r.restarts }
func (r *Radio) Period() time.Duration {
	return r.cfg.Period
}

// ResetID takes a new id, random within the normal range when id is 0 or
// the ephemeral id. A tube that outranks its master stops following it.
func (r *Radio) ResetID(id uint8) {
	if id == BroadcastID || id == EphemeralID {
		old := r.id
		for id == BroadcastID || id == EphemeralID || id == old {
			id = uint8(minTubeID + r.rng.Intn(maxTubeID-minTubeID))
		}
	}
	r.id = id
	r.log.Info().Uint8("id", id).Msg("tube id set")
	if r.id > r.master {
		r.setMaster(0)
	}
}

// ClearMaster forgets the observed master after a silence.
func (r *Radio) ClearMaster() {
	if r.master == 0 {
		return
	}
	r.log.Info().Uint8("master", r.master).Msg("master went silent")
	r.setMaster(0)
}

func (r *Radio) setMaster(id uint8) {
	if id == r.master {
		return
	}
	r.master = id
	r.metrics.MasterChanged(id)
}

// Send broadcasts cmd from this tube.
func (r *Radio) Send(cmd Command, payload []byte) error {
	return r.SendFrom(r.id, cmd, payload)
}

// SendFrom broadcasts cmd with an explicit sender id. Failures are counted
// and past the threshold the transport is restarted.
func (r *Radio) SendFrom(sender uint8, cmd Command, payload []byte) error {
	m, err := NewMessage(cmd, sender, BroadcastID, payload)
	if err != nil {
		return err
	}
	if err := r.transmit(m); err != nil {
		r.failures++
		r.metrics.SendFailed()
		r.log.Debug().Err(err).Stringer("cmd", cmd).Uint64("failures", r.failures).Msg("send failed")
		if r.alive && r.failures > uint64(r.cfg.FailureThreshold) {
			r.Restart()
		}
		return fmt.Errorf("send %s: %w", cmd, err)
	}
	r.failures = 0
	r.metrics.MessageSent(cmd.String())
	return nil
}

func (r *Radio) transmit(m Message) error {
	if !r.alive || r.tr == nil {
		return ErrNotAlive
	}
	return r.tr.Send(m.Marshal())
}

// Restart tears the transport down and opens a fresh one.
func (r *Radio) Restart() {
	r.restarts++
	r.metrics.RadioRestarted()
	r.log.Warn().Uint64("restarts", r.restarts).Uint64("failures", r.failures).Msg("restarting radio")
	if r.tr != nil {
		if err := r.tr.Close(); err != nil {
			r.log.Debug().Err(err).Msg("close transport")
		}
		r.tr = nil
	}
	r.alive = false
	r.failures = 0
	r.reopen()
}

// Close shuts the transport down for good. Maintain will not reopen it.
func (r *Radio) Close() error {
	r.closed = true
	r.alive = false
	if r.tr == nil {
		return nil
	}
	err := r.tr.Close()
	r.tr = nil
	return err
}

func (r *Radio) reopen() {
	tr, err := r.open()
	if err != nil {
		r.scheduleReopen(err)
		return
	}
	r.tr = tr
	r.alive = true
	r.backoff = nil
	r.log.Info().Msg("radio up")
}

func (r *Radio) scheduleReopen(err error) {
	if r.backoff == nil {
		r.backoff = retry.WithJitterPercent(10,
			retry.WithCappedDuration(r.cfg.RestartMax, retry.NewExponential(r.cfg.RestartBase)))
	}
	d, _ := r.backoff.Next()
	r.retryAt = r.clock.Now().Add(d)
	r.log.Error().Err(err).Dur("retry_in", d).Msg("radio down")
}

// Maintain reopens a down radio once its retry delay has passed.
func (r *Radio) Maintain() {
	if r.alive || r.closed || r.clock.Now().Before(r.retryAt) {
		return
	}
	r.Restart()
}

// Receive drains the transport, dispatching every acceptable message to rcv.
// It returns the number of messages dispatched.
func (r *Radio) Receive(rcv Receiver) int {
	if !r.alive || r.tr == nil {
		return 0
	}
	n := 0
	for {
		frame, ok := r.tr.Poll()
		if !ok {
			return n
		}
		if r.handle(frame, rcv) {
			n++
		}
	}
}

func (r *Radio) drop(reason string, m Message) {
	r.metrics.MessageDropped(reason)
	r.log.Debug().Str("reason", reason).EmbedObject(m).Msg("dropped message")
}

func (r *Radio) handle(frame []byte, rcv Receiver) bool {
	m, err := Decode(frame)
	if err != nil {
		r.metrics.MessageDropped(metrics.DropMalformed)
		r.log.Debug().Err(err).Msg("malformed frame")
		return false
	}
	if m.Version != Version {
		r.drop(metrics.DropVersion, m)
		return false
	}

	now := r.clock.Now()
	if m.Relayed() {
		origin := m.Relay
		switch {
		case origin == r.id:
			r.drop(metrics.DropEcho, m)
			return false
		case origin < r.master:
			r.drop(metrics.DropRelay, m)
			return false
		case origin == r.master && now.Sub(r.lastDirect) < r.cfg.Period:
			r.drop(metrics.DropRelay, m)
			return false
		}
	}

	if err := m.Validate(); err != nil {
		r.metrics.MessageDropped(metrics.DropCRC)
		r.log.Warn().Err(err).EmbedObject(m).Msg("invalid message")
		return false
	}

	for m.Sender == r.id {
		r.metrics.IDCollision()
		r.log.Warn().Uint8("id", r.id).Msg("id collision")
		r.ResetID(0)
	}

	origin := m.Origin()
	if origin < r.id {
		if !m.Relayed() {
			r.log.Debug().Uint8("from", origin).Uint8("id", r.id).Msg("ignoring lower id")
		}
		r.metrics.MessageDropped(metrics.DropLowerID)
		return false
	}

	if origin != BroadcastID && origin != EphemeralID && origin > r.master {
		r.setMaster(origin)
		r.log.Info().Uint8("master", origin).Msg("new master")
	}
	if !m.Relayed() && origin == r.master {
		r.lastDirect = now
	}

	r.metrics.MessageReceived(m.Command.String())
	if rcv.OnCommand(origin, m.Command, m.Payload[:]) && !m.Relayed() {
		r.maybeRelay(m)
	}
	return true
}

// maybeRelay re-broadcasts a direct message with a small chance that grows
// as the local id shrinks. A message is relayed at most once.
func (r *Radio) maybeRelay(m Message) {
	v := r.rng.Intn(256)
	if v%r.cfg.RelayModulus != 0 || v < int(r.id) {
		return
	}
	key := relayKey{origin: m.Sender, cmd: m.Command, crc: m.CRC}
	if r.relayed.Contains(key) {
		return
	}
	r.relayed.Add(key, struct{}{})

	m.Relay = m.Sender
	m.Sender = r.id
	if err := r.transmit(m); err != nil {
		r.log.Debug().Err(err).Msg("relay failed")
		return
	}
	r.metrics.MessageRelayed()
	r.log.Debug().Uint8("origin", m.Relay).Stringer("cmd", m.Command).Msg("relayed")
}
