package protocol

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-tubes/internal/clock"
	"github.com/coreman2200/funtimes-tubes/internal/metrics"
	"github.com/coreman2200/funtimes-tubes/internal/transport"
)

var errRadio = errors.New("radio fault")

type fakeTransport struct {
	inbox  [][]byte
	sent   [][]byte
	fail   bool
	closed bool
}

func (f *fakeTransport) Send(frame []byte) error {
	if f.fail {
		return errRadio
	}
	f.sent = append(f.sent, frame)
	return nil
}

func (f *fakeTransport) Poll() ([]byte, bool) {
	if len(f.inbox) == 0 {
		return nil, false
	}
	b := f.inbox[0]
	f.inbox = f.inbox[1:]
	return b, true
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

type call struct {
	from uint8
	cmd  Command
}

type recorder struct {
	calls  []call
	reject bool
}

func (r *recorder) OnCommand(from uint8, cmd Command, payload []byte) bool {
	r.calls = append(r.calls, call{from, cmd})
	return !r.reject
}

type countingCollector struct {
	metrics.NoopCollector
	dropped    map[string]int
	relayed    int
	collisions int
	restarts   int
}

func newCountingCollector() *countingCollector {
	return &countingCollector{dropped: make(map[string]int)}
}

func (c *countingCollector) MessageDropped(reason string) { c.dropped[reason]++ }
func (c *countingCollector) MessageRelayed()              { c.relayed++ }
func (c *countingCollector) IDCollision()                 { c.collisions++ }
func (c *countingCollector) RadioRestarted()              { c.restarts++ }

// constSource makes every rand draw return the same value.
type constSource int64

func (s constSource) Int63() int64 { return int64(s) }
func (s constSource) Seed(int64)   {}

// alwaysRelay yields Intn(256) == 255, which passes every relay check.
var alwaysRelay = constSource(255 << 32)

type harness struct {
	radio   *Radio
	tr      *fakeTransport
	opens   int
	openErr error
	manual  *clock.Manual
	clock   *clock.Clock
	metrics *countingCollector
}

func newHarness(t *testing.T, cfg Config, src rand.Source) *harness {
	t.Helper()
	h := &harness{
		manual:  clock.NewManual(time.Unix(1000, 0)),
		metrics: newCountingCollector(),
	}
	h.clock = clock.New(h.manual.Now)
	open := func() (Transport, error) {
		h.opens++
		if h.openErr != nil {
			return nil, h.openErr
		}
		h.tr = &fakeTransport{}
		return h.tr, nil
	}
	r, err := NewRadio(cfg, open, h.clock, rand.New(src), h.metrics, zerolog.Nop())
	require.NoError(t, err)
	h.radio = r
	return h
}

func (h *harness) advance(d time.Duration) {
	h.manual.Advance(d)
	h.clock.Update()
}

func frame(t *testing.T, cmd Command, sender, relay uint8) []byte {
	t.Helper()
	m, err := NewMessage(cmd, sender, relay, []byte{1, 2, 3})
	require.NoError(t, err)
	return m.Marshal()
}

func TestNewRadioIDRange(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		h := newHarness(t, Config{}, rand.NewSource(seed))
		id := h.radio.ID()
		assert.GreaterOrEqual(t, id, uint8(minTubeID))
		assert.Less(t, id, uint8(maxTubeID))
		assert.Equal(t, id, h.radio.Master(), "a tube with no master follows itself")
		assert.Zero(t, h.radio.MasterID())
		assert.True(t, h.radio.Alive())
	}

	h := newHarness(t, Config{Designated: true}, rand.NewSource(1))
	assert.Equal(t, uint8(DesignatedID), h.radio.ID())
}

func TestReceiveRejectsBadCRC(t *testing.T) {
	h := newHarness(t, Config{}, rand.NewSource(1))
	h.radio.ResetID(20)
	f := frame(t, Update, 100, 0)
	f[6] ^= 0xFF
	h.tr.inbox = append(h.tr.inbox, f)

	var rec recorder
	assert.Zero(t, h.radio.Receive(&rec))
	assert.Empty(t, rec.calls)
	assert.Equal(t, 1, h.metrics.dropped[metrics.DropCRC])
	assert.Zero(t, h.radio.MasterID(), "a corrupt message never promotes a master")
}

func TestReceiveDropsForeignVersion(t *testing.T) {
	h := newHarness(t, Config{}, rand.NewSource(1))
	h.radio.ResetID(20)
	f := frame(t, Update, 100, 0)
	f[1] = 2<<4 | f[1]&0x0F
	h.tr.inbox = append(h.tr.inbox, f, []byte{1, 2})

	var rec recorder
	assert.Zero(t, h.radio.Receive(&rec))
	assert.Empty(t, rec.calls)
	assert.Equal(t, 1, h.metrics.dropped[metrics.DropVersion])
	assert.Equal(t, 1, h.metrics.dropped[metrics.DropMalformed])
}

func TestCollisionRerollsID(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		h := newHarness(t, Config{}, rand.NewSource(seed))
		old := h.radio.ID()
		h.tr.inbox = append(h.tr.inbox, frame(t, Update, old, 0))

		var rec recorder
		h.radio.Receive(&rec)
		assert.NotEqual(t, old, h.radio.ID())
		assert.GreaterOrEqual(t, h.radio.ID(), uint8(minTubeID))
		assert.Equal(t, 1, h.metrics.collisions)
	}
}

func TestMasterInference(t *testing.T) {
	h := newHarness(t, Config{}, rand.NewSource(1))
	h.radio.ResetID(50)
	var rec recorder

	h.tr.inbox = append(h.tr.inbox, frame(t, Update, 80, 0))
	require.Equal(t, 1, h.radio.Receive(&rec))
	assert.Equal(t, uint8(80), h.radio.MasterID())

	h.tr.inbox = append(h.tr.inbox, frame(t, Update, 60, 0))
	require.Equal(t, 1, h.radio.Receive(&rec))
	assert.Equal(t, uint8(80), h.radio.MasterID(), "a lower sender does not take over")
	assert.Equal(t, call{60, Update}, rec.calls[1])

	h.tr.inbox = append(h.tr.inbox, frame(t, Update, 90, 0))
	require.Equal(t, 1, h.radio.Receive(&rec))
	assert.Equal(t, uint8(90), h.radio.MasterID())

	h.tr.inbox = append(h.tr.inbox, frame(t, Firework, EphemeralID, 0))
	require.Equal(t, 1, h.radio.Receive(&rec))
	assert.Equal(t, uint8(90), h.radio.MasterID(), "ephemeral senders are never masters")

	h.tr.inbox = append(h.tr.inbox, frame(t, Update, 40, 0))
	assert.Zero(t, h.radio.Receive(&rec))
	assert.Equal(t, 1, h.metrics.dropped[metrics.DropLowerID])

	h.radio.ClearMaster()
	assert.Zero(t, h.radio.MasterID())
	assert.Equal(t, uint8(50), h.radio.Master())
}

func TestResetIDAboveMasterClearsIt(t *testing.T) {
	h := newHarness(t, Config{}, rand.NewSource(1))
	h.radio.ResetID(50)
	h.tr.inbox = append(h.tr.inbox, frame(t, Update, 80, 0))
	h.radio.Receive(&recorder{})
	require.Equal(t, uint8(80), h.radio.MasterID())

	h.radio.ResetID(200)
	assert.Zero(t, h.radio.MasterID())
}

func TestResetIDNeverTakesEphemeral(t *testing.T) {
	h := newHarness(t, Config{}, rand.NewSource(3))
	h.radio.ResetID(77)
	h.radio.ResetID(EphemeralID)
	id := h.radio.ID()
	assert.NotEqual(t, uint8(EphemeralID), id)
	assert.NotEqual(t, uint8(77), id)
	assert.GreaterOrEqual(t, id, uint8(minTubeID))
	assert.Less(t, id, uint8(maxTubeID))
}

func TestTwoTubesConverge(t *testing.T) {
	air := transport.NewAir(0, rand.New(rand.NewSource(1)))
	c := clock.New(nil)
	open := func() (Transport, error) { return air.Join(), nil }

	newRadio := func(id uint8) *Radio {
		r, err := NewRadio(Config{}, open, c, rand.New(rand.NewSource(int64(id))), metrics.NewNoopCollector(), zerolog.Nop())
		require.NoError(t, err)
		r.ResetID(id)
		return r
	}
	low, high := newRadio(10), newRadio(20)

	require.NoError(t, low.Send(Update, nil))
	require.NoError(t, high.Send(Update, nil))
	low.Receive(&recorder{})
	high.Receive(&recorder{})

	assert.Equal(t, uint8(20), low.MasterID())
	assert.Equal(t, uint8(20), low.Master())
	assert.Equal(t, uint8(20), high.Master())
	assert.Zero(t, high.MasterID())
}

func TestRelay(t *testing.T) {
	h := newHarness(t, Config{}, alwaysRelay)
	h.radio.ResetID(30)

	direct := frame(t, Update, 200, 0)
	h.tr.inbox = append(h.tr.inbox, direct, direct)
	require.Equal(t, 2, h.radio.Receive(&recorder{}))
	require.Len(t, h.tr.sent, 1, "a message is relayed at most once")
	assert.Equal(t, 1, h.metrics.relayed)

	m, err := Decode(h.tr.sent[0])
	require.NoError(t, err)
	assert.Equal(t, uint8(30), m.Sender)
	assert.Equal(t, uint8(200), m.Relay)
	assert.Equal(t, uint8(200), m.Origin())
	require.NoError(t, m.Validate())
}

func TestRelayNotChained(t *testing.T) {
	h := newHarness(t, Config{}, alwaysRelay)
	h.radio.ResetID(30)
	h.tr.inbox = append(h.tr.inbox, frame(t, Update, 40, 200))

	var rec recorder
	require.Equal(t, 1, h.radio.Receive(&rec))
	assert.Equal(t, call{200, Update}, rec.calls[0], "relayed messages dispatch as their origin")
	assert.Empty(t, h.tr.sent)
	assert.Equal(t, uint8(200), h.radio.MasterID())
}

func TestRejectedMessagesAreNotRelayed(t *testing.T) {
	h := newHarness(t, Config{}, alwaysRelay)
	h.radio.ResetID(30)
	h.tr.inbox = append(h.tr.inbox, frame(t, Update, 200, 0))
	h.radio.Receive(&recorder{reject: true})
	assert.Empty(t, h.tr.sent)
}

func TestRelayFilter(t *testing.T) {
	h := newHarness(t, Config{Period: time.Second}, rand.NewSource(1))
	h.radio.ResetID(30)
	var rec recorder

	h.tr.inbox = append(h.tr.inbox, frame(t, Update, 200, 0))
	require.Equal(t, 1, h.radio.Receive(&rec))

	h.tr.inbox = append(h.tr.inbox,
		frame(t, Next, 50, 200),  // master heard directly within a period
		frame(t, Next, 50, 100),  // origin below master
		frame(t, Next, 200, 30))  // our own message coming back
	assert.Zero(t, h.radio.Receive(&rec))
	assert.Equal(t, 2, h.metrics.dropped[metrics.DropRelay])
	assert.Equal(t, 1, h.metrics.dropped[metrics.DropEcho])

	h.advance(2 * time.Second)
	h.tr.inbox = append(h.tr.inbox, frame(t, Next, 50, 200))
	assert.Equal(t, 1, h.radio.Receive(&rec), "a silent master is heard through relays")
}

func TestSendFailuresRestartRadio(t *testing.T) {
	h := newHarness(t, Config{FailureThreshold: 3}, rand.NewSource(1))
	first := h.tr
	first.fail = true

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, h.radio.Send(Update, nil), errRadio)
	}
	assert.Equal(t, uint64(3), h.radio.Failures())
	assert.Zero(t, h.radio.Restarts())

	require.Error(t, h.radio.Send(Update, nil))
	assert.Equal(t, uint64(1), h.radio.Restarts())
	assert.Equal(t, 1, h.metrics.restarts)
	assert.Zero(t, h.radio.Failures())
	assert.True(t, first.closed)
	assert.NotSame(t, first, h.tr)
	assert.Equal(t, 2, h.opens)

	require.NoError(t, h.radio.Send(Update, nil))
	assert.Len(t, h.tr.sent, 1)
}

func TestSendSuccessResetsFailures(t *testing.T) {
	h := newHarness(t, Config{}, rand.NewSource(1))
	h.tr.fail = true
	require.Error(t, h.radio.Send(Hello, nil))
	require.Error(t, h.radio.Send(Hello, nil))
	assert.Equal(t, uint64(2), h.radio.Failures())
	h.tr.fail = false
	require.NoError(t, h.radio.SendFrom(EphemeralID, Firework, nil))
	assert.Zero(t, h.radio.Failures())

	m, err := Decode(h.tr.sent[0])
	require.NoError(t, err)
	assert.Equal(t, uint8(EphemeralID), m.Sender)
	assert.Equal(t, Firework, m.Command)
}

func TestSendRejectsOversizedPayload(t *testing.T) {
	h := newHarness(t, Config{}, rand.NewSource(1))
	err := h.radio.Send(Update, make([]byte, PayloadSize+1))
	assert.ErrorIs(t, err, ErrPayloadTooBig)
	assert.Zero(t, h.radio.Failures())
}

func TestReopenBackoff(t *testing.T) {
	h := &harness{}
	h.manual = clock.NewManual(time.Unix(1000, 0))
	h.clock = clock.New(h.manual.Now)
	h.metrics = newCountingCollector()
	h.openErr = errRadio
	open := func() (Transport, error) {
		h.opens++
		if h.openErr != nil {
			return nil, h.openErr
		}
		h.tr = &fakeTransport{}
		return h.tr, nil
	}
	r, err := NewRadio(Config{RestartBase: 100 * time.Millisecond, RestartMax: time.Second}, open,
		h.clock, rand.New(rand.NewSource(1)), h.metrics, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, r.Alive())
	assert.ErrorIs(t, r.Send(Hello, nil), ErrNotAlive)
	assert.Zero(t, r.Receive(&recorder{}))

	r.Maintain()
	assert.Equal(t, 1, h.opens, "no retry before the backoff elapses")

	h.openErr = nil
	h.manual.Advance(2 * time.Second)
	h.clock.Update()
	r.Maintain()
	assert.Equal(t, 2, h.opens)
	assert.True(t, r.Alive())
	assert.Equal(t, uint64(1), r.Restarts())
	require.NoError(t, r.Send(Hello, nil))
}

func TestCloseStaysDown(t *testing.T) {
	h := newHarness(t, Config{}, rand.NewSource(1))
	tr := h.tr
	require.NoError(t, h.radio.Close())
	assert.True(t, tr.closed)
	assert.False(t, h.radio.Alive())

	h.advance(time.Minute)
	h.radio.Maintain()
	assert.Equal(t, 1, h.opens)
	assert.ErrorIs(t, h.radio.Send(Hello, nil), ErrNotAlive)
}
