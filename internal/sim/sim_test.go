package sim

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-tubes/internal/config"
)

func flock(t *testing.T, tubes int, loss float64) *Sim {
	t.Helper()
	cfg := config.Default()
	cfg.NumLEDs = 16
	cfg.Seed = 42
	cfg.Transport.Kind = "air"
	s, err := New(cfg, Options{Tubes: tubes, Loss: loss, Workers: 2}, nil, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFlockConverges(t *testing.T) {
	s := flock(t, 5, 0.05)
	reports := 0
	require.NoError(t, s.Run(context.Background(), 6*time.Second, time.Second, func(time.Duration) { reports++ }))

	assert.Equal(t, 6, reports)
	assert.True(t, s.Converged(), "leaders %v", s.Leaders())
	sts := s.Statuses()
	for _, st := range sts[1:] {
		assert.Equal(t, sts[0].BPM, st.BPM)
	}
	for i := range s.Nodes() {
		assert.NotZero(t, s.Shown(i))
	}
}

func TestLeaderDepartureReconverges(t *testing.T) {
	s := flock(t, 4, 0)
	require.NoError(t, s.Run(context.Background(), 5*time.Second, 0, nil))
	require.True(t, s.Converged())

	top := 0
	for i, n := range s.Nodes() {
		if n.Radio().ID() > s.Nodes()[top].Radio().ID() {
			top = i
		}
	}
	old := s.Nodes()[top].Radio().ID()
	require.NoError(t, s.Drop(top))
	assert.Len(t, s.Statuses(), 3)

	require.NoError(t, s.Run(context.Background(), 15*time.Second, 0, nil))
	assert.True(t, s.Converged(), "leaders %v", s.Leaders())
	for _, l := range s.Leaders() {
		assert.NotEqual(t, old, l)
	}
}

func TestRunHonoursContext(t *testing.T) {
	s := flock(t, 2, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx, time.Second, 0, nil), context.Canceled)
	assert.Zero(t, s.Elapsed())
}

func TestNewRejectsEmptyFlock(t *testing.T) {
	_, err := New(config.Default(), Options{}, nil, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrInvalid)
}
