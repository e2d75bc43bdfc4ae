package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-tubes/internal/config"
	"github.com/coreman2200/funtimes-tubes/internal/led"
	"github.com/coreman2200/funtimes-tubes/internal/ws"
)

func TestReadLines(t *testing.T) {
	var got []string
	for line := range readLines(context.Background(), strings.NewReader("b120\ns\n")) {
		got = append(got, line)
	}
	assert.Equal(t, []string{"b120", "s"}, got)
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	flagConfig = filepath.Join(t.TempDir(), "missing.yaml")
	cfg, err := loadConfig(runCmd)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, runCmd.Flags().Set("leds", "30"))
	require.NoError(t, runCmd.Flags().Set("driver", "ws"))
	applyRunFlags(runCmd.Flags(), cfg)
	assert.Equal(t, 30, cfg.NumLEDs)
	assert.Equal(t, "ws", cfg.Driver)
	assert.Equal(t, 300, cfg.FPS, "unset flags keep the config value")
}

func TestOpenSink(t *testing.T) {
	cfg := config.Default()
	preview := ws.NewServer(cfg.NumLEDs, zerolog.Nop())

	cfg.Driver = "ws"
	s, err := openSink(cfg, preview, zerolog.Nop())
	require.NoError(t, err)
	assert.Same(t, preview, s)

	cfg.Driver = "sim"
	s, err = openSink(cfg, preview, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, s, 2)
	assert.IsType(t, led.Tee{}, s)

	cfg.Driver = "pwm"
	_, err = openSink(cfg, preview, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrInvalid)
}
