package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, time.Second, c.Protocol.Period())
	assert.Equal(t, 3*time.Second, c.Protocol.BootSilence())
	assert.Equal(t, 8*time.Second, c.Protocol.Silence())
	assert.Equal(t, 250*time.Millisecond, c.Protocol.RestartBase())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tube.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_leds: 120\nprotocol:\n  relay_modulus: 5\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, c.NumLEDs)
	assert.Equal(t, 5, c.Protocol.RelayModulus)
	assert.Equal(t, 100, c.Protocol.FailureThreshold)
	assert.Equal(t, 144, c.Brightness)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tube.yaml")
	c := Default()
	c.Master = true
	c.Transport.Addr = "192.168.1.255"
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"no leds", func(c *Config) { c.NumLEDs = 0 }},
		{"brightness", func(c *Config) { c.Brightness = 256 }},
		{"driver", func(c *Config) { c.Driver = "pwm" }},
		{"transport", func(c *Config) { c.Transport.Kind = "ble" }},
		{"loss", func(c *Config) { c.Transport.Loss = 1.5 }},
		{"period", func(c *Config) { c.Protocol.BroadcastPeriodMs = 0 }},
		{"relay", func(c *Config) { c.Protocol.RelayModulus = 0 }},
		{"pool", func(c *Config) { c.Pool.Strips = 1 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mut(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_leds: -1\n"), 0644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}
