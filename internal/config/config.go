package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid")

type SPI struct {
	Dev     string `yaml:"dev"`      // "" for the first port
	FreqKHz int    `yaml:"freq_khz"` // e.g. 2500
}

type Transport struct {
	Kind  string  `yaml:"kind"` // "udp" | "air"
	Addr  string  `yaml:"addr"` // broadcast address for udp
	Port  int     `yaml:"port"`
	Depth int     `yaml:"depth"`
	Loss  float64 `yaml:"loss"` // air only
}

type Protocol struct {
	BroadcastPeriodMs     int `yaml:"broadcast_period_ms"`
	BootSilenceMultiplier int `yaml:"boot_silence_multiplier"`
	SilenceMultiplier     int `yaml:"silence_multiplier"`
	FailureThreshold      int `yaml:"failure_threshold"`
	RelayModulus          int `yaml:"relay_modulus"`
	RelayCache            int `yaml:"relay_cache"`
	RestartBaseMs         int `yaml:"restart_base_ms"`
	RestartMaxMs          int `yaml:"restart_max_ms"`
}

type Pool struct {
	Strips    int `yaml:"strips"`
	Particles int `yaml:"particles"`
	FadeSpeed int `yaml:"fade_speed"`
}

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	NumLEDs    int    `yaml:"num_leds"`
	Doubled    bool   `yaml:"doubled"`
	Reverse    bool   `yaml:"reverse"`
	FPS        int    `yaml:"fps"`
	SinkFPS    int    `yaml:"sink_fps"`
	Brightness int    `yaml:"brightness"`
	Debug      bool   `yaml:"debug"`
	Master     bool   `yaml:"master"`
	Driver     string `yaml:"driver"` // "spi" | "sim" | "ws"
	Seed       int64  `yaml:"seed"`   // 0 seeds from the time
	LogLevel   string `yaml:"log_level"`

	SPI       SPI       `yaml:"spi,omitempty"`
	Transport Transport `yaml:"transport"`
	Protocol  Protocol  `yaml:"protocol"`
	Pool      Pool      `yaml:"pool"`
	HTTP      HTTP      `yaml:"http"`
}

func Default() *Config {
	return &Config{
		NumLEDs:    64,
		FPS:        300,
		SinkFPS:    100,
		Brightness: 144,
		Driver:     "spi",
		LogLevel:   "info",
		SPI:        SPI{FreqKHz: 2500},
		Transport:  Transport{Kind: "udp", Port: 7331, Depth: 32},
		Protocol: Protocol{
			BroadcastPeriodMs:     1000,
			BootSilenceMultiplier: 3,
			SilenceMultiplier:     8,
			FailureThreshold:      100,
			RelayModulus:          3,
			RelayCache:            64,
			RestartBaseMs:         250,
			RestartMaxMs:          30000,
		},
		Pool: Pool{Strips: 3, Particles: 20, FadeSpeed: 100},
		HTTP: HTTP{Addr: ":8080"},
	}
}

// Load reads path over the defaults, so a partial file is enough.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	check := func(ok bool, format string, args ...any) error {
		if ok {
			return nil
		}
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
	}
	for _, err := range []error{
		check(c.NumLEDs > 0 && c.NumLEDs <= 4096, "num_leds %d", c.NumLEDs),
		check(c.FPS > 0, "fps %d", c.FPS),
		check(c.SinkFPS > 0, "sink_fps %d", c.SinkFPS),
		check(c.Brightness >= 0 && c.Brightness <= 255, "brightness %d", c.Brightness),
		check(c.Driver == "spi" || c.Driver == "sim" || c.Driver == "ws", "driver %q", c.Driver),
		check(c.Transport.Kind == "udp" || c.Transport.Kind == "air", "transport kind %q", c.Transport.Kind),
		check(c.Transport.Loss >= 0 && c.Transport.Loss <= 1, "transport loss %v", c.Transport.Loss),
		check(c.Protocol.BroadcastPeriodMs > 0, "broadcast_period_ms %d", c.Protocol.BroadcastPeriodMs),
		check(c.Protocol.BootSilenceMultiplier > 0, "boot_silence_multiplier %d", c.Protocol.BootSilenceMultiplier),
		check(c.Protocol.SilenceMultiplier > 0, "silence_multiplier %d", c.Protocol.SilenceMultiplier),
		check(c.Protocol.FailureThreshold > 0, "failure_threshold %d", c.Protocol.FailureThreshold),
		check(c.Protocol.RelayModulus > 0, "relay_modulus %d", c.Protocol.RelayModulus),
		check(c.Pool.Strips >= 2, "pool strips %d", c.Pool.Strips),
		check(c.Pool.Particles > 0, "pool particles %d", c.Pool.Particles),
		check(c.Pool.FadeSpeed > 0 && c.Pool.FadeSpeed <= 65535, "fade_speed %d", c.Pool.FadeSpeed),
	} {
		if err != nil {
			return err
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

func (p Protocol) Period() time.Duration {
	return time.Duration(p.BroadcastPeriodMs) * time.Millisecond
}

func (p Protocol) BootSilence() time.Duration {
	return p.Period() * time.Duration(p.BootSilenceMultiplier)
}

func (p Protocol) Silence() time.Duration {
	return p.Period() * time.Duration(p.SilenceMultiplier)
}

func (p Protocol) RestartBase() time.Duration {
	return time.Duration(p.RestartBaseMs) * time.Millisecond
}

func (p Protocol) RestartMax() time.Duration {
	return time.Duration(p.RestartMaxMs) * time.Millisecond
}
