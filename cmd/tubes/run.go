package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-tubes/internal/config"
	diag "github.com/coreman2200/funtimes-tubes/internal/diagnostics"
	"github.com/coreman2200/funtimes-tubes/internal/led"
	"github.com/coreman2200/funtimes-tubes/internal/metrics"
	"github.com/coreman2200/funtimes-tubes/internal/node"
	"github.com/coreman2200/funtimes-tubes/internal/protocol"
	"github.com/coreman2200/funtimes-tubes/internal/transport"
	"github.com/coreman2200/funtimes-tubes/internal/ws"
)

var runFlags struct {
	leds       int
	fps        int
	brightness int
	driver     string
	debug      bool
	master     bool
	spiDev     string
	bcast      string
	port       int
	addr       string
	noKeys     bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run one tube on this machine",
	RunE:  runTube,
}

func init() {
	f := runCmd.Flags()
	f.IntVar(&runFlags.leds, "leds", 0, "number of LEDs on the strip")
	f.IntVar(&runFlags.fps, "fps", 0, "render frames per second")
	f.IntVar(&runFlags.brightness, "brightness", 0, "brightness 0..255")
	f.StringVar(&runFlags.driver, "driver", "", "driver: spi | sim | ws")
	f.BoolVar(&runFlags.debug, "debug", false, "show the protocol overlay")
	f.BoolVar(&runFlags.master, "master", false, "boot as the designated master")
	f.StringVar(&runFlags.spiDev, "spi-dev", "", "SPI port name, empty for the first")
	f.StringVar(&runFlags.bcast, "bcast", "", "UDP broadcast address")
	f.IntVar(&runFlags.port, "port", 0, "UDP port")
	f.StringVar(&runFlags.addr, "addr", "", "HTTP listen address")
	f.BoolVar(&runFlags.noKeys, "no-keys", false, "do not read commands from stdin")
}

// applyRunFlags lets explicitly set flags win over the config file.
func applyRunFlags(f *pflag.FlagSet, cfg *config.Config) {
	if f.Changed("leds") {
		cfg.NumLEDs = runFlags.leds
	}
	if f.Changed("fps") {
		cfg.FPS = runFlags.fps
	}
	if f.Changed("brightness") {
		cfg.Brightness = runFlags.brightness
	}
	if f.Changed("driver") {
		cfg.Driver = runFlags.driver
	}
	if f.Changed("debug") {
		cfg.Debug = runFlags.debug
	}
	if f.Changed("master") {
		cfg.Master = runFlags.master
	}
	if f.Changed("spi-dev") {
		cfg.SPI.Dev = runFlags.spiDev
	}
	if f.Changed("bcast") {
		cfg.Transport.Addr = runFlags.bcast
	}
	if f.Changed("port") {
		cfg.Transport.Port = runFlags.port
	}
	if f.Changed("addr") {
		cfg.HTTP.Addr = runFlags.addr
	}
}

func runTube(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyRunFlags(cmd.Flags(), cfg)
	if err := applyLogLevel(cfg); err != nil {
		return err
	}

	preview := ws.NewServer(cfg.NumLEDs, log.Logger)
	logger := log.Logger.Hook(diag.Hook{Min: zerolog.WarnLevel, Pub: preview})

	sink, err := openSink(cfg, preview, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewTubeCollector(reg)

	n, err := node.Build(cfg, opener(cfg, logger), sink, nil, m, logger)
	if err != nil {
		_ = sink.Close()
		return err
	}
	preview.SetStatus(func() any { return n.Status() })

	mux := http.NewServeMux()
	preview.Register(mux)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.HTTP.Addr).Str("driver", cfg.Driver).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var keys <-chan string
	if !runFlags.noKeys {
		keys = readLines(ctx, os.Stdin)
	}
	err = n.Run(ctx, node.DefaultTickInterval, keys)
	logger.Info().Err(err).Msg("shutting down")

	_ = srv.Close()
	return n.Close()
}

// openSink picks the strip output. The websocket preview always gets frames.
func openSink(cfg *config.Config, preview *ws.Server, log zerolog.Logger) (led.Sink, error) {
	switch cfg.Driver {
	case "spi":
		freq := physic.Frequency(cfg.SPI.FreqKHz) * physic.KiloHertz
		strip, err := led.OpenSPI(cfg.SPI.Dev, cfg.NumLEDs, freq, log)
		if err != nil {
			log.Warn().Err(err).Msg("SPI init failed; falling back to the preview only")
			return preview, nil
		}
		return led.Tee{strip, preview}, nil
	case "sim":
		return led.Tee{led.NewConsoleSink(cfg.NumLEDs), preview}, nil
	case "ws":
		return preview, nil
	}
	return nil, fmt.Errorf("%w: driver %q", config.ErrInvalid, cfg.Driver)
}

// opener builds the transport factory the radio calls on every restart.
func opener(cfg *config.Config, log zerolog.Logger) protocol.Opener {
	if cfg.Transport.Kind == "air" {
		// Loopback only: useful to exercise a single tube without a network.
		air := transport.NewAir(cfg.Transport.Loss, rand.New(rand.NewSource(cfg.Seed)))
		return func() (protocol.Transport, error) { return air.Join(), nil }
	}
	return func() (protocol.Transport, error) {
		return transport.ListenUDP(cfg.Transport.Addr, cfg.Transport.Port, cfg.Transport.Depth, log)
	}
}

// readLines feeds r to the returned channel line by line until EOF or ctx
// is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case out <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
