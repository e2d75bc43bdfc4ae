package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-tubes/internal/sim"
)

var simFlags struct {
	tubes    int
	loss     float64
	duration time.Duration
	report   time.Duration
	workers  int
}

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "simulate a flock of tubes over a lossy radio",
	RunE:  runSim,
}

func init() {
	f := simCmd.Flags()
	f.IntVar(&simFlags.tubes, "tubes", 5, "number of tubes")
	f.Float64Var(&simFlags.loss, "loss", 0.1, "probability a delivery is lost")
	f.DurationVar(&simFlags.duration, "duration", 30*time.Second, "simulated time to run")
	f.DurationVar(&simFlags.report, "report", time.Second, "simulated time between reports")
	f.IntVar(&simFlags.workers, "workers", 0, "worker goroutines, 0 for one per CPU")
}

func runSim(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Transport.Kind = "air"
	cfg.Transport.Loss = simFlags.loss
	if err := applyLogLevel(cfg); err != nil {
		return err
	}

	s, err := sim.New(cfg, sim.Options{
		Tubes:   simFlags.tubes,
		Loss:    simFlags.loss,
		Workers: simFlags.workers,
	}, nil, log.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	err = s.Run(ctx, simFlags.duration, simFlags.report, s.Report)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	s.Report(s.Elapsed())
	if !s.Converged() {
		log.Warn().Uints8("leaders", s.Leaders()).Msg("tubes did not converge")
	}
	log.Info().Dur("simulated", s.Elapsed()).Dur("took", time.Since(start)).Msg("simulation done")

	if cerr := s.Close(); err == nil {
		err = cerr
	}
	return err
}
