package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-tubes/internal/config"
)

var (
	flagConfig   string
	flagLogLevel string
	flagSeed     int64
)

var rootCmd = &cobra.Command{
	Use:          "tubes",
	Short:        "beat-synced LED tubes that agree on what to show",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "tubes.yaml", "path to the YAML config")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override log_level")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "random seed, 0 seeds from the time")

	rootCmd.AddCommand(runCmd, simCmd)
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("tubes")
		os.Exit(1)
	}
}

// loadConfig reads the config file over the defaults and applies the root
// flags. A missing file is only an error when it was asked for explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config"):
		log.Debug().Str("path", flagConfig).Msg("no config file, using defaults")
		cfg = config.Default()
	default:
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = flagSeed
	}
	return cfg, nil
}

// applyLogLevel validates cfg and sets the global log level from it.
func applyLogLevel(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(level)
	return nil
}
