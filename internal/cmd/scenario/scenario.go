// Package scenario parses scenario command flags and runs Lua scripts.
package scenario

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"time"

	entrypoint "github.com/anoikis-dev/rollwatch/internal/platform/cmd"
	"github.com/anoikis-dev/rollwatch/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario string        `env:"ROLLWATCH_SCENARIO_FILE"`
	Verbose  bool          `env:"ROLLWATCH_SCENARIO_VERBOSE"`
	Timeout  time.Duration `env:"ROLLWATCH_SCENARIO_TIMEOUT" envDefault:"10s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, errOut io.Writer) error {
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	logger := log.New(errOut, "", 0)
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScenario, func(ctx context.Context) error {
		return scenario.RunFile(ctx, scenario.Config{
			Timeout: cfg.Timeout,
			Verbose: cfg.Verbose,
			Logger:  logger,
		}, cfg.Scenario)
	})
}
