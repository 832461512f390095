package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/market-sim/internal/config"
	"github.com/rxtech-lab/market-sim/internal/logger"
	"github.com/rxtech-lab/market-sim/internal/version"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "marketsim",
		Version: version.GetVersion(),
		Usage:   "Simulated crypto market data over REST and WebSocket",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file; defaults are used when empty",
				Sources: cli.EnvVars("MARKETSIM_CONFIG"),
			},
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "Random seed; overrides the config, 0 seeds from the clock",
				Sources: cli.EnvVars("MARKETSIM_SEED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error); overrides the config",
				Sources: cli.EnvVars("MARKETSIM_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			snapshotCommand(),
			schemaCommand(),
		},
	}
}

// loadConfig resolves the config file and applies the global flag overrides.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}

		cfg = loaded
	}

	if cmd.IsSet("seed") {
		cfg.Seed = cmd.Int64("seed")
	}

	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	log, err := logger.NewLoggerWithOptions(logger.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		OutputPaths: nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// envFiles are searched in order when running from the repo root or cmd/marketsim.
var envFiles = []string{".env", "../../.env"}

// loadEnvFile loads the first env file that exists and returns its path.
// Variables already present in the environment win.
func loadEnvFile(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		if err := godotenv.Load(path); err == nil {
			return path
		}
	}

	return ""
}

func main() {
	loadEnvFile(envFiles...)

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
