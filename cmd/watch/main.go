package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/market-sim/internal/config"
	"github.com/rxtech-lab/market-sim/internal/feed"
	"github.com/rxtech-lab/market-sim/internal/logger"
	"github.com/rxtech-lab/market-sim/internal/version"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "watch",
		Version: version.GetVersion(),
		Usage:   "Watch the simulated market in the terminal",
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
				Name:  "log-file",
				Usage: "Write logs to this file; logging is disabled when empty",
			},
		},
		Action: watchAction,
	}
}

func watchAction(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}

		cfg = loaded
	}

	if cmd.IsSet("seed") {
		cfg.Seed = cmd.Int64("seed")
	}

	// stdout belongs to the terminal UI
	l := logger.NewNopLogger()

	if path := cmd.String("log-file"); path != "" {
		fileLog, err := logger.NewLoggerWithOptions(logger.Options{
			Level:       cfg.Log.Level,
			Development: cfg.Log.Development,
			OutputPaths: []string{path},
		})
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		l = fileLog
	}
	defer l.Sync() //nolint:errcheck // best effort on exit

	f, err := feed.New(cfg, nil, nil, l)
	if err != nil {
		return fmt.Errorf("failed to create feed: %w", err)
	}

	if err := f.Start(ctx); err != nil {
		return fmt.Errorf("failed to start feed: %w", err)
	}

	defer func() {
		_ = f.Stop()
	}()

	p := tea.NewProgram(NewModel(f, f.Catalog().Assets()), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
