package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rxtech-lab/market-sim/internal/config"
	"github.com/rxtech-lab/market-sim/internal/feed"
	"github.com/rxtech-lab/market-sim/internal/logger"
	"github.com/rxtech-lab/market-sim/internal/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the simulation and serve it until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "Listen address; overrides the config",
				Sources: cli.EnvVars("MARKETSIM_ADDRESS"),
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.IsSet("address") {
		cfg.Server.Address = cmd.String("address")
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck // stdout sync errors are not actionable

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg.Server.Address, cfg, log)
}

// serve runs the feed and the HTTP server until ctx is cancelled.
func serve(ctx context.Context, address string, cfg config.Config, log *logger.Logger) error {
	f, err := feed.New(cfg, nil, nil, log)
	if err != nil {
		return fmt.Errorf("failed to create feed: %w", err)
	}

	srv := server.New(f, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := f.Start(gctx); err != nil {
			return fmt.Errorf("failed to start feed: %w", err)
		}

		<-gctx.Done()

		return f.Stop()
	})

	g.Go(func() error {
		if err := srv.Start(address); err != nil {
			return err
		}

		<-gctx.Done()
		log.Info("Shutting down", zap.String("address", srv.Address()))

		return srv.Stop()
	})

	return g.Wait()
}
