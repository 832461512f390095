package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/market-sim/internal/feed"
	"github.com/rxtech-lab/market-sim/internal/logger"
	"github.com/rxtech-lab/market-sim/internal/market"
	"github.com/rxtech-lab/market-sim/internal/types"
)

// snapshot is the document printed by the snapshot command.
type snapshot struct {
	Pair      string               `json:"pair"`
	Timeframe string               `json:"timeframe"`
	Tickers   []types.AssetSummary `json:"tickers"`
	Klines    []types.Candle       `json:"klines"`
	Depth     types.OrderBook      `json:"depth"`
	Trades    []types.TradeEntry   `json:"trades"`
}

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Print one freshly seeded market state as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "pair",
				Aliases: []string{"p"},
				Usage:   "Pair to include klines, depth and trades for",
				Value:   market.DefaultPair,
			},
			&cli.StringFlag{
				Name:    "timeframe",
				Aliases: []string{"t"},
				Usage:   "Kline timeframe (1m, 5m, 15m, 1h, 4h, 1d)",
				Value:   types.TimeframeOneMinute.String(),
			},
		},
		Action: snapshotAction,
	}
}

func snapshotAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tf, err := types.ParseTimeframe(cmd.String("timeframe"))
	if err != nil {
		return err
	}

	// diagnostics would corrupt the JSON on stdout
	f, err := feed.New(cfg, nil, nil, logger.NewNopLogger())
	if err != nil {
		return fmt.Errorf("failed to create feed: %w", err)
	}

	doc, err := takeSnapshot(f, cmd.String("pair"), tf)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.Root().Writer)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return nil
}

func takeSnapshot(f *feed.Feed, pair string, tf types.Timeframe) (snapshot, error) {
	klines, err := f.Candles(pair, tf)
	if err != nil {
		return snapshot{}, err //nolint:exhaustruct // zero value on error
	}

	depth, err := f.OrderBook(pair)
	if err != nil {
		return snapshot{}, err //nolint:exhaustruct // zero value on error
	}

	trades, err := f.Trades(pair)
	if err != nil {
		return snapshot{}, err //nolint:exhaustruct // zero value on error
	}

	return snapshot{
		Pair:      depth.Pair,
		Timeframe: tf.String(),
		Tickers:   f.Tickers(),
		Klines:    klines,
		Depth:     depth,
		Trades:    trades,
	}, nil
}
