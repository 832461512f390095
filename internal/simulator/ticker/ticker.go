// Package ticker simulates the market overview: one summary per tracked pair
// with price, 24h change, volume and a short sparkline.
package ticker

import (
	"go.uber.org/zap"

	"github.com/rxtech-lab/market-sim/internal/logger"
	"github.com/rxtech-lab/market-sim/internal/numeric"
	"github.com/rxtech-lab/market-sim/internal/random"
	"github.com/rxtech-lab/market-sim/internal/types"
)

// Generator produces and perturbs asset summaries.
// It holds no market state; callers thread the previous summaries through Tick.
type Generator struct {
	rng random.Source
	log *logger.Logger
}

// NewGenerator creates a ticker Generator. A nil logger discards diagnostics.
func NewGenerator(rng random.Source, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Generator{rng: rng, log: log}
}

// Initialize builds the first summary for every configured asset.
// The sparkline is a synthetic history around the starting price.
func (g *Generator) Initialize(configs []types.AssetConfig) []types.AssetSummary {
	out := make([]types.AssetSummary, 0, len(configs))

	for _, cfg := range configs {
		price := numeric.Round(cfg.BasePrice*(1+random.Uniform(g.rng, -0.05, 0.05)), cfg.Precision)
		change := numeric.Round(random.Uniform(g.rng, -5, 5), 2)
		volume := numeric.Round(random.Uniform(g.rng, 0, 1e8), 0)

		sparkline := make([]float64, types.SparklineLength)
		for i := range sparkline {
			sparkline[i] = numeric.Round(price*(1+random.Uniform(g.rng, -0.025, 0.025)), cfg.Precision)
		}

		out = append(out, types.AssetSummary{
			ID:        cfg.ID,
			Name:      cfg.Name,
			Pair:      cfg.Pair,
			Price:     price,
			Change24h: change,
			Volume24h: volume,
			Sparkline: sparkline,
			Precision: cfg.Precision,
		})
	}

	g.log.Debug("Initialized ticker", zap.Int("assets", len(out)))

	return out
}

// Tick moves every asset one step. The input slice and its sparklines are not modified.
func (g *Generator) Tick(prev []types.AssetSummary) []types.AssetSummary {
	out := make([]types.AssetSummary, len(prev))

	for i, asset := range prev {
		price := numeric.Round(asset.Price*(1+random.Uniform(g.rng, -0.005, 0.005)), asset.Precision)
		change := numeric.Round(asset.Change24h+random.Uniform(g.rng, -0.05, 0.05), 2)
		volume := asset.Volume24h + random.Uniform(g.rng, 0, 1000)

		next := asset.Clone()
		next.Price = price
		next.Change24h = change
		next.Volume24h = volume
		next.Sparkline = slide(asset.Sparkline, price)
		out[i] = next
	}

	return out
}

// slide drops the oldest value and appends v, keeping the window length.
func slide(window []float64, v float64) []float64 {
	if len(window) == 0 {
		return []float64{v}
	}

	out := make([]float64, len(window))
	copy(out, window[1:])
	out[len(out)-1] = v

	return out
}
