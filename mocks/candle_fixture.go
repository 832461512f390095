package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/market-sim/internal/numeric"
	"github.com/rxtech-lab/market-sim/internal/types"
)

// CandleFixture builds deterministic candle series for tests that need a
// realistic chart without running the simulator.
type CandleFixture struct {
	rng *rand.Rand
}

// NewCandleFixture creates a CandleFixture with the given seed.
func NewCandleFixture(seed int64) *CandleFixture {
	return &CandleFixture{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // test data
	}
}

// FixtureConfig shapes a generated series.
type FixtureConfig struct {
	Start        time.Time
	Timeframe    types.Timeframe
	Count        int
	InitialPrice float64
	// Volatility is the standard deviation of the per bar return.
	Volatility float64
	VolumeBase float64
}

// DefaultFixtureConfig returns 100 one minute BTC-like bars.
func DefaultFixtureConfig() FixtureConfig {
	return FixtureConfig{
		Start:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Timeframe:    types.TimeframeOneMinute,
		Count:        100,
		InitialPrice: 60000,
		Volatility:   0.002,
		VolumeBase:   50,
	}
}

// Series walks a geometric Brownian path. Each bar opens at the previous close.
func (f *CandleFixture) Series(cfg FixtureConfig) []types.Candle {
	out := make([]types.Candle, cfg.Count)
	price := cfg.InitialPrice
	t := cfg.Start.Unix()

	for i := range out {
		open := price

		// Box-Muller
		u1 := 1 - f.rng.Float64()
		u2 := f.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		closePrice := open * (1 + cfg.Volatility*z)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		high := math.Max(open, closePrice) + f.rng.Float64()*cfg.Volatility*open*0.5
		low := math.Min(open, closePrice) - f.rng.Float64()*cfg.Volatility*open*0.5
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		out[i] = types.Candle{
			Time:   t,
			Open:   numeric.Round(open, 2),
			High:   numeric.Round(high, 2),
			Low:    numeric.Round(low, 2),
			Close:  numeric.Round(closePrice, 2),
			Volume: numeric.Round(cfg.VolumeBase*(0.5+f.rng.Float64()), 4),
		}

		price = closePrice
		t += cfg.Timeframe.Seconds()
	}

	return out
}
