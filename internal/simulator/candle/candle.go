// Package candle simulates OHLCV series. A series is seeded with Initialize and
// then advanced with Tick, which either evolves the in-progress bar or appends a
// new one once its time window has elapsed.
package candle

import (
	"go.uber.org/zap"

	"github.com/rxtech-lab/market-sim/internal/clock"
	"github.com/rxtech-lab/market-sim/internal/logger"
	"github.com/rxtech-lab/market-sim/internal/market"
	"github.com/rxtech-lab/market-sim/internal/numeric"
	"github.com/rxtech-lab/market-sim/internal/random"
	"github.com/rxtech-lab/market-sim/internal/types"
	"github.com/rxtech-lab/market-sim/pkg/errors"
)

// Key identifies one candle series.
type Key struct {
	Pair      string
	Timeframe types.Timeframe
}

// String returns "PAIR@timeframe".
func (k Key) String() string {
	return k.Pair + "@" + k.Timeframe.String()
}

// Generator builds and advances candle series.
type Generator struct {
	rng     random.Source
	clock   clock.Clock
	catalog *market.Catalog
	log     *logger.Logger
}

// NewGenerator creates a candle Generator.
func NewGenerator(rng random.Source, clk clock.Clock, catalog *market.Catalog, log *logger.Logger) *Generator {
	if clk == nil {
		clk = clock.Real()
	}

	if catalog == nil {
		catalog = market.NewCatalog(nil)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Generator{rng: rng, clock: clk, catalog: catalog, log: log}
}

// Initialize builds count bars for pair ending one timeframe before now.
// Bars are stepped sequentially from now - count*timeframe, each opening at the
// previous close. count is capped at types.MaxCandles.
func (g *Generator) Initialize(pair string, count int, tf types.Timeframe) ([]types.Candle, error) {
	if count <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "candle count must be positive, got %d", count)
	}

	if !tf.Valid() {
		return nil, errors.Newf(errors.ErrCodeInvalidTimeframe, "invalid timeframe %d", int(tf))
	}

	if count > types.MaxCandles {
		g.log.Debug("Clamping candle count", zap.Int("requested", count), zap.Int("max", types.MaxCandles))
		count = types.MaxCandles
	}

	precision := g.catalog.Precision(pair)
	step := tf.Seconds()
	currentTime := g.clock.Now().Unix() - int64(count)*step
	lastClose := g.catalog.BasePrice(pair)

	series := make([]types.Candle, 0, count)
	for i := 0; i < count; i++ {
		open := lastClose
		closePrice := open + random.Uniform(g.rng, -0.01, 0.01)*open
		high := max(open, closePrice) + random.Uniform(g.rng, 0, 0.01)*open
		low := min(open, closePrice) - random.Uniform(g.rng, 0, 0.01)*open

		if low <= 0 {
			low = min(open, closePrice) * 0.99
		}

		series = append(series, types.Candle{
			Time:   currentTime,
			Open:   numeric.Round(open, precision),
			High:   numeric.Round(high, precision),
			Low:    numeric.Round(low, precision),
			Close:  numeric.Round(closePrice, precision),
			Volume: random.Uniform(g.rng, 0, 100),
		})

		lastClose = closePrice
		currentTime += step
	}

	g.log.Debug("Initialized candles",
		zap.String("pair", pair),
		zap.String("timeframe", tf.String()),
		zap.Int("count", len(series)),
	)

	return series, nil
}

// Tick advances the series of key by one step and returns a new slice; prev is
// not modified. Prices are rounded with the catalog precision of key.Pair, the
// same rule Initialize uses.
//
// When now has reached the end of the last bar's window a new bar is appended at
// exactly last.Time + timeframe, evicting the oldest bar beyond types.MaxCandles.
// Otherwise the last bar's close drifts and high, low and volume follow it.
//
// An empty series cannot be advanced: it is reported as ErrCodeEmptySeries so the
// caller can re-initialize it.
func (g *Generator) Tick(prev []types.Candle, key Key) ([]types.Candle, error) {
	tf := key.Timeframe
	if !tf.Valid() {
		return nil, errors.Newf(errors.ErrCodeInvalidTimeframe, "invalid timeframe %d", int(tf))
	}

	if len(prev) == 0 {
		g.log.Warn("Refusing to tick an empty candle series", zap.String("series", key.String()))

		return nil, errors.New(errors.ErrCodeEmptySeries, "cannot tick an empty candle series")
	}

	last := prev[len(prev)-1]
	precision := g.catalog.Precision(key.Pair)
	nextBoundary := last.Time + tf.Seconds()

	if g.clock.Now().Unix() >= nextBoundary {
		return g.appendBar(prev, last, nextBoundary, precision), nil
	}

	return g.evolveLast(prev, last, precision), nil
}

func (g *Generator) appendBar(prev []types.Candle, last types.Candle, openTime int64, precision int) []types.Candle {
	open := last.Close
	closePrice := open + random.Uniform(g.rng, -0.005, 0.005)*open

	bar := types.Candle{
		Time:   openTime,
		Open:   numeric.Round(open, precision),
		High:   numeric.Round(max(open, closePrice), precision),
		Low:    numeric.Round(min(open, closePrice), precision),
		Close:  numeric.Round(closePrice, precision),
		Volume: random.Uniform(g.rng, 0, 10),
	}

	keep := prev
	if overflow := len(prev) + 1 - types.MaxCandles; overflow > 0 {
		keep = prev[overflow:]
	}

	next := make([]types.Candle, 0, len(keep)+1)
	next = append(next, keep...)

	return append(next, bar)
}

func (g *Generator) evolveLast(prev []types.Candle, last types.Candle, precision int) []types.Candle {
	closePrice := numeric.Round(last.Close+random.Uniform(g.rng, -0.0025, 0.0025)*last.Close, precision)

	updated := last
	updated.Close = closePrice
	updated.High = max(last.High, closePrice)
	updated.Low = min(last.Low, closePrice)
	updated.Volume = last.Volume + random.Uniform(g.rng, 0, 5)

	next := make([]types.Candle, len(prev))
	copy(next, prev)
	next[len(next)-1] = updated

	return next
}
