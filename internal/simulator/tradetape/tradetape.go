// Package tradetape simulates the recent trades tape of a pair.
package tradetape

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/market-sim/internal/clock"
	"github.com/rxtech-lab/market-sim/internal/logger"
	"github.com/rxtech-lab/market-sim/internal/market"
	"github.com/rxtech-lab/market-sim/internal/numeric"
	"github.com/rxtech-lab/market-sim/internal/random"
	"github.com/rxtech-lab/market-sim/internal/types"
)

// DefaultInitialTrades is the size of a freshly seeded tape.
const DefaultInitialTrades = 30

const amountPrecision = 4

// Generator builds and extends trade tapes. Tapes are ordered newest first.
type Generator struct {
	rng   random.Source
	clock clock.Clock
	log   *logger.Logger
}

// NewGenerator creates a trade tape Generator.
func NewGenerator(rng random.Source, clk clock.Clock, log *logger.Logger) *Generator {
	if clk == nil {
		clk = clock.Real()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Generator{rng: rng, clock: clk, log: log}
}

// Initialize seeds count trades in the recent past around basePrice.
func (g *Generator) Initialize(basePrice float64, count int) []types.TradeEntry {
	if count <= 0 {
		return []types.TradeEntry{}
	}

	if count > types.MaxTrades {
		count = types.MaxTrades
	}

	now := g.clock.Now()
	precision := market.PrecisionForPrice(basePrice)
	trades := make([]types.TradeEntry, count)

	for i := range trades {
		price := numeric.Round(basePrice*(1+random.Uniform(g.rng, -0.0025, 0.0025)), precision)
		amount := numeric.Round(g.rng.Float64(), amountPrecision)
		age := time.Duration(g.rng.Float64() * float64(time.Second) * float64(i))

		trades[i] = types.TradeEntry{
			ID:     uuid.NewString(),
			Time:   now.Add(-age),
			Price:  price,
			Amount: amount,
			Side:   g.side(),
		}
	}

	sortNewestFirst(trades)

	return trades
}

// Tick prints one new trade at the head of the tape, priced off the latest
// trade, and truncates the tape to types.MaxTrades. prev is not modified.
func (g *Generator) Tick(prev []types.TradeEntry, basePrice float64) []types.TradeEntry {
	price := basePrice
	if last, err := LastPrice(prev).Take(); err == nil {
		price = last * (1 + random.Uniform(g.rng, -0.0001, 0.0001))
	}

	trade := types.TradeEntry{
		ID:     uuid.NewString(),
		Time:   g.clock.Now(),
		Price:  numeric.Round(price, market.PrecisionForPrice(price)),
		Amount: numeric.Round(random.Uniform(g.rng, 0, 0.5), amountPrecision),
		Side:   g.side(),
	}

	keep := prev
	if len(keep) > types.MaxTrades-1 {
		keep = keep[:types.MaxTrades-1]
	}

	next := make([]types.TradeEntry, 0, len(keep)+1)
	next = append(next, trade)
	next = append(next, keep...)
	sortNewestFirst(next)

	return next
}

// LastPrice returns the price of the newest trade, if any.
func LastPrice(tape []types.TradeEntry) optional.Option[float64] {
	if len(tape) == 0 {
		return optional.None[float64]()
	}

	return optional.Some(tape[0].Price)
}

func (g *Generator) side() types.Side {
	if g.rng.Float64() > 0.5 {
		return types.SideBuy
	}

	return types.SideSell
}

func sortNewestFirst(trades []types.TradeEntry) {
	sort.SliceStable(trades, func(i, j int) bool { return trades[i].Time.After(trades[j].Time) })
}
