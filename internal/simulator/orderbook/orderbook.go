// Package orderbook simulates a two sided depth ladder around a reference price.
package orderbook

import (
	"sort"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/market-sim/internal/logger"
	"github.com/rxtech-lab/market-sim/internal/market"
	"github.com/rxtech-lab/market-sim/internal/numeric"
	"github.com/rxtech-lab/market-sim/internal/random"
	"github.com/rxtech-lab/market-sim/internal/types"
)

// DefaultDepth is the number of levels generated per side.
const DefaultDepth = 20

const amountPrecision = 4

// Generator builds order book snapshots.
type Generator struct {
	rng     random.Source
	catalog *market.Catalog
	log     *logger.Logger
}

// NewGenerator creates an order book Generator.
func NewGenerator(rng random.Source, catalog *market.Catalog, log *logger.Logger) *Generator {
	if catalog == nil {
		catalog = market.NewCatalog(nil)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Generator{rng: rng, catalog: catalog, log: log}
}

// GenerateLadder builds count levels scattered around basePrice. Bid levels lean
// below the base and ask levels above it. Bids come back sorted descending and
// asks ascending; Total is the running amount from the best level outwards.
func (g *Generator) GenerateLadder(count int, basePrice float64, side types.LadderSide) []types.OrderBookEntry {
	if count <= 0 {
		return []types.OrderBookEntry{}
	}

	skew := 0.4
	if side == types.LadderSideBid {
		skew = 0.6
	}

	precision := market.PrecisionForPrice(basePrice)
	entries := make([]types.OrderBookEntry, count)

	for i := range entries {
		entries[i] = types.OrderBookEntry{
			Price:  numeric.Round(basePrice+(g.rng.Float64()-skew)*basePrice*0.01, precision),
			Amount: numeric.Round(random.Uniform(g.rng, 0, 5), amountPrecision),
			Total:  0,
		}
	}

	if side == types.LadderSideBid {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Price > entries[j].Price })
	} else {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Price < entries[j].Price })
	}

	var running float64
	for i := range entries {
		running += entries[i].Amount
		entries[i].Total = numeric.Round(running, amountPrecision)
	}

	return entries
}

// Initialize builds the first book for pair with depth levels per side.
func (g *Generator) Initialize(pair string, depth int) types.OrderBook {
	if depth <= 0 {
		depth = DefaultDepth
	}

	pair = market.NormalizePair(pair)
	base := g.catalog.BasePrice(pair)

	book := types.OrderBook{
		Pair:      pair,
		Bids:      g.GenerateLadder(depth, base*0.999, types.LadderSideBid),
		Asks:      g.GenerateLadder(depth, base*1.001, types.LadderSideAsk),
		LastPrice: numeric.Round(base*(1+random.Uniform(g.rng, -0.0005, 0.0005)), market.PrecisionForPrice(base)),
	}

	g.log.Debug("Initialized order book", zap.String("pair", pair), zap.Int("depth", depth))

	return book
}

// Tick regenerates both ladders from the current best prices and drifts the
// last price. A side with no levels restarts from the catalog reference price.
func (g *Generator) Tick(prev types.OrderBook) types.OrderBook {
	base := g.catalog.BasePrice(prev.Pair)

	bidBase := BestBid(prev).TakeOr(base)
	askBase := BestAsk(prev).TakeOr(base)

	bidDepth, askDepth := len(prev.Bids), len(prev.Asks)
	if bidDepth == 0 {
		bidDepth = DefaultDepth
	}

	if askDepth == 0 {
		askDepth = DefaultDepth
	}

	last := prev.LastPrice
	if last <= 0 {
		last = base
	}

	return types.OrderBook{
		Pair:      prev.Pair,
		Bids:      g.GenerateLadder(bidDepth, bidBase, types.LadderSideBid),
		Asks:      g.GenerateLadder(askDepth, askBase, types.LadderSideAsk),
		LastPrice: numeric.Round(last*(1+random.Uniform(g.rng, -0.00025, 0.00025)), market.PrecisionForPrice(last)),
	}
}

// BestBid returns the highest bid, if any.
func BestBid(book types.OrderBook) optional.Option[float64] {
	if len(book.Bids) == 0 {
		return optional.None[float64]()
	}

	return optional.Some(book.Bids[0].Price)
}

// BestAsk returns the lowest ask, if any.
func BestAsk(book types.OrderBook) optional.Option[float64] {
	if len(book.Asks) == 0 {
		return optional.None[float64]()
	}

	return optional.Some(book.Asks[0].Price)
}
