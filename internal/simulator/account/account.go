// Package account provides the demo account shown next to the market: fixed
// holdings valued at live prices and a synthetic order history.
package account

import (
	"fmt"
	"sort"
	"time"

	"github.com/rxtech-lab/market-sim/internal/clock"
	"github.com/rxtech-lab/market-sim/internal/market"
	"github.com/rxtech-lab/market-sim/internal/numeric"
	"github.com/rxtech-lab/market-sim/internal/random"
	"github.com/rxtech-lab/market-sim/internal/types"
)

// DefaultOrderCount is the size of the generated order history.
const DefaultOrderCount = 20

const historyWindow = 30 * 24 * time.Hour

// Holding is a fixed quantity of one asset.
type Holding struct {
	Asset  string
	Amount float64
}

// DefaultHoldings returns the demo account positions.
func DefaultHoldings() []Holding {
	return []Holding{
		{Asset: "USDT", Amount: 10000.50},
		{Asset: "BTC", Amount: 0.50123},
		{Asset: "ETH", Amount: 10.12345},
		{Asset: "SOL", Amount: 150.75},
	}
}

var (
	historyPairs    = []string{"BTC/USDT", "ETH/USDT", "SOL/USDT"}
	amountScale     = map[string]float64{"BTC": 1, "ETH": 10, "SOL": 100}
	historyStatuses = []types.OrderStatus{
		types.OrderStatusFilled,
		types.OrderStatusPartiallyFilled,
		types.OrderStatusCancelled,
	}
)

// Account values holdings and fabricates order history.
type Account struct {
	rng      random.Source
	clock    clock.Clock
	catalog  *market.Catalog
	holdings []Holding
}

// New creates an Account with DefaultHoldings.
func New(rng random.Source, clk clock.Clock, catalog *market.Catalog) *Account {
	if clk == nil {
		clk = clock.Real()
	}

	if catalog == nil {
		catalog = market.NewCatalog(nil)
	}

	return &Account{rng: rng, clock: clk, catalog: catalog, holdings: DefaultHoldings()}
}

// Balances values every holding against the latest ticker price of its asset.
// Stablecoins count as one dollar; assets without a ticker use the catalog price.
func (a *Account) Balances(tickers []types.AssetSummary) []types.AssetBalance {
	prices := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		prices[market.BaseSymbol(t.Pair)] = t.Price
	}

	out := make([]types.AssetBalance, 0, len(a.holdings))
	for _, h := range a.holdings {
		price := 1.0
		if h.Asset != "USDT" {
			p, ok := prices[h.Asset]
			if !ok {
				p = a.catalog.BasePrice(h.Asset)
			}

			price = p
		}

		out = append(out, types.AssetBalance{
			Asset:    h.Asset,
			Balance:  h.Amount,
			USDValue: numeric.Round(h.Amount*price, 2),
		})
	}

	return out
}

// TotalUSD sums the USD value of balances.
func TotalUSD(balances []types.AssetBalance) float64 {
	values := make([]float64, len(balances))
	for i, b := range balances {
		values[i] = b.USDValue
	}

	return numeric.Round(numeric.Sum(values...), 2)
}

// GenerateOrderHistory fabricates count past orders from the last 30 days,
// newest first.
func (a *Account) GenerateOrderHistory(count int) []types.OrderHistoryEntry {
	if count <= 0 {
		return []types.OrderHistoryEntry{}
	}

	now := a.clock.Now()
	orders := make([]types.OrderHistoryEntry, count)

	for i := range orders {
		side := types.SideSell
		if a.rng.Float64() > 0.5 {
			side = types.SideBuy
		}

		pair := historyPairs[a.pick(len(historyPairs))]
		base := a.catalog.BasePrice(pair)
		price := base * (1 + random.Uniform(a.rng, -0.05, 0.05))
		amount := a.rng.Float64() * amountScale[market.BaseSymbol(pair)]
		filled := amount * random.Uniform(a.rng, 0.5, 1)
		age := time.Duration(a.rng.Float64() * float64(historyWindow))

		orderType := types.OrderTypeMarket
		if a.rng.Float64() > 0.3 {
			orderType = types.OrderTypeLimit
		}

		orders[i] = types.OrderHistoryEntry{
			ID:     fmt.Sprintf("ORD%d", 1000+i),
			Date:   now.Add(-age),
			Pair:   pair,
			Type:   orderType,
			Side:   side,
			Price:  numeric.Round(price, 2),
			Amount: numeric.Round(amount, 4),
			Filled: numeric.Round(filled, 4),
			Total:  numeric.Round(price*filled, 2),
			Status: historyStatuses[a.pick(len(historyStatuses))],
		}
	}

	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Date.After(orders[j].Date) })

	return orders
}

// pick returns an index in [0, n).
func (a *Account) pick(n int) int {
	i := int(a.rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}

	return i
}
