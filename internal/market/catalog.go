// Package market holds the static catalog of simulated pairs: reference prices,
// price precision and pair spelling helpers.
package market

import (
	"strings"

	"github.com/rxtech-lab/market-sim/internal/types"
)

// DefaultBasePrice is used for pairs that are not in the catalog.
const DefaultBasePrice = 150.0

// DefaultPrecision is the number of decimals used for prices of unknown pairs.
const DefaultPrecision = 2

// DefaultPair is the pair screens open with.
const DefaultPair = "BTC/USDT"

var defaultAssets = []types.AssetConfig{
	{ID: "bitcoin", Name: "Bitcoin", Pair: "BTC/USDT", BasePrice: 60000, Precision: 2},
	{ID: "ethereum", Name: "Ethereum", Pair: "ETH/USDT", BasePrice: 3000, Precision: 2},
	{ID: "solana", Name: "Solana", Pair: "SOL/USDT", BasePrice: 150, Precision: 2},
	{ID: "dogecoin", Name: "Dogecoin", Pair: "DOGE/USDT", BasePrice: 0.15, Precision: 4},
	{ID: "cardano", Name: "Cardano", Pair: "ADA/USDT", BasePrice: 0.5, Precision: 4},
}

// DefaultAssets returns a copy of the built in asset list.
func DefaultAssets() []types.AssetConfig {
	out := make([]types.AssetConfig, len(defaultAssets))
	copy(out, defaultAssets)

	return out
}

// Catalog resolves reference prices and precision for pairs.
type Catalog struct {
	assets []types.AssetConfig
}

// NewCatalog builds a catalog from the configured assets. An empty list falls
// back to DefaultAssets.
func NewCatalog(assets []types.AssetConfig) *Catalog {
	if len(assets) == 0 {
		assets = DefaultAssets()
	}

	normalized := make([]types.AssetConfig, len(assets))
	for i, a := range assets {
		a.Pair = NormalizePair(a.Pair)
		normalized[i] = a
	}

	return &Catalog{assets: normalized}
}

// Assets returns the configured assets.
func (c *Catalog) Assets() []types.AssetConfig {
	out := make([]types.AssetConfig, len(c.assets))
	copy(out, c.assets)

	return out
}

// Pairs returns the configured pairs in catalog order.
func (c *Catalog) Pairs() []string {
	pairs := make([]string, len(c.assets))
	for i, a := range c.assets {
		pairs[i] = a.Pair
	}

	return pairs
}

// Lookup finds the asset whose pair shares the base symbol of pair.
func (c *Catalog) Lookup(pair string) (types.AssetConfig, bool) {
	base := BaseSymbol(pair)
	for _, a := range c.assets {
		if BaseSymbol(a.Pair) == base {
			return a, true
		}
	}

	return types.AssetConfig{}, false //nolint:exhaustruct // zero value for not found
}

// Has reports whether pair is configured.
func (c *Catalog) Has(pair string) bool {
	_, ok := c.Lookup(pair)

	return ok
}

// BasePrice returns the reference price for pair, keyed by its base symbol.
func (c *Catalog) BasePrice(pair string) float64 {
	if a, ok := c.Lookup(pair); ok {
		return a.BasePrice
	}

	return DefaultBasePrice
}

// Precision returns the price decimals for pair.
func (c *Catalog) Precision(pair string) int {
	if a, ok := c.Lookup(pair); ok {
		return a.Precision
	}

	return DefaultPrecision
}

// NormalizePair converts "btc-usdt", "BTC_USDT" or "BTC/USDT" into "BTC/USDT".
// Pairs without a separator are returned upper cased.
func NormalizePair(pair string) string {
	p := strings.ToUpper(strings.TrimSpace(pair))

	return strings.NewReplacer("-", "/", "_", "/").Replace(p)
}

// URLPair converts a canonical pair into the dash form used in URLs.
func URLPair(pair string) string {
	return strings.ReplaceAll(NormalizePair(pair), "/", "-")
}

// BaseSymbol returns the part before the separator, e.g. BTC for BTC/USDT.
func BaseSymbol(pair string) string {
	p := NormalizePair(pair)
	if i := strings.Index(p, "/"); i >= 0 {
		return p[:i]
	}

	return p
}

// QuoteSymbol returns the part after the separator, or "" when there is none.
func QuoteSymbol(pair string) string {
	p := NormalizePair(pair)
	if i := strings.Index(p, "/"); i >= 0 {
		return p[i+1:]
	}

	return ""
}

// PrecisionForPrice picks price decimals from the magnitude of price:
// sub-$1 assets keep 4 decimals, everything else 2.
func PrecisionForPrice(price float64) int {
	if price > 0 && price < 1 {
		return 4
	}

	return DefaultPrecision
}
