package market

import (
	"testing"

	"github.com/rxtech-lab/market-sim/internal/types"
	"github.com/stretchr/testify/suite"
)

type CatalogTestSuite struct {
	suite.Suite
	catalog *Catalog
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func (suite *CatalogTestSuite) SetupTest() {
	suite.catalog = NewCatalog(nil)
}

func (suite *CatalogTestSuite) TestDefaultAssets() {
	assets := DefaultAssets()
	suite.Len(assets, 5)
	suite.Equal("bitcoin", assets[0].ID)

	assets[0].BasePrice = 1
	suite.Equal(60000.0, DefaultAssets()[0].BasePrice, "callers get a copy")
}

func (suite *CatalogTestSuite) TestBasePriceByPrefix() {
	tests := []struct {
		pair     string
		expected float64
	}{
		{pair: "BTC/USDT", expected: 60000},
		{pair: "BTC-USDT", expected: 60000},
		{pair: "btc/eur", expected: 60000},
		{pair: "ETH/USDT", expected: 3000},
		{pair: "SOL/USDT", expected: 150},
		{pair: "DOGE/USDT", expected: 0.15},
		{pair: "ADA/USDT", expected: 0.5},
		{pair: "XRP/USDT", expected: DefaultBasePrice},
		{pair: "UNKNOWN", expected: DefaultBasePrice},
	}

	for _, tt := range tests {
		suite.Run(tt.pair, func() {
			suite.Equal(tt.expected, suite.catalog.BasePrice(tt.pair))
		})
	}
}

func (suite *CatalogTestSuite) TestPrecision() {
	suite.Equal(2, suite.catalog.Precision("BTC/USDT"))
	suite.Equal(4, suite.catalog.Precision("DOGE-USDT"))
	suite.Equal(DefaultPrecision, suite.catalog.Precision("XRP/USDT"))
}

func (suite *CatalogTestSuite) TestCustomCatalogNormalizesPairs() {
	catalog := NewCatalog([]types.AssetConfig{
		{ID: "ripple", Name: "Ripple", Pair: "xrp-usdt", BasePrice: 0.6, Precision: 4},
	})

	suite.Equal([]string{"XRP/USDT"}, catalog.Pairs())
	suite.True(catalog.Has("XRP/USDT"))
	suite.False(catalog.Has("BTC/USDT"))
	suite.Equal(0.6, catalog.BasePrice("XRP/USDT"))
}

func (suite *CatalogTestSuite) TestPairSpelling() {
	suite.Equal("BTC/USDT", NormalizePair(" btc-usdt "))
	suite.Equal("BTC/USDT", NormalizePair("BTC_USDT"))
	suite.Equal("BTC-USDT", URLPair("BTC/USDT"))
	suite.Equal("DOGE", BaseSymbol("doge/usdt"))
	suite.Equal("USDT", QuoteSymbol("DOGE-USDT"))
	suite.Equal("", QuoteSymbol("BTCUSDT"))
	suite.Equal("BTCUSDT", BaseSymbol("BTCUSDT"))
}

func (suite *CatalogTestSuite) TestPrecisionForPrice() {
	suite.Equal(4, PrecisionForPrice(0.15))
	suite.Equal(2, PrecisionForPrice(1))
	suite.Equal(2, PrecisionForPrice(60000))
	suite.Equal(2, PrecisionForPrice(0))
}
