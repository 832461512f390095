package candle

import (
	"testing"
	"time"

	"github.com/rxtech-lab/market-sim/internal/clock"
	"github.com/rxtech-lab/market-sim/internal/market"
	"github.com/rxtech-lab/market-sim/internal/numeric"
	"github.com/rxtech-lab/market-sim/internal/random"
	"github.com/rxtech-lab/market-sim/internal/types"
	"github.com/rxtech-lab/market-sim/mocks"
	"github.com/rxtech-lab/market-sim/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CandleTestSuite struct {
	suite.Suite
	now   time.Time
	clock *clock.Manual
	gen   *Generator
}

func TestCandleSuite(t *testing.T) {
	suite.Run(t, new(CandleTestSuite))
}

func (suite *CandleTestSuite) SetupTest() {
	suite.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	suite.clock = clock.NewManual(suite.now)
	suite.gen = NewGenerator(random.NewSeeded(42), suite.clock, nil, nil)
}

func (suite *CandleTestSuite) assertInvariants(series []types.Candle, tf types.Timeframe) {
	for i, c := range series {
		suite.Truef(c.IsConsistent(), "bar %d not bracketed: %+v", i, c)
		suite.Greater(c.Low, 0.0)
		suite.GreaterOrEqual(c.Volume, 0.0)

		if i > 0 {
			suite.Equalf(tf.Seconds(), c.Time-series[i-1].Time, "spacing at bar %d", i)
		}
	}
}

func (suite *CandleTestSuite) TestInitializeHourlySeries() {
	series, err := suite.gen.Initialize("BTC/USDT", 100, types.TimeframeOneHour)
	suite.Require().NoError(err)
	suite.Len(series, 100)

	suite.Equal(suite.now.Unix()-100*3600, series[0].Time)
	suite.Equal(suite.now.Unix()-3600, series[99].Time)
	suite.Equal(60000.0, series[0].Open, "first bar opens at the reference price")
	suite.assertInvariants(series, types.TimeframeOneHour)

	for i := 1; i < len(series); i++ {
		suite.Equal(series[i-1].Close, series[i].Open, "each bar opens at the previous close")
	}
}

func (suite *CandleTestSuite) TestInitializeExactValues() {
	gen := NewGenerator(random.NewSequence(0.5), suite.clock, nil, nil)

	series, err := gen.Initialize("BTC/USDT", 1, types.TimeframeOneMinute)
	suite.Require().NoError(err)
	suite.Require().Len(series, 1)

	suite.Equal(types.Candle{
		Time:   suite.now.Unix() - 60,
		Open:   60000,
		High:   60300,
		Low:    59700,
		Close:  60000,
		Volume: 50,
	}, series[0])
}

func (suite *CandleTestSuite) TestInitializeIsIdempotentInShape() {
	a, err := suite.gen.Initialize("ETH/USDT", 50, types.TimeframeFiveMinutes)
	suite.Require().NoError(err)
	b, err := suite.gen.Initialize("ETH/USDT", 50, types.TimeframeFiveMinutes)
	suite.Require().NoError(err)

	suite.Len(a, 50)
	suite.Len(b, 50)
	suite.assertInvariants(a, types.TimeframeFiveMinutes)
	suite.assertInvariants(b, types.TimeframeFiveMinutes)
	suite.Equal(a[0].Time, b[0].Time)
}

func (suite *CandleTestSuite) TestInitializeClampsToCap() {
	series, err := suite.gen.Initialize("SOL/USDT", 500, types.TimeframeOneMinute)
	suite.Require().NoError(err)
	suite.Len(series, types.MaxCandles)
}

func (suite *CandleTestSuite) TestInitializeLowUnitPairKeepsPrecision() {
	series, err := suite.gen.Initialize("DOGE/USDT", 20, types.TimeframeOneMinute)
	suite.Require().NoError(err)
	suite.Equal(0.15, series[0].Open)
	suite.assertInvariants(series, types.TimeframeOneMinute)
}

func (suite *CandleTestSuite) TestInitializeRejectsBadInput() {
	_, err := suite.gen.Initialize("BTC/USDT", 0, types.TimeframeOneMinute)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = suite.gen.Initialize("BTC/USDT", 10, types.Timeframe(0))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimeframe))
}

func (suite *CandleTestSuite) TestTickAfterBoundaryAppendsBar() {
	series, err := suite.gen.Initialize("BTC/USDT", 100, types.TimeframeOneHour)
	suite.Require().NoError(err)

	snapshot := make([]types.Candle, len(series))
	copy(snapshot, series)

	// Initialize ends one timeframe before now, so the boundary is now.
	next, err := suite.gen.Tick(series, Key{Pair: "BTC/USDT", Timeframe: types.TimeframeOneHour})
	suite.Require().NoError(err)

	suite.Len(next, 101)
	suite.Equal(snapshot, next[:100], "earlier bars untouched")
	suite.Equal(snapshot, series, "input untouched")
	suite.Equal(series[99].Close, next[100].Open)
	suite.Equal(series[99].Time+3600, next[100].Time)
	suite.assertInvariants(next, types.TimeframeOneHour)
}

func (suite *CandleTestSuite) TestTickBeforeBoundaryEvolvesLastBar() {
	series, err := suite.gen.Initialize("BTC/USDT", 100, types.TimeframeOneHour)
	suite.Require().NoError(err)

	series, err = suite.gen.Tick(series, Key{Pair: "BTC/USDT", Timeframe: types.TimeframeOneHour})
	suite.Require().NoError(err)
	suite.Require().Len(series, 101)

	suite.clock.Advance(30 * time.Minute)

	next, err := suite.gen.Tick(series, Key{Pair: "BTC/USDT", Timeframe: types.TimeframeOneHour})
	suite.Require().NoError(err)

	suite.Len(next, 101)
	suite.Equal(series[:100], next[:100])

	last, updated := series[100], next[100]
	suite.Equal(last.Time, updated.Time)
	suite.Equal(last.Open, updated.Open)
	suite.GreaterOrEqual(updated.Volume, last.Volume)
	suite.GreaterOrEqual(updated.High, last.High)
	suite.LessOrEqual(updated.Low, last.Low)
	suite.True(updated.IsConsistent())
}

func (suite *CandleTestSuite) TestTickEvolveExactValues() {
	gen := NewGenerator(random.NewSequence(1.0), suite.clock, nil, nil)
	prev := []types.Candle{{Time: suite.now.Unix(), Open: 100, High: 100.1, Low: 99.9, Close: 100, Volume: 1}}

	next, err := gen.Tick(prev, Key{Pair: "SOL/USDT", Timeframe: types.TimeframeOneMinute})
	suite.Require().NoError(err)

	// close moves by the maximum +0.25% and drags the high with it
	suite.InDelta(100.25, next[0].Close, 1e-9)
	suite.InDelta(100.25, next[0].High, 1e-9)
	suite.Equal(99.9, next[0].Low)
	suite.InDelta(6.0, next[0].Volume, 1e-9)
}

func (suite *CandleTestSuite) TestTickEvictsAtCap() {
	series, err := suite.gen.Initialize("BTC/USDT", types.MaxCandles, types.TimeframeOneMinute)
	suite.Require().NoError(err)

	next, err := suite.gen.Tick(series, Key{Pair: "BTC/USDT", Timeframe: types.TimeframeOneMinute})
	suite.Require().NoError(err)

	suite.Len(next, types.MaxCandles)
	suite.Equal(series[1], next[0], "only the oldest bar is evicted")
	suite.Equal(series[len(series)-1], next[len(next)-2])
	suite.Equal(series[len(series)-1].Close, next[len(next)-1].Open)
	suite.assertInvariants(next, types.TimeframeOneMinute)
}

func (suite *CandleTestSuite) TestManyTicksKeepInvariants() {
	series, err := suite.gen.Initialize("ETH/USDT", 150, types.TimeframeOneMinute)
	suite.Require().NoError(err)

	for i := 0; i < 600; i++ {
		suite.clock.Advance(time.Second)
		series, err = suite.gen.Tick(series, Key{Pair: "ETH/USDT", Timeframe: types.TimeframeOneMinute})
		suite.Require().NoError(err)
		suite.LessOrEqual(len(series), types.MaxCandles)
	}

	suite.assertInvariants(series, types.TimeframeOneMinute)
}

func (suite *CandleTestSuite) TestTickEmptySeriesReportsError() {
	next, err := suite.gen.Tick(nil, Key{Pair: "BTC/USDT", Timeframe: types.TimeframeOneMinute})
	suite.Nil(next)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
}

func (suite *CandleTestSuite) TestTickInvalidTimeframe() {
	_, err := suite.gen.Tick([]types.Candle{{Time: 1, Open: 1, High: 1, Low: 1, Close: 1, Volume: 0}}, Key{Pair: "BTC/USDT", Timeframe: types.Timeframe(-5)})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimeframe))
}

func (suite *CandleTestSuite) TestTickReadsClockOnce() {
	ctrl := gomock.NewController(suite.T())
	clk := mocks.NewMockClock(ctrl)
	clk.EXPECT().Now().Return(time.Unix(1000, 0)).Times(1)

	gen := NewGenerator(random.NewSequence(0.5), clk, nil, nil)
	prev := []types.Candle{{Time: 940, Open: 10, High: 10, Low: 10, Close: 10, Volume: 0}}

	next, err := gen.Tick(prev, Key{Pair: "SOL/USDT", Timeframe: types.TimeframeOneMinute})
	suite.Require().NoError(err)
	suite.Len(next, 2)
	suite.Equal(int64(1000), next[1].Time)
}

func (suite *CandleTestSuite) TestTickKeepsCatalogPrecision() {
	catalog := market.NewCatalog([]types.AssetConfig{
		{ID: "shiba", Name: "Shiba", Pair: "SHIB/USDT", BasePrice: 0.00002, Precision: 8},
		{ID: "penny", Name: "Penny", Pair: "PENNY/USDT", BasePrice: 0.5, Precision: 2},
	})
	gen := NewGenerator(random.NewSeeded(7), suite.clock, catalog, nil)

	tests := []struct {
		pair      string
		precision int
	}{
		{pair: "SHIB/USDT", precision: 8},
		{pair: "PENNY/USDT", precision: 2},
	}

	for _, tc := range tests {
		suite.Run(tc.pair, func() {
			key := Key{Pair: tc.pair, Timeframe: types.TimeframeOneMinute}

			series, err := gen.Initialize(tc.pair, 10, key.Timeframe)
			suite.Require().NoError(err)

			// first tick appends, the following ones evolve the live bar
			for i := 0; i < 5; i++ {
				series, err = gen.Tick(series, key)
				suite.Require().NoError(err)
				suite.clock.Advance(time.Second)
			}

			suite.Require().Len(series, 11)

			for _, c := range series {
				for _, price := range []float64{c.Open, c.High, c.Low, c.Close} {
					suite.Greater(price, 0.0)
					suite.Equal(numeric.Round(price, tc.precision), price, "bar %d priced off precision", c.Time)
				}
			}
		})
	}
}

func (suite *CandleTestSuite) TestKeyString() {
	suite.Equal("BTC/USDT@1h", Key{Pair: "BTC/USDT", Timeframe: types.TimeframeOneHour}.String())
}
