package tradetape

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/market-sim/internal/clock"
	"github.com/rxtech-lab/market-sim/internal/random"
	"github.com/rxtech-lab/market-sim/internal/types"
	"github.com/stretchr/testify/suite"
)

type TradeTapeTestSuite struct {
	suite.Suite
	now   time.Time
	clock *clock.Manual
}

func TestTradeTapeSuite(t *testing.T) {
	suite.Run(t, new(TradeTapeTestSuite))
}

func (suite *TradeTapeTestSuite) SetupTest() {
	suite.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	suite.clock = clock.NewManual(suite.now)
}

func (suite *TradeTapeTestSuite) assertNewestFirst(tape []types.TradeEntry) {
	for i := 1; i < len(tape); i++ {
		suite.Falsef(tape[i].Time.After(tape[i-1].Time), "trade %d is newer than trade %d", i, i-1)
	}
}

func (suite *TradeTapeTestSuite) TestInitializeRandomised() {
	gen := NewGenerator(random.NewSeeded(11), suite.clock, nil)

	tape := gen.Initialize(60000, DefaultInitialTrades)
	suite.Len(tape, DefaultInitialTrades)
	suite.assertNewestFirst(tape)

	ids := make(map[string]struct{}, len(tape))
	for _, tr := range tape {
		_, err := uuid.Parse(tr.ID)
		suite.NoError(err)
		ids[tr.ID] = struct{}{}

		suite.InDelta(60000, tr.Price, 60000*0.0025+0.01)
		suite.GreaterOrEqual(tr.Amount, 0.0)
		suite.LessOrEqual(tr.Amount, 1.0)
		suite.False(tr.Time.After(suite.now))
		suite.True(tr.Time.After(suite.now.Add(-time.Duration(DefaultInitialTrades) * time.Second)))
		suite.Contains([]types.Side{types.SideBuy, types.SideSell}, tr.Side)
	}

	suite.Len(ids, DefaultInitialTrades, "ids are unique")
}

func (suite *TradeTapeTestSuite) TestInitializeExactValues() {
	gen := NewGenerator(random.NewSequence(0.5), suite.clock, nil)

	tape := gen.Initialize(100, 3)
	suite.Require().Len(tape, 3)

	for i, tr := range tape {
		suite.Equal(100.0, tr.Price)
		suite.Equal(0.5, tr.Amount)
		suite.Equal(types.SideSell, tr.Side)
		suite.Equal(suite.now.Add(-time.Duration(i)*500*time.Millisecond), tr.Time)
	}
}

func (suite *TradeTapeTestSuite) TestInitializeBounds() {
	gen := NewGenerator(random.NewSeeded(1), suite.clock, nil)

	suite.Empty(gen.Initialize(100, 0))
	suite.Len(gen.Initialize(100, 500), types.MaxTrades)
}

func (suite *TradeTapeTestSuite) TestTickOnEmptyTapeUsesBasePrice() {
	gen := NewGenerator(random.NewSequence(1.0), suite.clock, nil)

	tape := gen.Tick(nil, 150)
	suite.Require().Len(tape, 1)
	suite.Equal(150.0, tape[0].Price)
	suite.Equal(0.5, tape[0].Amount)
	suite.Equal(types.SideBuy, tape[0].Side)
	suite.Equal(suite.now, tape[0].Time)
}

func (suite *TradeTapeTestSuite) TestTickPrependsFromLatestPrice() {
	gen := NewGenerator(random.NewSequence(1.0), suite.clock, nil)
	prev := []types.TradeEntry{
		{ID: "a", Time: suite.now.Add(-time.Second), Price: 100, Amount: 0.1, Side: types.SideSell},
		{ID: "b", Time: suite.now.Add(-2 * time.Second), Price: 99, Amount: 0.2, Side: types.SideBuy},
	}

	next := gen.Tick(prev, 60000)

	suite.Require().Len(next, 3)
	suite.Equal(100.01, next[0].Price)
	suite.Equal(suite.now, next[0].Time)
	suite.Equal(prev, next[1:])
	suite.Equal("a", prev[0].ID, "input untouched")
}

func (suite *TradeTapeTestSuite) TestTickCapsTape() {
	gen := NewGenerator(random.NewSeeded(3), suite.clock, nil)
	tape := gen.Initialize(3000, types.MaxTrades)

	suite.clock.Advance(time.Second)
	next := gen.Tick(tape, 3000)

	suite.Len(next, types.MaxTrades)
	suite.Equal(tape[:types.MaxTrades-1], next[1:])
	suite.assertNewestFirst(next)
}

func (suite *TradeTapeTestSuite) TestManyTicks() {
	gen := NewGenerator(random.NewSeeded(5), suite.clock, nil)
	tape := gen.Initialize(0.15, 10)

	for i := 0; i < 120; i++ {
		suite.clock.Advance(3 * time.Second)
		tape = gen.Tick(tape, 0.15)
	}

	suite.Len(tape, types.MaxTrades)
	suite.assertNewestFirst(tape)
	suite.InDelta(0.15, tape[0].Price, 0.01)
}

func (suite *TradeTapeTestSuite) TestLastPrice() {
	suite.True(LastPrice(nil).IsNone())
	suite.Equal(42.0, LastPrice([]types.TradeEntry{{ID: "x", Time: suite.now, Price: 42, Amount: 1, Side: types.SideBuy}}).Unwrap())
}
