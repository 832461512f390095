// Package feed owns the simulated market state. It threads each generator's
// previous output into its next Tick, exposes copies of the latest state and
// fans updates out to subscribers.
package feed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rxtech-lab/market-sim/internal/clock"
	"github.com/rxtech-lab/market-sim/internal/config"
	"github.com/rxtech-lab/market-sim/internal/logger"
	"github.com/rxtech-lab/market-sim/internal/market"
	"github.com/rxtech-lab/market-sim/internal/random"
	"github.com/rxtech-lab/market-sim/internal/scheduler"
	"github.com/rxtech-lab/market-sim/internal/simulator/account"
	"github.com/rxtech-lab/market-sim/internal/simulator/candle"
	"github.com/rxtech-lab/market-sim/internal/simulator/orderbook"
	"github.com/rxtech-lab/market-sim/internal/simulator/ticker"
	"github.com/rxtech-lab/market-sim/internal/simulator/tradetape"
	"github.com/rxtech-lab/market-sim/internal/types"
	"github.com/rxtech-lab/market-sim/pkg/errors"
)

// Task names used with the scheduler.
const (
	TaskCandles   = "candles"
	TaskTicker    = "ticker"
	TaskOrderBook = "order_book"
	TaskTrades    = "trades"
)

// Feed is the market state hub.
type Feed struct {
	cfg     config.Config
	catalog *market.Catalog
	clock   clock.Clock
	log     *logger.Logger

	tickerGen *ticker.Generator
	candleGen *candle.Generator
	bookGen   *orderbook.Generator
	tapeGen   *tradetape.Generator
	account   *account.Account

	tickerMu sync.RWMutex
	tickers  []types.AssetSummary

	candleMu sync.RWMutex
	series   map[candle.Key][]types.Candle

	bookMu sync.RWMutex
	books  map[string]types.OrderBook

	tradeMu sync.RWMutex
	trades  map[string][]types.TradeEntry

	orders []types.OrderHistoryEntry

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
	dropped atomic.Uint64

	runMu sync.Mutex
	sched *scheduler.Scheduler
}

// New builds a Feed and seeds every generator from cfg.
func New(cfg config.Config, rng random.Source, clk clock.Clock, log *logger.Logger) (*Feed, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if clk == nil {
		clk = clock.Real()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	if rng == nil {
		rng = random.NewSeeded(cfg.Seed)
	}

	catalog := market.NewCatalog(cfg.Assets)

	f := &Feed{
		cfg:       cfg,
		catalog:   catalog,
		clock:     clk,
		log:       log,
		tickerGen: ticker.NewGenerator(rng, log),
		candleGen: candle.NewGenerator(rng, clk, catalog, log),
		bookGen:   orderbook.NewGenerator(rng, catalog, log),
		tapeGen:   tradetape.NewGenerator(rng, clk, log),
		account:   account.New(rng, clk, catalog),
		tickerMu:  sync.RWMutex{},
		tickers:   nil,
		candleMu:  sync.RWMutex{},
		series:    make(map[candle.Key][]types.Candle),
		bookMu:    sync.RWMutex{},
		books:     make(map[string]types.OrderBook),
		tradeMu:   sync.RWMutex{},
		trades:    make(map[string][]types.TradeEntry),
		orders:    nil,
		subMu:     sync.Mutex{},
		subs:      make(map[int]chan Event),
		nextSub:   0,
		dropped:   atomic.Uint64{},
		runMu:     sync.Mutex{},
		sched:     nil,
	}

	f.tickers = f.tickerGen.Initialize(catalog.Assets())

	tf := cfg.Timeframe()
	for _, pair := range catalog.Pairs() {
		series, err := f.candleGen.Initialize(pair, cfg.Candles.Count, tf)
		if err != nil {
			return nil, err
		}

		f.series[candle.Key{Pair: pair, Timeframe: tf}] = series
		f.books[pair] = f.bookGen.Initialize(pair, cfg.OrderBook.Depth)
		f.trades[pair] = f.tapeGen.Initialize(catalog.BasePrice(pair), cfg.Trades.Initial)
	}

	f.orders = f.account.GenerateOrderHistory(cfg.Account.Orders)

	log.Info("Feed initialized",
		zap.Strings("pairs", catalog.Pairs()),
		zap.String("timeframe", tf.String()),
	)

	return f, nil
}

// Catalog returns the catalog the feed was built with.
func (f *Feed) Catalog() *market.Catalog {
	return f.catalog
}

// Start schedules the periodic tasks. Each runs on its own interval with no
// ordering between them.
func (f *Feed) Start(ctx context.Context) error {
	f.runMu.Lock()
	defer f.runMu.Unlock()

	if f.sched != nil {
		return errors.New(errors.ErrCodeFeedAlreadyStarted, "feed is already running")
	}

	sched := scheduler.New(ctx, f.log)
	tasks := []struct {
		name     string
		interval time.Duration
		fn       func()
	}{
		{TaskCandles, f.cfg.Intervals.Candles, f.TickCandles},
		{TaskTicker, f.cfg.Intervals.Ticker, f.TickTicker},
		{TaskOrderBook, f.cfg.Intervals.OrderBook, f.TickOrderBooks},
		{TaskTrades, f.cfg.Intervals.Trades, f.TickTrades},
	}

	for _, task := range tasks {
		fn := task.fn
		if err := sched.Schedule(task.name, task.interval, func(context.Context) { fn() }); err != nil {
			sched.StopAll()

			return err
		}
	}

	f.sched = sched
	f.log.Info("Feed started", zap.Strings("tasks", sched.Names()))

	return nil
}

// Stop cancels every periodic task and waits for ticks in flight.
func (f *Feed) Stop() error {
	f.runMu.Lock()
	defer f.runMu.Unlock()

	if f.sched == nil {
		return errors.New(errors.ErrCodeFeedNotStarted, "feed is not running")
	}

	f.sched.StopAll()
	f.sched = nil
	f.log.Info("Feed stopped", zap.Uint64("dropped_events", f.dropped.Load()))

	return nil
}

// Running reports whether Start has been called without a matching Stop.
func (f *Feed) Running() bool {
	f.runMu.Lock()
	defer f.runMu.Unlock()

	return f.sched != nil
}

// TickTicker advances the market overview.
func (f *Feed) TickTicker() {
	f.tickerMu.Lock()
	f.tickers = f.tickerGen.Tick(f.tickers)
	snapshot := cloneSummaries(f.tickers)
	f.tickerMu.Unlock()

	f.publish(Event{Kind: EventTicker, Pair: "", Time: f.clock.Now(), Data: snapshot})
}

// TickCandles advances every tracked candle series. A series that comes back
// empty is rebuilt under its own pair and timeframe.
func (f *Feed) TickCandles() {
	var events []Event

	f.candleMu.Lock()
	for key, prev := range f.series {
		next, err := f.candleGen.Tick(prev, key)
		if errors.HasCode(err, errors.ErrCodeEmptySeries) {
			f.log.Warn("Re-initializing empty candle series", zap.String("series", key.String()))
			next, err = f.candleGen.Initialize(key.Pair, f.cfg.Candles.Count, key.Timeframe)
		}

		if err != nil {
			f.log.Error("Failed to tick candles", zap.String("series", key.String()), zap.Error(err))

			continue
		}

		f.series[key] = next
		events = append(events, Event{
			Kind: EventKline,
			Pair: key.Pair,
			Time: f.clock.Now(),
			Data: KlineUpdate{Timeframe: key.Timeframe.String(), Candle: next[len(next)-1]},
		})
	}
	f.candleMu.Unlock()

	for _, e := range events {
		f.publish(e)
	}
}

// TickOrderBooks regenerates the depth of every pair.
func (f *Feed) TickOrderBooks() {
	var events []Event

	f.bookMu.Lock()
	for pair, prev := range f.books {
		next := f.bookGen.Tick(prev)
		f.books[pair] = next
		events = append(events, Event{Kind: EventDepth, Pair: pair, Time: f.clock.Now(), Data: cloneBook(next)})
	}
	f.bookMu.Unlock()

	for _, e := range events {
		f.publish(e)
	}
}

// TickTrades prints one trade per pair, priced off the tape or the live ticker.
func (f *Feed) TickTrades() {
	prices := f.tickerPrices()

	var events []Event

	f.tradeMu.Lock()
	for pair, prev := range f.trades {
		base, ok := prices[pair]
		if !ok {
			base = f.catalog.BasePrice(pair)
		}

		next := f.tapeGen.Tick(prev, base)
		f.trades[pair] = next
		events = append(events, Event{Kind: EventTrade, Pair: pair, Time: f.clock.Now(), Data: next[0]})
	}
	f.tradeMu.Unlock()

	for _, e := range events {
		f.publish(e)
	}
}

// Tickers returns a copy of the market overview.
func (f *Feed) Tickers() []types.AssetSummary {
	f.tickerMu.RLock()
	defer f.tickerMu.RUnlock()

	return cloneSummaries(f.tickers)
}

// Candles returns the series for pair and tf, initializing and tracking it on
// first use.
func (f *Feed) Candles(pair string, tf types.Timeframe) ([]types.Candle, error) {
	pair, err := f.resolvePair(pair)
	if err != nil {
		return nil, err
	}

	if !tf.Valid() {
		return nil, errors.Newf(errors.ErrCodeInvalidTimeframe, "invalid timeframe %d", int(tf))
	}

	key := candle.Key{Pair: pair, Timeframe: tf}

	f.candleMu.RLock()
	series, ok := f.series[key]
	f.candleMu.RUnlock()

	if ok {
		return cloneCandles(series), nil
	}

	f.candleMu.Lock()
	defer f.candleMu.Unlock()

	if series, ok := f.series[key]; ok {
		return cloneCandles(series), nil
	}

	series, err = f.candleGen.Initialize(pair, f.cfg.Candles.Count, tf)
	if err != nil {
		return nil, err
	}

	f.series[key] = series
	f.log.Debug("Tracking candle series", zap.String("series", key.String()))

	return cloneCandles(series), nil
}

// SwitchTimeframe stops tracking the from series of pair and starts a fresh
// series at to. Candles are regenerated rather than resampled.
func (f *Feed) SwitchTimeframe(pair string, from, to types.Timeframe) ([]types.Candle, error) {
	pair, err := f.resolvePair(pair)
	if err != nil {
		return nil, err
	}

	if !to.Valid() {
		return nil, errors.Newf(errors.ErrCodeInvalidTimeframe, "invalid timeframe %d", int(to))
	}

	series, err := f.candleGen.Initialize(pair, f.cfg.Candles.Count, to)
	if err != nil {
		return nil, err
	}

	f.candleMu.Lock()
	delete(f.series, candle.Key{Pair: pair, Timeframe: from})
	f.series[candle.Key{Pair: pair, Timeframe: to}] = series
	f.candleMu.Unlock()

	f.log.Debug("Switched timeframe",
		zap.String("pair", pair),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)

	return cloneCandles(series), nil
}

// OrderBook returns a copy of the book of pair.
func (f *Feed) OrderBook(pair string) (types.OrderBook, error) {
	pair, err := f.resolvePair(pair)
	if err != nil {
		return types.OrderBook{}, err //nolint:exhaustruct // zero value on error
	}

	f.bookMu.RLock()
	defer f.bookMu.RUnlock()

	return cloneBook(f.books[pair]), nil
}

// Trades returns a copy of the trade tape of pair, newest first.
func (f *Feed) Trades(pair string) ([]types.TradeEntry, error) {
	pair, err := f.resolvePair(pair)
	if err != nil {
		return nil, err
	}

	f.tradeMu.RLock()
	defer f.tradeMu.RUnlock()

	out := make([]types.TradeEntry, len(f.trades[pair]))
	copy(out, f.trades[pair])

	return out, nil
}

// Balances values the demo holdings at the current ticker prices.
func (f *Feed) Balances() []types.AssetBalance {
	return f.account.Balances(f.Tickers())
}

// OrderHistory returns the generated order history, newest first.
func (f *Feed) OrderHistory() []types.OrderHistoryEntry {
	out := make([]types.OrderHistoryEntry, len(f.orders))
	copy(out, f.orders)

	return out
}

// Subscribe registers a subscriber with the given channel buffer. Events that
// do not fit are dropped so a slow reader never stalls a tick. The returned
// function unsubscribes and closes the channel; it may be called more than once.
func (f *Feed) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 0 {
		buffer = 0
	}

	ch := make(chan Event, buffer)

	f.subMu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = ch
	f.subMu.Unlock()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			f.subMu.Lock()
			delete(f.subs, id)
			f.subMu.Unlock()
			close(ch)
		})
	}
}

// Dropped reports how many events were discarded because a subscriber was full.
func (f *Feed) Dropped() uint64 {
	return f.dropped.Load()
}

func (f *Feed) publish(e Event) {
	f.subMu.Lock()
	defer f.subMu.Unlock()

	for id, ch := range f.subs {
		select {
		case ch <- e:
		default:
			f.dropped.Add(1)
			f.log.Debug("Dropped event for slow subscriber", zap.Int("subscriber", id), zap.String("kind", string(e.Kind)))
		}
	}
}

func (f *Feed) resolvePair(pair string) (string, error) {
	if pair == "" {
		return "", errors.New(errors.ErrCodeMissingParameter, "pair is required")
	}

	asset, ok := f.catalog.Lookup(pair)
	if !ok {
		return "", errors.Newf(errors.ErrCodeUnknownPair, "unknown pair %s", pair)
	}

	return asset.Pair, nil
}

func (f *Feed) tickerPrices() map[string]float64 {
	f.tickerMu.RLock()
	defer f.tickerMu.RUnlock()

	prices := make(map[string]float64, len(f.tickers))
	for _, t := range f.tickers {
		prices[t.Pair] = t.Price
	}

	return prices
}

func cloneSummaries(in []types.AssetSummary) []types.AssetSummary {
	out := make([]types.AssetSummary, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}

	return out
}

func cloneCandles(in []types.Candle) []types.Candle {
	out := make([]types.Candle, len(in))
	copy(out, in)

	return out
}

func cloneBook(in types.OrderBook) types.OrderBook {
	out := in
	out.Bids = append([]types.OrderBookEntry(nil), in.Bids...)
	out.Asks = append([]types.OrderBookEntry(nil), in.Asks...)

	return out
}
