package feed

import (
	"time"

	"github.com/rxtech-lab/market-sim/internal/types"
)

// EventKind names the stream an Event belongs to.
type EventKind string

const (
	EventTicker EventKind = "ticker"
	EventKline  EventKind = "kline"
	EventDepth  EventKind = "depth"
	EventTrade  EventKind = "trade"
)

// Event is one update pushed to subscribers. Pair is empty for ticker events,
// which always carry every asset.
type Event struct {
	Kind EventKind `json:"type"`
	Pair string    `json:"pair,omitempty"`
	Time time.Time `json:"time"`
	Data any       `json:"data"`
}

// KlineUpdate is the payload of a kline event: the most recent bar of a series.
type KlineUpdate struct {
	Timeframe string       `json:"timeframe"`
	Candle    types.Candle `json:"candle"`
}
