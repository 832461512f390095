package types

import (
	"fmt"
	"math"
)

// LadderSide selects which side of the book a ladder belongs to.
type LadderSide string

const (
	LadderSideBid LadderSide = "bid"
	LadderSideAsk LadderSide = "ask"
)

// ParseLadderSide accepts bid/ask as well as the buy/sell spelling used by the UI.
func ParseLadderSide(s string) (LadderSide, error) {
	switch s {
	case "bid", "buy":
		return LadderSideBid, nil
	case "ask", "sell":
		return LadderSideAsk, nil
	default:
		return "", fmt.Errorf("unsupported ladder side %q", s)
	}
}

// OrderBookEntry is a single price level. Total is the cumulative amount from
// the best price down to this level.
type OrderBookEntry struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
	Total  float64 `json:"total"`
}

// OrderBook holds both ladders for a pair. Bids are sorted descending and asks
// ascending, so index 0 is the best price on each side.
type OrderBook struct {
	Pair      string           `json:"pair"`
	Bids      []OrderBookEntry `json:"bids"`
	Asks      []OrderBookEntry `json:"asks"`
	LastPrice float64          `json:"lastPrice"`
}

// Spread is the absolute distance between the best ask and best bid.
// Missing sides count as zero.
func (b OrderBook) Spread() float64 {
	var bestBid, bestAsk float64
	if len(b.Bids) > 0 {
		bestBid = b.Bids[0].Price
	}

	if len(b.Asks) > 0 {
		bestAsk = b.Asks[0].Price
	}

	return math.Abs(bestAsk - bestBid)
}

// AsksForDisplay returns the asks worst-to-best, as drawn above the spread.
func (b OrderBook) AsksForDisplay() []OrderBookEntry {
	out := make([]OrderBookEntry, len(b.Asks))
	for i, e := range b.Asks {
		out[len(b.Asks)-1-i] = e
	}

	return out
}
