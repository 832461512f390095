package types

import (
	"fmt"
	"time"
)

// MaxTrades caps the recent trades tape.
const MaxTrades = 50

// Side is the aggressor side of a trade or order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide parses buy or sell.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideBuy, SideSell:
		return Side(s), nil
	default:
		return "", fmt.Errorf("unsupported side %q", s)
	}
}

// TradeEntry is one print on the recent trades tape.
type TradeEntry struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Price  float64   `json:"price"`
	Amount float64   `json:"amount"`
	Side   Side      `json:"side"`
}
