package types

import "time"

// AssetBalance is a holding valued in USD.
type AssetBalance struct {
	Asset    string  `json:"asset"`
	Balance  float64 `json:"balance"`
	USDValue float64 `json:"usdValue"`
}

// OrderType is limit or market.
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

// OrderStatus is the final state of a historical order.
type OrderStatus string

const (
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// OrderHistoryEntry is a synthetic past order shown on the profile screen.
type OrderHistoryEntry struct {
	ID     string      `json:"id"`
	Date   time.Time   `json:"date"`
	Pair   string      `json:"pair"`
	Type   OrderType   `json:"type"`
	Side   Side        `json:"side"`
	Price  float64     `json:"price"`
	Amount float64     `json:"amount"`
	Filled float64     `json:"filled"`
	Total  float64     `json:"total"`
	Status OrderStatus `json:"status"`
}
