package types

import "time"

// MaxCandles caps a stored candle series; older bars are evicted first.
const MaxCandles = 200

// Candle is an OHLCV bar. Time is the bar open in seconds since epoch.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// OpenTime returns the bar open as a time.Time in UTC.
func (c Candle) OpenTime() time.Time {
	return time.Unix(c.Time, 0).UTC()
}

// IsConsistent reports whether high and low bracket both open and close.
func (c Candle) IsConsistent() bool {
	return c.High >= max(c.Open, c.Close) && c.Low <= min(c.Open, c.Close)
}
