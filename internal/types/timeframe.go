package types

import (
	"fmt"
	"strings"
)

// Timeframe is the number of minutes a candle covers.
type Timeframe int

const (
	TimeframeOneMinute      Timeframe = 1
	TimeframeFiveMinutes    Timeframe = 5
	TimeframeFifteenMinutes Timeframe = 15
	TimeframeOneHour        Timeframe = 60
	TimeframeFourHours      Timeframe = 240
	TimeframeOneDay         Timeframe = 1440
)

var timeframeLabels = map[Timeframe]string{
	TimeframeOneMinute:      "1m",
	TimeframeFiveMinutes:    "5m",
	TimeframeFifteenMinutes: "15m",
	TimeframeOneHour:        "1h",
	TimeframeFourHours:      "4h",
	TimeframeOneDay:         "1d",
}

// Timeframes lists the supported timeframes in display order.
func Timeframes() []Timeframe {
	return []Timeframe{
		TimeframeOneMinute,
		TimeframeFiveMinutes,
		TimeframeFifteenMinutes,
		TimeframeOneHour,
		TimeframeFourHours,
		TimeframeOneDay,
	}
}

// ParseTimeframe parses labels such as "1m", "15m", "1H" or "1d".
func ParseTimeframe(label string) (Timeframe, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for tf, l := range timeframeLabels {
		if l == normalized {
			return tf, nil
		}
	}

	return 0, fmt.Errorf("unsupported timeframe %q", label)
}

// Minutes returns the timeframe length in minutes.
func (t Timeframe) Minutes() int {
	return int(t)
}

// Seconds returns the timeframe length in seconds.
func (t Timeframe) Seconds() int64 {
	return int64(t) * 60
}

// Valid reports whether t is positive.
func (t Timeframe) Valid() bool {
	return t > 0
}

// String returns the label, or "<n>m" for timeframes outside the supported set.
func (t Timeframe) String() string {
	if l, ok := timeframeLabels[t]; ok {
		return l
	}

	return fmt.Sprintf("%dm", int(t))
}
