package numeric

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds val to the given number of decimal places, half away from zero.
func Round(val float64, places int) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}

	return decimal.NewFromFloat(val).Round(int32(places)).InexactFloat64() //nolint:gosec // places is a small precision
}

// PercentChange returns the percentage move from `from` to `to`.
// A zero base reports no change instead of a non-finite value.
func PercentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}

	return decimal.NewFromFloat(to).
		Sub(decimal.NewFromFloat(from)).
		Div(decimal.NewFromFloat(from)).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()
}

// Sum adds values without accumulating binary floating point drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}

	return total.InexactFloat64()
}
