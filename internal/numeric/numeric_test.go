package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type NumericTestSuite struct {
	suite.Suite
}

func TestNumericSuite(t *testing.T) {
	suite.Run(t, new(NumericTestSuite))
}

func (suite *NumericTestSuite) TestRound() {
	tests := []struct {
		name     string
		val      float64
		places   int
		expected float64
	}{
		{name: "two places", val: 60123.456, places: 2, expected: 60123.46},
		{name: "four places", val: 0.151249, places: 4, expected: 0.1512},
		{name: "half away from zero", val: 1.005, places: 2, expected: 1.01},
		{name: "negative", val: -2.345, places: 2, expected: -2.35},
		{name: "zero places", val: 12345678.9, places: 0, expected: 12345679},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.expected, Round(tt.val, tt.places))
		})
	}
}

func (suite *NumericTestSuite) TestRoundPassesThroughNonFinite() {
	suite.True(math.IsNaN(Round(math.NaN(), 2)))
	suite.True(math.IsInf(Round(math.Inf(1), 2), 1))
}

func (suite *NumericTestSuite) TestPercentChange() {
	suite.InDelta(10.0, PercentChange(100, 110), 1e-9)
	suite.InDelta(-2.5, PercentChange(100, 97.5), 1e-9)
}

func (suite *NumericTestSuite) TestPercentChangeZeroBase() {
	got := PercentChange(0, 42)
	suite.Equal(0.0, got)
	suite.False(math.IsNaN(got))
	suite.False(math.IsInf(got, 0))
}

func (suite *NumericTestSuite) TestSum() {
	suite.Equal(0.3, Sum(0.1, 0.2))
	suite.Equal(0.0, Sum())
}
