package types

// SparklineLength is the number of recent prices kept per asset.
const SparklineLength = 30

// AssetConfig describes a tracked trading pair and the reference price the
// ticker simulation starts from.
type AssetConfig struct {
	ID        string  `yaml:"id" json:"id" jsonschema:"title=ID,description=Stable asset identifier" validate:"required"`
	Name      string  `yaml:"name" json:"name" jsonschema:"title=Name" validate:"required"`
	Pair      string  `yaml:"pair" json:"pair" jsonschema:"title=Pair,description=Symbol pair such as BTC/USDT" validate:"required,contains=/"`
	BasePrice float64 `yaml:"base_price" json:"base_price" jsonschema:"title=Base Price,description=Reference quote price" validate:"gt=0"`
	// Precision is the number of decimals prices are rounded to.
	// Low unit value assets (sub $1) use 4, everything else 2.
	Precision int `yaml:"precision" json:"precision" jsonschema:"title=Precision,minimum=0,maximum=8" validate:"gte=0,lte=8"`
}

// AssetSummary is one row of the market overview.
type AssetSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Pair      string    `json:"pair"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change24h"`
	Volume24h float64   `json:"volume24h"`
	Sparkline []float64 `json:"sparkline"`
	Precision int       `json:"precision"`
}

// Clone returns a deep copy so the sparkline backing array is not shared.
func (a AssetSummary) Clone() AssetSummary {
	out := a
	out.Sparkline = make([]float64, len(a.Sparkline))
	copy(out.Sparkline, a.Sparkline)

	return out
}
