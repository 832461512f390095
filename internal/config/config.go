// Package config loads the simulator configuration from YAML.
package config

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/market-sim/internal/market"
	"github.com/rxtech-lab/market-sim/internal/types"
	"github.com/rxtech-lab/market-sim/internal/version"
	"github.com/rxtech-lab/market-sim/pkg/errors"
)

// SchemaFileName is the name the schema command writes the JSON schema under.
const SchemaFileName = "market-sim-config.json"

// Config is the root configuration document.
type Config struct {
	Version   string              `yaml:"version,omitempty" json:"version,omitempty" jsonschema:"title=Version,description=Simulator release the file was written for"`
	Seed      int64               `yaml:"seed" json:"seed" jsonschema:"title=Seed,description=Random seed; 0 seeds from the clock"`
	Assets    []types.AssetConfig `yaml:"assets" json:"assets" jsonschema:"title=Assets,description=Tracked pairs" validate:"required,min=1,dive"`
	Intervals Intervals           `yaml:"intervals" json:"intervals" jsonschema:"title=Intervals,description=Refresh period of each generator"`
	Candles   CandleConfig        `yaml:"candles" json:"candles" jsonschema:"title=Candles"`
	OrderBook OrderBookConfig     `yaml:"order_book" json:"order_book" jsonschema:"title=Order Book"`
	Trades    TradesConfig        `yaml:"trades" json:"trades" jsonschema:"title=Trades"`
	Account   AccountConfig       `yaml:"account" json:"account" jsonschema:"title=Account"`
	Server    ServerConfig        `yaml:"server" json:"server" jsonschema:"title=Server"`
	Log       LogConfig           `yaml:"log" json:"log" jsonschema:"title=Log"`
}

// Intervals are the tick periods of the periodic tasks.
type Intervals struct {
	Candles   time.Duration `yaml:"candles" json:"candles" jsonschema:"title=Candles,description=Candle refresh period such as 1s" validate:"gt=0"`
	Ticker    time.Duration `yaml:"ticker" json:"ticker" jsonschema:"title=Ticker,description=Market overview refresh period" validate:"gt=0"`
	OrderBook time.Duration `yaml:"order_book" json:"order_book" jsonschema:"title=Order Book,description=Depth refresh period" validate:"gt=0"`
	Trades    time.Duration `yaml:"trades" json:"trades" jsonschema:"title=Trades,description=New trade period" validate:"gt=0"`
}

// CandleConfig sizes the candle series.
type CandleConfig struct {
	Count     int    `yaml:"count" json:"count" jsonschema:"title=Count,minimum=1,maximum=200" validate:"gte=1,lte=200"`
	Timeframe string `yaml:"timeframe" json:"timeframe" jsonschema:"title=Timeframe,enum=1m,enum=5m,enum=15m,enum=1h,enum=4h,enum=1d" validate:"required,oneof=1m 5m 15m 1h 4h 1d"`
}

// OrderBookConfig sizes the depth ladders.
type OrderBookConfig struct {
	Depth int `yaml:"depth" json:"depth" jsonschema:"title=Depth,description=Levels per side,minimum=1,maximum=100" validate:"gte=1,lte=100"`
}

// TradesConfig sizes the initial trade tape.
type TradesConfig struct {
	Initial int `yaml:"initial" json:"initial" jsonschema:"title=Initial,description=Trades seeded on start,minimum=0,maximum=50" validate:"gte=0,lte=50"`
}

// AccountConfig sizes the demo account.
type AccountConfig struct {
	Orders int `yaml:"orders" json:"orders" jsonschema:"title=Orders,description=Generated order history length,minimum=0,maximum=500" validate:"gte=0,lte=500"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address string `yaml:"address" json:"address" jsonschema:"title=Address,description=Listen address such as :8080" validate:"required"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" json:"level" jsonschema:"title=Level,enum=debug,enum=info,enum=warn,enum=error" validate:"required,oneof=debug info warn error"`
	Development bool   `yaml:"development" json:"development" jsonschema:"title=Development,description=Use the console encoder"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Version: version.GetVersion(),
		Seed:    0,
		Assets:  market.DefaultAssets(),
		Intervals: Intervals{
			Candles:   time.Second,
			Ticker:    2 * time.Second,
			OrderBook: 2500 * time.Millisecond,
			Trades:    3 * time.Second,
		},
		Candles:   CandleConfig{Count: 100, Timeframe: types.TimeframeOneMinute.String()},
		OrderBook: OrderBookConfig{Depth: 20},
		Trades:    TradesConfig{Initial: 30},
		Account:   AccountConfig{Orders: 20},
		Server:    ServerConfig{Address: ":8080"},
		Log:       LogConfig{Level: "info", Development: false},
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
	}

	if err := version.CheckConfigCompatibility(version.GetVersion(), cfg.Version); err != nil {
		return cfg, errors.Wrapf(errors.ErrCodeIncompatibleVersion, err, "config %s", path)
	}

	for i := range cfg.Assets {
		cfg.Assets[i].Pair = market.NormalizePair(cfg.Assets[i].Pair)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the struct tags and cross field rules.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	seen := make(map[string]bool, len(c.Assets))
	for _, a := range c.Assets {
		base := market.BaseSymbol(a.Pair)
		if seen[base] {
			return errors.Newf(errors.ErrCodeInvalidConfiguration, "duplicate asset %s", base)
		}

		seen[base] = true
	}

	return nil
}

// Timeframe returns the configured candle timeframe.
func (c *Config) Timeframe() types.Timeframe {
	tf, err := types.ParseTimeframe(c.Candles.Timeframe)
	if err != nil {
		return types.TimeframeOneMinute
	}

	return tf
}

// GenerateSchema reflects the JSON schema of Config.
func (c *Config) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(time.Duration(0)) {
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "market-sim-config"
	schema.Description = "Configuration schema for the market simulator"

	return schema
}

// GenerateSchemaJSON returns the indented JSON schema of Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeEncodeFailed, "failed to encode config schema", err)
	}

	return string(schemaBytes), nil
}

// SampleYAML renders cfg with a yaml-language-server header pointing at the schema.
func SampleYAML(cfg Config) ([]byte, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, "failed to encode sample config", err)
	}

	return append([]byte("# yaml-language-server: $schema="+SchemaFileName+"\n"), body...), nil
}
