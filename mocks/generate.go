package mocks

//go:generate mockgen -destination=./mock_source.go -package=mocks github.com/rxtech-lab/market-sim/internal/random Source
//go:generate mockgen -destination=./mock_clock.go -package=mocks github.com/rxtech-lab/market-sim/internal/clock Clock
//go:generate mockgen -destination=./servermocks/mock_market_data.go -package=servermocks github.com/rxtech-lab/market-sim/internal/server MarketData
