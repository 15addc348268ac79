package common

import "context"

// Connector abstracts the spot exchange operations the engine relies on.
// Whether market-buy amounts are quote notional or base quantity is fixed
// connector configuration, never probed at runtime.
type Connector interface {
	// FetchBalances returns per-asset balances for the trading account.
	FetchBalances(ctx context.Context) (map[string]AssetBalance, error)
	// FetchTicker returns the last traded price for a pair.
	FetchTicker(ctx context.Context, pair string) (Ticker, error)
	// FetchCandles returns up to limit most recent bars for the pair/timeframe,
	// oldest first.
	FetchCandles(ctx context.Context, pair, timeframe string, limit int) ([]Candle, error)
	// CreateMarketBuyOrder submits a market buy.
	CreateMarketBuyOrder(ctx context.Context, pair string, amount float64) (Order, error)
	// CreateMarketSellOrder submits a market sell for a base quantity.
	CreateMarketSellOrder(ctx context.Context, pair string, amount float64) (Order, error)
}
