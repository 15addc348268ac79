package common

// Side denotes order side.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderStatus normalizes exchange status into a small set.
type OrderStatus string

const (
	StatusNew      OrderStatus = "NEW"
	StatusFilled   OrderStatus = "FILLED"
	StatusRejected OrderStatus = "REJECTED"
	StatusUnknown  OrderStatus = "UNKNOWN"
)

// Candle is a single OHLCV bar. Timestamps are milliseconds since epoch.
type Candle struct {
	OpenTime int64
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// AssetBalance holds the free/used/total breakdown for one asset.
type AssetBalance struct {
	Free  float64
	Used  float64
	Total float64
}

// Ticker carries the last traded price for a pair.
type Ticker struct {
	Pair string
	Last float64
	Time int64
}

// Order is the exchange acknowledgement of a submitted order.
type Order struct {
	ID       string // exchange-assigned id
	ClientID string
	Pair     string
	Side     Side
	Amount   float64 // as submitted: base qty, or quote notional for amount-in-quote buys
	Status   OrderStatus
}
