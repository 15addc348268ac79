// Package engine runs the flat/long position state machine. One tick fetches
// the latest candle history, derives indicators, evaluates the entry or exit
// path for the current state, and commits at most one state transition.
package engine

import (
	"sync"
	"time"

	"daytrader/internal/events"
	"daytrader/internal/indicators"
	"daytrader/internal/order"
	"daytrader/internal/session"
	"daytrader/pkg/exchanges/common"
)

// Params are the strategy's risk and cadence parameters.
type Params struct {
	RiskPerTrade   float64
	Leverage       float64
	TakeProfitPct  float64
	StopLossPct    float64
	MaxDailyTrades int
	// CandleLimit is how many bars each tick requests from the exchange.
	CandleLimit  int
	TickInterval time.Duration
	ErrorBackoff time.Duration
}

// Engine owns the trading state and drives it from market data.
type Engine struct {
	pair      string
	timeframe string
	params    Params

	connector common.Connector
	gateway   *order.Gateway
	session   *session.Controller
	bus       *events.Bus

	now func() time.Time

	mu    sync.RWMutex
	state State

	// last observed market context, for the operator API
	lastPrice    float64
	lastSnapshot indicators.Snapshot
	lastTick     time.Time
}

// New wires an engine. The session controller and bus may be nil.
func New(pair, timeframe string, params Params, connector common.Connector, gateway *order.Gateway, sess *session.Controller, bus *events.Bus) *Engine {
	if params.CandleLimit < indicators.MinHistory {
		params.CandleLimit = 100
	}
	if params.TickInterval <= 0 {
		params.TickInterval = 5 * time.Minute
	}
	if params.ErrorBackoff <= 0 {
		params.ErrorBackoff = time.Minute
	}
	return &Engine{
		pair:      pair,
		timeframe: timeframe,
		params:    params,
		connector: connector,
		gateway:   gateway,
		session:   sess,
		bus:       bus,
		now:       time.Now,
	}
}

// State returns a copy of the current trading state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Status is a point-in-time view of the engine for the operator API.
type Status struct {
	Pair            string     `json:"pair"`
	Timeframe       string     `json:"timeframe"`
	InPosition      bool       `json:"in_position"`
	EntryPrice      float64    `json:"entry_price,omitempty"`
	PositionSize    float64    `json:"position_size,omitempty"`
	TakeProfitAt    float64    `json:"take_profit_at,omitempty"`
	StopLossAt      float64    `json:"stop_loss_at,omitempty"`
	DailyTradeCount int        `json:"daily_trade_count"`
	MaxDailyTrades  int        `json:"max_daily_trades"`
	LastPrice       float64    `json:"last_price,omitempty"`
	LastTick        time.Time  `json:"last_tick"`
	Indicators      *Readings  `json:"indicators,omitempty"`
}

// Readings mirrors the latest indicator snapshot with JSON-safe values.
type Readings struct {
	EMAFast    float64 `json:"ema_fast"`
	EMASlow    float64 `json:"ema_slow"`
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	BBUpper    float64 `json:"bb_upper"`
	BBLower    float64 `json:"bb_lower"`
}

// Status assembles the operator view. Indicator readings are omitted until
// the first tick with enough history.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := Status{
		Pair:            e.pair,
		Timeframe:       e.timeframe,
		InPosition:      e.state.InPosition,
		EntryPrice:      e.state.EntryPrice,
		PositionSize:    e.state.PositionSize,
		DailyTradeCount: e.state.DailyTradeCount,
		MaxDailyTrades:  e.params.MaxDailyTrades,
		LastPrice:       e.lastPrice,
		LastTick:        e.lastTick,
	}
	if e.state.InPosition {
		st.TakeProfitAt = e.state.EntryPrice * (1 + e.params.TakeProfitPct)
		st.StopLossAt = e.state.EntryPrice * (1 - e.params.StopLossPct)
	}
	if !e.lastTick.IsZero() && e.lastSnapshot.Valid() {
		st.Indicators = &Readings{
			EMAFast:    e.lastSnapshot.EMAFast,
			EMASlow:    e.lastSnapshot.EMASlow,
			RSI:        e.lastSnapshot.RSI,
			MACD:       e.lastSnapshot.MACD,
			MACDSignal: e.lastSnapshot.MACDSignal,
			BBUpper:    e.lastSnapshot.BBUpper,
			BBLower:    e.lastSnapshot.BBLower,
		}
	}
	return st
}
