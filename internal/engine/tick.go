package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"daytrader/internal/candles"
	"daytrader/internal/events"
	"daytrader/internal/indicators"
	"daytrader/internal/order"
	"daytrader/internal/session"
	"daytrader/internal/signal"
)

// ErrDataUnavailable means the exchange answered but returned no usable
// candle data for the tick.
var ErrDataUnavailable = errors.New("market data unavailable")

// Tick runs one evaluation cycle. Order of operations is fixed: daily reset,
// trading-hours gate, market data, indicator derivation, then the exit or
// entry path for the current state. A returned error means market data could
// not be fetched and the caller should back off before retrying; order-level
// failures are handled here and leave the state unchanged.
func (e *Engine) Tick(ctx context.Context) error {
	now := e.now().UTC()

	if session.NewDay(now, e.State().LastResetDate) {
		e.mu.Lock()
		e.state.DailyTradeCount = 0
		e.state.LastResetDate = session.DateOf(now)
		e.mu.Unlock()
		log.Printf("🔄 new UTC day %s, daily trade counter reset", session.DateOf(now).Format("2006-01-02"))
	}

	if !e.session.InWindow(now) {
		if st := e.State(); st.InPosition {
			log.Printf("outside trading hours with open position, flattening")
			e.exitPosition(ctx, "session_close")
			e.bus.Publish(events.TopicSessionFlatten, e.pair)
		}
		return nil
	}

	raw, err := e.connector.FetchCandles(ctx, e.pair, e.timeframe, e.params.CandleLimit)
	if err != nil {
		return fmt.Errorf("fetch candles: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%s %s: %w", e.pair, e.timeframe, ErrDataUnavailable)
	}

	series, err := candles.FromSlice(e.params.CandleLimit, raw)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", e.pair, err, ErrDataUnavailable)
	}
	if series.Len() < indicators.MinHistory {
		log.Printf("insufficient history for %s: have %d bars, need %d", e.pair, series.Len(), indicators.MinHistory)
		return nil
	}

	snaps := indicators.Compute(series.Closes())
	prev, cur := snaps[len(snaps)-2], snaps[len(snaps)-1]
	last, _ := series.Last()
	price := last.Close

	e.mu.Lock()
	e.lastPrice = price
	e.lastSnapshot = cur
	e.lastTick = now
	e.mu.Unlock()

	st := e.State()
	switch {
	case st.InPosition:
		reason, vote := signal.Exit(prev, cur, price, st.EntryPrice,
			e.params.TakeProfitPct, e.params.StopLossPct)
		if reason == signal.ExitNone {
			log.Printf("holding %s: price=%.2f entry=%.2f tp=%.2f sl=%.2f vote=[%s]",
				e.pair, price, st.EntryPrice,
				st.EntryPrice*(1+e.params.TakeProfitPct),
				st.EntryPrice*(1-e.params.StopLossPct), vote)
			break
		}
		log.Printf("📉 exit signal for %s: reason=%s price=%.2f", e.pair, reason, price)
		e.exitPosition(ctx, reason.String())
		if reason == signal.ExitTakeProfit || reason == signal.ExitStopLoss {
			e.bus.Publish(events.TopicRiskExit, reason.String())
		}

	case st.DailyTradeCount >= e.params.MaxDailyTrades:
		log.Printf("daily trade cap reached (%d/%d), no new entries today",
			st.DailyTradeCount, e.params.MaxDailyTrades)

	default:
		fire, vote := signal.Buy(prev, cur, price)
		if !fire {
			log.Printf("no entry for %s: price=%.2f vote=[%s]", e.pair, price, vote)
			break
		}
		log.Printf("📈 buy signal for %s: price=%.2f vote=[%s]", e.pair, price, vote)
		e.enterPosition(ctx)
	}

	return nil
}

// enterPosition submits the entry through the gateway and commits the state
// transition only on success.
func (e *Engine) enterPosition(ctx context.Context) {
	entry, err := e.gateway.EnterLong(ctx, e.params.RiskPerTrade, e.params.Leverage)
	if err != nil {
		if errors.Is(err, order.ErrZeroBalance) || errors.Is(err, order.ErrOrderTooSmall) {
			log.Printf("⚠️ entry skipped: %v", err)
		} else {
			log.Printf("❌ entry failed: %v", err)
		}
		return
	}

	e.mu.Lock()
	e.state.openPosition(entry.Price, entry.Qty)
	count := e.state.DailyTradeCount
	e.mu.Unlock()

	e.bus.Publish(events.TopicPositionOpened, entry)
	log.Printf("💰 long opened: %s qty=%.6f price=%.2f notional=%.2f (trade %d/%d today)",
		e.pair, entry.Qty, entry.Price, entry.Notional, count, e.params.MaxDailyTrades)
}

// exitPosition submits the exit and clears the position only after the sell
// succeeded. A sell that cannot be placed leaves the state unchanged so the
// next tick retries.
func (e *Engine) exitPosition(ctx context.Context, reason string) {
	st := e.State()
	exit, err := e.gateway.ExitLong(ctx, st.PositionSize, st.EntryPrice, reason)
	if err != nil {
		if errors.Is(err, order.ErrZeroBalance) {
			log.Printf("⚠️ exit skipped, nothing to sell: %v", err)
		} else {
			log.Printf("❌ exit failed, position kept: %v", err)
		}
		return
	}

	e.mu.Lock()
	e.state.clearPosition()
	e.mu.Unlock()

	e.bus.Publish(events.TopicPositionClosed, exit)
	if exit.PriceKnown {
		pct := 0.0
		if st.EntryPrice > 0 {
			pct = (exit.ExitPrice - st.EntryPrice) / st.EntryPrice * 100
		}
		log.Printf("🔒 long closed: %s qty=%.6f entry=%.2f exit=%.2f pnl=%.2f (%.2f%%) reason=%s",
			e.pair, exit.Amount, st.EntryPrice, exit.ExitPrice, exit.PnL, pct, reason)
	} else {
		log.Printf("🔒 long closed: %s qty=%.6f entry=%.2f reason=%s (P&L unknown)",
			e.pair, exit.Amount, st.EntryPrice, reason)
	}
}
