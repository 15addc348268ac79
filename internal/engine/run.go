package engine

import (
	"context"
	"log"
	"time"

	"daytrader/internal/events"
)

// Run drives the engine until the context is canceled. Ticks fire on a fixed
// interval; a tick that fails to fetch market data is retried after the error
// backoff instead. The end-of-day flatten fires on its own timer, independent
// of the tick cadence.
func (e *Engine) Run(ctx context.Context) error {
	log.Printf("🚀 trading loop started: pair=%s timeframe=%s interval=%s",
		e.pair, e.timeframe, e.params.TickInterval)

	var flattenC <-chan time.Time
	var flattenTimer *time.Timer
	if next, ok := e.session.NextFlatten(e.now()); ok {
		flattenTimer = time.NewTimer(time.Until(next))
		defer flattenTimer.Stop()
		flattenC = flattenTimer.C
	}

	ticker := time.NewTicker(e.params.TickInterval)
	defer ticker.Stop()

	e.tickWithBackoff(ctx)

	for {
		select {
		case <-ctx.Done():
			if st := e.State(); st.InPosition {
				log.Printf("⚠️ stopping with open position: %s qty=%.6f entry=%.2f, close it manually",
					e.pair, st.PositionSize, st.EntryPrice)
			}
			log.Printf("trading loop stopped")
			return ctx.Err()

		case <-flattenC:
			if st := e.State(); st.InPosition {
				log.Printf("end of day, flattening %s", e.pair)
				e.exitPosition(ctx, "end_of_day")
				e.bus.Publish(events.TopicSessionFlatten, e.pair)
			}
			if next, ok := e.session.NextFlatten(e.now()); ok {
				flattenTimer.Reset(time.Until(next))
			}

		case <-ticker.C:
			e.tickWithBackoff(ctx)
		}
	}
}

func (e *Engine) tickWithBackoff(ctx context.Context) {
	if err := e.Tick(ctx); err != nil {
		log.Printf("❌ tick failed, retrying in %s: %v", e.params.ErrorBackoff, err)
		select {
		case <-time.After(e.params.ErrorBackoff):
		case <-ctx.Done():
		}
	}
}
