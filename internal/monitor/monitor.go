// Package monitor turns risk and execution events into operator alerts.
package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"daytrader/internal/events"
)

// Monitor watches the event bus and emits alerts for risk exits, rejected
// orders and forced session flattens.
type Monitor struct {
	Bus     *events.Bus
	AlertFn func(string)
}

// Start subscribes and runs until the context is canceled.
func (m *Monitor) Start(ctx context.Context) {
	if m.Bus == nil || m.AlertFn == nil {
		log.Println("monitor not fully configured; skipping")
		return
	}
	for _, topic := range []events.Topic{
		events.TopicRiskExit,
		events.TopicOrderRejected,
		events.TopicSessionFlatten,
	} {
		stream, unsub := m.Bus.Subscribe(topic, 50)
		go m.watch(ctx, topic, stream, unsub)
	}
}

func (m *Monitor) watch(ctx context.Context, topic events.Topic, stream <-chan any, unsub func()) {
	defer unsub()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-stream:
			if !ok {
				return
			}
			m.AlertFn(formatAlert(topic, msg))
		}
	}
}

func formatAlert(topic events.Topic, msg any) string {
	return fmt.Sprintf("[%s] %s: %s", time.Now().UTC().Format(time.RFC3339), topic, toString(msg))
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
