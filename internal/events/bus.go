// Package events provides a small in-process pub/sub broker used to fan
// trading activity out to observers (monitor, operator API) without coupling
// them to the engine loop.
package events

import "sync"

// Topic enumerates the engine's observable event streams.
type Topic string

const (
	TopicOrderSubmitted Topic = "order.submitted"
	TopicOrderRejected  Topic = "order.rejected"
	TopicPositionOpened Topic = "position.opened"
	TopicPositionClosed Topic = "position.closed"
	TopicRiskExit       Topic = "risk.exit"
	TopicSessionFlatten Topic = "session.flatten"
)

// Bus is a lightweight pub/sub broker using channels.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]chan any
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]chan any)}
}

// Subscribe registers a listener and returns the channel plus an unsubscribe
// function that closes it.
func (b *Bus) Subscribe(t Topic, buffer int) (<-chan any, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan any, buffer)
	b.subs[t] = append(b.subs[t], ch)

	unsub := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[t]
		for i, c := range subs {
			if c == ch {
				close(c)
				b.subs[t] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
	return ch, unsub
}

// Publish fans the payload out to subscribers without blocking; slow
// subscribers miss events rather than stalling the trading loop.
func (b *Bus) Publish(t Topic, payload any) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[t] {
		select {
		case ch <- payload:
		default:
		}
	}
}
