package engine

import "time"

// State is the engine's single mutable trading state. It lives in memory for
// the process lifetime and is never persisted; after a restart the operator
// reconciles with the exchange manually.
//
// Invariant: EntryPrice and PositionSize are meaningful iff InPosition is
// true; clearing the position zeroes both.
type State struct {
	InPosition      bool      `json:"in_position"`
	EntryPrice      float64   `json:"entry_price"`
	PositionSize    float64   `json:"position_size"`
	DailyTradeCount int       `json:"daily_trade_count"`
	LastResetDate   time.Time `json:"last_reset_date"`
}

// openPosition records an entry. Entries consume one daily-trade slot.
func (s *State) openPosition(price, size float64) {
	s.InPosition = true
	s.EntryPrice = price
	s.PositionSize = size
	s.DailyTradeCount++
}

// clearPosition records an exit. Exits do not consume a daily-trade slot.
func (s *State) clearPosition() {
	s.InPosition = false
	s.EntryPrice = 0
	s.PositionSize = 0
}
