// Package candles maintains the bounded, ordered bar history the indicator
// engine works from.
package candles

import (
	"errors"
	"fmt"

	"daytrader/pkg/exchanges/common"
)

// ErrOutOfOrder is returned when a bar does not advance the timeline.
var ErrOutOfOrder = errors.New("candles: timestamp not strictly increasing")

// Series is an ordered run of candles with strictly increasing timestamps.
// When the configured capacity is exceeded the oldest bars are evicted.
type Series struct {
	max  int
	bars []common.Candle
}

// NewSeries creates an empty series holding at most max bars.
func NewSeries(max int) *Series {
	if max <= 0 {
		max = 1
	}
	return &Series{max: max, bars: make([]common.Candle, 0, max)}
}

// FromSlice builds a series from bars already ordered oldest-first.
func FromSlice(max int, bars []common.Candle) (*Series, error) {
	s := NewSeries(max)
	for i, b := range bars {
		if err := s.Append(b); err != nil {
			return nil, fmt.Errorf("bar %d (ts=%d): %w", i, b.OpenTime, err)
		}
	}
	return s, nil
}

// Append adds a bar, rejecting duplicates and out-of-order timestamps.
func (s *Series) Append(c common.Candle) error {
	if n := len(s.bars); n > 0 && c.OpenTime <= s.bars[n-1].OpenTime {
		return ErrOutOfOrder
	}
	s.bars = append(s.bars, c)
	if len(s.bars) > s.max {
		s.bars = s.bars[len(s.bars)-s.max:]
	}
	return nil
}

// Len returns the number of bars held.
func (s *Series) Len() int { return len(s.bars) }

// At returns the bar at index i, oldest first.
func (s *Series) At(i int) common.Candle { return s.bars[i] }

// Last returns the most recent bar; ok is false when the series is empty.
func (s *Series) Last() (common.Candle, bool) {
	if len(s.bars) == 0 {
		return common.Candle{}, false
	}
	return s.bars[len(s.bars)-1], true
}

// Closes returns the close prices oldest-first.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Close
	}
	return out
}
