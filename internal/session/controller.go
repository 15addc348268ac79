// Package session owns calendar concerns: the once-per-UTC-day counter reset,
// the optional trading-hours gate, and the end-of-day flatten trigger.
package session

import "time"

// Hours is an optional UTC trading window. A tick whose hour h satisfies
// Start <= h < End is inside the window; Start > End wraps past midnight.
type Hours struct {
	Start int
	End   int
}

// Contains reports whether the UTC hour falls inside the window.
func (h Hours) Contains(hour int) bool {
	if h.Start <= h.End {
		return hour >= h.Start && hour < h.End
	}
	return hour >= h.Start || hour < h.End
}

// Controller gates the trading loop by wall-clock time.
type Controller struct {
	// Hours is nil when the engine trades around the clock.
	Hours *Hours
	// FlattenHour is the UTC hour at which any open position is force-closed;
	// negative disables the trigger.
	FlattenHour int
}

// NewDay reports whether the UTC calendar date of now has advanced past
// lastReset. A zero lastReset counts as a new day so the first observed tick
// initializes the counters.
func NewDay(now, lastReset time.Time) bool {
	if lastReset.IsZero() {
		return true
	}
	ny, nm, nd := now.UTC().Date()
	ly, lm, ld := lastReset.UTC().Date()
	return ny != ly || nm != lm || nd != ld
}

// DateOf truncates a time to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InWindow reports whether trading is allowed at now. With no configured
// window every hour is tradable.
func (c *Controller) InWindow(now time.Time) bool {
	if c == nil || c.Hours == nil {
		return true
	}
	return c.Hours.Contains(now.UTC().Hour())
}

// NextFlatten returns the next end-of-day flatten instant after now, or false
// when the trigger is disabled.
func (c *Controller) NextFlatten(now time.Time) (time.Time, bool) {
	if c == nil || c.FlattenHour < 0 || c.FlattenHour > 23 {
		return time.Time{}, false
	}
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), c.FlattenHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next, true
}
