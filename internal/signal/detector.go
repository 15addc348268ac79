// Package signal evaluates the latest two indicator snapshots into entry and
// exit decisions. The detector is stateless; position context (entry price,
// take-profit and stop-loss levels) is passed in by the caller.
package signal

import (
	"fmt"

	"daytrader/internal/indicators"
)

const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
	// Close must be within 1% of the band to count as touching it.
	bandProximity = 0.01
	// At least this many of the four technical conditions must agree.
	voteThreshold = 2
)

// Vote records which of the four technical conditions held.
type Vote struct {
	EMACross  bool
	RSICross  bool
	MACDCross bool
	BandTouch bool
}

// Count returns how many conditions held.
func (v Vote) Count() int {
	n := 0
	for _, b := range []bool{v.EMACross, v.RSICross, v.MACDCross, v.BandTouch} {
		if b {
			n++
		}
	}
	return n
}

func (v Vote) String() string {
	return fmt.Sprintf("ema=%t rsi=%t macd=%t band=%t", v.EMACross, v.RSICross, v.MACDCross, v.BandTouch)
}

// Buy reports whether an entry signal fires for the (previous, current)
// snapshot pair and latest close. Snapshots with undefined values never fire.
func Buy(prev, cur indicators.Snapshot, close float64) (bool, Vote) {
	if !prev.Valid() || !cur.Valid() {
		return false, Vote{}
	}
	vote := Vote{
		EMACross:  prev.EMAFast <= prev.EMASlow && cur.EMAFast > cur.EMASlow,
		RSICross:  prev.RSI <= rsiOversold && cur.RSI > rsiOversold,
		MACDCross: prev.MACD <= prev.MACDSignal && cur.MACD > cur.MACDSignal,
		BandTouch: close <= cur.BBLower*(1+bandProximity),
	}
	return vote.Count() >= voteThreshold, vote
}

// ExitReason identifies why an exit fired.
type ExitReason int

const (
	ExitNone ExitReason = iota
	ExitTakeProfit
	ExitStopLoss
	ExitVote
)

func (r ExitReason) String() string {
	switch r {
	case ExitTakeProfit:
		return "take_profit"
	case ExitStopLoss:
		return "stop_loss"
	case ExitVote:
		return "sell_signal"
	default:
		return "none"
	}
}

// Exit evaluates the sell path for an open long. Take-profit is checked
// first, then stop-loss; either overrides the technical vote.
func Exit(prev, cur indicators.Snapshot, close, entryPrice, takeProfitPct, stopLossPct float64) (ExitReason, Vote) {
	if !prev.Valid() || !cur.Valid() {
		return ExitNone, Vote{}
	}

	if close >= entryPrice*(1+takeProfitPct) {
		return ExitTakeProfit, Vote{}
	}
	if close <= entryPrice*(1-stopLossPct) {
		return ExitStopLoss, Vote{}
	}

	vote := Vote{
		EMACross:  prev.EMAFast >= prev.EMASlow && cur.EMAFast < cur.EMASlow,
		RSICross:  prev.RSI <= rsiOverbought && cur.RSI > rsiOverbought,
		MACDCross: prev.MACD >= prev.MACDSignal && cur.MACD < cur.MACDSignal,
		BandTouch: close >= cur.BBUpper*(1-bandProximity),
	}
	if vote.Count() >= voteThreshold {
		return ExitVote, vote
	}
	return ExitNone, vote
}
