package signal

import (
	"math"
	"testing"

	"daytrader/internal/indicators"
)

// neutral returns a snapshot pair that triggers none of the four conditions
// at a close of 100.
func neutral() (indicators.Snapshot, indicators.Snapshot) {
	prev := indicators.Snapshot{
		EMAFast: 90, EMASlow: 100, RSI: 50,
		MACD: -1, MACDSignal: 0, MACDHist: -1,
		BBUpper: 120, BBMid: 100, BBLower: 80,
	}
	cur := prev
	return prev, cur
}

func TestBuyVoteThreshold(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(prev, cur *indicators.Snapshot)
		close    float64
		wantFire bool
		wantVote int
	}{
		{
			name:     "no conditions",
			mutate:   func(prev, cur *indicators.Snapshot) {},
			close:    100,
			wantFire: false,
			wantVote: 0,
		},
		{
			name: "single vote does not fire",
			mutate: func(prev, cur *indicators.Snapshot) {
				cur.EMAFast = 101 // crosses above EMASlow=100
			},
			close:    100,
			wantFire: false,
			wantVote: 1,
		},
		{
			name: "two votes fire",
			mutate: func(prev, cur *indicators.Snapshot) {
				cur.EMAFast = 101
				prev.RSI = 25
				cur.RSI = 35
			},
			close:    100,
			wantFire: true,
			wantVote: 2,
		},
		{
			name: "three votes fire",
			mutate: func(prev, cur *indicators.Snapshot) {
				cur.EMAFast = 101
				prev.RSI = 25
				cur.RSI = 35
				cur.MACD = 1
				cur.MACDSignal = 0
			},
			close:    100,
			wantFire: true,
			wantVote: 3,
		},
		{
			name:   "band touch counts within one percent",
			mutate: func(prev, cur *indicators.Snapshot) {},
			// BBLower=80; 80*1.01=80.8
			close:    80.8,
			wantFire: false,
			wantVote: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, cur := neutral()
			tt.mutate(&prev, &cur)

			fire, vote := Buy(prev, cur, tt.close)
			if fire != tt.wantFire {
				t.Fatalf("fire=%t, expected %t (vote %s)", fire, tt.wantFire, vote)
			}
			if vote.Count() != tt.wantVote {
				t.Fatalf("vote count=%d, expected %d (%s)", vote.Count(), tt.wantVote, vote)
			}
		})
	}
}

func TestBuyInvalidSnapshotNeverFires(t *testing.T) {
	prev, cur := neutral()
	cur.EMAFast = 101
	prev.RSI = 25
	cur.RSI = 35
	prev.MACDSignal = math.NaN()

	if fire, _ := Buy(prev, cur, 100); fire {
		t.Fatal("buy fired on an undefined snapshot")
	}
}

func TestExitRiskPrecedence(t *testing.T) {
	prev, cur := neutral()
	const entry = 100.0

	tests := []struct {
		name  string
		close float64
		want  ExitReason
	}{
		{"take profit at threshold", 103, ExitTakeProfit},
		{"take profit above threshold", 110, ExitTakeProfit},
		{"stop loss at threshold", 99, ExitStopLoss},
		{"stop loss below threshold", 95, ExitStopLoss},
		{"inside band holds", 101, ExitNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, _ := Exit(prev, cur, tt.close, entry, 0.03, 0.01)
			if reason != tt.want {
				t.Fatalf("reason=%s, expected %s", reason, tt.want)
			}
		})
	}
}

func TestExitTakeProfitOverridesSellVote(t *testing.T) {
	prev, cur := neutral()
	// Bearish EMA and MACD crosses, enough for a vote exit on their own.
	prev.EMAFast, cur.EMAFast = 101, 99
	prev.MACD, cur.MACD = 1, -1
	prev.MACDSignal, cur.MACDSignal = 0, 0

	reason, _ := Exit(prev, cur, 103, 100, 0.03, 0.01)
	if reason != ExitTakeProfit {
		t.Fatalf("reason=%s, expected %s", reason, ExitTakeProfit)
	}
}

func TestExitSellVote(t *testing.T) {
	prev, cur := neutral()
	prev.EMAFast, cur.EMAFast = 101, 99
	prev.MACD, cur.MACD = 1, -1
	prev.MACDSignal, cur.MACDSignal = 0, 0

	reason, vote := Exit(prev, cur, 101, 100, 0.03, 0.01)
	if reason != ExitVote {
		t.Fatalf("reason=%s, expected %s (vote %s)", reason, ExitVote, vote)
	}
	if vote.Count() != 2 {
		t.Fatalf("vote count=%d, expected 2", vote.Count())
	}
}

func TestExitInvalidSnapshotHolds(t *testing.T) {
	prev, cur := neutral()
	cur.BBLower = math.NaN()

	// Even a deep stop-loss breach must not fire without defined indicators.
	reason, _ := Exit(prev, cur, 50, 100, 0.03, 0.01)
	if reason != ExitNone {
		t.Fatalf("reason=%s, expected %s", reason, ExitNone)
	}
}
