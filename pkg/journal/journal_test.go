package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndQueryOrders(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, side := range []string{"BUY", "SELL", "BUY"} {
		err := j.RecordOrder(ctx, OrderRecord{
			ID:         string(rune('a' + i)),
			ExchangeID: "x1",
			Pair:       "BTC/USDT",
			Side:       side,
			Amount:     0.001,
			Status:     "FILLED",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordOrder %d returned error: %v", i, err)
		}
	}

	orders, err := j.RecentOrders(ctx, 2)
	if err != nil {
		t.Fatalf("RecentOrders returned error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("len(orders)=%d, expected 2", len(orders))
	}
	if orders[0].ID != "c" {
		t.Fatalf("orders[0].ID=%q, expected newest first", orders[0].ID)
	}
	if orders[0].Side != "BUY" || orders[0].Pair != "BTC/USDT" {
		t.Fatalf("unexpected order row: %+v", orders[0])
	}
}

func TestRecordAndQueryTrades(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	err := j.RecordTrade(ctx, TradeRecord{
		ID:         "t1",
		OrderID:    "o1",
		Pair:       "BTC/USDT",
		Qty:        0.003,
		EntryPrice: 50000,
		ExitPrice:  51500,
		PnL:        4.5,
		Reason:     "take_profit",
		CreatedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("RecordTrade returned error: %v", err)
	}

	trades, err := j.RecentTrades(ctx, 10)
	if err != nil {
		t.Fatalf("RecentTrades returned error: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("len(trades)=%d, expected 1", len(trades))
	}
	got := trades[0]
	if got.Reason != "take_profit" || got.PnL != 4.5 || got.EntryPrice != 50000 {
		t.Fatalf("unexpected trade row: %+v", got)
	}
}

func TestNilJournalIsNoOp(t *testing.T) {
	var j *Journal
	ctx := context.Background()

	if err := j.RecordOrder(ctx, OrderRecord{ID: "x"}); err != nil {
		t.Fatalf("nil journal RecordOrder returned error: %v", err)
	}
	if err := j.RecordTrade(ctx, TradeRecord{ID: "x"}); err != nil {
		t.Fatalf("nil journal RecordTrade returned error: %v", err)
	}
	if orders, err := j.RecentOrders(ctx, 5); err != nil || orders != nil {
		t.Fatalf("nil journal RecentOrders=(%v, %v), expected (nil, nil)", orders, err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("nil journal Close returned error: %v", err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("Open accepted an empty path")
	}
}
