package candles

import (
	"errors"
	"testing"

	"daytrader/pkg/exchanges/common"
)

func bar(ts int64, close float64) common.Candle {
	return common.Candle{OpenTime: ts, Open: close, High: close, Low: close, Close: close, Volume: 1}
}

func TestAppendRejectsOutOfOrder(t *testing.T) {
	s := NewSeries(10)
	if err := s.Append(bar(1000, 100)); err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if err := s.Append(bar(2000, 101)); err != nil {
		t.Fatalf("second append failed: %v", err)
	}

	if err := s.Append(bar(2000, 102)); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("duplicate timestamp: err=%v, expected ErrOutOfOrder", err)
	}
	if err := s.Append(bar(1500, 102)); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("regressing timestamp: err=%v, expected ErrOutOfOrder", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len=%d after rejected appends, expected 2", s.Len())
	}
}

func TestEvictionKeepsNewest(t *testing.T) {
	s := NewSeries(3)
	for i := 0; i < 5; i++ {
		if err := s.Append(bar(int64(i)*1000, float64(100+i))); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	if s.Len() != 3 {
		t.Fatalf("Len=%d, expected capacity 3", s.Len())
	}
	if got := s.At(0).OpenTime; got != 2000 {
		t.Fatalf("oldest OpenTime=%d, expected 2000", got)
	}
	last, ok := s.Last()
	if !ok || last.OpenTime != 4000 {
		t.Fatalf("Last=%v ok=%t, expected the 4000 bar", last, ok)
	}
}

func TestFromSliceAndCloses(t *testing.T) {
	bars := []common.Candle{bar(1000, 100), bar(2000, 101), bar(3000, 102)}
	s, err := FromSlice(10, bars)
	if err != nil {
		t.Fatalf("FromSlice returned error: %v", err)
	}

	closes := s.Closes()
	want := []float64{100, 101, 102}
	for i, w := range want {
		if closes[i] != w {
			t.Fatalf("Closes[%d]=%v, expected %v", i, closes[i], w)
		}
	}

	if _, err := FromSlice(10, []common.Candle{bar(2000, 100), bar(1000, 101)}); err == nil {
		t.Fatal("unordered input accepted")
	}
}
