package order

import (
	"errors"
	"math"
	"testing"
)

func TestComputeSize(t *testing.T) {
	tests := []struct {
		name         string
		quoteFree    float64
		risk         float64
		leverage     float64
		minNotional  float64
		price        float64
		precision    int
		wantNotional float64
		wantQty      float64
		wantErr      error
	}{
		{
			name:      "plain sizing",
			quoteFree: 1000, risk: 0.02, leverage: 1,
			minNotional: 10, price: 50000, precision: 6,
			wantNotional: 20, wantQty: 0.0004,
		},
		{
			name:      "leverage multiplies notional",
			quoteFree: 1000, risk: 0.05, leverage: 3,
			minNotional: 10, price: 100, precision: 6,
			wantNotional: 150, wantQty: 1.5,
		},
		{
			name:      "clamped up to minimum when balance covers it",
			quoteFree: 100, risk: 0.05, leverage: 1,
			minNotional: 10, price: 100, precision: 6,
			wantNotional: 10, wantQty: 0.1,
		},
		{
			name:      "rejected when balance cannot cover minimum",
			quoteFree: 8, risk: 0.05, leverage: 1,
			minNotional: 10, price: 100, precision: 6,
			wantErr: ErrOrderTooSmall,
		},
		{
			name:      "zero price rejected",
			quoteFree: 1000, risk: 0.05, leverage: 1,
			minNotional: 10, price: 0, precision: 6,
			wantErr: ErrPriceInvalid,
		},
		{
			name:      "negative price rejected",
			quoteFree: 1000, risk: 0.05, leverage: 1,
			minNotional: 10, price: -1, precision: 6,
			wantErr: ErrPriceInvalid,
		},
		{
			name:      "quantity rounded to precision",
			quoteFree: 1000, risk: 0.05, leverage: 1,
			minNotional: 10, price: 30000, precision: 6,
			// 50/30000 = 0.0016666...
			wantNotional: 50, wantQty: 0.001667,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSize(tt.quoteFree, tt.risk, tt.leverage, tt.minNotional, tt.price, tt.precision)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err=%v, expected %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeSize returned error: %v", err)
			}
			if math.Abs(got.Notional-tt.wantNotional) > 1e-9 {
				t.Fatalf("Notional=%v, expected %v", got.Notional, tt.wantNotional)
			}
			if math.Abs(got.Qty-tt.wantQty) > 1e-9 {
				t.Fatalf("Qty=%v, expected %v", got.Qty, tt.wantQty)
			}
		})
	}
}
