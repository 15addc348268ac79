package order

import (
	"fmt"
	"math"
)

// Sizing is the resolved order size for an entry.
type Sizing struct {
	// Notional is the quote amount to spend.
	Notional float64
	// Qty is the base quantity that notional buys at the quoted price,
	// rounded to the connector's quantity precision.
	Qty float64
}

// ComputeSize derives the entry size from the free quote balance and the risk
// parameters: notional = balance × risk × leverage. A notional under
// minNotional is clamped up to the minimum only when the balance itself
// covers it; otherwise (or when clamping cannot reach the minimum) the entry
// is rejected.
func ComputeSize(quoteFree, riskPerTrade, leverage, minNotional, price float64, qtyPrecision int) (Sizing, error) {
	if price <= 0 {
		return Sizing{}, fmt.Errorf("price %.8f: %w", price, ErrPriceInvalid)
	}

	notional := quoteFree * riskPerTrade * leverage
	if notional < minNotional && quoteFree >= minNotional {
		notional = minNotional
	}
	if notional < minNotional {
		return Sizing{}, fmt.Errorf("notional %.2f < minimum %.2f: %w", notional, minNotional, ErrOrderTooSmall)
	}

	return Sizing{
		Notional: notional,
		Qty:      roundTo(notional/price, qtyPrecision),
	}, nil
}

func roundTo(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
