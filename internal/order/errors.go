package order

import "errors"

// Failure outcomes of the execution gateway. Exchange call failures are
// wrapped with %w around the connector's error; everything else is one of
// these sentinels.
var (
	// ErrZeroBalance means the relevant free balance was zero or negative;
	// no connector call was made.
	ErrZeroBalance = errors.New("free balance is zero or negative")
	// ErrPriceInvalid means the quoted price was zero or negative.
	ErrPriceInvalid = errors.New("quoted price is zero or negative")
	// ErrOrderTooSmall means the computed notional stayed under the exchange
	// minimum even after clamping.
	ErrOrderTooSmall = errors.New("order notional below minimum")
)
