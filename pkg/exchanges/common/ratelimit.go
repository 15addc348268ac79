package common

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer throttles outbound exchange requests so an unattended loop cannot
// trip the venue's request-frequency ban.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer allows rps requests per second with the given burst.
func NewPacer(rps float64, burst int) *Pacer {
	return &Pacer{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until the next request may be sent or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
