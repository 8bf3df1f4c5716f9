package bookmaker

import (
	"context"
	"math/rand"
	"time"
)

// Pacer inserts a randomized delay between bookmaker interactions so the
// traffic pattern does not look scripted.
type Pacer struct {
	min time.Duration
	max time.Duration
	rng *rand.Rand
}

// NewPacer creates a pacer emitting delays in [min, max]
func NewPacer(min, max time.Duration) *Pacer {
	if max < min {
		max = min
	}
	return &Pacer{
		min: min,
		max: max,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks for a randomized interval or until the context is cancelled
func (p *Pacer) Wait(ctx context.Context) error {
	delay := p.min
	if spread := p.max - p.min; spread > 0 {
		delay += time.Duration(p.rng.Int63n(int64(spread) + 1))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
