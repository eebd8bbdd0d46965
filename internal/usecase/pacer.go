package usecase

import (
	"context"
	"math/rand"
	"time"
)

// JitterPacer sleeps a bounded random interval between marketplace queries.
// The delay is anti-detection pacing for real endpoints, not a correctness
// requirement, which is why it is injectable and tests swap in NopPacer.
type JitterPacer struct {
	Min time.Duration
	Max time.Duration
}

// NewJitterPacer creates a pacer sleeping between min and max per wait.
func NewJitterPacer(min, max time.Duration) *JitterPacer {
	if max < min {
		max = min
	}
	return &JitterPacer{Min: min, Max: max}
}

// Wait blocks for the jittered interval or until the context is done.
func (p *JitterPacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	delay := p.Min
	if span := p.Max - p.Min; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// NopPacer waits for nothing. Used in tests.
type NopPacer struct{}

func (NopPacer) Wait(context.Context) error { return nil }
