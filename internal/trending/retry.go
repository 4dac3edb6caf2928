package trending

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Backoff computes increasing retry delays: initial*2^attempt, capped at max.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

// Delay returns the wait duration before retry number attempt (0-based).
func (b Backoff) Delay(attempt int) time.Duration {
	if b.Initial <= 0 {
		return 0
	}
	delay := float64(b.Initial) * math.Pow(2, float64(attempt))
	if b.Max > 0 && delay > float64(b.Max) {
		delay = float64(b.Max)
	}
	return time.Duration(delay)
}

// retryable reports whether the fetch error is worth another attempt.
// Context cancellation and deadline expiry end the run immediately.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// sleepWithContext waits for delay unless the context ends first.
func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("backoff sleep: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
