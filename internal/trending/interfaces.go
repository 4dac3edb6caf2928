package trending

import (
	"context"
	"time"
)

// RobotsPolicy decides whether the target URL may be fetched.
type RobotsPolicy interface {
	Allowed(ctx context.Context, rawURL string) (bool, error)
}

// Fetcher retrieves the raw HTML of a single page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Sink persists one dated snapshot. Save must be a no-op returning
// ErrAlreadyCaptured when a snapshot for date already exists.
type Sink interface {
	Save(ctx context.Context, date time.Time, entries []Entry) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
