// Package system provides the real wall clock.
package system

import "time"

// Clock implements trending.Clock using time.Now. Snapshots are keyed by
// UTC calendar date, so Now always returns UTC.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
