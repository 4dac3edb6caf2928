// Package trending captures the GitHub trending page as dated snapshots.
package trending

import "errors"

// Entry is one repository listed on the trending page. Description and
// Language may be empty when the listing omits them; Stars keeps the
// displayed count as text (comma separators stripped).
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       string `json:"stars"`
}

// Sentinel errors for the run outcomes callers branch on.
var (
	// ErrPolicyDenied means robots.txt disallows the target path (or could
	// not be consulted; the gate fails closed). No fetch is attempted.
	ErrPolicyDenied = errors.New("robots policy denies access")

	// ErrNetworkFailure wraps the last fetch error after retries are exhausted.
	ErrNetworkFailure = errors.New("fetch failed after retries")

	// ErrStructureMismatch means the page contained no listing containers at
	// all, which signals a layout change rather than an empty trending list.
	ErrStructureMismatch = errors.New("no trending listings found in page")

	// ErrAlreadyCaptured means a snapshot for today already exists. It is a
	// successful no-op outcome, not a failure.
	ErrAlreadyCaptured = errors.New("snapshot already captured for this date")

	// ErrWriteFailure wraps filesystem errors while persisting a snapshot.
	ErrWriteFailure = errors.New("snapshot write failed")
)
