package trending

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const snapshotFileName = "trending.json"

// SnapshotSink saves one dated JSON snapshot under the output root.
// A date's snapshot is write-once: once present it is never overwritten.
type SnapshotSink struct {
	root   string
	logger *zap.Logger
}

// NewSnapshotSink returns a sink rooted at dir.
func NewSnapshotSink(root string, logger *zap.Logger) (*SnapshotSink, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create output root %s: %w", root, err)
	}
	return &SnapshotSink{
		root:   root,
		logger: logger,
	}, nil
}

// Path returns the snapshot location for date.
func (s *SnapshotSink) Path(date time.Time) string {
	return filepath.Join(s.root, date.UTC().Format("2006-01-02"), snapshotFileName)
}

// Save writes entries as the snapshot for date and returns its path.
// If that date's snapshot already exists, Save returns ErrAlreadyCaptured
// and leaves the stored file untouched. The document is written via a
// temp file and rename, so a failed run never leaves a partial snapshot.
func (s *SnapshotSink) Save(ctx context.Context, date time.Time, entries []Entry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	target := s.Path(date)
	if _, err := os.Stat(target); err == nil {
		return target, ErrAlreadyCaptured
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("%w: stat %s: %w", ErrWriteFailure, target, err)
	}

	payload, err := marshalSnapshot(entries)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("%w: create snapshot dir %s: %w", ErrWriteFailure, dir, err)
	}
	tmp, err := os.CreateTemp(dir, snapshotFileName+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %w", ErrWriteFailure, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()        //nolint:errcheck // write error takes precedence
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("%w: write %s: %w", ErrWriteFailure, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("%w: close %s: %w", ErrWriteFailure, tmpName, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("%w: rename to %s: %w", ErrWriteFailure, target, err)
	}
	s.logger.Info("snapshot written",
		zap.String("path", target),
		zap.Int("entries", len(entries)))
	return target, nil
}

// marshalSnapshot renders the entry list deterministically: two-space
// indent, HTML escaping off so international description text survives
// byte-exact, trailing newline.
func marshalSnapshot(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return buf.Bytes(), nil
}
