package trending

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner sequences one capture: policy gate, fetch, extract, save. Each
// step's failure short-circuits the rest; the fetcher's retries are the only
// retries anywhere.
type Runner struct {
	url     string
	robots  RobotsPolicy
	fetcher Fetcher
	sink    Sink
	clock   Clock
	dryRun  bool
	logger  *zap.Logger
}

// NewRunner wires the pipeline. When dryRun is set the run stops after
// extraction and reports what it would have written.
func NewRunner(url string, robots RobotsPolicy, fetcher Fetcher, sink Sink, clock Clock, dryRun bool, logger *zap.Logger) *Runner {
	return &Runner{
		url:     url,
		robots:  robots,
		fetcher: fetcher,
		sink:    sink,
		clock:   clock,
		dryRun:  dryRun,
		logger:  logger,
	}
}

// Run executes the pipeline once. It returns nil on a successful capture and
// on the already-captured no-op; every other outcome is an error wrapping one
// of the package sentinels.
func (r *Runner) Run(ctx context.Context) error {
	logger := r.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("url", r.url),
	)
	logger.Info("capture started")

	allowed, err := r.robots.Allowed(ctx, r.url)
	if err != nil {
		logger.Error("robots check failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPolicyDenied, err)
	}
	if !allowed {
		logger.Error("robots policy denies the target path")
		return ErrPolicyDenied
	}
	logger.Info("robots check passed")

	html, err := r.fetcher.Fetch(ctx, r.url)
	if err != nil {
		logger.Error("fetch failed", zap.Error(err))
		return err
	}
	logger.Info("page fetched", zap.Int("bytes", len(html)))

	entries, err := NewExtractor().Extract(html)
	if err != nil {
		if errors.Is(err, ErrStructureMismatch) {
			logger.Error("page structure did not match; layout may have changed", zap.Error(err))
		} else {
			logger.Error("extraction failed", zap.Error(err))
		}
		return err
	}
	logger.Info("entries extracted", zap.Int("count", len(entries)))

	if r.dryRun {
		logger.Info("dry run; skipping write", zap.Int("count", len(entries)))
		return nil
	}

	date := r.clock.Now()
	path, err := r.sink.Save(ctx, date, entries)
	switch {
	case errors.Is(err, ErrAlreadyCaptured):
		logger.Info("already captured today; nothing written",
			zap.String("path", path))
		return nil
	case err != nil:
		logger.Error("snapshot write failed", zap.Error(err))
		return err
	}

	logger.Info("capture succeeded",
		zap.String("path", path),
		zap.Int("count", len(entries)))
	return nil
}
