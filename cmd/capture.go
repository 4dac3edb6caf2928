package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skydioflyer/trending-tracker/internal/clock/system"
	"github.com/skydioflyer/trending-tracker/internal/config"
	"github.com/skydioflyer/trending-tracker/internal/logging"
	"github.com/skydioflyer/trending-tracker/internal/trending"
)

// captureOptions holds the flag overrides applied on top of the loaded config.
type captureOptions struct {
	outputRoot     string
	userAgent      string
	timeoutSeconds int
	maxRetries     int
	dryRun         bool
}

// newCaptureCmd creates and configures the 'capture' subcommand, which runs
// the fetch-extract-write pipeline exactly once.
func newCaptureCmd() *cobra.Command {
	opts := &captureOptions{}
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Runs one capture of the trending page",
		Long: `Checks the site's robots policy, fetches the trending page, extracts the
listed repositories and writes today's snapshot unless one already exists.
Exits zero on success and on the already-captured no-op.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCapture(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.outputRoot, "output-root", "", "base directory for dated snapshots")
	cmd.Flags().StringVar(&opts.userAgent, "user-agent", "", "user agent sent with every request")
	cmd.Flags().IntVar(&opts.timeoutSeconds, "timeout-seconds", 0, "per-request deadline in seconds")
	cmd.Flags().IntVar(&opts.maxRetries, "max-retries", -1, "retry ceiling for the fetch step")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "fetch and extract without writing a snapshot")

	return cmd
}

func runCapture(cmd *cobra.Command, opts *captureOptions) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, cmd, opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	runner, err := buildRunner(cfg, opts.dryRun, logger)
	if err != nil {
		return err
	}
	if err := runner.Run(cmd.Context()); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	return nil
}

func applyOverrides(cfg *config.Config, cmd *cobra.Command, opts *captureOptions) {
	if cmd.Flags().Changed("output-root") {
		cfg.Output.Root = opts.outputRoot
	}
	if cmd.Flags().Changed("user-agent") {
		cfg.Source.UserAgent = opts.userAgent
	}
	if cmd.Flags().Changed("timeout-seconds") {
		cfg.HTTP.TimeoutSeconds = opts.timeoutSeconds
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.HTTP.MaxRetries = opts.maxRetries
	}
}

func buildRunner(cfg config.Config, dryRun bool, logger *zap.Logger) (*trending.Runner, error) {
	robots := trending.NewRobotsGate(cfg.Source.RespectRobots, cfg.Source.UserAgent, logger)
	fetcher := trending.NewPageFetcher(trending.FetcherConfig{
		UserAgent:  cfg.Source.UserAgent,
		Timeout:    cfg.Timeout(),
		MaxRetries: cfg.HTTP.MaxRetries,
		Backoff: trending.Backoff{
			Initial: cfg.BackoffInitial(),
			Max:     cfg.BackoffMax(),
		},
	}, logger)
	sink, err := trending.NewSnapshotSink(cfg.Output.Root, logger)
	if err != nil {
		return nil, fmt.Errorf("init sink: %w", err)
	}
	return trending.NewRunner(cfg.Source.URL, robots, fetcher, sink, system.New(), dryRun, logger), nil
}
