// Package cli wires the cobra commands for both job binaries.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmteo/gls-tracker/internal/config"
	"github.com/jmteo/gls-tracker/internal/fetch"
	"github.com/jmteo/gls-tracker/internal/logger"
	"github.com/jmteo/gls-tracker/internal/notifier"
	"github.com/jmteo/gls-tracker/internal/tracker"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitNewRows = 2
)

var (
	flagConfig   string
	flagDataDir  string
	flagOutput   string
	flagFormat   string
	flagPost     bool
	flagNoNotify bool
	flagVerbose  bool
)

// NewTrackerCmd creates the root command for the awarded-sites job.
func NewTrackerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gls-tracker",
		Short: "Track awarded GLS sites from the public listing page",
		Long: `Fetches the Government Land Sales listing page, enriches awarded sites
from their project detail pages, and merges the result into a versioned
.xlsx workbook. Designed to run once per scheduled invocation.`,
		RunE:          runTracker,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addCommonFlags(cmd)
	cmd.Flags().BoolVar(&flagPost, "post", false, "Post newly awarded sites (requires Twitter credentials in env)")
	cmd.Flags().BoolVar(&flagNoNotify, "no-notify", false, "Skip the announcement step entirely")
	return cmd
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to config file (default: ./gls-tracker.yaml if present)")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Override data directory")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Override workbook output path")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

// setup loads config, applies flag overrides, and installs the run logger.
func setup() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.Storage.DataDir = flagDataDir
	}

	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	log, err := logger.NewWithFile(level, cfg.Storage.LogPath)
	if err != nil {
		return config.Config{}, err
	}
	logger.SetDefault(log)
	return cfg, nil
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

// runTracker is the awarded-sites command logic
func runTracker(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	cfg, err := setup()
	if err != nil {
		return err
	}
	if flagOutput != "" {
		cfg.Storage.WorkbookPath = flagOutput
	}

	notify, err := buildNotifier(cfg)
	if err != nil {
		return err
	}

	fetcher := fetch.New(fetch.Config{
		Timeout:    cfg.Fetch.Timeout,
		Delay:      cfg.Fetch.Delay,
		RetryDelay: cfg.Fetch.RetryDelay,
		Retries:    cfg.Fetch.Retries,
		UserAgent:  cfg.Fetch.UserAgent,
	})

	runner, err := tracker.New(cfg, fetcher, notify)
	if err != nil {
		return err
	}

	report, err := runner.Run()
	if err != nil {
		return err
	}

	if err := WriteTrackerReport(os.Stdout, report, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(report.NewAwards) > 0 {
		os.Exit(ExitNewRows)
	}
	os.Exit(ExitSuccess)
	return nil
}

// buildNotifier picks the announcement channel: live Twitter with --post,
// nothing with --no-notify, dry-run otherwise.
func buildNotifier(cfg config.Config) (notifier.Notifier, error) {
	if flagNoNotify {
		return nil, nil
	}
	if flagPost || cfg.Notify.Enabled {
		tw, err := notifier.NewTwitterNotifier()
		if err != nil {
			return nil, fmt.Errorf("initializing Twitter notifier: %w", err)
		}
		return tw, nil
	}
	return notifier.NewDryRunNotifier(), nil
}

// Execute runs a job command and maps failures to a non-zero exit so the
// scheduling layer can flag the run.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
