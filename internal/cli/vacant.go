package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmteo/gls-tracker/internal/fetch"
	"github.com/jmteo/gls-tracker/internal/vacant"
)

// NewVacantCmd creates the root command for the vacant-sites job.
func NewVacantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vacant-sites",
		Short: "Track the published URA vacant-sites workbook",
		Long: `Downloads the published vacant-sites workbook, merges its rows into a
local .xlsx workbook by stable key, and reports entries not seen in any
previous run.`,
		RunE:          runVacant,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addCommonFlags(cmd)
	return cmd
}

// runVacant is the vacant-sites command logic
func runVacant(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	cfg, err := setup()
	if err != nil {
		return err
	}
	if flagOutput != "" {
		cfg.Storage.VacantPath = flagOutput
	}

	fetcher := fetch.New(fetch.Config{
		Timeout:    cfg.Fetch.Timeout,
		Delay:      cfg.Fetch.Delay,
		RetryDelay: cfg.Fetch.RetryDelay,
		Retries:    cfg.Fetch.Retries,
		UserAgent:  cfg.Fetch.UserAgent,
	})

	runner, err := vacant.New(cfg, fetcher)
	if err != nil {
		return err
	}

	report, err := runner.Run()
	if err != nil {
		return err
	}

	if err := WriteVacantReport(os.Stdout, report, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(report.NewEntries) > 0 {
		os.Exit(ExitNewRows)
	}
	os.Exit(ExitSuccess)
	return nil
}
