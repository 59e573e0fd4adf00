package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"contestdump/internal/config"
	"contestdump/internal/exporter"
	"contestdump/internal/history"
	"contestdump/internal/logging"
	"contestdump/internal/preflight"
	"contestdump/internal/telemetry"
)

func newDumpCommand(ctx *commandContext) *cobra.Command {
	var skipCheck bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Export the contest into saved_dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if !skipCheck {
				results := preflight.RunAll(cmd.Context(), cfg)
				if failed := preflight.Failed(results); len(failed) > 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), renderChecks(cmd.ErrOrStderr(), results))
					return fmt.Errorf("preflight failed: %s: %s", failed[0].Name, failed[0].Detail)
				}
			}

			shutdown, err := telemetry.Setup(cmd.Context(), cfg.Tracing.Endpoint)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Warn("tracing shutdown", logging.Error(err))
				}
			}()

			exp, err := exporter.New(cfg, exporter.WithLogger(logger))
			if err != nil {
				return err
			}
			result, dumpErr := exp.Dump(cmd.Context())
			if cfg.History.Enabled {
				recordHistory(cmd.Context(), cfg, logger, result, dumpErr)
			}
			if dumpErr != nil {
				return dumpErr
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderDumpSummary(out, result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Skip preflight checks before exporting")
	return cmd
}

// recordHistory appends the run to the ledger. Ledger failures are logged
// and never change the outcome of the export.
func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, result *exporter.Result, dumpErr error) {
	if result == nil {
		return
	}
	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		logger.Warn("open export history", logging.String("path", cfg.History.Path), logging.Error(err))
		return
	}
	defer store.Close()

	run := history.Run{
		RunID:       result.RunID,
		StartedAt:   result.StartedAt,
		Duration:    result.Duration,
		Source:      sourceLabel(cfg),
		Replay:      result.Replay,
		SavedDir:    result.SavedDir,
		Status:      history.StatusSucceeded,
		Problems:    result.Counts.Problems,
		Teams:       result.Counts.Teams,
		Submissions: result.Counts.Submissions,
		RunPages:    result.RunPages,
		Images:      result.Images,
		Artifacts:   result.Artifacts,
	}
	if dumpErr != nil {
		run.Status = history.StatusFailed
		run.Error = dumpErr.Error()
	}
	if _, err := store.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("record export history", logging.String("run_id", result.RunID), logging.Error(err))
	}
}

func sourceLabel(cfg *config.Config) string {
	if cfg.ReplayMode() {
		return cfg.Source.BaseFilePath
	}
	return strings.TrimRight(cfg.Source.BaseURL, "/") + " cid=" + cfg.Source.CID
}

func renderDumpSummary(out io.Writer, result *exporter.Result) string {
	rows := [][]string{
		{"Run ID", result.RunID},
		{"Saved dir", result.SavedDir},
		{"Replay", yesNo(result.Replay)},
		{"Problems", strconv.Itoa(result.Counts.Problems)},
		{"Teams", strconv.Itoa(result.Counts.Teams)},
		{"Submissions", strconv.Itoa(result.Counts.Submissions)},
		{"Pending verdicts", strconv.Itoa(result.Counts.Pending)},
		{"Run pages", strconv.Itoa(result.RunPages)},
		{"Submissions fetched", strconv.Itoa(result.Submissions)},
		{"Batch retries", strconv.Itoa(result.BatchRetries)},
		{"Images", strconv.Itoa(result.Images)},
		{"Decode warnings", strconv.Itoa(result.DecodeWarnings)},
		{"Artifacts", strings.Join(result.Artifacts, ", ")},
		{"Duration", result.Duration.Round(time.Millisecond).String()},
	}
	return renderTable(out, []string{"Field", "Value"}, rows, nil)
}
