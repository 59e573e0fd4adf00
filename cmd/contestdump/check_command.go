package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"contestdump/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify paths and API access before exporting",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderChecks(out, results))
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
			}
			return nil
		},
	}
}

func renderChecks(out io.Writer, results []preflight.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "OK"
		if !r.Passed {
			status = "FAIL"
		}
		rows = append(rows, []string{r.Name, status, r.Detail})
	}
	return renderTable(out, []string{"Check", "Status", "Detail"}, rows, nil)
}
