package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"contestdump/internal/exporter"
)

func newLoadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Fetch and decode the contest without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			exp, err := exporter.New(cfg, exporter.WithLogger(logger))
			if err != nil {
				return err
			}
			snap, err := exp.Load(cmd.Context())
			if err != nil {
				return err
			}

			counts := snap.Counts()
			duration, err := snap.DurationSeconds()
			if err != nil {
				return err
			}
			frozen, err := snap.FrozenSeconds()
			if err != nil {
				return err
			}
			rows := [][]string{
				{"Contest", snap.Contest.FormalName},
				{"Duration (s)", strconv.Itoa(duration)},
				{"Frozen at (s)", strconv.Itoa(frozen)},
				{"Problems", strconv.Itoa(counts.Problems)},
				{"Teams", strconv.Itoa(counts.Teams)},
				{"Groups", strconv.Itoa(counts.Groups)},
				{"Organizations", strconv.Itoa(counts.Organizations)},
				{"Submissions", strconv.Itoa(counts.Submissions)},
				{"Judgements", strconv.Itoa(counts.Judgements)},
				{"Pending verdicts", strconv.Itoa(counts.Pending)},
				{"Scoreboard rows", strconv.Itoa(len(snap.Scoreboard.Rows))},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}
