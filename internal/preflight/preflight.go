package preflight

import (
	"context"

	"contestdump/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to cfg: the output directory always,
// the replay source in replay mode, and API reachability in live mode.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckOutputDirectory("Output directory", cfg.Output.SavedDir)}

	if cfg.ReplayMode() {
		results = append(results, CheckReplaySource("Replay source", cfg.Source.BaseFilePath))
	} else {
		results = append(results, CheckAPI(ctx, cfg))
	}

	if cfg.History.Enabled {
		results = append(results, CheckOutputDirectory("History directory", parentDir(cfg.History.Path)))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
