package testsupport

import (
	"path/filepath"
	"testing"

	"contestdump/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The source points at an unreachable live API until overridden.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Source.BaseURL = "http://127.0.0.1:1/domjudge"
	cfgVal.Source.CID = "1"
	cfgVal.Source.UserPwd = "admin:secret"
	cfgVal.Source.RequestTimeout = 5
	cfgVal.Output.SavedDir = filepath.Join(base, "output")
	cfgVal.Download.RetryDelaySeconds = 0
	cfgVal.History.Path = filepath.Join(base, "history.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithBaseURL points the live source at url (typically an httptest server
// URL plus "/domjudge").
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Source.BaseURL = url
	}
}

// WithCID overrides the contest id.
func WithCID(cid string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Source.CID = cid
	}
}

// WithReplaySource switches the config to replay mode reading dir.
func WithReplaySource(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Source.BaseFilePath = dir
	}
}

// WithExports enables the named stages and formats on top of domjudge_api
// (which stays enabled). Unknown names fail the test.
func WithExports(names ...string) ConfigOption {
	return func(b *configBuilder) {
		ed := &b.cfg.ExportedData
		for _, name := range names {
			switch name {
			case "event_feed":
				ed.EventFeed = true
			case "runs":
				ed.Runs = true
			case "submissions":
				ed.Submissions = true
			case "images":
				ed.Images = true
			case "ghost_dat_data":
				ed.GhostDatData = true
			case "resolver_data":
				ed.ResolverData = true
			case "scoreboard_excel_data":
				ed.ScoreboardExcelData = true
			default:
				b.t.Fatalf("unknown export toggle %q", name)
			}
		}
	}
}

// WithDownload overrides batch size and bounded attempts for the batch downloader.
func WithDownload(batchSize, maxAttempts int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Download.BatchSize = batchSize
		b.cfg.Download.MaxAttempts = maxAttempts
	}
}

// WithScoreInSeconds toggles second precision in derived timestamps.
func WithScoreInSeconds(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.ScoreInSeconds = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Output.SavedDir)
}
