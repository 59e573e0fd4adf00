package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"contestdump/internal/config"
	"contestdump/internal/domjudge"
	"contestdump/internal/fileutil"
	"contestdump/internal/logging"
	"contestdump/internal/services"
	"contestdump/internal/snapshot"
	"contestdump/internal/telemetry"
)

// ErrLocked reports that another export holds the output directory.
var ErrLocked = errors.New("output directory is locked by another export")

// Result summarizes a finished Dump.
type Result struct {
	RunID          string
	SavedDir       string
	Replay         bool
	StartedAt      time.Time
	Duration       time.Duration
	Counts         snapshot.Counts
	RunPages       int
	Submissions    int
	BatchRetries   int
	Images         int
	DecodeWarnings int
	Artifacts      []string
}

// Exporter runs exports for one configuration.
type Exporter struct {
	cfg    *config.Config
	client domjudge.Fetcher
	logger *slog.Logger
	newID  func() string
	now    func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClient replaces the API client built from the config.
func WithClient(client domjudge.Fetcher) Option {
	return func(e *Exporter) {
		if client != nil {
			e.client = client
		}
	}
}

// WithRunIDGenerator overrides run id generation.
func WithRunIDGenerator(fn func() string) Option {
	return func(e *Exporter) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New creates an Exporter. Unless WithClient is given, a domjudge client is
// built from cfg.
func New(cfg *config.Config, opts ...Option) (*Exporter, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "exporter", "new", "config required", nil)
	}
	e := &Exporter{
		cfg:    cfg,
		logger: logging.NewNop(),
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.client == nil {
		client, err := domjudge.New(cfg, domjudge.WithLogger(e.logger))
		if err != nil {
			return nil, err
		}
		e.client = client
	}
	e.logger = logging.NewComponentLogger(e.logger, "exporter")
	return e, nil
}

// Dump runs the full export into saved_dir. On error the returned Result
// still carries the run id and whatever was counted so far.
func (e *Exporter) Dump(ctx context.Context) (*Result, error) {
	result := &Result{
		RunID:     e.newID(),
		SavedDir:  e.cfg.Output.SavedDir,
		Replay:    e.client.Replay(),
		StartedAt: e.now(),
	}
	ctx = services.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, e.logger)
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	unlock, err := e.lock()
	if err != nil {
		return result, err
	}
	defer unlock()

	logger.Info("export started",
		logging.String("saved_dir", result.SavedDir),
		logging.Bool("replay", result.Replay),
	)

	if err := fileutil.ResetDir(result.SavedDir); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "prepare", "reset saved_dir", "", err)
	}

	err = e.runStages(ctx, result)
	if err != nil {
		logger.Error("export failed", logging.Error(err))
		return result, err
	}
	logger.Info("export finished",
		logging.Int("submissions", result.Counts.Submissions),
		logging.Int("run_pages", result.RunPages),
		logging.Int("images", result.Images),
		logging.Int("artifacts", len(result.Artifacts)),
	)
	return result, nil
}

func (e *Exporter) runStages(ctx context.Context, result *Result) error {
	exported := e.cfg.ExportedData
	apiDir := filepath.Join(result.SavedDir, filepath.FromSlash(APIDir))

	var payloads payloadSet
	err := e.stage(ctx, "api", func(ctx context.Context) error {
		persistDir := ""
		if exported.DomjudgeAPI {
			persistDir = apiDir
		}
		resources := fixedResources
		if exported.EventFeed {
			resources = append(append([]resource(nil), fixedResources...), eventFeed)
		}
		outcome, err := e.fetchResources(ctx, resources, persistDir)
		payloads = outcome.payloads
		result.DecodeWarnings = outcome.decodeWarnings
		return err
	})
	if err != nil {
		return err
	}

	if exported.Runs {
		if err := e.stage(ctx, "runs", func(ctx context.Context) error {
			var err error
			if e.client.Replay() {
				result.RunPages, err = e.replayRuns(ctx, apiDir)
			} else {
				result.RunPages, err = e.dumpRuns(ctx, apiDir)
			}
			return err
		}); err != nil {
			return err
		}
	}

	if exported.Submissions {
		if err := e.stage(ctx, "submissions", func(ctx context.Context) error {
			return e.dumpSubmissions(ctx, payloads, result)
		}); err != nil {
			return err
		}
	}

	if exported.Images {
		if err := e.stage(ctx, "images", func(ctx context.Context) error {
			var err error
			imagesDir := filepath.Join(result.SavedDir, filepath.FromSlash(ImagesDir))
			if e.client.Replay() {
				result.Images, err = e.replayTree(ctx, ImagesDir)
			} else {
				result.Images, err = e.dumpImages(ctx, payloads, imagesDir)
			}
			return err
		}); err != nil {
			return err
		}
	}

	return e.stage(ctx, "formats", func(ctx context.Context) error {
		snap, err := buildSnapshot(payloads)
		if err != nil {
			if !exported.AnyFormat() {
				logging.WithContext(ctx, e.logger).Warn("snapshot not built, counts unavailable", logging.Error(err))
				return nil
			}
			return err
		}
		result.Counts = snap.Counts()
		result.Artifacts, err = e.writeFormats(ctx, snap, result.SavedDir)
		return err
	})
}

// stage runs fn inside a tracing span tagged with the stage name.
func (e *Exporter) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := telemetry.StartStage(ctx, name)
	err := fn(ctx)
	telemetry.EndStage(span, err)
	return err
}

// Load fetches the fixed resources without writing anything and returns
// the built snapshot.
func (e *Exporter) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	ctx = services.WithRunID(ctx, e.newID())
	var snap *snapshot.Snapshot
	err := e.stage(ctx, "load", func(ctx context.Context) error {
		outcome, err := e.fetchResources(ctx, fixedResources, "")
		if err != nil {
			return err
		}
		snap, err = buildSnapshot(outcome.payloads)
		return err
	})
	return snap, err
}

func buildSnapshot(payloads payloadSet) (*snapshot.Snapshot, error) {
	return snapshot.Build(snapshot.Payloads{
		Contest:       payloads["contest.json"],
		Scoreboard:    payloads["scoreboard.json"],
		Groups:        payloads["groups.json"],
		Judgements:    payloads["judgements.json"],
		Organizations: payloads["organizations.json"],
		Problems:      payloads["problems.json"],
		Teams:         payloads["teams.json"],
		Submissions:   payloads["submissions.json"],
	})
}

// lock takes the exclusive export lock for saved_dir without blocking.
func (e *Exporter) lock() (func(), error) {
	path := e.cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "prepare", "lock", "ensure lock directory", err)
	}
	fileLock := flock.New(path)
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "prepare", "lock", path, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "prepare", "lock", path, ErrLocked)
	}
	return func() {
		if err := fileLock.Unlock(); err != nil {
			e.logger.Warn("release export lock", logging.String("path", path), logging.Error(err))
		}
	}, nil
}

// String renders a one-line summary.
func (r *Result) String() string {
	return fmt.Sprintf("run %s: %d submissions, %d run pages, %d images, %d artifacts in %s",
		r.RunID, r.Counts.Submissions, r.RunPages, r.Images, len(r.Artifacts), r.Duration.Round(time.Millisecond))
}
