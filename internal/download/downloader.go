package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"contestdump/internal/config"
	"contestdump/internal/fileutil"
	"contestdump/internal/logging"
	"contestdump/internal/services"
	"contestdump/internal/snapshot"
	"contestdump/internal/textutil"
)

const (
	// ArchiveName is the per-submission archive file.
	ArchiveName = "files.zip"
	// SourceName is the per-submission decoded source listing.
	SourceName = "source-code.json"
)

// Fetcher retrieves raw bodies of contest-scoped endpoints.
type Fetcher interface {
	FetchBinary(ctx context.Context, endpoint string) ([]byte, error)
}

// Stats reports what a Run did.
type Stats struct {
	Submissions int
	Batches     int
	Retries     int
}

// Downloader mirrors submissions into a directory tree keyed by id.
type Downloader struct {
	fetcher     Fetcher
	dir         string
	batchSize   int
	retryDelay  time.Duration
	maxAttempts int
	exponential bool
	logger      *slog.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithLogger sets the logger for retry and progress records.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Downloader writing below dir.
func New(fetcher Fetcher, dir string, cfg config.Download, opts ...Option) *Downloader {
	d := &Downloader{
		fetcher:     fetcher,
		dir:         dir,
		batchSize:   cfg.BatchSize,
		retryDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		maxAttempts: cfg.MaxAttempts,
		exponential: cfg.Backoff == config.BackoffExponential,
		logger:      logging.NewNop(),
	}
	if d.batchSize <= 0 {
		d.batchSize = 1
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "download")
	return d
}

type payload struct {
	archive []byte
	source  []byte
}

// Run downloads every id, batch by batch. It stops at the first batch that
// exhausts its attempts or when ctx is cancelled.
func (d *Downloader) Run(ctx context.Context, ids []snapshot.ID) (Stats, error) {
	logger := logging.WithContext(ctx, d.logger)
	stats := Stats{}
	total := len(ids)
	for start := 0; start < total; start += d.batchSize {
		end := min(start+d.batchSize, total)
		batch := ids[start:end]

		attempts := 0
		results, err := backoff.Retry(ctx, func() ([]payload, error) {
			attempts++
			return d.fetchBatch(ctx, batch)
		}, d.retryOptions(logger, batch)...)
		stats.Retries += max(attempts-1, 0)
		if err != nil {
			return stats, services.Wrap(services.ErrBatch, "submissions", "download batch",
				fmt.Sprintf("ids %s..%s after %d attempts", batch[0], batch[len(batch)-1], attempts), err)
		}

		if err := d.persist(batch, results); err != nil {
			return stats, err
		}
		stats.Batches++
		stats.Submissions += len(batch)
		logger.Info("submissions downloaded",
			logging.Int("done", end),
			logging.Int("total", total),
		)
	}
	return stats, nil
}

func (d *Downloader) retryOptions(logger *slog.Logger, batch []snapshot.ID) []backoff.RetryOption {
	var policy backoff.BackOff = backoff.NewConstantBackOff(d.retryDelay)
	if d.exponential {
		exp := backoff.NewExponentialBackOff()
		if d.retryDelay > 0 {
			exp.InitialInterval = d.retryDelay
		}
		policy = exp
	}
	opts := []backoff.RetryOption{
		backoff.WithBackOff(policy),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn("retrying",
				logging.String("first_id", batch[0].String()),
				logging.Int("batch_size", len(batch)),
				logging.Duration("delay", next),
				logging.Error(err),
			)
		}),
	}
	if d.maxAttempts > 0 {
		opts = append(opts, backoff.WithMaxTries(uint(d.maxAttempts)))
	}
	return opts
}

// fetchBatch issues both requests for every id concurrently. The returned
// slice is only valid when err is nil.
func (d *Downloader) fetchBatch(ctx context.Context, batch []snapshot.ID) ([]payload, error) {
	results := make([]payload, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2 * len(batch))
	for i, id := range batch {
		g.Go(func() error {
			body, err := d.fetch(gctx, "submissions/"+id.String()+"/files")
			results[i].archive = body
			return err
		})
		g.Go(func() error {
			body, err := d.fetch(gctx, "submissions/"+id.String()+"/source-code")
			results[i].source = body
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Downloader) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	body, err := d.fetcher.FetchBinary(ctx, endpoint)
	if err != nil && errors.Is(err, services.ErrConfiguration) {
		return nil, backoff.Permanent(err)
	}
	return body, err
}

func (d *Downloader) persist(batch []snapshot.ID, results []payload) error {
	for i, id := range batch {
		name := id.String()
		if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
			return services.Wrap(services.ErrMapping, "submissions", "write archive", fmt.Sprintf("unusable submission id %q", name), nil)
		}
		subDir := filepath.Join(d.dir, name)
		if err := fileutil.WriteFile(filepath.Join(subDir, ArchiveName), results[i].archive); err != nil {
			return services.Wrap(services.ErrBatch, "submissions", "write archive", id.String(), err)
		}
		source := textutil.DecodeEscapes(string(results[i].source))
		if err := fileutil.WriteFile(filepath.Join(subDir, SourceName), []byte(source)); err != nil {
			return services.Wrap(services.ErrBatch, "submissions", "write source", id.String(), err)
		}
	}
	return nil
}
