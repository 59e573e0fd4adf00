package download_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"contestdump/internal/config"
	"contestdump/internal/download"
	"contestdump/internal/services"
	"contestdump/internal/snapshot"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls map[string]int
	fail  func(endpoint string, call int) bool
}

func (f *fakeFetcher) FetchBinary(_ context.Context, endpoint string) ([]byte, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[endpoint]++
	call := f.calls[endpoint]
	f.mu.Unlock()

	if f.fail != nil && f.fail(endpoint, call) {
		return nil, services.Wrap(services.ErrTransport, "fetch", endpoint, "returned 502", nil)
	}
	if strings.HasSuffix(endpoint, "/source-code") {
		return []byte(`[{"filename":"main.cpp","source":"int main() {\n}"}]`), nil
	}
	return []byte("PK" + endpoint), nil
}

func (f *fakeFetcher) count(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func ids(n int) []snapshot.ID {
	out := make([]snapshot.ID, n)
	for i := range out {
		out[i] = snapshot.ID(fmt.Sprint(i + 1))
	}
	return out
}

func downloadConfig(batchSize, maxAttempts int) config.Download {
	return config.Download{BatchSize: batchSize, MaxAttempts: maxAttempts, Backoff: config.BackoffConstant}
}

func TestRunRetriesFailedBatch(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{fail: func(endpoint string, call int) bool {
		return endpoint == "submissions/3/files" && call == 1
	}}

	stats, err := download.New(fetcher, dir, downloadConfig(2, 0)).Run(context.Background(), ids(5))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Submissions != 5 || stats.Batches != 3 || stats.Retries != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	// The whole second batch is fetched again, not only the failed request.
	if got := fetcher.count("submissions/4/source-code"); got != 2 {
		t.Fatalf("expected batch sibling refetched, got %d calls", got)
	}
	if got := fetcher.count("submissions/1/files"); got != 1 {
		t.Fatalf("expected first batch fetched once, got %d calls", got)
	}

	for _, id := range ids(5) {
		archive, err := os.ReadFile(filepath.Join(dir, id.String(), download.ArchiveName))
		if err != nil {
			t.Fatalf("read archive %s: %v", id, err)
		}
		if string(archive) != "PKsubmissions/"+id.String()+"/files" {
			t.Fatalf("unexpected archive content %q", archive)
		}
	}
	source, err := os.ReadFile(filepath.Join(dir, "1", download.SourceName))
	if err != nil {
		t.Fatalf("read source: %v", err)
	}
	if !strings.Contains(string(source), "int main() {\n}") {
		t.Fatalf("expected decoded escapes in source, got %q", source)
	}
}

func TestRunBoundedAttemptsLeaveNoPartialBatch(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{fail: func(endpoint string, _ int) bool {
		return endpoint == "submissions/4/source-code"
	}}

	stats, err := download.New(fetcher, dir, downloadConfig(3, 2)).Run(context.Background(), ids(6))
	if err == nil {
		t.Fatal("expected error once attempts are exhausted")
	}
	if !errors.Is(err, services.ErrBatch) || !services.IsFatal(err) {
		t.Fatalf("expected fatal ErrBatch, got %v", err)
	}
	if stats.Submissions != 3 {
		t.Fatalf("expected only first batch persisted, got %+v", stats)
	}
	if got := fetcher.count("submissions/4/source-code"); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
	for _, id := range []string{"4", "5", "6"} {
		if _, err := os.Stat(filepath.Join(dir, id)); !os.IsNotExist(err) {
			t.Fatalf("expected no files for failed batch id %s, stat err=%v", id, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "3", download.ArchiveName)); err != nil {
		t.Fatalf("expected first batch archive, got %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &fakeFetcher{fail: func(string, int) bool {
		cancel()
		return true
	}}

	_, err := download.New(fetcher, t.TempDir(), downloadConfig(2, 0)).Run(ctx, ids(2))
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunRejectsUnsafeIDs(t *testing.T) {
	_, err := download.New(&fakeFetcher{}, t.TempDir(), downloadConfig(2, 0)).Run(context.Background(), []snapshot.ID{"../escape"})
	if !errors.Is(err, services.ErrMapping) {
		t.Fatalf("expected ErrMapping, got %v", err)
	}
}
