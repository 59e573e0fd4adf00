package exporter

import (
	"context"
	"path/filepath"

	"github.com/tidwall/gjson"

	"contestdump/internal/download"
	"contestdump/internal/snapshot"
)

// submissionIDs lists submission ids from the raw payload in fetch order.
func submissionIDs(payloads payloadSet) []snapshot.ID {
	var ids []snapshot.ID
	gjson.GetBytes(payloads["submissions.json"], "#.id").ForEach(func(_, value gjson.Result) bool {
		ids = append(ids, snapshot.ID(value.String()))
		return true
	})
	return ids
}

func (e *Exporter) dumpSubmissions(ctx context.Context, payloads payloadSet, result *Result) error {
	if e.client.Replay() {
		count, err := e.replayTree(ctx, SubmissionsDir)
		result.Submissions = count
		return err
	}
	dir := filepath.Join(result.SavedDir, filepath.FromSlash(SubmissionsDir))
	downloader := download.New(e.client, dir, e.cfg.Download, download.WithLogger(e.logger))
	stats, err := downloader.Run(ctx, submissionIDs(payloads))
	result.Submissions = stats.Submissions
	result.BatchRetries = stats.Retries
	return err
}
