package exporter

import (
	"context"
	"os"
	"path/filepath"

	"contestdump/internal/fileutil"
	"contestdump/internal/logging"
	"contestdump/internal/services"
)

// replayRuns copies runs.*.json pages from the replay source.
func (e *Exporter) replayRuns(ctx context.Context, apiDir string) (int, error) {
	src := filepath.Join(e.cfg.Source.BaseFilePath, filepath.FromSlash(APIDir))
	names, err := fileutil.CopyGlob(src, "runs.*.json", apiDir)
	if err != nil {
		return len(names), services.Wrap(services.ErrTransport, "runs", "replay copy", "", err)
	}
	logging.WithContext(ctx, e.logger).Info("run pages copied", logging.Int("pages", len(names)))
	return len(names), nil
}

// replayTree copies a mirrored subtree (submissions, images) from the replay
// source. A source without that subtree copies nothing.
func (e *Exporter) replayTree(ctx context.Context, rel string) (int, error) {
	src := filepath.Join(e.cfg.Source.BaseFilePath, filepath.FromSlash(rel))
	logger := logging.WithContext(ctx, e.logger)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		logger.Info("replay source has no tree, skipping", logging.String("path", src))
		return 0, nil
	}
	count, err := fileutil.CopyTree(src, filepath.Join(e.cfg.Output.SavedDir, filepath.FromSlash(rel)))
	if err != nil {
		return count, services.Wrap(services.ErrTransport, "replay", "copy "+rel, "", err)
	}
	logger.Info("tree copied", logging.String("path", rel), logging.Int("files", count))
	return count, nil
}
