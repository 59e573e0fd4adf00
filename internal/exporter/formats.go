package exporter

import (
	"context"
	"path/filepath"

	"contestdump/internal/fileutil"
	"contestdump/internal/formats/ghostdat"
	"contestdump/internal/formats/resolver"
	"contestdump/internal/formats/scoreboard"
	"contestdump/internal/logging"
	"contestdump/internal/services"
	"contestdump/internal/snapshot"
)

// writeFormats runs the enabled encoders and returns the written file names
// relative to dir.
func (e *Exporter) writeFormats(ctx context.Context, snap *snapshot.Snapshot, dir string) ([]string, error) {
	logger := logging.WithContext(ctx, e.logger)
	exported := e.cfg.ExportedData
	var artifacts []string

	write := func(name string, data []byte) error {
		if err := fileutil.WriteFile(filepath.Join(dir, name), data); err != nil {
			return services.Wrap(services.ErrTransport, "formats", "write "+name, "", err)
		}
		artifacts = append(artifacts, name)
		logger.Info("artifact written", logging.String("file", name), logging.Int("bytes", len(data)))
		return nil
	}

	if exported.GhostDatData {
		data, err := ghostdat.Encode(snap, ghostdat.Options{
			ScoreInSeconds: e.cfg.Output.ScoreInSeconds,
			AddDummyTeams:  e.cfg.Output.AddDummyRussianTeam,
		})
		if err != nil {
			return artifacts, err
		}
		if err := write(ghostdat.FileName, data); err != nil {
			return artifacts, err
		}
	}

	if exported.ResolverData {
		data, err := resolver.Encode(snap, resolver.Options{ScoreInSeconds: e.cfg.Output.ScoreInSeconds})
		if err != nil {
			return artifacts, err
		}
		if err := write(resolver.FileName, data); err != nil {
			return artifacts, err
		}
	}

	if exported.ScoreboardExcelData {
		book, err := scoreboard.Encode(snap)
		if err != nil {
			return artifacts, err
		}
		defer book.Close()
		name := scoreboard.FileName(snap)
		if err := book.SaveAs(filepath.Join(dir, name)); err != nil {
			return artifacts, services.Wrap(services.ErrTransport, "formats", "write "+name, "", err)
		}
		artifacts = append(artifacts, name)
		logger.Info("artifact written", logging.String("file", name))
	}
	return artifacts, nil
}
