package exporter

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tidwall/gjson"

	"contestdump/internal/fileutil"
	"contestdump/internal/logging"
	"contestdump/internal/services"
)

// RunPageLimit is the page size requested from the runs endpoint.
const RunPageLimit = 10000

// RunPageName returns the file name of the n-th (1-based) runs page.
func RunPageName(n int) string {
	return fmt.Sprintf("runs.%d.json", n)
}

// dumpRuns pages the run stream into apiDir and returns the number of
// non-empty pages kept. The terminating empty page is removed.
func (e *Exporter) dumpRuns(ctx context.Context, apiDir string) (int, error) {
	logger := logging.WithContext(ctx, e.logger)
	query := url.Values{"limit": {strconv.Itoa(RunPageLimit)}}
	for page := 1; ; page++ {
		name := RunPageName(page)
		body, err := e.client.Fetch(ctx, "runs", name, query)
		if err != nil {
			return page - 1, err
		}
		path := filepath.Join(apiDir, name)
		if err := fileutil.WriteFile(path, body); err != nil {
			return page - 1, services.Wrap(services.ErrTransport, "runs", "persist "+name, "", err)
		}

		lastID, empty, err := lastRunID(body)
		if err != nil {
			return page - 1, services.Wrap(services.ErrDecode, "runs", name, "cannot continue paging", err)
		}
		if empty {
			if err := os.Remove(path); err != nil {
				return page - 1, fmt.Errorf("remove empty runs page: %w", err)
			}
			logger.Info("run stream exhausted", logging.Int("pages", page-1))
			return page - 1, nil
		}
		logger.Info("runs page saved", logging.String("file", name), logging.Int64("last_id", lastID))

		query = url.Values{
			"limit":    {strconv.Itoa(RunPageLimit)},
			"first_id": {strconv.FormatInt(lastID+1, 10)},
		}
	}
}

// lastRunID inspects a runs page and returns the numeric id of its last element.
func lastRunID(body []byte) (int64, bool, error) {
	if !gjson.ValidBytes(body) {
		return 0, false, fmt.Errorf("page is not valid JSON")
	}
	page := gjson.ParseBytes(body)
	if !page.IsArray() {
		return 0, false, fmt.Errorf("page is not a JSON array")
	}
	runs := page.Array()
	if len(runs) == 0 {
		return 0, true, nil
	}
	id := runs[len(runs)-1].Get("id")
	if !id.Exists() {
		return 0, false, fmt.Errorf("last run has no id")
	}
	n, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("last run id %q is not numeric: %w", id.String(), err)
	}
	return n, false, nil
}
