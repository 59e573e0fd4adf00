package exporter

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"contestdump/internal/fileutil"
	"contestdump/internal/logging"
	"contestdump/internal/services"
)

// Output layout below saved_dir.
const (
	APIDir         = "domjudge/api"
	SubmissionsDir = "domjudge/submissions"
	ImagesDir      = "domjudge/images"
)

type resource struct {
	endpoint string
	filename string
	query    url.Values
}

// fixedResources are fetched on every run, in this order.
var fixedResources = []resource{
	{endpoint: "", filename: "contest.json"},
	{endpoint: "awards", filename: "awards.json"},
	{endpoint: "scoreboard", filename: "scoreboard.json"},
	{endpoint: "groups", filename: "groups.json"},
	{endpoint: "judgements", filename: "judgements.json"},
	{endpoint: "judgement-types", filename: "judgement-types.json"},
	{endpoint: "languages", filename: "languages.json"},
	{endpoint: "organizations", filename: "organizations.json"},
	{endpoint: "problems", filename: "problems.json"},
	{endpoint: "teams", filename: "teams.json"},
	{endpoint: "submissions", filename: "submissions.json"},
	{endpoint: "clarifications", filename: "clarifications.json"},
}

var eventFeed = resource{
	endpoint: "event-feed",
	filename: "event-feed.ndjson",
	query:    url.Values{"stream": {"false"}, "strict": {"true"}},
}

// payloadSet holds fetched bodies keyed by file name.
type payloadSet map[string][]byte

type fetchOutcome struct {
	payloads       payloadSet
	decodeWarnings int
}

// fetchResources retrieves each resource in order. When apiDir is not empty
// every body is written there before it is validated.
func (e *Exporter) fetchResources(ctx context.Context, resources []resource, apiDir string) (fetchOutcome, error) {
	logger := logging.WithContext(ctx, e.logger)
	out := fetchOutcome{payloads: make(payloadSet, len(resources))}
	for _, res := range resources {
		body, err := e.client.Fetch(ctx, res.endpoint, res.filename, res.query)
		if err != nil {
			return out, err
		}
		logger.Debug("resource fetched",
			logging.String("file", res.filename),
			logging.Int("bytes", len(body)),
		)
		if apiDir != "" {
			if err := fileutil.WriteFile(filepath.Join(apiDir, res.filename), body); err != nil {
				return out, services.Wrap(services.ErrTransport, "api", "persist "+res.filename, "", err)
			}
		}
		if strings.HasSuffix(res.filename, ".json") && !gjson.ValidBytes(body) {
			decodeErr := services.Wrap(services.ErrDecode, "api", res.filename, "payload is not valid JSON, raw text kept", nil)
			logger.Error("invalid json payload",
				logging.String("file", res.filename),
				logging.Error(decodeErr),
			)
			out.decodeWarnings++
		}
		out.payloads[res.filename] = body
	}
	return out, nil
}
