package testsupport

import (
	"maps"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ContestFiles returns a small contest in the layout of the API mirror,
// keyed by file name. Team t2 is an observer, submission 4 has no judgement,
// submission 5 arrives after the end of the contest and submission 2 is
// rejudged from WA to TLE.
func ContestFiles() map[string]string {
	return map[string]string{
		"contest.json": `{"id":"1","name":"demo","formal_name":"Demo Contest 2024","duration":"5:00:00.000",` +
			`"scoreboard_freeze_duration":"1:00:00.000",` +
			`"banner":[{"href":"contests/1/banner.png","mime":"image/png","filename":"banner.png","width":100,"height":50}]}`,
		"awards.json": `[]`,
		"scoreboard.json": `{"event_id":"42","contest_time":"5:00:00.000","rows":[` +
			`{"rank":1,"team_id":"t1","score":{"num_solved":1,"total_time":11},"problems":[` +
			`{"label":"A","problem_id":"p1","num_judged":1,"num_pending":0,"solved":true,"time":11},` +
			`{"label":"B","problem_id":"p2","num_judged":2,"num_pending":0,"solved":false},` +
			`{"label":"C","problem_id":"p3","num_judged":0,"num_pending":0,"solved":false}]},` +
			`{"rank":"2","team_id":"t2","score":{"num_solved":0,"total_time":"0"},"problems":[` +
			`{"label":"A","problem_id":"p1","num_judged":0,"num_pending":1,"solved":false},` +
			`{"label":"B","problem_id":"p2","num_judged":0,"num_pending":0,"solved":false},` +
			`{"label":"C","problem_id":"p3","num_judged":1,"num_pending":0,"solved":false}]}]}`,
		"groups.json": `[{"id":"3","name":"Participants"},{"id":"4","name":"Observers"}]`,
		"judgements.json": `[` +
			`{"id":"j1","submission_id":"1","judgement_type_id":"AC"},` +
			`{"id":"j2","submission_id":"2","judgement_type_id":"WA"},` +
			`{"id":"j3","submission_id":"2","judgement_type_id":"TLE"},` +
			`{"id":"j4","submission_id":"3","judgement_type_id":"CE"},` +
			`{"id":"j5","submission_id":"5","judgement_type_id":"AC"},` +
			`{"id":"j6","submission_id":"6","judgement_type_id":null}]`,
		"judgement-types.json": `[{"id":"AC","name":"correct","penalty":false,"solved":true},` +
			`{"id":"WA","name":"wrong answer","penalty":true,"solved":false}]`,
		"languages.json": `[{"id":"cpp","name":"C++"}]`,
		"organizations.json": `[{"id":"10","name":"MIT","formal_name":"Massachusetts Institute of Technology",` +
			`"logo":[{"href":"contests/1/organizations/10/logo.png","mime":"image/png","filename":"logo.png","width":64,"height":64}]}]`,
		"problems.json": `[{"id":"p1","label":"A","name":"Apples","ordinal":0},` +
			`{"id":"p2","label":"B","name":"Bananas","ordinal":1},` +
			`{"id":"p3","label":"C","name":"Cherries","ordinal":"2"}]`,
		"teams.json": `[{"id":"t1","name":"Alpha","affiliation":"MIT","organization_id":"10","group_ids":["3"]},` +
			`{"id":"t2","name":"Beta","affiliation":"Caltech","organization_id":null,"group_ids":["4"],` +
			`"photo":[{"href":"contests/1/teams/t2/photo.jpg","mime":"image/jpeg","filename":"photo.jpg"}]}]`,
		"submissions.json": `[` +
			`{"id":"1","team_id":"t1","problem_id":"p1","language_id":"cpp","contest_time":"0:10:30.500"},` +
			`{"id":"2","team_id":"t1","problem_id":"p2","language_id":"cpp","contest_time":"0:20:00.000"},` +
			`{"id":"3","team_id":"t2","problem_id":"p3","language_id":"cpp","contest_time":"1:00:59.999"},` +
			`{"id":"4","team_id":"t2","problem_id":"p1","language_id":"cpp","contest_time":"2:30:00.000"},` +
			`{"id":"5","team_id":"t1","problem_id":"p3","language_id":"cpp","contest_time":"5:00:00.700"},` +
			`{"id":"6","team_id":"t1","problem_id":"p2","language_id":"cpp","contest_time":"0:40:00.000"}]`,
		"clarifications.json": `[]`,
	}
}

// EndpointFiles maps contest-scoped endpoints to their mirror file names.
var EndpointFiles = map[string]string{
	"":                "contest.json",
	"awards":          "awards.json",
	"scoreboard":      "scoreboard.json",
	"groups":          "groups.json",
	"judgements":      "judgements.json",
	"judgement-types": "judgement-types.json",
	"languages":       "languages.json",
	"organizations":   "organizations.json",
	"problems":        "problems.json",
	"teams":           "teams.json",
	"submissions":     "submissions.json",
	"clarifications":  "clarifications.json",
	"event-feed":      "event-feed.ndjson",
}

// WriteAPITree writes files below root/domjudge/api and returns root.
func WriteAPITree(t testing.TB, root string, files map[string]string) string {
	t.Helper()
	apiDir := filepath.Join(root, "domjudge", "api")
	if err := os.MkdirAll(apiDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", apiDir, err)
	}
	for name, content := range files {
		path := filepath.Join(apiDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return root
}

// WriteTreeFile writes content to root/rel, creating parents.
func WriteTreeFile(t testing.TB, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// NewAPIServer serves files under /domjudge/api/v4/contests/{cid}/ using
// EndpointFiles. Requests that do not match a file go to fallback, or 404
// when fallback is nil. The server is closed on test cleanup.
func NewAPIServer(t testing.TB, cid string, files map[string]string, fallback http.Handler) *httptest.Server {
	t.Helper()
	served := maps.Clone(files)
	prefix := "/domjudge/api/v4/contests/" + cid
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rest, ok := strings.CutPrefix(r.URL.Path, prefix); ok {
			endpoint := strings.Trim(rest, "/")
			if name, known := EndpointFiles[endpoint]; known {
				if body, present := served[name]; present {
					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					_, _ = w.Write([]byte(body))
					return
				}
			}
		}
		if fallback != nil {
			fallback.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}
