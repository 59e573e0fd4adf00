package testsupport

import (
	"testing"

	"contestdump/internal/snapshot"
)

// BuildSnapshot builds the ContestFiles fixture, applying edits to the file
// map first.
func BuildSnapshot(t testing.TB, edits ...func(files map[string]string)) *snapshot.Snapshot {
	t.Helper()
	files := ContestFiles()
	for _, edit := range edits {
		edit(files)
	}
	snap, err := snapshot.Build(snapshot.Payloads{
		Contest:       []byte(files["contest.json"]),
		Scoreboard:    []byte(files["scoreboard.json"]),
		Groups:        []byte(files["groups.json"]),
		Judgements:    []byte(files["judgements.json"]),
		Organizations: []byte(files["organizations.json"]),
		Problems:      []byte(files["problems.json"]),
		Teams:         []byte(files["teams.json"]),
		Submissions:   []byte(files["submissions.json"]),
	})
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	return snap
}
