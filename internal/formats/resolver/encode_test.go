package resolver_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"contestdump/internal/formats/resolver"
	"contestdump/internal/services"
	"contestdump/internal/testsupport"
)

func TestEncodeFixture(t *testing.T) {
	snap := testsupport.BuildSnapshot(t)

	out, err := resolver.Encode(snap, resolver.Options{})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	want := `{"contest_name":"Demo Contest 2024","problem_count":3,"frozen_seconds":14400,` +
		`"solutions":{` +
		`"1":{"submitted_seconds":600,"user_id":"t1","problem_index":"1","verdict":"AC"},` +
		`"2":{"submitted_seconds":1200,"user_id":"t1","problem_index":"2","verdict":"WA"},` +
		`"3":{"submitted_seconds":9000,"user_id":"t2","problem_index":"1","verdict":"WA"},` +
		`"4":{"submitted_seconds":2400,"user_id":"t1","problem_index":"2","verdict":"WA"}},` +
		`"users":{` +
		`"t1":{"name":"Alpha","college":"MIT","is_exclude":false},` +
		`"t2":{"name":"Beta","college":"Caltech","is_exclude":true}}}`
	if string(out) != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestBuildBoundsAndVerdicts(t *testing.T) {
	snap := testsupport.BuildSnapshot(t)
	doc, err := resolver.Build(snap, resolver.Options{ScoreInSeconds: true})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	duration, _ := snap.DurationSeconds()
	for i := 1; i <= doc.SolutionCount(); i++ {
		sol, ok := doc.Solution(strconv.Itoa(i))
		if !ok {
			t.Fatalf("missing solution %d", i)
		}
		if sol.SubmittedSeconds > duration {
			t.Fatalf("solution %d submitted after contest end: %d", i, sol.SubmittedSeconds)
		}
		if sol.Verdict != "AC" && sol.Verdict != "WA" {
			t.Fatalf("solution %d has verdict %q", i, sol.Verdict)
		}
		if _, ok := doc.User(sol.UserID); !ok {
			t.Fatalf("solution %d references unknown user %q", i, sol.UserID)
		}
	}
	first, _ := doc.Solution("1")
	if first.SubmittedSeconds != 630 {
		t.Fatalf("expected second precision, got %d", first.SubmittedSeconds)
	}
}

func TestBuildDropsLateAndUnknownTeams(t *testing.T) {
	snap := testsupport.BuildSnapshot(t, func(files map[string]string) {
		files["submissions.json"] = `[` +
			`{"id":"1","team_id":"t1","problem_id":"p3","contest_time":"5:00:00.001"},` +
			`{"id":"2","team_id":"nobody","problem_id":"p3","contest_time":"0:05:00"},` +
			`{"id":"3","team_id":"t1","problem_id":"p3","contest_time":"5:00:00.000"}]`
		files["judgements.json"] = `[{"id":"j1","submission_id":"1","judgement_type_id":"AC"},` +
			`{"id":"j2","submission_id":"2","judgement_type_id":"AC"},` +
			`{"id":"j3","submission_id":"3","judgement_type_id":"AC"}]`
	})
	doc, err := resolver.Build(snap, resolver.Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if doc.SolutionCount() != 1 {
		t.Fatalf("expected only the on-time submission, got %d", doc.SolutionCount())
	}
	sol, _ := doc.Solution("1")
	if sol.ProblemIndex != "3" || sol.SubmittedSeconds != 18000 {
		t.Fatalf("unexpected solution %+v", sol)
	}
}

func TestProblemIndex(t *testing.T) {
	for label, want := range map[string]string{"A": "1", "C": "3", "c": "3", "Z1": "26"} {
		got, err := resolver.ProblemIndex(label)
		if err != nil || got != want {
			t.Fatalf("ProblemIndex(%q) = %q, %v; want %q", label, got, err, want)
		}
	}
	for _, bad := range []string{"", "1", "Ж"} {
		if _, err := resolver.ProblemIndex(bad); !errors.Is(err, services.ErrMapping) {
			t.Fatalf("ProblemIndex(%q) expected ErrMapping, got %v", bad, err)
		}
	}
}

func TestEncodeKeepsNonASCII(t *testing.T) {
	snap := testsupport.BuildSnapshot(t, func(files map[string]string) {
		files["contest.json"] = `{"formal_name":"Кубок <A&B>","duration":"5:00:00","scoreboard_freeze_duration":null}`
	})
	out, err := resolver.Encode(snap, resolver.Options{})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.HasPrefix(string(out), `{"contest_name":"Кубок <A&B>","problem_count":3,"frozen_seconds":18000,`) {
		t.Fatalf("unexpected prefix: %s", out)
	}
}
