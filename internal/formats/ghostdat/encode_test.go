package ghostdat_test

import (
	"errors"
	"strings"
	"testing"

	"contestdump/internal/formats/ghostdat"
	"contestdump/internal/services"
	"contestdump/internal/testsupport"
)

func TestEncodeFixture(t *testing.T) {
	snap := testsupport.BuildSnapshot(t)

	out, err := ghostdat.Encode(snap, ghostdat.Options{})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	want := strings.Join([]string{
		`@contest "Demo Contest 2024"`,
		`@contlen 300`,
		`@problems 3`,
		`@teams 2`,
		`@submissions 6`,
		`@p A,Apples,20,0`,
		`@p B,Bananas,20,0`,
		`@p C,Cherries,20,0`,
		`@t 1,0,1,MIT Alpha`,
		`@t 2,0,1,Caltech *Beta`,
		`@s 1,A,1,600,OK`,
		`@s 1,B,2,1200,TL`,
		`@s 2,C,1,3600,CE`,
		`@s 2,A,2,9000,PD`,
		`@s 1,C,3,18000,OK`,
		`@s 1,B,4,2400,PD`,
	}, "\n") + "\n"
	if string(out) != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestEncodeLineCounts(t *testing.T) {
	snap := testsupport.BuildSnapshot(t)
	doc, err := ghostdat.Build(snap, ghostdat.Options{AddDummyTeams: true})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	counts := map[string]int{}
	var dummies []string
	for _, line := range doc.Lines {
		text := line.String()
		counts[strings.SplitN(text, " ", 2)[0]]++
		if strings.HasSuffix(text, ghostdat.DummyTeamName) {
			dummies = append(dummies, text)
		}
	}
	if counts["@p"] != 3 || counts["@t"] != 4 || counts["@s"] != 6 {
		t.Fatalf("unexpected line counts %v", counts)
	}
	if len(dummies) != 2 || dummies[0] != "@t 3,0,1,Пополнить команду" || dummies[1] != "@t 4,0,1,Пополнить команду" {
		t.Fatalf("unexpected dummy lines %v", dummies)
	}
	if got := doc.Lines[3].String(); got != "@teams 4" {
		t.Fatalf("expected doubled team count, got %q", got)
	}
}

func TestEncodeScoreInSeconds(t *testing.T) {
	snap := testsupport.BuildSnapshot(t)
	out, err := ghostdat.Encode(snap, ghostdat.Options{ScoreInSeconds: true})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(string(out), "@s 1,A,1,630,OK\n") {
		t.Fatalf("expected second precision timestamp, got:\n%s", out)
	}
}

func TestEncodeMappingErrors(t *testing.T) {
	tests := []struct {
		name string
		edit func(map[string]string)
	}{
		{
			name: "unmapped verdict",
			edit: func(files map[string]string) {
				files["judgements.json"] = `[{"id":"j1","submission_id":"1","judgement_type_id":"JE"}]`
			},
		},
		{
			name: "unknown team",
			edit: func(files map[string]string) {
				files["submissions.json"] = `[{"id":"1","team_id":"ghost","problem_id":"p1","contest_time":"0:01:00"}]`
			},
		},
		{
			name: "unknown problem",
			edit: func(files map[string]string) {
				files["submissions.json"] = `[{"id":"1","team_id":"t1","problem_id":"zz","contest_time":"0:01:00"}]`
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testsupport.BuildSnapshot(t, tt.edit)
			if _, err := ghostdat.Encode(snap, ghostdat.Options{}); !errors.Is(err, services.ErrMapping) {
				t.Fatalf("expected ErrMapping, got %v", err)
			}
		})
	}
}

func TestMapVerdict(t *testing.T) {
	for in, want := range map[string]string{"AC": "OK", "PE": "CE", "NO": "WA", "OLE": "IL", "PD": "PD"} {
		if got, ok := ghostdat.MapVerdict(in); !ok || got != want {
			t.Fatalf("MapVerdict(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
}
