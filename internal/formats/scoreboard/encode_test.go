package scoreboard_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"contestdump/internal/formats/scoreboard"
	"contestdump/internal/services"
	"contestdump/internal/snapshot"
	"contestdump/internal/testsupport"
)

func TestRows(t *testing.T) {
	snap := testsupport.BuildSnapshot(t)
	rows, err := scoreboard.Rows(snap)
	if err != nil {
		t.Fatalf("Rows returned error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if want := []any{"Rank", "Affiliation", "Name", "Solved", "Penalty", "A", "B", "C"}; !reflect.DeepEqual(rows[0], want) {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if want := []any{int64(1), "MIT", "Alpha", int64(1), int64(11), "+1(11)", "-2", "-"}; !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("unexpected first row %#v", rows[1])
	}
	if want := []any{"2", "Caltech", "Beta", int64(0), "0", "-", "-", "-1"}; !reflect.DeepEqual(rows[2], want) {
		t.Fatalf("unexpected second row %#v", rows[2])
	}
}

func TestEncodeWritesWorkbook(t *testing.T) {
	snap := testsupport.BuildSnapshot(t)
	f, err := scoreboard.Encode(snap)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	path := filepath.Join(t.TempDir(), scoreboard.FileName(snap))
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = f.Close()
	if filepath.Base(path) != "Demo-Contest-2024.xlsx" {
		t.Fatalf("unexpected file name %s", filepath.Base(path))
	}

	book, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer book.Close()

	if got := book.GetSheetName(0); got != scoreboard.SheetName {
		t.Fatalf("expected sheet %q, got %q", scoreboard.SheetName, got)
	}
	title, err := book.GetCellValue(scoreboard.SheetName, "A1")
	if err != nil || title != "Demo Contest 2024" {
		t.Fatalf("title cell = %q, %v", title, err)
	}
	merged, err := book.GetMergeCells(scoreboard.SheetName)
	if err != nil || len(merged) != 1 || merged[0].GetEndAxis() != "H1" {
		t.Fatalf("unexpected merged cells %v, %v", merged, err)
	}
	if got, _ := book.GetCellValue(scoreboard.SheetName, "F3"); got != "+1(11)" {
		t.Fatalf("F3 = %q", got)
	}
	width, err := book.GetColWidth(scoreboard.SheetName, "B")
	if err != nil || width != float64(len("Affiliation")+4) {
		t.Fatalf("column B width = %v, %v", width, err)
	}
}

func TestMeasureWidthUsesGB18030(t *testing.T) {
	if got := scoreboard.MeasureWidth("清华大学"); got != 8 {
		t.Fatalf("expected 2 bytes per CJK character, got %d", got)
	}
	if got := scoreboard.MeasureWidth(int64(12)); got != 2 {
		t.Fatalf("expected numeric width 2, got %d", got)
	}
}

func TestProblemCell(t *testing.T) {
	tests := []struct {
		in   snapshot.ScoreboardProblem
		want string
	}{
		{in: snapshot.ScoreboardProblem{NumJudged: 0, NumPending: 2}, want: "-"},
		{in: snapshot.ScoreboardProblem{NumJudged: 3, Solved: true, Time: snapshot.NewScalar(187)}, want: "+3(187)"},
		{in: snapshot.ScoreboardProblem{NumJudged: 4}, want: "-4"},
	}
	for _, tt := range tests {
		if got := scoreboard.ProblemCell(tt.in); got != tt.want {
			t.Fatalf("ProblemCell(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRowsRejectUnknownTeam(t *testing.T) {
	snap := testsupport.BuildSnapshot(t, func(files map[string]string) {
		files["scoreboard.json"] = `{"rows":[{"rank":1,"team_id":"ghost","score":{"num_solved":0,"total_time":0},"problems":[]}]}`
	})
	if _, err := scoreboard.Rows(snap); !errors.Is(err, services.ErrMapping) {
		t.Fatalf("expected ErrMapping, got %v", err)
	}
}
