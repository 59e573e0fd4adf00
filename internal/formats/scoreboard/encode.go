package scoreboard

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"

	"contestdump/internal/services"
	"contestdump/internal/snapshot"
	"contestdump/internal/textutil"
)

// SheetName is the name of the only worksheet.
const SheetName = "scoreboard"

const fontFamily = "Arial Unicode MS"

// FileName returns the workbook name derived from the contest formal name.
func FileName(snap *snapshot.Snapshot) string {
	return textutil.DashedFileName(snap.Contest.FormalName, SheetName) + ".xlsx"
}

// Rows returns the header row followed by one row per scoreboard entry.
func Rows(snap *snapshot.Snapshot) ([][]any, error) {
	header := []any{"Rank", "Affiliation", "Name", "Solved", "Penalty"}
	for _, problem := range snap.ProblemsByID.All() {
		header = append(header, problem.Label)
	}
	rows := [][]any{header}
	for _, entry := range snap.Scoreboard.Rows {
		team, ok := snap.TeamsByID.Get(entry.TeamID)
		if !ok {
			return nil, services.Wrap(services.ErrMapping, "scoreboard", "row", fmt.Sprintf("unknown team %q", entry.TeamID), nil)
		}
		row := []any{entry.Rank.Value(), team.Affiliation, team.Name, entry.Score.NumSolved.Value(), entry.Score.TotalTime.Value()}
		for _, p := range entry.Problems {
			row = append(row, ProblemCell(p))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ProblemCell renders one problem result: "-" when never judged,
// "+n(time)" when solved, "-n" otherwise.
func ProblemCell(p snapshot.ScoreboardProblem) string {
	switch {
	case p.NumJudged == 0:
		return "-"
	case p.Solved:
		return fmt.Sprintf("+%d(%s)", p.NumJudged, p.Time.String())
	default:
		return fmt.Sprintf("-%d", p.NumJudged)
	}
}

// MeasureWidth returns the GB18030 byte length of the text form of v.
func MeasureWidth(v any) int {
	text := fmt.Sprint(v)
	if v == nil {
		text = ""
	}
	encoded, err := simplifiedchinese.GB18030.NewEncoder().String(text)
	if err != nil {
		return len(text)
	}
	return len(encoded)
}

// Encode builds the workbook. The caller saves and closes it.
func Encode(snap *snapshot.Snapshot) (*excelize.File, error) {
	rows, err := Rows(snap)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, snap.Contest.FormalName, rows); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func writeSheet(f *excelize.File, title string, rows [][]any) error {
	titleStyle, err := f.NewStyle(cellStyle(21, false))
	if err != nil {
		return fmt.Errorf("title style: %w", err)
	}
	contentStyle, err := f.NewStyle(cellStyle(11, true))
	if err != nil {
		return fmt.Errorf("content style: %w", err)
	}

	columns := len(rows[0])
	lastTitleCell, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := f.MergeCell(SheetName, "A1", lastTitleCell); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	if err := f.SetCellValue(SheetName, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastTitleCell, titleStyle); err != nil {
		return err
	}

	widths := make([]int, columns)
	for r, row := range rows {
		for c, value := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			widths[c] = max(widths[c], MeasureWidth(value))

			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
			if err := f.SetCellStyle(SheetName, cell, cell, contentStyle); err != nil {
				return err
			}
		}
	}

	for c, width := range widths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, float64(width+4)); err != nil {
			return fmt.Errorf("column %s width: %w", name, err)
		}
	}
	return nil
}

func cellStyle(size float64, wrap bool) *excelize.Style {
	border := func(side string) excelize.Border {
		return excelize.Border{Type: side, Color: "000000", Style: 1}
	}
	return &excelize.Style{
		Font: &excelize.Font{Bold: true, Family: fontFamily, Size: size},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   wrap,
		},
		Border: []excelize.Border{border("left"), border("right"), border("top"), border("bottom")},
	}
}
