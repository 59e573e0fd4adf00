package ghostdat

import (
	"fmt"
	"strings"
)

// DummyTeamName is the display name of placeholder teams.
const DummyTeamName = "Пополнить команду"

// Line is one record of a Ghost-DAT file.
type Line interface {
	String() string
}

type ContestLine struct{ Name string }

func (l ContestLine) String() string { return `@contest "` + l.Name + `"` }

type ContestLengthLine struct{ Minutes int }

func (l ContestLengthLine) String() string { return fmt.Sprintf("@contlen %d", l.Minutes) }

// CountLine is a header counter such as "@problems 3".
type CountLine struct {
	Tag   string
	Count int
}

func (l CountLine) String() string { return fmt.Sprintf("@%s %d", l.Tag, l.Count) }

type ProblemLine struct {
	Label string
	Name  string
}

func (l ProblemLine) String() string { return fmt.Sprintf("@p %s,%s,20,0", l.Label, l.Name) }

// TeamLine marks observers with a star in front of the team name.
type TeamLine struct {
	Seq         int
	Affiliation string
	Name        string
	Observer    bool
}

func (l TeamLine) String() string {
	star := ""
	if l.Observer {
		star = "*"
	}
	return fmt.Sprintf("@t %d,0,1,%s %s%s", l.Seq, l.Affiliation, star, l.Name)
}

type DummyTeamLine struct{ Seq int }

func (l DummyTeamLine) String() string { return fmt.Sprintf("@t %d,0,1,%s", l.Seq, DummyTeamName) }

type SubmissionLine struct {
	TeamSeq   int
	Label     string
	Attempt   int
	Timestamp int
	Verdict   string
}

func (l SubmissionLine) String() string {
	return fmt.Sprintf("@s %d,%s,%d,%d,%s", l.TeamSeq, l.Label, l.Attempt, l.Timestamp, l.Verdict)
}

// Document is an ordered list of lines.
type Document struct {
	Lines []Line
}

func (d *Document) add(line Line) {
	d.Lines = append(d.Lines, line)
}

// Bytes serializes the document with one record per line.
func (d *Document) Bytes() []byte {
	var b strings.Builder
	for _, line := range d.Lines {
		b.WriteString(line.String())
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
