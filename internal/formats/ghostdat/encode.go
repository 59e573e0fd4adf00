package ghostdat

import (
	"fmt"

	"contestdump/internal/services"
	"contestdump/internal/snapshot"
)

// FileName is the output file name.
const FileName = "contest.dat"

// verdicts maps DOMjudge judgement types to Ghost-DAT results.
var verdicts = map[string]string{
	"CE":  "CE",
	"MLE": "ML",
	"OLE": "IL",
	"RTE": "RT",
	"TLE": "TL",
	"WA":  "WA",
	"PE":  "CE",
	"NO":  "WA",
	"AC":  "OK",
	"PD":  "PD",
}

// Options tweaks the rendering.
type Options struct {
	// ScoreInSeconds keeps the seconds part of submission timestamps.
	ScoreInSeconds bool
	// AddDummyTeams appends one placeholder team per real team.
	AddDummyTeams bool
}

// MapVerdict returns the Ghost-DAT code for a judgement type.
func MapVerdict(verdict string) (string, bool) {
	v, ok := verdicts[verdict]
	return v, ok
}

// Build assembles the Ghost-DAT document for snap.
func Build(snap *snapshot.Snapshot, opts Options) (*Document, error) {
	durationSeconds, err := snap.DurationSeconds()
	if err != nil {
		return nil, err
	}

	teamCount := snap.TeamsByID.Len()
	if opts.AddDummyTeams {
		teamCount *= 2
	}

	doc := &Document{}
	doc.add(ContestLine{Name: snap.Contest.FormalName})
	doc.add(ContestLengthLine{Minutes: durationSeconds / 60})
	doc.add(CountLine{Tag: "problems", Count: snap.ProblemsByID.Len()})
	doc.add(CountLine{Tag: "teams", Count: teamCount})
	doc.add(CountLine{Tag: "submissions", Count: len(snap.Submissions)})

	for _, problem := range snap.ProblemsByID.All() {
		doc.add(ProblemLine{Label: problem.Label, Name: problem.Name})
	}

	seq := 1
	teamSeq := make(map[snapshot.ID]int, snap.TeamsByID.Len())
	for id, team := range snap.TeamsByID.All() {
		teamSeq[id] = seq
		doc.add(TeamLine{Seq: seq, Affiliation: team.Affiliation, Name: team.Name, Observer: snap.IsObserver(team)})
		seq++
	}
	if opts.AddDummyTeams {
		for range snap.TeamsByID.Len() {
			doc.add(DummyTeamLine{Seq: seq})
			seq++
		}
	}

	attempts := make(map[int]int)
	for _, sub := range snap.Submissions {
		tseq, ok := teamSeq[sub.TeamID]
		if !ok {
			return nil, mappingError(sub, fmt.Sprintf("unknown team %q", sub.TeamID))
		}
		problem, ok := snap.ProblemsByID.Get(sub.ProblemID)
		if !ok {
			return nil, mappingError(sub, fmt.Sprintf("unknown problem %q", sub.ProblemID))
		}
		verdict, ok := MapVerdict(sub.Verdict)
		if !ok {
			return nil, mappingError(sub, fmt.Sprintf("unmapped verdict %q", sub.Verdict))
		}
		timestamp, err := snapshot.SubmissionTimestamp(sub.ContestTime, opts.ScoreInSeconds)
		if err != nil {
			return nil, err
		}
		attempts[tseq]++
		doc.add(SubmissionLine{
			TeamSeq:   tseq,
			Label:     problem.Label,
			Attempt:   attempts[tseq],
			Timestamp: timestamp,
			Verdict:   verdict,
		})
	}
	return doc, nil
}

// Encode renders snap as Ghost-DAT bytes.
func Encode(snap *snapshot.Snapshot, opts Options) ([]byte, error) {
	doc, err := Build(snap, opts)
	if err != nil {
		return nil, err
	}
	return doc.Bytes(), nil
}

func mappingError(sub snapshot.Submission, detail string) error {
	return services.Wrap(services.ErrMapping, "ghostdat", "submission "+sub.ID.String(), detail, nil)
}
