package resolver

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"contestdump/internal/services"
	"contestdump/internal/snapshot"
)

// FileName is the output file name.
const FileName = "resolver.json"

// User is one entry of the users object.
type User struct {
	Name      string `json:"name"`
	College   string `json:"college"`
	IsExclude bool   `json:"is_exclude"`
}

// Solution is one entry of the solutions object.
type Solution struct {
	SubmittedSeconds int    `json:"submitted_seconds"`
	UserID           string `json:"user_id"`
	ProblemIndex     string `json:"problem_index"`
	Verdict          string `json:"verdict"`
}

// Document is the resolver payload.
type Document struct {
	ContestName   string                  `json:"contest_name"`
	ProblemCount  int                     `json:"problem_count"`
	FrozenSeconds int                     `json:"frozen_seconds"`
	Solutions     orderedObject[Solution] `json:"solutions"`
	Users         orderedObject[User]     `json:"users"`
}

// Options tweaks the rendering.
type Options struct {
	ScoreInSeconds bool
}

// Solution returns the solution stored under key ("1", "2", ...).
func (d *Document) Solution(key string) (Solution, bool) {
	for _, m := range d.Solutions {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Solution{}, false
}

// SolutionCount returns the number of solutions.
func (d *Document) SolutionCount() int { return len(d.Solutions) }

// User returns the user stored under a team id.
func (d *Document) User(id string) (User, bool) {
	for _, m := range d.Users {
		if m.Key == id {
			return m.Value, true
		}
	}
	return User{}, false
}

// Build assembles the resolver document. Compile errors are dropped, every
// other non-accepted verdict becomes WA, submissions after the end of the
// contest and submissions of unknown teams are dropped.
func Build(snap *snapshot.Snapshot, opts Options) (*Document, error) {
	duration, err := snap.DurationSeconds()
	if err != nil {
		return nil, err
	}
	frozen, err := snap.FrozenSeconds()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ContestName:   snap.Contest.FormalName,
		ProblemCount:  snap.ProblemsByID.Len(),
		FrozenSeconds: frozen,
		Solutions:     orderedObject[Solution]{},
		Users:         make(orderedObject[User], 0, snap.TeamsByID.Len()),
	}
	for id, team := range snap.TeamsByID.All() {
		doc.Users = append(doc.Users, member[User]{
			Key:   id.String(),
			Value: User{Name: team.Name, College: team.Affiliation, IsExclude: snap.IsObserver(team)},
		})
	}

	for _, sub := range snap.Submissions {
		verdict := sub.Verdict
		if verdict == "CE" {
			continue
		}
		if verdict != "AC" {
			verdict = "WA"
		}

		at, err := snapshot.ParseContestTime(sub.ContestTime)
		if err != nil {
			return nil, err
		}
		if at.Elapsed() > float64(duration) {
			continue
		}
		if _, ok := snap.TeamsByID.Get(sub.TeamID); !ok {
			continue
		}
		problem, ok := snap.ProblemsByID.Get(sub.ProblemID)
		if !ok {
			return nil, services.Wrap(services.ErrMapping, "resolver", "submission "+sub.ID.String(), fmt.Sprintf("unknown problem %q", sub.ProblemID), nil)
		}
		index, err := ProblemIndex(problem.Label)
		if err != nil {
			return nil, err
		}

		doc.Solutions = append(doc.Solutions, member[Solution]{
			Key: strconv.Itoa(len(doc.Solutions) + 1),
			Value: Solution{
				SubmittedSeconds: at.Timestamp(opts.ScoreInSeconds),
				UserID:           sub.TeamID.String(),
				ProblemIndex:     index,
				Verdict:          verdict,
			},
		})
	}
	return doc, nil
}

// ProblemIndex converts the leading letter of a label to its 1-based
// position in the alphabet ("A" is "1", "C" is "3").
func ProblemIndex(label string) (string, error) {
	r, _ := utf8.DecodeRuneInString(label)
	if upper := unicode.ToUpper(r); upper >= 'A' && upper <= 'Z' {
		return strconv.Itoa(int(upper-'A') + 1), nil
	}
	return "", services.Wrap(services.ErrMapping, "resolver", "problem index", fmt.Sprintf("label %q does not start with a letter", label), nil)
}

// Encode renders snap as compact resolver JSON.
func Encode(snap *snapshot.Snapshot, opts Options) ([]byte, error) {
	doc, err := Build(snap, opts)
	if err != nil {
		return nil, err
	}
	return marshal(doc)
}
