package snapshot

import (
	"encoding/json"
	"fmt"

	"contestdump/internal/services"
)

// Payloads carries the raw API bodies a Snapshot is built from.
type Payloads struct {
	Contest       []byte
	Scoreboard    []byte
	Groups        []byte
	Judgements    []byte
	Organizations []byte
	Problems      []byte
	Teams         []byte
	Submissions   []byte
}

// Snapshot is the decoded, indexed contest. Do not mutate it after Build.
type Snapshot struct {
	Contest       Contest
	Scoreboard    Scoreboard
	Groups        []Group
	Judgements    []Judgement
	Organizations []Organization
	Problems      []Problem
	Teams         []Team
	Submissions   []Submission

	ProblemsByID *Index[Problem]
	GroupsByID   *Index[Group]
	TeamsByID    *Index[Team]
}

// Counts summarizes collection sizes.
type Counts struct {
	Problems      int
	Teams         int
	Groups        int
	Organizations int
	Submissions   int
	Judgements    int
	Pending       int
}

// Build decodes payloads, builds the id indexes and joins verdicts onto
// submissions. Absent payloads decode as empty collections.
func Build(p Payloads) (*Snapshot, error) {
	s := &Snapshot{}
	fields := []struct {
		name string
		data []byte
		dst  any
	}{
		{"contest.json", p.Contest, &s.Contest},
		{"scoreboard.json", p.Scoreboard, &s.Scoreboard},
		{"groups.json", p.Groups, &s.Groups},
		{"judgements.json", p.Judgements, &s.Judgements},
		{"organizations.json", p.Organizations, &s.Organizations},
		{"problems.json", p.Problems, &s.Problems},
		{"teams.json", p.Teams, &s.Teams},
		{"submissions.json", p.Submissions, &s.Submissions},
	}
	for _, f := range fields {
		if len(f.data) == 0 {
			continue
		}
		if err := json.Unmarshal(f.data, f.dst); err != nil {
			return nil, services.Wrap(services.ErrMapping, "snapshot", "decode "+f.name, "", err)
		}
	}

	var err error
	if s.ProblemsByID, err = newIndex("problems", s.Problems, func(v Problem) ID { return v.ID }); err != nil {
		return nil, err
	}
	if s.GroupsByID, err = newIndex("groups", s.Groups, func(v Group) ID { return v.ID }); err != nil {
		return nil, err
	}
	if s.TeamsByID, err = newIndex("teams", s.Teams, func(v Team) ID { return v.ID }); err != nil {
		return nil, err
	}
	if err := s.joinVerdicts(); err != nil {
		return nil, err
	}
	return s, nil
}

// joinVerdicts sets Submission.Verdict from the last judgement seen for
// each submission.
func (s *Snapshot) joinVerdicts() error {
	verdicts := make(map[ID]string, len(s.Judgements))
	for _, j := range s.Judgements {
		verdict := PendingVerdict
		if j.JudgementTypeID != nil && *j.JudgementTypeID != "" {
			verdict = *j.JudgementTypeID
		}
		verdicts[j.SubmissionID] = verdict
	}
	seen := make(map[ID]struct{}, len(s.Submissions))
	for i := range s.Submissions {
		sub := &s.Submissions[i]
		if _, dup := seen[sub.ID]; dup {
			return services.Wrap(services.ErrMapping, "snapshot", "index submissions", fmt.Sprintf("duplicate id %q", sub.ID), nil)
		}
		seen[sub.ID] = struct{}{}
		if v, ok := verdicts[sub.ID]; ok {
			sub.Verdict = v
		} else {
			sub.Verdict = PendingVerdict
		}
	}
	return nil
}

// IsObserver reports whether team belongs to a group named Observers.
// Group ids missing from the snapshot are ignored.
func (s *Snapshot) IsObserver(team Team) bool {
	for _, gid := range team.GroupIDs {
		if g, ok := s.GroupsByID.Get(gid); ok && g.Name == ObserverGroup {
			return true
		}
	}
	return false
}

// DurationSeconds returns the contest length in whole seconds.
func (s *Snapshot) DurationSeconds() (int, error) {
	return Seconds(s.Contest.Duration)
}

// FrozenSeconds returns the contest time at which the scoreboard freezes.
// Without a freeze it equals the contest length.
func (s *Snapshot) FrozenSeconds() (int, error) {
	duration, err := s.DurationSeconds()
	if err != nil {
		return 0, err
	}
	if s.Contest.ScoreboardFreezeDuration == nil {
		return duration, nil
	}
	freeze, err := Seconds(*s.Contest.ScoreboardFreezeDuration)
	if err != nil {
		return 0, err
	}
	return duration - freeze, nil
}

// Counts summarizes the snapshot.
func (s *Snapshot) Counts() Counts {
	c := Counts{
		Problems:      len(s.Problems),
		Teams:         len(s.Teams),
		Groups:        len(s.Groups),
		Organizations: len(s.Organizations),
		Submissions:   len(s.Submissions),
		Judgements:    len(s.Judgements),
	}
	for _, sub := range s.Submissions {
		if sub.Verdict == PendingVerdict {
			c.Pending++
		}
	}
	return c
}

// MediaRefs returns every banner, logo and photo reference in snapshot order.
func (s *Snapshot) MediaRefs() []Media {
	var refs []Media
	refs = append(refs, s.Contest.Banner...)
	for _, o := range s.Organizations {
		refs = append(refs, o.Logo...)
	}
	for _, t := range s.Teams {
		refs = append(refs, t.Photo...)
	}
	return refs
}
