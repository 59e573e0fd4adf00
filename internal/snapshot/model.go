package snapshot

// Media references a downloadable asset (banner, logo, photo).
type Media struct {
	Href     string `json:"href"`
	Mime     string `json:"mime"`
	Filename string `json:"filename"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Contest is the contest object. ScoreboardFreezeDuration is nil when the
// scoreboard never freezes.
type Contest struct {
	ID                       ID      `json:"id"`
	Name                     string  `json:"name"`
	FormalName               string  `json:"formal_name"`
	Duration                 string  `json:"duration"`
	ScoreboardFreezeDuration *string `json:"scoreboard_freeze_duration"`
	Banner                   []Media `json:"banner"`
}

type Team struct {
	ID             ID      `json:"id"`
	Name           string  `json:"name"`
	Affiliation    string  `json:"affiliation"`
	OrganizationID ID      `json:"organization_id"`
	GroupIDs       []ID    `json:"group_ids"`
	Photo          []Media `json:"photo"`
}

type Group struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Problem struct {
	ID      ID     `json:"id"`
	Label   string `json:"label"`
	Name    string `json:"name"`
	Ordinal Scalar `json:"ordinal"`
}

// Judgement links a submission to its judgement type. A nil type means the
// judgement has not finished.
type Judgement struct {
	ID              ID      `json:"id"`
	SubmissionID    ID      `json:"submission_id"`
	JudgementTypeID *string `json:"judgement_type_id"`
}

// Submission is a team's attempt at a problem. Verdict is filled by Build.
type Submission struct {
	ID          ID     `json:"id"`
	TeamID      ID     `json:"team_id"`
	ProblemID   ID     `json:"problem_id"`
	LanguageID  ID     `json:"language_id"`
	ContestTime string `json:"contest_time"`
	Verdict     string `json:"-"`
}

type Organization struct {
	ID         ID      `json:"id"`
	Name       string  `json:"name"`
	FormalName string  `json:"formal_name"`
	Logo       []Media `json:"logo"`
}

type Score struct {
	NumSolved Scalar `json:"num_solved"`
	TotalTime Scalar `json:"total_time"`
}

type ScoreboardProblem struct {
	Label      string `json:"label"`
	ProblemID  ID     `json:"problem_id"`
	NumJudged  int    `json:"num_judged"`
	NumPending int    `json:"num_pending"`
	Solved     bool   `json:"solved"`
	Time       Scalar `json:"time"`
}

type ScoreboardRow struct {
	Rank     Scalar              `json:"rank"`
	TeamID   ID                  `json:"team_id"`
	Score    Score               `json:"score"`
	Problems []ScoreboardProblem `json:"problems"`
}

type Scoreboard struct {
	Rows []ScoreboardRow `json:"rows"`
}

// PendingVerdict is assigned to submissions without a finished judgement.
const PendingVerdict = "PD"

// ObserverGroup is the group name that marks a team as an observer.
const ObserverGroup = "Observers"
