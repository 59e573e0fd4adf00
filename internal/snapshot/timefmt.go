package snapshot

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"contestdump/internal/services"
)

// ContestTime is a parsed `[-]H:MM:SS[.fff]` relative time.
type ContestTime struct {
	Negative bool
	Hours    int
	Minutes  int
	Seconds  float64
}

// ParseContestTime parses a relative contest time. Surrounding whitespace is
// ignored; anything else malformed is an ErrMapping.
func ParseContestTime(value string) (ContestTime, error) {
	text := strings.TrimSpace(value)
	var out ContestTime
	if rest, ok := strings.CutPrefix(text, "-"); ok {
		out.Negative = true
		text = rest
	}
	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return ContestTime{}, malformedTime(value, nil)
	}
	var err error
	if out.Hours, err = strconv.Atoi(parts[0]); err != nil || out.Hours < 0 {
		return ContestTime{}, malformedTime(value, err)
	}
	if out.Minutes, err = strconv.Atoi(parts[1]); err != nil || out.Minutes < 0 {
		return ContestTime{}, malformedTime(value, err)
	}
	if out.Seconds, err = strconv.ParseFloat(parts[2], 64); err != nil || out.Seconds < 0 || math.IsInf(out.Seconds, 0) || math.IsNaN(out.Seconds) {
		return ContestTime{}, malformedTime(value, err)
	}
	return out, nil
}

func malformedTime(value string, err error) error {
	return services.Wrap(services.ErrMapping, "snapshot", "parse time", fmt.Sprintf("malformed contest time %q", value), err)
}

func (t ContestTime) sign() int {
	if t.Negative {
		return -1
	}
	return 1
}

// Elapsed returns the full-precision seconds of t.
func (t ContestTime) Elapsed() float64 {
	return float64(t.sign()) * (float64(t.Hours*3600+t.Minutes*60) + t.Seconds)
}

// WholeSeconds returns h*3600 + m*60 + floor(s).
func (t ContestTime) WholeSeconds() int {
	return t.sign() * (t.Hours*3600 + t.Minutes*60 + int(math.Floor(t.Seconds)))
}

// Timestamp returns h*3600 + m*60, adding floor(s) when withSeconds is set.
func (t ContestTime) Timestamp(withSeconds bool) int {
	if withSeconds {
		return t.WholeSeconds()
	}
	return t.sign() * (t.Hours*3600 + t.Minutes*60)
}

// Seconds parses value and floors the fractional seconds.
func Seconds(value string) (int, error) {
	t, err := ParseContestTime(value)
	if err != nil {
		return 0, err
	}
	return t.WholeSeconds(), nil
}

// SubmissionTimestamp parses value and applies the score_in_seconds rule.
func SubmissionTimestamp(value string, withSeconds bool) (int, error) {
	t, err := ParseContestTime(value)
	if err != nil {
		return 0, err
	}
	return t.Timestamp(withSeconds), nil
}
