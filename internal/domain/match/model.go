package match

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const MaxResultGoals = 99

// Result is a final score. A match either has one or it does not.
type Result struct {
	Team1Goals int
	Team2Goals int
}

func (r Result) Validate() error {
	if r.Team1Goals < 0 || r.Team2Goals < 0 || r.Team1Goals > MaxResultGoals || r.Team2Goals > MaxResultGoals {
		return fmt.Errorf("result goals must be between 0 and %d", MaxResultGoals)
	}
	return nil
}

// Odds are decimal odds per outcome. Any field may be unknown.
type Odds struct {
	HomeWin *float64
	Draw    *float64
	AwayWin *float64
}

func (o Odds) Validate() error {
	for _, v := range []*float64{o.HomeWin, o.Draw, o.AwayWin} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0) {
			return fmt.Errorf("odds must be positive numbers")
		}
	}
	return nil
}

type Match struct {
	ID       string
	WeekID   string
	LeagueID string
	Team1    string
	Team2    string
	// Date is "day.month", e.g. "14.3".
	Date string
	// Time is "HH:MM" in the configured match time zone.
	Time      string
	Result    *Result
	Odds      *Odds
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Completed reports whether the match has a final score.
func (m Match) Completed() bool {
	return m.Result != nil
}

func (m Match) Validate() error {
	if m.WeekID == "" {
		return fmt.Errorf("match week id is required")
	}
	if m.LeagueID == "" {
		return fmt.Errorf("match league id is required")
	}
	if strings.TrimSpace(m.Team1) == "" || strings.TrimSpace(m.Team2) == "" {
		return fmt.Errorf("match teams are required")
	}
	if _, _, err := ParseDate(m.Date); err != nil {
		return err
	}
	if _, _, err := ParseClock(m.Time); err != nil {
		return err
	}
	if m.Result != nil {
		if err := m.Result.Validate(); err != nil {
			return err
		}
	}
	if m.Odds != nil {
		if err := m.Odds.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ParseDate parses "day.month".
func ParseDate(raw string) (day, month int, err error) {
	d, mo, ok := strings.Cut(strings.TrimSpace(raw), ".")
	if !ok {
		return 0, 0, fmt.Errorf("match date must be day.month")
	}
	day, errD := strconv.Atoi(d)
	month, errM := strconv.Atoi(strings.TrimSuffix(mo, "."))
	if errD != nil || errM != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("match date must be day.month")
	}
	return day, month, nil
}

// ParseClock parses "HH:MM".
func ParseClock(raw string) (hour, minute int, err error) {
	h, mi, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return 0, 0, fmt.Errorf("match time must be HH:MM")
	}
	hour, errH := strconv.Atoi(h)
	minute, errM := strconv.Atoi(mi)
	if errH != nil || errM != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("match time must be HH:MM")
	}
	return hour, minute, nil
}

// KickoffAt resolves Date and Time in loc. The stored date has no year, so
// the year closest to ref is used.
func (m Match) KickoffAt(loc *time.Location, ref time.Time) (time.Time, error) {
	day, month, err := ParseDate(m.Date)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := ParseClock(m.Time)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	ref = ref.In(loc)
	var best time.Time
	for _, year := range []int{ref.Year() - 1, ref.Year(), ref.Year() + 1} {
		candidate := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
		if best.IsZero() || absDuration(candidate.Sub(ref)) < absDuration(best.Sub(ref)) {
			best = candidate
		}
	}
	return best, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
