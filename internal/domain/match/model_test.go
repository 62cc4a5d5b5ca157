package match

import (
	"testing"
	"time"
)

func TestKickoffAtPicksNearestYear(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CET", 3600)
	tests := []struct {
		name string
		ref  time.Time
		m    Match
		want time.Time
	}{
		{
			name: "same year",
			ref:  time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			m:    Match{Date: "14.3", Time: "20:45"},
			want: time.Date(2026, 3, 14, 20, 45, 0, 0, loc),
		},
		{
			name: "january fixture from late december",
			ref:  time.Date(2026, 12, 28, 12, 0, 0, 0, time.UTC),
			m:    Match{Date: "2.1", Time: "15:00"},
			want: time.Date(2027, 1, 2, 15, 0, 0, 0, loc),
		},
		{
			name: "december fixture from early january",
			ref:  time.Date(2027, 1, 3, 12, 0, 0, 0, time.UTC),
			m:    Match{Date: "30.12", Time: "18:30"},
			want: time.Date(2026, 12, 30, 18, 30, 0, 0, loc),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.m.KickoffAt(loc, tc.ref)
			if err != nil {
				t.Fatalf("KickoffAt: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("KickoffAt() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestMatchValidate(t *testing.T) {
	t.Parallel()

	base := Match{WeekID: "w1", LeagueID: "l1", Team1: "Rapid", Team2: "Austria", Date: "14.3", Time: "20:45"}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, mutate := range map[string]func(*Match){
		"bad date":      func(m *Match) { m.Date = "2026-03-14" },
		"bad time":      func(m *Match) { m.Time = "25:00" },
		"missing team":  func(m *Match) { m.Team2 = " " },
		"negative goal": func(m *Match) { m.Result = &Result{Team1Goals: -1} },
		"zero odds":     func(m *Match) { zero := 0.0; m.Odds = &Odds{Draw: &zero} },
	} {
		m := base
		mutate(&m)
		if err := m.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
