package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
)

func TestMatchService_CreateRequiresKnownLeagueAndWeek(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	w := env.openWeek(t, "Week 1")

	_, err := env.matches.Create(ctx, w.ID, MatchInput{LeagueID: "nope", Team1: "A", Team2: "B", Date: "1.3", Time: "12:00"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for league, got %v", err)
	}
	_, err = env.matches.Create(ctx, "missing-week", MatchInput{LeagueID: "lg-nations", Team1: "A", Team2: "B", Date: "1.3", Time: "12:00"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for week, got %v", err)
	}
	_, err = env.matches.Create(ctx, w.ID, MatchInput{LeagueID: "lg-nations", Team1: "A", Team2: "B", Date: "1/3", Time: "12:00"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for date, got %v", err)
	}
}

func TestMatchService_SetResultAllowedAfterLock(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "anna", user.RolePlayer)
	w := env.openWeek(t, "Week 1")
	m := env.addMatch(t, w.ID, nil)
	env.bet(t, "anna", m.ID, 2, 2)
	if _, err := env.weeks.Lock(ctx, w.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}

	change, err := env.matches.SetResult(ctx, m.ID, match.Result{Team1Goals: 2, Team2Goals: 2})
	if err != nil {
		t.Fatalf("set result: %v", err)
	}
	if change.Report.WeeklyScoresByUser["anna"] != 3 {
		t.Fatalf("expected anna to score 3, got %+v", change.Report)
	}
}

func TestMatchService_SetOddsRescoresCompletedMatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "anna", user.RolePlayer)
	w := env.openWeek(t, "Week 1")
	m := env.addMatch(t, w.ID, nil)
	env.bet(t, "anna", m.ID, 1, 0)
	if _, err := env.matches.SetResult(ctx, m.ID, match.Result{Team1Goals: 1}); err != nil {
		t.Fatalf("set result: %v", err)
	}

	change, err := env.matches.SetOdds(ctx, m.ID, &match.Odds{HomeWin: odd(2.1)})
	if err != nil {
		t.Fatalf("set odds: %v", err)
	}
	if change.Report.WeeklyScoresByUser["anna"] != 4.2 {
		t.Fatalf("expected odds-weighted 4.2, got %+v", change.Report.WeeklyScoresByUser)
	}

	if _, err := env.matches.SetOdds(ctx, m.ID, &match.Odds{Draw: odd(-1)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative odds, got %v", err)
	}
}

func TestMatchService_ClearResultResetsPoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "anna", user.RolePlayer)
	w := env.openWeek(t, "Week 1")
	m := env.addMatch(t, w.ID, nil)
	b := env.bet(t, "anna", m.ID, 1, 0)
	_, _ = env.matches.SetResult(ctx, m.ID, match.Result{Team1Goals: 1})

	change, err := env.matches.ClearResult(ctx, m.ID)
	if err != nil {
		t.Fatalf("clear result: %v", err)
	}
	if change.Match.Result != nil {
		t.Fatalf("expected result to be cleared")
	}
	stored, _, _ := env.store.Bets().GetByID(ctx, b.ID)
	if stored.Points != 0 {
		t.Fatalf("expected points reset, got %v", stored.Points)
	}
	rows, _ := env.store.Scores().ListByUser(ctx, "anna")
	if len(rows) != 1 || rows[0].WeeklyScore != 0 || rows[0].TotalScore != 0 {
		t.Fatalf("expected zeroed score row, got %+v", rows)
	}
}
