package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
)

func TestBetService_SubmitTwiceKeepsSecondPrediction(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "anna", user.RolePlayer)
	w := env.openWeek(t, "Week 1")
	m := env.addMatch(t, w.ID, nil)

	first := env.bet(t, "anna", m.ID, 1, 0)
	second := env.bet(t, "anna", m.ID, 2, 2)

	if first.ID != second.ID {
		t.Fatalf("expected resubmission to keep id %s, got %s", first.ID, second.ID)
	}
	bets, err := env.store.Bets().ListByWeek(ctx, w.ID)
	if err != nil {
		t.Fatalf("list bets: %v", err)
	}
	if len(bets) != 1 {
		t.Fatalf("expected one bet, got %d", len(bets))
	}
	if bets[0].Prediction != (bet.Prediction{Team1Goals: 2, Team2Goals: 2}) {
		t.Fatalf("expected second prediction, got %+v", bets[0].Prediction)
	}
}

func TestBetService_SubmitValidatesBeforeLock(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addUser(t, "anna", user.RolePlayer)

	_, err := env.bets.Submit(context.Background(), SubmitBetInput{
		UserID:     "anna",
		MatchID:    "does-not-matter",
		Prediction: bet.Prediction{Team1Goals: 21},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBetService_SubmitRejectedWithReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*testing.T, *testEnv, week.Week)
		want   week.LockReason
	}{
		{
			name: "locked",
			mutate: func(t *testing.T, env *testEnv, w week.Week) {
				if _, err := env.weeks.Lock(context.Background(), w.ID); err != nil {
					t.Fatalf("lock: %v", err)
				}
			},
			want: week.ReasonLocked,
		},
		{
			name: "expired",
			mutate: func(t *testing.T, env *testEnv, w week.Week) {
				past := testNow.Add(-time.Second)
				if _, err := env.weeks.Unlock(context.Background(), w.ID, &past); err != nil {
					t.Fatalf("unlock: %v", err)
				}
			},
			want: week.ReasonExpired,
		},
		{
			name: "inactive",
			mutate: func(t *testing.T, env *testEnv, w week.Week) {
				if _, err := env.weeks.Deactivate(context.Background(), w.ID); err != nil {
					t.Fatalf("deactivate: %v", err)
				}
			},
			want: week.ReasonInactive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			env.addUser(t, "anna", user.RolePlayer)
			w := env.openWeek(t, "Week 1")
			m := env.addMatch(t, w.ID, nil)
			tc.mutate(t, env, w)

			_, err := env.bets.Submit(context.Background(), SubmitBetInput{UserID: "anna", MatchID: m.ID, Prediction: bet.Prediction{Team1Goals: 1}})
			if !errors.Is(err, ErrBettingClosed) {
				t.Fatalf("expected ErrBettingClosed, got %v", err)
			}
			reason, ok := LockReasonOf(err)
			if !ok || reason != tc.want {
				t.Fatalf("expected reason %q, got %q", tc.want, reason)
			}

			_, err = env.bets.Submit(context.Background(), SubmitBetInput{UserID: "anna", MatchID: m.ID, Prediction: bet.Prediction{Team1Goals: 1}, AllowOverride: true})
			if err != nil {
				t.Fatalf("override submit: %v", err)
			}
		})
	}
}

func TestBetService_SubmitUnknownMatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addUser(t, "anna", user.RolePlayer)

	_, err := env.bets.Submit(context.Background(), SubmitBetInput{UserID: "anna", MatchID: "nope", Prediction: bet.Prediction{}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBetService_ListWeekHidesOthersUntilLocked(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "anna", user.RolePlayer)
	env.addUser(t, "ben", user.RolePlayer)
	w := env.openWeek(t, "Week 1")
	m := env.addMatch(t, w.ID, nil)
	env.bet(t, "anna", m.ID, 1, 0)
	env.bet(t, "ben", m.ID, 0, 0)

	view, err := env.bets.ListWeek(ctx, Viewer{UserID: "anna"}, w.ID)
	if err != nil {
		t.Fatalf("list week: %v", err)
	}
	if view.Revealed || len(view.Bets) != 1 || view.Bets[0].Bet.UserID != "anna" {
		t.Fatalf("expected only own bet before lock, got %+v", view)
	}

	admin, err := env.bets.ListWeek(ctx, Viewer{UserID: "root", IsAdmin: true}, w.ID)
	if err != nil {
		t.Fatalf("list week as admin: %v", err)
	}
	if !admin.Revealed || len(admin.Bets) != 2 {
		t.Fatalf("expected admin to see all bets, got %+v", admin)
	}

	if _, err := env.weeks.Lock(ctx, w.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := env.matches.SetResult(ctx, m.ID, match.Result{Team1Goals: 1}); err != nil {
		t.Fatalf("set result: %v", err)
	}

	locked, err := env.bets.ListWeek(ctx, Viewer{UserID: "anna"}, w.ID)
	if err != nil {
		t.Fatalf("list week after lock: %v", err)
	}
	if !locked.Revealed || len(locked.Bets) != 2 {
		t.Fatalf("expected all bets after lock, got %+v", locked)
	}
	for _, v := range locked.Bets {
		if !v.Scored {
			t.Fatalf("expected scored preview for %s", v.Bet.UserID)
		}
		if v.Bet.UserID == "anna" && v.Points != 3 {
			t.Fatalf("anna preview = %v, want 3", v.Points)
		}
	}
}

func TestBetService_DeleteOwnBetOnlyWhileOpen(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "anna", user.RolePlayer)
	env.addUser(t, "ben", user.RolePlayer)
	w := env.openWeek(t, "Week 1")
	m := env.addMatch(t, w.ID, nil)
	b := env.bet(t, "anna", m.ID, 1, 0)

	if err := env.bets.Delete(ctx, Viewer{UserID: "ben"}, b.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if _, err := env.weeks.Lock(ctx, w.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := env.bets.Delete(ctx, Viewer{UserID: "anna"}, b.ID); !errors.Is(err, ErrBettingClosed) {
		t.Fatalf("expected ErrBettingClosed, got %v", err)
	}
	if err := env.bets.Delete(ctx, Viewer{UserID: "root", IsAdmin: true}, b.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestBetService_OverrideAfterResultRescoresWeek(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "anna", user.RolePlayer)
	w := env.openWeek(t, "Week 1")
	m := env.addMatch(t, w.ID, nil)
	env.bet(t, "anna", m.ID, 0, 3)

	if _, err := env.weeks.Lock(ctx, w.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := env.matches.SetResult(ctx, m.ID, match.Result{Team1Goals: 2, Team2Goals: 1}); err != nil {
		t.Fatalf("set result: %v", err)
	}
	if got := weeklyScore(t, env, "anna", w.ID); got != 0 {
		t.Fatalf("weekly score before override = %v, want 0", got)
	}

	corrected, err := env.bets.Submit(ctx, SubmitBetInput{
		UserID:        "anna",
		MatchID:       m.ID,
		Prediction:    bet.Prediction{Team1Goals: 2, Team2Goals: 1},
		AllowOverride: true,
	})
	if err != nil {
		t.Fatalf("override submit: %v", err)
	}
	if corrected.Points != 3 {
		t.Fatalf("bet points after override = %v, want 3", corrected.Points)
	}
	if got := weeklyScore(t, env, "anna", w.ID); got != 3 {
		t.Fatalf("weekly score after override = %v, want 3", got)
	}

	board, err := env.leaderboard.Build(ctx)
	if err != nil {
		t.Fatalf("build leaderboard: %v", err)
	}
	if len(board) != 1 || board[0].UserID != "anna" || board[0].TotalScore != 3 {
		t.Fatalf("unexpected leaderboard: %+v", board)
	}
}

func TestBetService_AdminDeleteAfterResultRescoresWeek(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "anna", user.RolePlayer)
	w := env.openWeek(t, "Week 1")
	m := env.addMatch(t, w.ID, nil)
	b := env.bet(t, "anna", m.ID, 2, 1)

	if _, err := env.weeks.Lock(ctx, w.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := env.matches.SetResult(ctx, m.ID, match.Result{Team1Goals: 2, Team2Goals: 1}); err != nil {
		t.Fatalf("set result: %v", err)
	}
	if got := weeklyScore(t, env, "anna", w.ID); got != 3 {
		t.Fatalf("weekly score before delete = %v, want 3", got)
	}

	if err := env.bets.Delete(ctx, Viewer{UserID: "root", IsAdmin: true}, b.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if got := weeklyScore(t, env, "anna", w.ID); got != 0 {
		t.Fatalf("weekly score after delete = %v, want 0", got)
	}
	rows, err := env.store.Scores().ListByUser(ctx, "anna")
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	for _, row := range rows {
		if row.TotalScore != 0 {
			t.Fatalf("total after delete = %v, want 0", row.TotalScore)
		}
	}
}

func weeklyScore(t *testing.T, env *testEnv, userID, weekID string) float64 {
	t.Helper()
	rows, err := env.store.Scores().ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	for _, row := range rows {
		if row.WeekID == weekID {
			return row.WeeklyScore
		}
	}
	t.Fatalf("no score row for %s in %s", userID, weekID)
	return 0
}
