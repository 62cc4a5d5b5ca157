package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
)

func TestLeaderboardService_Build(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "admin", user.RoleAdmin)
	env.addUser(t, "anna", user.RolePlayer)
	env.addUser(t, "ben", user.RolePlayer)
	env.addUser(t, "carl", user.RolePlayer)

	w := env.openWeek(t, "Week 1")
	m1 := env.addMatch(t, w.ID, nil)
	m2 := env.addMatch(t, w.ID, nil)
	env.bet(t, "admin", m1.ID, 2, 0)
	env.bet(t, "admin", m2.ID, 1, 1)
	env.bet(t, "anna", m1.ID, 1, 0)
	env.bet(t, "ben", m1.ID, 3, 1)
	env.bet(t, "ben", m2.ID, 0, 0)
	env.bet(t, "carl", m1.ID, 0, 2)

	_, _ = env.matches.SetResult(ctx, m1.ID, match.Result{Team1Goals: 2, Team2Goals: 0})
	_, _ = env.matches.SetResult(ctx, m2.ID, match.Result{Team1Goals: 1, Team2Goals: 1})

	board, err := env.leaderboard.Build(ctx)
	if err != nil {
		t.Fatalf("build leaderboard: %v", err)
	}

	for _, entry := range board {
		if entry.UserID == "admin" {
			t.Fatalf("admin must not appear on leaderboard: %+v", board)
		}
	}
	if len(board) != 3 {
		t.Fatalf("expected 3 entries, got %+v", board)
	}
	for i := 1; i < len(board); i++ {
		if board[i].TotalScore > board[i-1].TotalScore {
			t.Fatalf("leaderboard not non-increasing at %d: %+v", i, board)
		}
	}
	if board[0].UserID != "ben" || board[0].TotalScore != 2 || board[0].Rank != 1 {
		t.Fatalf("unexpected leader: %+v", board[0])
	}
	if board[1].UserID != "anna" || board[1].TotalScore != 1 || board[1].Rank != 2 {
		t.Fatalf("unexpected second: %+v", board[1])
	}
	if board[2].UserID != "carl" || board[2].TotalScore != 0 {
		t.Fatalf("unexpected third: %+v", board[2])
	}
}

func TestLeaderboardService_TiesShareRank(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "anna", user.RolePlayer)
	env.addUser(t, "ben", user.RolePlayer)
	w := env.openWeek(t, "Week 1")
	m := env.addMatch(t, w.ID, nil)
	env.bet(t, "anna", m.ID, 1, 0)
	env.bet(t, "ben", m.ID, 1, 0)
	_, _ = env.matches.SetResult(ctx, m.ID, match.Result{Team1Goals: 1})

	board, err := env.leaderboard.Build(ctx)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(board) != 2 || board[0].Rank != 1 || board[1].Rank != 1 {
		t.Fatalf("expected shared rank, got %+v", board)
	}
}
