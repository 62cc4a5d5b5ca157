package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
)

func TestBetUpsertKeepsOneRowPerUserAndMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewStore().Bets()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Upsert(ctx, bet.Bet{
				ID:         fmt.Sprintf("b%d", i),
				UserID:     "u1",
				MatchID:    "m1",
				WeekID:     "w1",
				Prediction: bet.Prediction{Team1Goals: i % 5, Team2Goals: 1},
			})
			if err != nil {
				t.Errorf("upsert: %v", err)
			}
		}()
	}
	wg.Wait()

	bets, err := repo.ListByWeek(ctx, "w1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bets) != 1 {
		t.Fatalf("expected one bet, got %d", len(bets))
	}
}

func TestWeekDeleteCascades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()
	weeks, matches, bets, scores := store.Weeks(), store.Matches(), store.Bets(), store.Scores()

	_ = weeks.Create(ctx, week.Week{ID: "w1", Name: "Week 1", Month: 3, Season: "2026"})
	_ = weeks.Create(ctx, week.Week{ID: "w2", Name: "Week 2", Month: 3, Season: "2026"})
	_ = matches.Create(ctx, match.Match{ID: "m1", WeekID: "w1"})
	_ = matches.Create(ctx, match.Match{ID: "m2", WeekID: "w2"})
	_, _ = bets.Upsert(ctx, bet.Bet{ID: "b1", UserID: "u1", MatchID: "m1", WeekID: "w1"})
	_, _ = bets.Upsert(ctx, bet.Bet{ID: "b2", UserID: "u1", MatchID: "m2", WeekID: "w2"})
	_ = scores.UpsertWeekly(ctx, "s1", "u1", "w1", 3)
	_ = scores.UpsertWeekly(ctx, "s2", "u1", "w2", 1)

	if err := weeks.Delete(ctx, "w1"); err != nil {
		t.Fatalf("delete week: %v", err)
	}

	if _, ok, _ := weeks.GetByID(ctx, "w1"); ok {
		t.Fatalf("week w1 should be gone")
	}
	if _, ok, _ := matches.GetByID(ctx, "m1"); ok {
		t.Fatalf("match m1 should be gone")
	}
	if _, ok, _ := bets.GetByID(ctx, "b1"); ok {
		t.Fatalf("bet b1 should be gone")
	}
	rows, _ := scores.ListAll(ctx)
	if len(rows) != 1 || rows[0].WeekID != "w2" {
		t.Fatalf("expected only w2 score to remain, got %+v", rows)
	}
}

func TestWeekReadsAreCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewStore().Weeks()
	lock := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	_ = repo.Create(ctx, week.Week{ID: "w1", LockTime: &lock})

	got, _, _ := repo.GetByID(ctx, "w1")
	*got.LockTime = got.LockTime.Add(time.Hour)

	again, _, _ := repo.GetByID(ctx, "w1")
	if !again.LockTime.Equal(lock) {
		t.Fatalf("stored lock time mutated through read copy: %s", again.LockTime)
	}
}

func TestRefreshTotalSeesConcurrentWeeklyUpserts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewStore().Scores()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			weekID := fmt.Sprintf("w%d", i)
			if err := repo.UpsertWeekly(ctx, "s-"+weekID, "u1", weekID, 1.5); err != nil {
				t.Errorf("upsert weekly: %v", err)
				return
			}
			if _, err := repo.RefreshTotalForUser(ctx, "u1"); err != nil {
				t.Errorf("refresh total: %v", err)
			}
		}()
	}
	wg.Wait()

	rows, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("expected 10 weekly rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.TotalScore != 15 {
			t.Fatalf("row %s total = %v, want 15", row.WeekID, row.TotalScore)
		}
	}
}
