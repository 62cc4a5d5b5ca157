package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/league"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/score-predictor/internal/platform/cache"
)

type countingLeagueRepo struct {
	league.Repository
	lists int
	gets  int
}

func (r *countingLeagueRepo) List(ctx context.Context) ([]league.League, error) {
	r.lists++
	return r.Repository.List(ctx)
}

func (r *countingLeagueRepo) GetByID(ctx context.Context, id string) (league.League, bool, error) {
	r.gets++
	return r.Repository.GetByID(ctx, id)
}

func newCountingRepo() *countingLeagueRepo {
	store := memory.NewStore()
	store.Seed(memory.SeedLeagues(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	return &countingLeagueRepo{Repository: store.Leagues()}
}

func TestLeagueRepositoryCachesReads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := newCountingRepo()
	repo := NewLeagueRepository(next, basecache.NewStore[any](time.Minute))

	for range 3 {
		items, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list leagues: %v", err)
		}
		if len(items) != 4 {
			t.Fatalf("expected 4 leagues, got %d", len(items))
		}
	}
	if next.lists != 1 {
		t.Fatalf("expected one underlying list, got %d", next.lists)
	}

	for range 2 {
		if _, ok, err := repo.GetByID(ctx, "missing"); err != nil || ok {
			t.Fatalf("expected cached miss, ok=%v err=%v", ok, err)
		}
	}
	if next.gets != 1 {
		t.Fatalf("negative lookups should be cached, got %d loads", next.gets)
	}
}

func TestLeagueRepositoryInvalidatesOnWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := newCountingRepo()
	repo := NewLeagueRepository(next, basecache.NewStore[any](time.Minute))

	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("list leagues: %v", err)
	}
	if _, ok, _ := repo.GetByID(ctx, "lg-cup"); ok {
		t.Fatalf("league should not exist yet")
	}

	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	err := repo.Create(ctx, league.League{
		ID: "lg-cup", Name: "Cup", Key: "cup", Color: "#112233", Type: league.TypeOther,
		Active: true, Order: 9, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list leagues: %v", err)
	}
	if len(items) != 5 || next.lists != 2 {
		t.Fatalf("expected reload with 5 leagues, got %d leagues after %d loads", len(items), next.lists)
	}
	if _, ok, _ := repo.GetByID(ctx, "lg-cup"); !ok {
		t.Fatalf("expected created league after invalidation")
	}
	if got, ok, _ := repo.GetByKey(ctx, " CUP "); !ok || got.ID != "lg-cup" {
		t.Fatalf("expected lookup by normalized key, got %+v ok=%v", got, ok)
	}
}
