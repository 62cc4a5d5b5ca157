package cache

import (
	"context"

	"github.com/riskibarqy/score-predictor/internal/domain/league"
	basecache "github.com/riskibarqy/score-predictor/internal/platform/cache"
)

const (
	leagueListKey     = "league:list"
	leagueKeyPrefix   = "league:"
	leagueByIDPrefix  = "league:id:"
	leagueByKeyPrefix = "league:key:"
)

// LeagueRepository caches league reads. Every write drops all league keys.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store[any]
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store[any]) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, leagueByIDPrefix+leagueID, func(ctx context.Context) (league.League, bool, error) {
		return r.next.GetByID(ctx, leagueID)
	})
}

func (r *LeagueRepository) GetByKey(ctx context.Context, key string) (league.League, bool, error) {
	normalized := league.NormalizeKey(key)
	return r.getOne(ctx, leagueByKeyPrefix+normalized, func(ctx context.Context) (league.League, bool, error) {
		return r.next.GetByKey(ctx, normalized)
	})
}

func (r *LeagueRepository) getOne(
	ctx context.Context,
	key string,
	load func(ctx context.Context) (league.League, bool, error),
) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return cachedLeague{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeague)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	defer r.invalidate()
	return r.next.Create(ctx, l)
}

func (r *LeagueRepository) Update(ctx context.Context, l league.League) error {
	defer r.invalidate()
	return r.next.Update(ctx, l)
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	defer r.invalidate()
	return r.next.Delete(ctx, leagueID)
}

func (r *LeagueRepository) invalidate() {
	r.cache.DeletePrefix(leagueKeyPrefix)
}

type cachedLeague struct {
	value  league.League
	exists bool
}
