package memory

import (
	"context"

	"github.com/riskibarqy/score-predictor/internal/domain/league"
)

type LeagueRepository struct {
	s *Store
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.leagues.filter(nil), nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.leagues.get(leagueID)
	return l, ok, nil
}

func (r *LeagueRepository) GetByKey(_ context.Context, key string) (league.League, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := r.s.leagues.filter(func(l league.League) bool { return l.Key == key })
	if len(found) == 0 {
		return league.League{}, false, nil
	}
	return found[0], true, nil
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.keyTaken(l) {
		return league.ErrDuplicateKey
	}
	r.s.leagues.put(l.ID, l)
	return nil
}

func (r *LeagueRepository) Update(_ context.Context, l league.League) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.leagues.get(l.ID); !ok {
		return nil
	}
	if r.keyTaken(l) {
		return league.ErrDuplicateKey
	}
	r.s.leagues.put(l.ID, l)
	return nil
}

func (r *LeagueRepository) Delete(_ context.Context, leagueID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.leagues.remove(leagueID)
	return nil
}

func (r *LeagueRepository) keyTaken(l league.League) bool {
	return len(r.s.leagues.filter(func(other league.League) bool {
		return other.Key == l.Key && other.ID != l.ID
	})) > 0
}
