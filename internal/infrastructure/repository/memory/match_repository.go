package memory

import (
	"context"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
)

type MatchRepository struct {
	s *Store
}

func (r *MatchRepository) ListByWeek(_ context.Context, weekID string) ([]match.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := r.s.matches.filter(func(m match.Match) bool { return m.WeekID == weekID })
	for i := range items {
		items[i] = cloneMatch(items[i])
	}
	return items, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.matches.get(matchID)
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(m), true, nil
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.matches.put(m.ID, cloneMatch(m))
	return nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.matches.get(m.ID); ok {
		r.s.matches.put(m.ID, cloneMatch(m))
	}
	return nil
}

func (r *MatchRepository) Delete(_ context.Context, matchID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.deleteBetsWhere(func(b bet.Bet) bool { return b.MatchID == matchID })
	r.s.matches.remove(matchID)
	return nil
}

func (r *MatchRepository) CountByLeague(_ context.Context, leagueID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.matches.filter(func(m match.Match) bool { return m.LeagueID == leagueID })), nil
}

func cloneMatch(m match.Match) match.Match {
	if m.Result != nil {
		res := *m.Result
		m.Result = &res
	}
	if m.Odds != nil {
		odds := match.Odds{
			HomeWin: cloneFloat(m.Odds.HomeWin),
			Draw:    cloneFloat(m.Odds.Draw),
			AwayWin: cloneFloat(m.Odds.AwayWin),
		}
		m.Odds = &odds
	}
	return m
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
