package memory

import (
	"context"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
)

type BetRepository struct {
	s *Store
}

// Upsert runs under the store write lock, so (user, match) stays unique
// under concurrent submissions.
func (r *BetRepository) Upsert(_ context.Context, b bet.Bet) (bet.Bet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing := r.s.bets.filter(func(cur bet.Bet) bool {
		return cur.UserID == b.UserID && cur.MatchID == b.MatchID
	})
	if len(existing) > 0 {
		cur := existing[0]
		cur.Prediction = b.Prediction
		cur.UpdatedAt = b.UpdatedAt
		r.s.bets.put(cur.ID, cur)
		return cur, nil
	}
	r.s.bets.put(b.ID, b)
	return b, nil
}

func (r *BetRepository) GetByID(_ context.Context, betID string) (bet.Bet, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bets.get(betID)
	return b, ok, nil
}

func (r *BetRepository) GetByUserAndMatch(_ context.Context, userID, matchID string) (bet.Bet, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := r.s.bets.filter(func(b bet.Bet) bool { return b.UserID == userID && b.MatchID == matchID })
	if len(found) == 0 {
		return bet.Bet{}, false, nil
	}
	return found[0], true, nil
}

func (r *BetRepository) ListByWeek(_ context.Context, weekID string) ([]bet.Bet, error) {
	return r.list(func(b bet.Bet) bool { return b.WeekID == weekID }), nil
}

func (r *BetRepository) ListByUserAndWeek(_ context.Context, userID, weekID string) ([]bet.Bet, error) {
	return r.list(func(b bet.Bet) bool { return b.UserID == userID && b.WeekID == weekID }), nil
}

func (r *BetRepository) ListByUser(_ context.Context, userID string) ([]bet.Bet, error) {
	return r.list(func(b bet.Bet) bool { return b.UserID == userID }), nil
}

func (r *BetRepository) UpdatePoints(_ context.Context, betID string, points float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if b, ok := r.s.bets.get(betID); ok {
		b.Points = points
		b.UpdatedAt = time.Now().UTC()
		r.s.bets.put(betID, b)
	}
	return nil
}

func (r *BetRepository) ResetPointsByMatch(_ context.Context, matchID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.bets.filter(func(b bet.Bet) bool { return b.MatchID == matchID }) {
		b.Points = 0
		r.s.bets.put(b.ID, b)
	}
	return nil
}

func (r *BetRepository) Delete(_ context.Context, betID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.bets.remove(betID)
	return nil
}

func (r *BetRepository) list(keep func(bet.Bet) bool) []bet.Bet {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.bets.filter(keep)
}
