package memory

import (
	"context"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/score"
	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
)

type ScoreRepository struct {
	s *Store
}

func (r *ScoreRepository) UpsertWeekly(_ context.Context, id, userID, weekID string, weekly float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	found := r.s.scores.filter(func(sc score.Score) bool { return sc.UserID == userID && sc.WeekID == weekID })
	if len(found) > 0 {
		cur := found[0]
		cur.WeeklyScore = weekly
		cur.UpdatedAt = now
		r.s.scores.put(cur.ID, cur)
		return nil
	}
	r.s.scores.put(id, score.Score{
		ID:          id,
		UserID:      userID,
		WeekID:      weekID,
		WeeklyScore: weekly,
		UpdatedAt:   now,
	})
	return nil
}

func (r *ScoreRepository) ListByUser(_ context.Context, userID string) ([]score.Score, error) {
	return r.list(func(sc score.Score) bool { return sc.UserID == userID }), nil
}

func (r *ScoreRepository) ListByWeek(_ context.Context, weekID string) ([]score.Score, error) {
	return r.list(func(sc score.Score) bool { return sc.WeekID == weekID }), nil
}

func (r *ScoreRepository) ListAll(_ context.Context) ([]score.Score, error) {
	return r.list(nil), nil
}

func (r *ScoreRepository) RefreshTotalForUser(_ context.Context, userID string) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rows := r.s.scores.filter(func(sc score.Score) bool { return sc.UserID == userID })
	var total float64
	for _, sc := range rows {
		total += sc.WeeklyScore
	}
	total = scoring.RoundOneDecimal(total)
	for _, sc := range rows {
		sc.TotalScore = total
		r.s.scores.put(sc.ID, sc)
	}
	return total, nil
}

func (r *ScoreRepository) list(keep func(score.Score) bool) []score.Score {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.scores.filter(keep)
}
