package memory

import (
	"context"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/score"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
)

type WeekRepository struct {
	s *Store
}

func (r *WeekRepository) List(_ context.Context) ([]week.Week, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return cloneWeeks(r.s.weeks.filter(nil)), nil
}

func (r *WeekRepository) ListActive(_ context.Context) ([]week.Week, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return cloneWeeks(r.s.weeks.filter(func(w week.Week) bool { return w.Active })), nil
}

func (r *WeekRepository) GetByID(_ context.Context, weekID string) (week.Week, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	w, ok := r.s.weeks.get(weekID)
	if !ok {
		return week.Week{}, false, nil
	}
	return cloneWeek(w), true, nil
}

func (r *WeekRepository) Create(_ context.Context, w week.Week) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.weeks.put(w.ID, cloneWeek(w))
	return nil
}

func (r *WeekRepository) Update(_ context.Context, w week.Week) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.weeks.get(w.ID); ok {
		r.s.weeks.put(w.ID, cloneWeek(w))
	}
	return nil
}

func (r *WeekRepository) MarkLocked(_ context.Context, weekID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if w, ok := r.s.weeks.get(weekID); ok && !w.Locked {
		w.Locked = true
		w.UpdatedAt = time.Now().UTC()
		r.s.weeks.put(weekID, w)
	}
	return nil
}

func (r *WeekRepository) MarkReminderSent(_ context.Context, weekID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if w, ok := r.s.weeks.get(weekID); ok {
		w.ReminderSentAt = &at
		r.s.weeks.put(weekID, w)
	}
	return nil
}

func (r *WeekRepository) Delete(_ context.Context, weekID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matchIDs []string
	for _, m := range r.s.matches.filter(func(m match.Match) bool { return m.WeekID == weekID }) {
		matchIDs = append(matchIDs, m.ID)
	}
	r.s.matches.remove(matchIDs...)
	r.s.deleteBetsWhere(func(b bet.Bet) bool { return b.WeekID == weekID })

	var scoreIDs []string
	for _, sc := range r.s.scores.filter(func(sc score.Score) bool { return sc.WeekID == weekID }) {
		scoreIDs = append(scoreIDs, sc.ID)
	}
	r.s.scores.remove(scoreIDs...)
	r.s.weeks.remove(weekID)
	return nil
}

func cloneWeek(w week.Week) week.Week {
	if w.LockTime != nil {
		t := *w.LockTime
		w.LockTime = &t
	}
	if w.ReminderSentAt != nil {
		t := *w.ReminderSentAt
		w.ReminderSentAt = &t
	}
	return w
}

func cloneWeeks(items []week.Week) []week.Week {
	for i := range items {
		items[i] = cloneWeek(items[i])
	}
	return items
}
