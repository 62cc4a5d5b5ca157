package memory

import (
	"sync"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/league"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/score"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
)

// table keeps rows by ID and remembers insertion order.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) remove(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := t.rows[id]; ok {
			drop[id] = struct{}{}
			delete(t.rows, id)
		}
	}
	if len(drop) == 0 {
		return
	}
	kept := t.order[:0]
	for _, id := range t.order {
		if _, gone := drop[id]; !gone {
			kept = append(kept, id)
		}
	}
	t.order = kept
}

// filter returns matching rows in insertion order.
func (t *table[T]) filter(keep func(T) bool) []T {
	out := make([]T, 0)
	for _, id := range t.order {
		if v := t.rows[id]; keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Store is the in-memory entity store. All repositories built from one Store
// share a lock so cascading deletes stay consistent.
type Store struct {
	mu      sync.RWMutex
	leagues *table[league.League]
	weeks   *table[week.Week]
	matches *table[match.Match]
	bets    *table[bet.Bet]
	scores  *table[score.Score]
	users   *table[user.User]
}

func NewStore() *Store {
	return &Store{
		leagues: newTable[league.League](),
		weeks:   newTable[week.Week](),
		matches: newTable[match.Match](),
		bets:    newTable[bet.Bet](),
		scores:  newTable[score.Score](),
		users:   newTable[user.User](),
	}
}

func (s *Store) Leagues() *LeagueRepository { return &LeagueRepository{s: s} }
func (s *Store) Weeks() *WeekRepository     { return &WeekRepository{s: s} }
func (s *Store) Matches() *MatchRepository  { return &MatchRepository{s: s} }
func (s *Store) Bets() *BetRepository       { return &BetRepository{s: s} }
func (s *Store) Scores() *ScoreRepository   { return &ScoreRepository{s: s} }
func (s *Store) Users() *UserRepository     { return &UserRepository{s: s} }

func (s *Store) deleteBetsWhere(match func(bet.Bet) bool) {
	var ids []string
	for _, b := range s.bets.filter(match) {
		ids = append(ids, b.ID)
	}
	s.bets.remove(ids...)
}
