package memory

import (
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/league"
)

// SeedLeagues are the leagues a fresh in-memory store starts with.
func SeedLeagues(now time.Time) []league.League {
	return []league.League{
		{ID: "lg-bundesliga-at", Name: "Bundesliga", Key: "bundesliga-at", Color: "#e2001a", Type: league.TypeClub, Region: "AT", Active: true, Order: 1, CreatedAt: now, UpdatedAt: now},
		{ID: "lg-premier-league", Name: "Premier League", Key: "premier-league", Color: "#3d195b", Type: league.TypeClub, Region: "GB", Active: true, Order: 2, CreatedAt: now, UpdatedAt: now},
		{ID: "lg-champions-league", Name: "Champions League", Key: "champions-league", Color: "#0e1e5b", Type: league.TypeClub, Region: "EU", Active: true, Order: 3, CreatedAt: now, UpdatedAt: now},
		{ID: "lg-nations", Name: "National Teams", Key: "nations", Color: "#1b7f3a", Type: league.TypeNational, Region: "INT", Active: true, Order: 4, CreatedAt: now, UpdatedAt: now},
	}
}

// Seed loads leagues into the store.
func (s *Store) Seed(leagues []league.League) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range leagues {
		s.leagues.put(l.ID, l)
	}
}
