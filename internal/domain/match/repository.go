package match

import "context"

type Repository interface {
	ListByWeek(ctx context.Context, weekID string) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	Create(ctx context.Context, m Match) error
	Update(ctx context.Context, m Match) error
	// Delete removes the match and every bet placed on it.
	Delete(ctx context.Context, matchID string) error
	CountByLeague(ctx context.Context, leagueID string) (int, error)
}
