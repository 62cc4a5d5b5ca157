package bet

import "context"

type Repository interface {
	// Upsert inserts or overwrites the prediction keyed by (user, match) and
	// returns the stored row. Points are left untouched on overwrite.
	Upsert(ctx context.Context, b Bet) (Bet, error)
	GetByID(ctx context.Context, betID string) (Bet, bool, error)
	GetByUserAndMatch(ctx context.Context, userID, matchID string) (Bet, bool, error)
	ListByWeek(ctx context.Context, weekID string) ([]Bet, error)
	ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]Bet, error)
	ListByUser(ctx context.Context, userID string) ([]Bet, error)
	UpdatePoints(ctx context.Context, betID string, points float64) error
	ResetPointsByMatch(ctx context.Context, matchID string) error
	Delete(ctx context.Context, betID string) error
}
