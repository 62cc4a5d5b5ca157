package score

import "context"

type Repository interface {
	// UpsertWeekly writes weeklyScore for (user, week), creating the row with
	// id when missing.
	UpsertWeekly(ctx context.Context, id, userID, weekID string, weekly float64) error
	ListByUser(ctx context.Context, userID string) ([]Score, error)
	ListByWeek(ctx context.Context, weekID string) ([]Score, error)
	// ListAll returns every row in storage order.
	ListAll(ctx context.Context) ([]Score, error)
	// RefreshTotalForUser recomputes the user's total from their weekly rows
	// and writes it onto each of them in one step.
	RefreshTotalForUser(ctx context.Context, userID string) (float64, error)
}
