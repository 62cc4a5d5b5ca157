package week

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context) ([]Week, error)
	ListActive(ctx context.Context) ([]Week, error)
	GetByID(ctx context.Context, weekID string) (Week, bool, error)
	Create(ctx context.Context, w Week) error
	Update(ctx context.Context, w Week) error
	// MarkLocked sets locked=true. Applying it twice is harmless.
	MarkLocked(ctx context.Context, weekID string) error
	MarkReminderSent(ctx context.Context, weekID string, at time.Time) error
	// Delete removes the week together with its matches, bets and scores.
	Delete(ctx context.Context, weekID string) error
}
