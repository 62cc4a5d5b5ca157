package user

import "context"

type Repository interface {
	// List returns every known user in storage order.
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, userID string) (User, bool, error)
	Upsert(ctx context.Context, u User) error
}
