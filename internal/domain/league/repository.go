package league

import (
	"context"
	"errors"
)

// ErrDuplicateKey is returned by Create/Update when another league owns the key.
var ErrDuplicateKey = errors.New("league key already exists")

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByKey(ctx context.Context, key string) (League, bool, error)
	Create(ctx context.Context, l League) error
	Update(ctx context.Context, l League) error
	Delete(ctx context.Context, leagueID string) error
}
