package memory

import (
	"context"

	"github.com/riskibarqy/score-predictor/internal/domain/user"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.users.filter(nil), nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users.get(userID)
	return u, ok, nil
}

func (r *UserRepository) Upsert(_ context.Context, u user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.users.put(u.ID, u)
	return nil
}
