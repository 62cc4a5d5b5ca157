package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/user"
)

type EnsureUserInput struct {
	UserID   string
	Username string
	// Role from the identity token. Empty keeps the stored role.
	Role user.Role
}

type UserService struct {
	userRepo user.Repository
	now      func() time.Time
}

func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// EnsureUser registers the authenticated identity so aggregation and
// leaderboards know about it.
func (s *UserService) EnsureUser(ctx context.Context, input EnsureUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.EnsureUser")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Username = strings.TrimSpace(input.Username)
	if input.UserID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	current, exists, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}

	now := s.now().UTC()
	next := current
	if !exists {
		next = user.User{ID: input.UserID, Role: user.RolePlayer, CreatedAt: now}
	}
	if input.Username != "" {
		next.Username = input.Username
	}
	if next.Username == "" {
		next.Username = input.UserID
	}
	if input.Role != "" {
		next.Role = input.Role
	}
	if exists && next == current {
		return current, nil
	}
	next.UpdatedAt = now

	if err := next.Validate(); err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.userRepo.Upsert(ctx, next); err != nil {
		return user.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return next, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (user.User, error) {
	u, exists, err := s.userRepo.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) SetRole(ctx context.Context, userID string, role user.Role) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.SetRole")
	defer span.End()

	u, err := s.Get(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	u.Role = role
	u.UpdatedAt = s.now().UTC()
	if err := u.Validate(); err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.userRepo.Upsert(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}
