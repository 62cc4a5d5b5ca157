package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
	idgen "github.com/riskibarqy/score-predictor/internal/platform/id"
)

type SubmitBetInput struct {
	UserID     string
	MatchID    string
	Prediction bet.Prediction
	// AllowOverride skips the betting window. Only admin surfaces set it.
	AllowOverride bool
}

// BetView is a bet with points as they currently stand for its match.
type BetView struct {
	Bet      bet.Bet
	Username string
	Points   float64
	Scored   bool
}

type WeekBets struct {
	Week week.Week
	// Revealed is false while other players' predictions are hidden.
	Revealed bool
	Bets     []BetView
}

type Viewer struct {
	UserID  string
	IsAdmin bool
}

type BetService struct {
	betRepo   bet.Repository
	matchRepo match.Repository
	weekRepo  week.Repository
	userRepo  user.Repository
	lock      *LockService
	scorer    weekScorer
	idGen     idgen.Generator
	now       func() time.Time
}

func NewBetService(
	betRepo bet.Repository,
	matchRepo match.Repository,
	weekRepo week.Repository,
	userRepo user.Repository,
	lock *LockService,
	scorer weekScorer,
	idGen idgen.Generator,
) *BetService {
	return &BetService{
		betRepo:   betRepo,
		matchRepo: matchRepo,
		weekRepo:  weekRepo,
		userRepo:  userRepo,
		lock:      lock,
		scorer:    scorer,
		idGen:     idGen,
		now:       time.Now,
	}
}

// Submit creates or overwrites the caller's prediction for a match.
func (s *BetService) Submit(ctx context.Context, input SubmitBetInput) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.Submit")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.UserID == "" {
		return bet.Bet{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.MatchID == "" {
		return bet.Bet{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if err := input.Prediction.Validate(); err != nil {
		return bet.Bet{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, exists, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return bet.Bet{}, fmt.Errorf("get user: %w", err)
	} else if !exists {
		return bet.Bet{}, fmt.Errorf("%w: user=%s", ErrNotFound, input.UserID)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return bet.Bet{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}

	if _, err := s.lock.RequireBettingOpen(ctx, m.WeekID, input.AllowOverride); err != nil {
		return bet.Bet{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return bet.Bet{}, fmt.Errorf("generate bet id: %w", err)
	}
	now := s.now().UTC()
	stored, err := s.betRepo.Upsert(ctx, bet.Bet{
		ID:         id,
		UserID:     input.UserID,
		MatchID:    m.ID,
		WeekID:     m.WeekID,
		Prediction: input.Prediction,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return bet.Bet{}, fmt.Errorf("upsert bet: %w", err)
	}
	if !m.Completed() {
		return stored, nil
	}

	// Overrides can land after the result is in.
	if err := s.rescore(ctx, m.WeekID); err != nil {
		return bet.Bet{}, err
	}
	rescored, exists, err := s.betRepo.GetByID(ctx, stored.ID)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get bet: %w", err)
	}
	if !exists {
		return stored, nil
	}
	return rescored, nil
}

// Delete withdraws a bet while the betting window is open. Admins may
// delete any bet at any time.
func (s *BetService) Delete(ctx context.Context, viewer Viewer, betID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.Delete")
	defer span.End()

	b, exists, err := s.betRepo.GetByID(ctx, strings.TrimSpace(betID))
	if err != nil {
		return fmt.Errorf("get bet: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: bet=%s", ErrNotFound, betID)
	}
	if b.UserID != viewer.UserID && !viewer.IsAdmin {
		return fmt.Errorf("%w: bet belongs to another user", ErrForbidden)
	}
	if _, err := s.lock.RequireBettingOpen(ctx, b.WeekID, viewer.IsAdmin); err != nil {
		return err
	}
	m, matchExists, err := s.matchRepo.GetByID(ctx, b.MatchID)
	if err != nil {
		return fmt.Errorf("get match: %w", err)
	}
	if err := s.betRepo.Delete(ctx, b.ID); err != nil {
		return fmt.Errorf("delete bet: %w", err)
	}
	if matchExists && m.Completed() {
		return s.rescore(ctx, b.WeekID)
	}
	return nil
}

func (s *BetService) rescore(ctx context.Context, weekID string) error {
	if s.scorer == nil {
		return nil
	}
	if _, err := s.scorer.RecomputeWeek(ctx, weekID); err != nil {
		return fmt.Errorf("rescore week: %w", err)
	}
	return nil
}

// ListMine returns the user's bets, optionally narrowed to one week.
func (s *BetService) ListMine(ctx context.Context, userID, weekID string) ([]BetView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.ListMine")
	defer span.End()

	var (
		bets []bet.Bet
		err  error
	)
	if weekID = strings.TrimSpace(weekID); weekID != "" {
		bets, err = s.betRepo.ListByUserAndWeek(ctx, userID, weekID)
	} else {
		bets, err = s.betRepo.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}
	return s.views(ctx, bets, nil)
}

// ListWeek returns the bets placed on a week. Until the week is locked a
// player only sees their own predictions.
func (s *BetService) ListWeek(ctx context.Context, viewer Viewer, weekID string) (WeekBets, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.ListWeek")
	defer span.End()

	w, exists, err := s.weekRepo.GetByID(ctx, strings.TrimSpace(weekID))
	if err != nil {
		return WeekBets{}, fmt.Errorf("get week: %w", err)
	}
	if !exists {
		return WeekBets{}, fmt.Errorf("%w: week=%s", ErrNotFound, weekID)
	}

	bets, err := s.betRepo.ListByWeek(ctx, w.ID)
	if err != nil {
		return WeekBets{}, fmt.Errorf("list week bets: %w", err)
	}

	revealed := viewer.IsAdmin || w.IsEffectivelyLocked(s.now())
	if !revealed {
		own := bets[:0:0]
		for _, b := range bets {
			if b.UserID == viewer.UserID {
				own = append(own, b)
			}
		}
		bets = own
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return WeekBets{}, fmt.Errorf("list users: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	views, err := s.views(ctx, bets, names)
	if err != nil {
		return WeekBets{}, err
	}
	return WeekBets{Week: w, Revealed: revealed, Bets: views}, nil
}

func (s *BetService) views(ctx context.Context, bets []bet.Bet, names map[string]string) ([]BetView, error) {
	matches := make(map[string]match.Match)
	out := make([]BetView, 0, len(bets))
	for _, b := range bets {
		m, ok := matches[b.MatchID]
		if !ok {
			loaded, exists, err := s.matchRepo.GetByID(ctx, b.MatchID)
			if err != nil {
				return nil, fmt.Errorf("get match: %w", err)
			}
			if exists {
				m = loaded
			}
			matches[b.MatchID] = m
		}
		points, scored := scoring.Preview(b.Prediction, m)
		out = append(out, BetView{
			Bet:      b,
			Username: names[b.UserID],
			Points:   points,
			Scored:   scored,
		})
	}
	return out, nil
}
