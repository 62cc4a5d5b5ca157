package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/week"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// LockCheck is the tagged answer to "may bets on this week change now?".
type LockCheck struct {
	Allowed bool
	Reason  week.LockReason
}

type LockService struct {
	weekRepo week.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewLockService(weekRepo week.Repository, logger *logging.Logger) *LockService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LockService{
		weekRepo: weekRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckAndMaybeLock evaluates the betting window for weekID. A passed lock
// time is persisted as locked=true on a best-effort basis. The error return
// is reserved for storage failures; a missing week is reported as
// not_found.
func (s *LockService) CheckAndMaybeLock(ctx context.Context, weekID string, allowOverride bool) (LockCheck, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LockService.CheckAndMaybeLock")
	defer span.End()

	_, check, err := s.check(ctx, weekID, allowOverride)
	span.SetAttributes(
		attribute.Bool("lock.allowed", check.Allowed),
		attribute.String("lock.reason", string(check.Reason)),
	)
	return check, err
}

// RequireBettingOpen is CheckAndMaybeLock for write paths: not_found maps to
// ErrNotFound and any other rejection to *LockRejectedError.
func (s *LockService) RequireBettingOpen(ctx context.Context, weekID string, allowOverride bool) (week.Week, error) {
	w, check, err := s.check(ctx, weekID, allowOverride)
	if err != nil {
		return week.Week{}, err
	}
	switch {
	case check.Allowed:
		return w, nil
	case check.Reason == week.ReasonNotFound:
		return week.Week{}, fmt.Errorf("%w: week not found", ErrNotFound)
	default:
		s.logger.InfoContext(ctx, "bet write rejected", "week_id", weekID, "reason", string(check.Reason))
		return week.Week{}, &LockRejectedError{WeekID: weekID, Reason: check.Reason}
	}
}

func (s *LockService) check(ctx context.Context, weekID string, allowOverride bool) (week.Week, LockCheck, error) {
	weekID = strings.TrimSpace(weekID)
	if weekID == "" {
		return week.Week{}, LockCheck{Reason: week.ReasonNotFound}, nil
	}

	w, exists, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		return week.Week{}, LockCheck{}, fmt.Errorf("get week: %w", err)
	}
	if !exists {
		return week.Week{}, LockCheck{Reason: week.ReasonNotFound}, nil
	}

	decision := week.EvaluateBetting(w, s.now(), allowOverride)
	if decision.PersistLock {
		if err := s.weekRepo.MarkLocked(ctx, w.ID); err != nil {
			s.logger.WarnContext(ctx, "persist expired week lock failed", "week_id", w.ID, "error", err)
		} else {
			w.Locked = true
		}
	}
	return w, LockCheck{Allowed: decision.Allowed, Reason: decision.Reason}, nil
}
