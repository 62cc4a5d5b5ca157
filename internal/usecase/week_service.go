package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/notification"
	"github.com/riskibarqy/score-predictor/internal/domain/score"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
	idgen "github.com/riskibarqy/score-predictor/internal/platform/id"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

const notificationTimeout = 10 * time.Second

type WeekInput struct {
	Name   string
	Month  int
	Season string
}

type ActivateWeekInput struct {
	WeekID string
	// LockTime overrides the kickoff of the earliest match.
	LockTime *time.Time
}

// ActivationResult carries the best-effort notification outcome.
type ActivationResult struct {
	Week              week.Week
	Notification      notification.DeliveryResult
	NotificationError string
}

type totalsRefresher interface {
	RefreshTotals(ctx context.Context, userIDs []string) error
}

type WeekService struct {
	weekRepo  week.Repository
	matchRepo match.Repository
	scoreRepo score.Repository
	totals    totalsRefresher
	gateway   notification.Gateway
	idGen     idgen.Generator
	logger    *logging.Logger
	location  *time.Location
	now       func() time.Time
}

func NewWeekService(
	weekRepo week.Repository,
	matchRepo match.Repository,
	scoreRepo score.Repository,
	totals totalsRefresher,
	gateway notification.Gateway,
	idGen idgen.Generator,
	logger *logging.Logger,
	location *time.Location,
) *WeekService {
	if logger == nil {
		logger = logging.Default()
	}
	if location == nil {
		location = time.UTC
	}
	return &WeekService{
		weekRepo:  weekRepo,
		matchRepo: matchRepo,
		scoreRepo: scoreRepo,
		totals:    totals,
		gateway:   gateway,
		idGen:     idGen,
		logger:    logger,
		location:  location,
		now:       time.Now,
	}
}

func (s *WeekService) List(ctx context.Context) ([]week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.List")
	defer span.End()

	items, err := s.weekRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	return items, nil
}

func (s *WeekService) Get(ctx context.Context, weekID string) (week.Week, error) {
	w, exists, err := s.weekRepo.GetByID(ctx, strings.TrimSpace(weekID))
	if err != nil {
		return week.Week{}, fmt.Errorf("get week: %w", err)
	}
	if !exists {
		return week.Week{}, fmt.Errorf("%w: week=%s", ErrNotFound, weekID)
	}
	return w, nil
}

// Create stores a new week, inactive and unlocked.
func (s *WeekService) Create(ctx context.Context, input WeekInput) (week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.Create")
	defer span.End()

	id, err := s.idGen.NewID()
	if err != nil {
		return week.Week{}, fmt.Errorf("generate week id: %w", err)
	}
	now := s.now().UTC()
	w := week.Week{
		ID:        id,
		Name:      strings.TrimSpace(input.Name),
		Month:     input.Month,
		Season:    strings.TrimSpace(input.Season),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.Validate(); err != nil {
		return week.Week{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.weekRepo.Create(ctx, w); err != nil {
		return week.Week{}, fmt.Errorf("create week: %w", err)
	}
	return w, nil
}

func (s *WeekService) Update(ctx context.Context, weekID string, input WeekInput) (week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.Update")
	defer span.End()

	w, err := s.Get(ctx, weekID)
	if err != nil {
		return week.Week{}, err
	}
	w.Name = strings.TrimSpace(input.Name)
	w.Month = input.Month
	w.Season = strings.TrimSpace(input.Season)
	if err := w.Validate(); err != nil {
		return week.Week{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.save(ctx, w)
}

// Activate opens the week for betting until its lock time and announces it.
// Without an explicit lock time the earliest match kickoff is used.
func (s *WeekService) Activate(ctx context.Context, input ActivateWeekInput) (ActivationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.Activate")
	defer span.End()

	w, err := s.Get(ctx, input.WeekID)
	if err != nil {
		return ActivationResult{}, err
	}

	lockTime := input.LockTime
	if lockTime == nil {
		derived, found, err := s.earliestKickoff(ctx, w.ID)
		if err != nil {
			return ActivationResult{}, err
		}
		if !found {
			return ActivationResult{}, fmt.Errorf("%w: lock time is required when the week has no matches", ErrInvalidInput)
		}
		lockTime = &derived
	}
	utc := lockTime.UTC()

	w.Active = true
	w.Locked = false
	w.LockTime = &utc
	w.ReminderSentAt = nil
	w, err = s.save(ctx, w)
	if err != nil {
		return ActivationResult{}, err
	}

	result := ActivationResult{Week: w}
	result.Notification, result.NotificationError = s.announce(ctx, w)
	return result, nil
}

// Deactivate closes the week and clears its lock time.
func (s *WeekService) Deactivate(ctx context.Context, weekID string) (week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.Deactivate")
	defer span.End()

	w, err := s.Get(ctx, weekID)
	if err != nil {
		return week.Week{}, err
	}
	w.Active = false
	w.Locked = false
	w.LockTime = nil
	return s.save(ctx, w)
}

func (s *WeekService) Lock(ctx context.Context, weekID string) (week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.Lock")
	defer span.End()

	w, err := s.Get(ctx, weekID)
	if err != nil {
		return week.Week{}, err
	}
	if err := s.weekRepo.MarkLocked(ctx, w.ID); err != nil {
		return week.Week{}, fmt.Errorf("lock week: %w", err)
	}
	w.Locked = true
	return w, nil
}

// Unlock reopens the week with a new lock time. A nil lockTime leaves the
// week open until it is locked by hand.
func (s *WeekService) Unlock(ctx context.Context, weekID string, lockTime *time.Time) (week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.Unlock")
	defer span.End()

	w, err := s.Get(ctx, weekID)
	if err != nil {
		return week.Week{}, err
	}
	if lockTime != nil {
		utc := lockTime.UTC()
		lockTime = &utc
	}
	w.Locked = false
	w.LockTime = lockTime
	return s.save(ctx, w)
}

// Delete removes the week with its matches, bets and scores, then refreshes
// the totals of every user that had a score in it.
func (s *WeekService) Delete(ctx context.Context, weekID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.Delete")
	defer span.End()

	w, err := s.Get(ctx, weekID)
	if err != nil {
		return err
	}
	rows, err := s.scoreRepo.ListByWeek(ctx, w.ID)
	if err != nil {
		return fmt.Errorf("list week scores: %w", err)
	}
	affected := make([]string, 0, len(rows))
	for _, row := range rows {
		affected = append(affected, row.UserID)
	}

	if err := s.weekRepo.Delete(ctx, w.ID); err != nil {
		return fmt.Errorf("delete week: %w", err)
	}
	if err := s.totals.RefreshTotals(ctx, affected); err != nil {
		return fmt.Errorf("refresh totals after week delete: %w", err)
	}
	return nil
}

func (s *WeekService) save(ctx context.Context, w week.Week) (week.Week, error) {
	w.UpdatedAt = s.now().UTC()
	if err := s.weekRepo.Update(ctx, w); err != nil {
		return week.Week{}, fmt.Errorf("update week: %w", err)
	}
	return w, nil
}

func (s *WeekService) earliestKickoff(ctx context.Context, weekID string) (time.Time, bool, error) {
	matches, err := s.matchRepo.ListByWeek(ctx, weekID)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("list week matches: %w", err)
	}
	ref := s.now()
	var earliest time.Time
	for _, m := range matches {
		kickoff, err := m.KickoffAt(s.location, ref)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%w: match %s: %v", ErrInvalidInput, m.ID, err)
		}
		if earliest.IsZero() || kickoff.Before(earliest) {
			earliest = kickoff
		}
	}
	return earliest, !earliest.IsZero(), nil
}

func (s *WeekService) announce(ctx context.Context, w week.Week) (notification.DeliveryResult, string) {
	if s.gateway == nil {
		return notification.DeliveryResult{}, ""
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)
	defer cancel()

	msg := notification.Message{
		Title: w.Name + " is open",
		Body:  fmt.Sprintf("Place your predictions before %s.", w.LockTime.In(s.location).Format("02.01. 15:04")),
	}
	result, err := s.gateway.Send(ctx, notification.Audience{All: true}, msg)
	if err != nil {
		s.logger.WarnContext(ctx, "week activation notification failed", "week_id", w.ID, "error", err)
		return result, err.Error()
	}
	s.logger.InfoContext(ctx, "week activation notification sent", "week_id", w.ID, "sent", result.Sent, "failed", result.Failed)
	return result, ""
}
