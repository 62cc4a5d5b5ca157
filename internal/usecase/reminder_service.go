package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/notification"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const reminderConcurrency = 4

type ReminderConfig struct {
	// Lead is how long before the lock time reminders go out.
	Lead     time.Duration
	Interval time.Duration
}

type ReminderRun struct {
	WeeksChecked  int                         `json:"weeks_checked"`
	WeeksNotified int                         `json:"weeks_notified"`
	Recipients    int                         `json:"recipients"`
	Delivery      notification.DeliveryResult `json:"delivery"`
}

// ReminderService pushes one reminder per week to players who still have
// matches without a prediction shortly before the week locks.
type ReminderService struct {
	weekRepo  week.Repository
	matchRepo match.Repository
	betRepo   bet.Repository
	userRepo  user.Repository
	gateway   notification.Gateway
	clock     clockwork.Clock
	cfg       ReminderConfig
	logger    *logging.Logger
}

func NewReminderService(
	weekRepo week.Repository,
	matchRepo match.Repository,
	betRepo bet.Repository,
	userRepo user.Repository,
	gateway notification.Gateway,
	clock clockwork.Clock,
	cfg ReminderConfig,
	logger *logging.Logger,
) *ReminderService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Lead <= 0 {
		cfg.Lead = 2 * time.Hour
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	return &ReminderService{
		weekRepo:  weekRepo,
		matchRepo: matchRepo,
		betRepo:   betRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run calls RunOnce on every tick until ctx is done.
func (s *ReminderService) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.WarnContext(ctx, "reminder run failed", "error", err)
			}
		}
	}
}

// RunOnce sends reminders for every week whose lock time falls inside the
// lead window and that has not been reminded yet.
func (s *ReminderService) RunOnce(ctx context.Context) (ReminderRun, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReminderService.RunOnce")
	defer span.End()

	weeks, err := s.weekRepo.ListActive(ctx)
	if err != nil {
		return ReminderRun{}, fmt.Errorf("list active weeks: %w", err)
	}

	now := s.clock.Now()
	due := weeks[:0:0]
	for _, w := range weeks {
		if s.isDue(w, now) {
			due = append(due, w)
		}
	}
	run := ReminderRun{WeeksChecked: len(weeks)}
	if len(due) == 0 {
		return run, nil
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return run, fmt.Errorf("list users: %w", err)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	p := pool.New().WithMaxGoroutines(reminderConcurrency)
	for _, w := range due {
		p.Go(func() {
			recipients, delivery, err := s.remind(ctx, w, users, now)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("week %s: %w", w.ID, err))
				return
			}
			run.WeeksNotified++
			run.Recipients += recipients
			run.Delivery.Sent += delivery.Sent
			run.Delivery.Failed += delivery.Failed
		})
	}
	p.Wait()

	return run, errors.Join(errs...)
}

func (s *ReminderService) isDue(w week.Week, now time.Time) bool {
	if !w.Active || w.ReminderSentAt != nil || w.IsEffectivelyLocked(now) || w.LockTime == nil {
		return false
	}
	return w.LockTime.Sub(now) <= s.cfg.Lead
}

func (s *ReminderService) remind(ctx context.Context, w week.Week, users []user.User, now time.Time) (int, notification.DeliveryResult, error) {
	matches, err := s.matchRepo.ListByWeek(ctx, w.ID)
	if err != nil {
		return 0, notification.DeliveryResult{}, fmt.Errorf("list matches: %w", err)
	}

	var audience notification.Audience
	if len(matches) > 0 {
		for _, u := range users {
			bets, err := s.betRepo.ListByUserAndWeek(ctx, u.ID, w.ID)
			if err != nil {
				return 0, notification.DeliveryResult{}, fmt.Errorf("list bets for user %s: %w", u.ID, err)
			}
			if len(bets) < len(matches) {
				audience.UserIDs = append(audience.UserIDs, u.ID)
			}
		}
	}

	var delivery notification.DeliveryResult
	if !audience.Empty() && s.gateway != nil {
		msg := notification.Message{
			Title: w.Name + " locks soon",
			Body:  fmt.Sprintf("Betting closes in %s. Some of your predictions are still missing.", w.LockTime.Sub(now).Round(time.Minute)),
		}
		delivery, err = s.gateway.Send(ctx, audience, msg)
		if err != nil {
			s.logger.WarnContext(ctx, "week reminder delivery failed", "week_id", w.ID, "error", err)
		}
	}

	if err := s.weekRepo.MarkReminderSent(ctx, w.ID, now.UTC()); err != nil {
		return 0, delivery, fmt.Errorf("mark reminder sent: %w", err)
	}
	s.logger.InfoContext(ctx, "week reminder processed", "week_id", w.ID, "recipients", len(audience.UserIDs), "sent", delivery.Sent, "failed", delivery.Failed)
	return len(audience.UserIDs), delivery, nil
}
