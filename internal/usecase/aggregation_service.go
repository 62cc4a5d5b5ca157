package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/score"
	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
	idgen "github.com/riskibarqy/score-predictor/internal/platform/id"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultAggregationWorkers = 4

// AggregationReport summarizes one aggregation run. Users that failed are
// counted in UsersSkipped and absent from the score maps.
type AggregationReport struct {
	WeekID             string             `json:"week_id"`
	NothingToScore     bool               `json:"nothing_to_score"`
	CompletedMatches   int                `json:"completed_matches"`
	UsersProcessed     int                `json:"users_processed"`
	UsersSkipped       int                `json:"users_skipped"`
	WeeklyScoresByUser map[string]float64 `json:"weekly_scores_by_user"`
	TotalScoresByUser  map[string]float64 `json:"total_scores_by_user"`
}

type AggregationService struct {
	weekRepo  week.Repository
	matchRepo match.Repository
	betRepo   bet.Repository
	scoreRepo score.Repository
	userRepo  user.Repository
	idGen     idgen.Generator
	logger    *logging.Logger
	workers   int
}

func NewAggregationService(
	weekRepo week.Repository,
	matchRepo match.Repository,
	betRepo bet.Repository,
	scoreRepo score.Repository,
	userRepo user.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
	workers int,
) *AggregationService {
	if workers < 1 {
		workers = defaultAggregationWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AggregationService{
		weekRepo:  weekRepo,
		matchRepo: matchRepo,
		betRepo:   betRepo,
		scoreRepo: scoreRepo,
		userRepo:  userRepo,
		idGen:     idGen,
		logger:    logger,
		workers:   workers,
	}
}

// RecomputeWeek re-scores every user's bets on the week's completed matches,
// overwrites their weekly score and refreshes their total. It is safe to run
// repeatedly; the latest run wins.
func (s *AggregationService) RecomputeWeek(ctx context.Context, weekID string) (AggregationReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.RecomputeWeek")
	defer span.End()

	weekID = strings.TrimSpace(weekID)
	report := newAggregationReport(weekID)

	if _, exists, err := s.weekRepo.GetByID(ctx, weekID); err != nil {
		return report, fmt.Errorf("get week: %w", err)
	} else if !exists {
		return report, fmt.Errorf("%w: week=%s", ErrNotFound, weekID)
	}

	matches, err := s.matchRepo.ListByWeek(ctx, weekID)
	if err != nil {
		return report, fmt.Errorf("list week matches: %w", err)
	}
	completed := matches[:0:0]
	for _, m := range matches {
		if m.Completed() {
			completed = append(completed, m)
		}
	}
	report.CompletedMatches = len(completed)
	if len(completed) == 0 {
		report.NothingToScore = true
		s.logger.InfoContext(ctx, "week has no completed matches", "week_id", weekID)
		return report, nil
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list users: %w", err)
	}

	err = s.forEachUser(ctx, userIDs(users), &report, func(ctx context.Context, userID string) (float64, float64, error) {
		weekly, err := s.scoreUserWeek(ctx, userID, weekID, completed)
		if err != nil {
			return 0, 0, err
		}
		total, err := s.refreshTotal(ctx, userID)
		return weekly, total, err
	})
	if err != nil {
		return report, err
	}

	span.SetAttributes(
		attribute.Int("aggregation.users_processed", report.UsersProcessed),
		attribute.Int("aggregation.users_skipped", report.UsersSkipped),
	)
	return report, nil
}

// ZeroWeek sets every existing weekly score of the week to 0 and refreshes
// the affected totals. Used once a week no longer has any completed match.
func (s *AggregationService) ZeroWeek(ctx context.Context, weekID string) (AggregationReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.ZeroWeek")
	defer span.End()

	report := newAggregationReport(weekID)
	report.NothingToScore = true

	rows, err := s.scoreRepo.ListByWeek(ctx, weekID)
	if err != nil {
		return report, fmt.Errorf("list week scores: %w", err)
	}
	ids := make(map[string]string, len(rows))
	users := make([]string, 0, len(rows))
	for _, row := range rows {
		ids[row.UserID] = row.ID
		users = append(users, row.UserID)
	}

	err = s.forEachUser(ctx, users, &report, func(ctx context.Context, userID string) (float64, float64, error) {
		if err := s.scoreRepo.UpsertWeekly(ctx, ids[userID], userID, weekID, 0); err != nil {
			return 0, 0, fmt.Errorf("reset weekly score: %w", err)
		}
		total, err := s.refreshTotal(ctx, userID)
		return 0, total, err
	})
	return report, err
}

// RefreshTotals rewrites the denormalized total for each user.
func (s *AggregationService) RefreshTotals(ctx context.Context, userIDs []string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.RefreshTotals")
	defer span.End()

	if len(userIDs) == 0 {
		return nil
	}
	p := pool.New().
		WithErrors().
		WithContext(ctx).
		WithMaxGoroutines(min(s.workers, len(userIDs)))
	for _, userID := range userIDs {
		p.Go(func(ctx context.Context) error {
			_, err := s.refreshTotal(ctx, userID)
			return err
		})
	}
	return p.Wait()
}

type userAggregation func(ctx context.Context, userID string) (weekly, total float64, err error)

// forEachUser runs fn per user on a bounded pool. A failing or panicking
// user is logged and counted as skipped.
func (s *AggregationService) forEachUser(ctx context.Context, users []string, report *AggregationReport, fn userAggregation) error {
	if len(users) == 0 {
		return nil
	}

	workers := min(s.workers, len(users))
	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		processed atomic.Int32
		skipped   atomic.Int32
	)
	for _, userID := range users {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					skipped.Add(1)
					s.logger.ErrorContext(ctx, "aggregation panicked for user", "week_id", report.WeekID, "user_id", userID, "panic", r)
				}
			}()

			weekly, total, err := fn(ctx, userID)
			if err != nil {
				skipped.Add(1)
				s.logger.WarnContext(ctx, "aggregation skipped user", "week_id", report.WeekID, "user_id", userID, "error", err)
				return
			}
			processed.Add(1)
			mu.Lock()
			report.WeeklyScoresByUser[userID] = weekly
			report.TotalScoresByUser[userID] = total
			mu.Unlock()
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit aggregation task: %w", err)
		}
	}
	wg.Wait()

	report.UsersProcessed = int(processed.Load())
	report.UsersSkipped = int(skipped.Load())
	return nil
}

func (s *AggregationService) scoreUserWeek(ctx context.Context, userID, weekID string, completed []match.Match) (float64, error) {
	bets, err := s.betRepo.ListByUserAndWeek(ctx, userID, weekID)
	if err != nil {
		return 0, fmt.Errorf("list user bets: %w", err)
	}
	byMatch := make(map[string]bet.Bet, len(bets))
	for _, b := range bets {
		byMatch[b.MatchID] = b
	}

	var weekly float64
	for _, m := range completed {
		b, ok := byMatch[m.ID]
		if !ok {
			continue
		}
		points := scoring.ScoreBet(b.Prediction, *m.Result, m.Odds)
		if points != b.Points {
			if err := s.betRepo.UpdatePoints(ctx, b.ID, points); err != nil {
				return 0, fmt.Errorf("update bet points: %w", err)
			}
		}
		weekly += points
	}
	weekly = scoring.RoundOneDecimal(weekly)

	id, err := s.idGen.NewID()
	if err != nil {
		return 0, fmt.Errorf("generate score id: %w", err)
	}
	if err := s.scoreRepo.UpsertWeekly(ctx, id, userID, weekID, weekly); err != nil {
		return 0, fmt.Errorf("upsert weekly score: %w", err)
	}
	return weekly, nil
}

func (s *AggregationService) refreshTotal(ctx context.Context, userID string) (float64, error) {
	total, err := s.scoreRepo.RefreshTotalForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("refresh total score: %w", err)
	}
	return total, nil
}

func newAggregationReport(weekID string) AggregationReport {
	return AggregationReport{
		WeekID:             weekID,
		WeeklyScoresByUser: map[string]float64{},
		TotalScoresByUser:  map[string]float64{},
	}
}

func userIDs(users []user.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}
