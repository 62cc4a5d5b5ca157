package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/league"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
	idgen "github.com/riskibarqy/score-predictor/internal/platform/id"
)

type MatchInput struct {
	LeagueID string
	Team1    string
	Team2    string
	Date     string
	Time     string
	Odds     *match.Odds
}

// MatchChange is a match write together with the aggregation it triggered.
type MatchChange struct {
	Match  match.Match
	Report AggregationReport
}

type weekScorer interface {
	RecomputeWeek(ctx context.Context, weekID string) (AggregationReport, error)
	ZeroWeek(ctx context.Context, weekID string) (AggregationReport, error)
}

type MatchService struct {
	matchRepo  match.Repository
	weekRepo   week.Repository
	leagueRepo league.Repository
	betRepo    bet.Repository
	scorer     weekScorer
	idGen      idgen.Generator
	now        func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	weekRepo week.Repository,
	leagueRepo league.Repository,
	betRepo bet.Repository,
	scorer weekScorer,
	idGen idgen.Generator,
) *MatchService {
	return &MatchService{
		matchRepo:  matchRepo,
		weekRepo:   weekRepo,
		leagueRepo: leagueRepo,
		betRepo:    betRepo,
		scorer:     scorer,
		idGen:      idGen,
		now:        time.Now,
	}
}

func (s *MatchService) ListByWeek(ctx context.Context, weekID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByWeek")
	defer span.End()

	weekID = strings.TrimSpace(weekID)
	if _, exists, err := s.weekRepo.GetByID(ctx, weekID); err != nil {
		return nil, fmt.Errorf("get week: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: week=%s", ErrNotFound, weekID)
	}
	items, err := s.matchRepo.ListByWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	m, exists, err := s.matchRepo.GetByID(ctx, strings.TrimSpace(matchID))
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return m, nil
}

func (s *MatchService) Create(ctx context.Context, weekID string, input MatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	weekID = strings.TrimSpace(weekID)
	if _, exists, err := s.weekRepo.GetByID(ctx, weekID); err != nil {
		return match.Match{}, fmt.Errorf("get week: %w", err)
	} else if !exists {
		return match.Match{}, fmt.Errorf("%w: week=%s", ErrNotFound, weekID)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	now := s.now().UTC()
	m := applyMatchInput(match.Match{ID: id, WeekID: weekID, CreatedAt: now}, input)
	m.Odds = input.Odds
	m.UpdatedAt = now

	if err := s.checkMatch(ctx, m); err != nil {
		return match.Match{}, err
	}
	if err := s.matchRepo.Create(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	return m, nil
}

// Update edits fixture details. Result and odds have their own operations.
func (s *MatchService) Update(ctx context.Context, matchID string, input MatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update")
	defer span.End()

	m, err := s.Get(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	m = applyMatchInput(m, input)
	m.UpdatedAt = s.now().UTC()
	if err := s.checkMatch(ctx, m); err != nil {
		return match.Match{}, err
	}
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}
	return m, nil
}

// SetOdds replaces the odds; nil clears them. Completed matches are
// re-scored since odds change their points.
func (s *MatchService) SetOdds(ctx context.Context, matchID string, odds *match.Odds) (MatchChange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SetOdds")
	defer span.End()

	m, err := s.Get(ctx, matchID)
	if err != nil {
		return MatchChange{}, err
	}
	if odds != nil {
		if err := odds.Validate(); err != nil {
			return MatchChange{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	m.Odds = odds
	m.UpdatedAt = s.now().UTC()
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return MatchChange{}, fmt.Errorf("update match odds: %w", err)
	}
	if !m.Completed() {
		return MatchChange{Match: m, Report: newAggregationReport(m.WeekID)}, nil
	}
	report, err := s.scorer.RecomputeWeek(ctx, m.WeekID)
	if err != nil {
		return MatchChange{}, fmt.Errorf("recompute week: %w", err)
	}
	return MatchChange{Match: m, Report: report}, nil
}

// SetResult records the final score and re-scores the week before
// returning. Results may be written regardless of the betting window.
func (s *MatchService) SetResult(ctx context.Context, matchID string, result match.Result) (MatchChange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SetResult")
	defer span.End()

	if err := result.Validate(); err != nil {
		return MatchChange{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	m, err := s.Get(ctx, matchID)
	if err != nil {
		return MatchChange{}, err
	}
	m.Result = &result
	m.UpdatedAt = s.now().UTC()
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return MatchChange{}, fmt.Errorf("update match result: %w", err)
	}

	report, err := s.scorer.RecomputeWeek(ctx, m.WeekID)
	if err != nil {
		return MatchChange{}, fmt.Errorf("recompute week: %w", err)
	}
	return MatchChange{Match: m, Report: report}, nil
}

// ClearResult removes the result, zeroes the points of its bets and
// re-scores the week.
func (s *MatchService) ClearResult(ctx context.Context, matchID string) (MatchChange, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ClearResult")
	defer span.End()

	m, err := s.Get(ctx, matchID)
	if err != nil {
		return MatchChange{}, err
	}
	m.Result = nil
	m.UpdatedAt = s.now().UTC()
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return MatchChange{}, fmt.Errorf("clear match result: %w", err)
	}
	if err := s.betRepo.ResetPointsByMatch(ctx, m.ID); err != nil {
		return MatchChange{}, fmt.Errorf("reset bet points: %w", err)
	}

	report, err := s.settleWeek(ctx, m.WeekID)
	if err != nil {
		return MatchChange{}, err
	}
	return MatchChange{Match: m, Report: report}, nil
}

// Delete removes the match and its bets, then re-scores the week so no
// stale points survive.
func (s *MatchService) Delete(ctx context.Context, matchID string) (AggregationReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	m, err := s.Get(ctx, matchID)
	if err != nil {
		return AggregationReport{}, err
	}
	if err := s.matchRepo.Delete(ctx, m.ID); err != nil {
		return AggregationReport{}, fmt.Errorf("delete match: %w", err)
	}
	return s.settleWeek(ctx, m.WeekID)
}

func (s *MatchService) settleWeek(ctx context.Context, weekID string) (AggregationReport, error) {
	report, err := s.scorer.RecomputeWeek(ctx, weekID)
	if err != nil {
		return AggregationReport{}, fmt.Errorf("recompute week: %w", err)
	}
	if !report.NothingToScore {
		return report, nil
	}
	report, err = s.scorer.ZeroWeek(ctx, weekID)
	if err != nil {
		return AggregationReport{}, fmt.Errorf("zero week: %w", err)
	}
	return report, nil
}

func (s *MatchService) checkMatch(ctx context.Context, m match.Match) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, exists, err := s.leagueRepo.GetByID(ctx, m.LeagueID); err != nil {
		return fmt.Errorf("get league: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, m.LeagueID)
	}
	return nil
}

func applyMatchInput(m match.Match, input MatchInput) match.Match {
	m.LeagueID = strings.TrimSpace(input.LeagueID)
	m.Team1 = strings.TrimSpace(input.Team1)
	m.Team2 = strings.TrimSpace(input.Team2)
	m.Date = strings.TrimSpace(input.Date)
	m.Time = strings.TrimSpace(input.Time)
	return m
}
