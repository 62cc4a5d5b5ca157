package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/league"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	idgen "github.com/riskibarqy/score-predictor/internal/platform/id"
)

type LeagueInput struct {
	Name   string
	Key    string
	Color  string
	Type   league.Type
	Region string
	Active bool
	Order  int
}

type LeagueService struct {
	leagueRepo league.Repository
	matchRepo  match.Repository
	idGen      idgen.Generator
	now        func() time.Time
}

func NewLeagueService(leagueRepo league.Repository, matchRepo match.Repository, idGen idgen.Generator) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		matchRepo:  matchRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

// List returns leagues by display order, then name.
func (s *LeagueService) List(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.List")
	defer span.End()

	items, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (s *LeagueService) Get(ctx context.Context, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Get")
	defer span.End()

	item, exists, err := s.leagueRepo.GetByID(ctx, strings.TrimSpace(leagueID))
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return item, nil
}

func (s *LeagueService) Create(ctx context.Context, input LeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Create")
	defer span.End()

	id, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}
	now := s.now().UTC()
	item := applyLeagueInput(league.League{ID: id, CreatedAt: now}, input)
	item.UpdatedAt = now

	if err := s.checkLeague(ctx, item); err != nil {
		return league.League{}, err
	}
	if err := s.leagueRepo.Create(ctx, item); err != nil {
		return league.League{}, mapLeagueWriteErr(err)
	}
	return item, nil
}

func (s *LeagueService) Update(ctx context.Context, leagueID string, input LeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Update")
	defer span.End()

	current, err := s.Get(ctx, leagueID)
	if err != nil {
		return league.League{}, err
	}
	item := applyLeagueInput(current, input)
	item.UpdatedAt = s.now().UTC()

	if err := s.checkLeague(ctx, item); err != nil {
		return league.League{}, err
	}
	if err := s.leagueRepo.Update(ctx, item); err != nil {
		return league.League{}, mapLeagueWriteErr(err)
	}
	return item, nil
}

// Delete refuses while any match still references the league.
func (s *LeagueService) Delete(ctx context.Context, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Delete")
	defer span.End()

	item, err := s.Get(ctx, leagueID)
	if err != nil {
		return err
	}
	count, err := s.matchRepo.CountByLeague(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("count league matches: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: league is used by %d match(es)", ErrConflict, count)
	}
	if err := s.leagueRepo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}
	return nil
}

func (s *LeagueService) checkLeague(ctx context.Context, item league.League) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	other, exists, err := s.leagueRepo.GetByKey(ctx, item.Key)
	if err != nil {
		return fmt.Errorf("get league by key: %w", err)
	}
	if exists && other.ID != item.ID {
		return fmt.Errorf("%w: league key %q already exists", ErrConflict, item.Key)
	}
	return nil
}

func applyLeagueInput(item league.League, input LeagueInput) league.League {
	item.Name = strings.TrimSpace(input.Name)
	item.Key = league.NormalizeKey(input.Key)
	item.Color = strings.TrimSpace(input.Color)
	item.Type = input.Type
	item.Region = strings.TrimSpace(input.Region)
	item.Active = input.Active
	item.Order = input.Order
	return item
}

func mapLeagueWriteErr(err error) error {
	if errors.Is(err, league.ErrDuplicateKey) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return fmt.Errorf("save league: %w", err)
}
