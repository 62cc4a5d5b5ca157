package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/score-predictor/internal/domain/league"
	qb "github.com/riskibarqy/score-predictor/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select(leagueColumns).From("leagues").
		OrderBy("display_order", "name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, "get league by id", qb.Eq("id", leagueID))
}

func (r *LeagueRepository) GetByKey(ctx context.Context, key string) (league.League, bool, error) {
	return r.getOne(ctx, "get league by key", qb.Eq("key", league.NormalizeKey(key)))
}

func (r *LeagueRepository) getOne(ctx context.Context, op string, cond qb.Condition) (league.League, bool, error) {
	query, args, err := qb.Select(leagueColumns).From("leagues").Where(cond).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	query, args, err := qb.InsertModel("leagues", leagueModel(l), "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", league.ErrDuplicateKey, l.Key)
		}
		return fmt.Errorf("insert league: %w", err)
	}
	return nil
}

func (r *LeagueRepository) Update(ctx context.Context, l league.League) error {
	query, args, err := qb.Update("leagues").
		Set("name", l.Name).
		Set("key", l.Key).
		Set("color", l.Color).
		Set("type", string(l.Type)).
		Set("region", l.Region).
		Set("active", l.Active).
		Set("display_order", l.Order).
		Set("updated_at", l.UpdatedAt).
		Where(qb.Eq("id", l.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update league query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", league.ErrDuplicateKey, l.Key)
		}
		return fmt.Errorf("update league: %w", err)
	}
	return requireRow(res, "league", l.ID)
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	query, args, err := qb.DeleteFrom("leagues").Where(qb.Eq("id", leagueID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete league query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete league: %w", err)
	}
	return requireRow(res, "league", leagueID)
}
