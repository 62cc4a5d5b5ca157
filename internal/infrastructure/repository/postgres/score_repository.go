package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/score-predictor/internal/domain/score"
	qb "github.com/riskibarqy/score-predictor/internal/platform/querybuilder"
)

type ScoreRepository struct {
	db *sqlx.DB
}

func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) UpsertWeekly(ctx context.Context, id, userID, weekID string, weekly float64) error {
	query, args, err := qb.InsertInto("scores").
		Columns("id", "user_id", "week_id", "weekly_score", "total_score").
		Values(id, userID, weekID, weekly, 0).
		Suffix(`ON CONFLICT (user_id, week_id) DO UPDATE SET
			weekly_score = EXCLUDED.weekly_score,
			updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert score query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert weekly score: %w", err)
	}
	return nil
}

func (r *ScoreRepository) ListByUser(ctx context.Context, userID string) ([]score.Score, error) {
	return r.list(ctx, "select scores by user", qb.Eq("user_id", userID))
}

func (r *ScoreRepository) ListByWeek(ctx context.Context, weekID string) ([]score.Score, error) {
	return r.list(ctx, "select scores by week", qb.Eq("week_id", weekID))
}

func (r *ScoreRepository) ListAll(ctx context.Context) ([]score.Score, error) {
	return r.list(ctx, "select scores")
}

func (r *ScoreRepository) list(ctx context.Context, op string, conds ...qb.Condition) ([]score.Score, error) {
	query, args, err := qb.Select(scoreColumns).From("scores").
		Where(conds...).
		OrderBy("seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []scoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]score.Score, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// RefreshTotalForUser sums and writes the total in a single statement.
func (r *ScoreRepository) RefreshTotalForUser(ctx context.Context, userID string) (float64, error) {
	query, args, err := refreshTotalQuery(userID)
	if err != nil {
		return 0, fmt.Errorf("build refresh total score query: %w", err)
	}

	var totals []float64
	if err := r.db.SelectContext(ctx, &totals, query, args...); err != nil {
		return 0, fmt.Errorf("refresh total score: %w", err)
	}
	if len(totals) == 0 {
		return 0, nil
	}
	return totals[0], nil
}

func refreshTotalQuery(userID string) (string, []any, error) {
	query, args, err := qb.Update("scores").
		SetExpr("total_score", "(SELECT ROUND(COALESCE(SUM(s.weekly_score), 0)::numeric, 1) FROM scores s WHERE s.user_id = ?)", userID).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return "", nil, err
	}
	return query + " RETURNING total_score", args, nil
}
