package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	qb "github.com/riskibarqy/score-predictor/internal/platform/querybuilder"
)

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

// Upsert relies on the (user_id, match_id) unique index so concurrent
// submissions converge on one row.
func (r *BetRepository) Upsert(ctx context.Context, b bet.Bet) (bet.Bet, error) {
	query, args, err := qb.InsertInto("bets").
		Columns("id", "user_id", "match_id", "week_id", "team1_goals", "team2_goals", "points", "created_at", "updated_at").
		Values(b.ID, b.UserID, b.MatchID, b.WeekID, b.Prediction.Team1Goals, b.Prediction.Team2Goals, b.Points, b.CreatedAt, b.UpdatedAt).
		Suffix(`ON CONFLICT (user_id, match_id) DO UPDATE SET
			team1_goals = EXCLUDED.team1_goals,
			team2_goals = EXCLUDED.team2_goals,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + betColumns).
		ToSQL()
	if err != nil {
		return bet.Bet{}, fmt.Errorf("build upsert bet query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return bet.Bet{}, fmt.Errorf("upsert bet: %w", err)
	}
	return row.toDomain(), nil
}

func (r *BetRepository) GetByID(ctx context.Context, betID string) (bet.Bet, bool, error) {
	return r.getOne(ctx, "get bet", qb.Eq("id", betID))
}

func (r *BetRepository) GetByUserAndMatch(ctx context.Context, userID, matchID string) (bet.Bet, bool, error) {
	return r.getOne(ctx, "get bet by user and match", qb.Eq("user_id", userID), qb.Eq("match_id", matchID))
}

func (r *BetRepository) getOne(ctx context.Context, op string, conds ...qb.Condition) (bet.Bet, bool, error) {
	query, args, err := qb.Select(betColumns).From("bets").Where(conds...).ToSQL()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return row.toDomain(), true, nil
}

func (r *BetRepository) ListByWeek(ctx context.Context, weekID string) ([]bet.Bet, error) {
	return r.list(ctx, "select bets by week", qb.Eq("week_id", weekID))
}

func (r *BetRepository) ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]bet.Bet, error) {
	return r.list(ctx, "select bets by user and week", qb.Eq("user_id", userID), qb.Eq("week_id", weekID))
}

func (r *BetRepository) ListByUser(ctx context.Context, userID string) ([]bet.Bet, error) {
	return r.list(ctx, "select bets by user", qb.Eq("user_id", userID))
}

func (r *BetRepository) list(ctx context.Context, op string, conds ...qb.Condition) ([]bet.Bet, error) {
	query, args, err := qb.Select(betColumns).From("bets").
		Where(conds...).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BetRepository) UpdatePoints(ctx context.Context, betID string, points float64) error {
	query, args, err := qb.Update("bets").
		Set("points", points).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", betID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update bet points query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update bet points: %w", err)
	}
	return nil
}

func (r *BetRepository) ResetPointsByMatch(ctx context.Context, matchID string) error {
	query, args, err := qb.Update("bets").
		Set("points", 0).
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build reset bet points query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset bet points: %w", err)
	}
	return nil
}

func (r *BetRepository) Delete(ctx context.Context, betID string) error {
	query, args, err := qb.DeleteFrom("bets").Where(qb.Eq("id", betID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete bet query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete bet: %w", err)
	}
	return nil
}
