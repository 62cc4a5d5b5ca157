package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
	qb "github.com/riskibarqy/score-predictor/internal/platform/querybuilder"
)

type WeekRepository struct {
	db *sqlx.DB
}

func NewWeekRepository(db *sqlx.DB) *WeekRepository {
	return &WeekRepository{db: db}
}

func (r *WeekRepository) List(ctx context.Context) ([]week.Week, error) {
	return r.list(ctx, "select weeks")
}

func (r *WeekRepository) ListActive(ctx context.Context) ([]week.Week, error) {
	return r.list(ctx, "select active weeks", qb.Eq("active", true))
}

func (r *WeekRepository) list(ctx context.Context, op string, conds ...qb.Condition) ([]week.Week, error) {
	query, args, err := qb.Select(weekColumns).From("weeks").
		Where(conds...).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []weekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]week.Week, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *WeekRepository) GetByID(ctx context.Context, weekID string) (week.Week, bool, error) {
	query, args, err := qb.Select(weekColumns).From("weeks").Where(qb.Eq("id", weekID)).ToSQL()
	if err != nil {
		return week.Week{}, false, fmt.Errorf("build get week query: %w", err)
	}

	var row weekTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return week.Week{}, false, nil
		}
		return week.Week{}, false, fmt.Errorf("get week: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *WeekRepository) Create(ctx context.Context, w week.Week) error {
	query, args, err := qb.InsertModel("weeks", weekModel(w), "")
	if err != nil {
		return fmt.Errorf("build insert week query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert week: %w", err)
	}
	return nil
}

func (r *WeekRepository) Update(ctx context.Context, w week.Week) error {
	query, args, err := qb.Update("weeks").
		Set("name", w.Name).
		Set("month", w.Month).
		Set("season", w.Season).
		Set("active", w.Active).
		Set("locked", w.Locked).
		Set("lock_time", w.LockTime).
		Set("reminder_sent_at", w.ReminderSentAt).
		Set("updated_at", w.UpdatedAt).
		Where(qb.Eq("id", w.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update week query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update week: %w", err)
	}
	return requireRow(res, "week", w.ID)
}

func (r *WeekRepository) MarkLocked(ctx context.Context, weekID string) error {
	query, args, err := qb.Update("weeks").
		Set("locked", true).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", weekID), qb.Eq("locked", false)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock week query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("lock week: %w", err)
	}
	return nil
}

func (r *WeekRepository) MarkReminderSent(ctx context.Context, weekID string, at time.Time) error {
	query, args, err := qb.Update("weeks").
		Set("reminder_sent_at", at).
		Where(qb.Eq("id", weekID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark reminder query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return requireRow(res, "week", weekID)
}

// Delete removes bets, scores and matches of the week before the week row,
// all in one transaction.
func (r *WeekRepository) Delete(ctx context.Context, weekID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete week tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"bets", "scores", "matches"} {
		query, args, err := qb.DeleteFrom(table).Where(qb.Eq("week_id", weekID)).ToSQL()
		if err != nil {
			return fmt.Errorf("build delete %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s of week: %w", table, err)
		}
	}

	query, args, err := qb.DeleteFrom("weeks").Where(qb.Eq("id", weekID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete week query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete week: %w", err)
	}
	if err := requireRow(res, "week", weekID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete week tx: %w", err)
	}
	return nil
}
