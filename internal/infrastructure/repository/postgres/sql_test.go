package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	if !isUniqueViolation(fmt.Errorf("insert league: %w", &pq.Error{Code: "23505"})) {
		t.Fatalf("expected wrapped 23505 to be a unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("foreign key violation is not a unique violation")
	}
	if isUniqueViolation(sql.ErrNoRows) {
		t.Fatalf("ErrNoRows is not a unique violation")
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(fmt.Errorf("get week: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
}

func TestNullFloatRoundTrip(t *testing.T) {
	t.Parallel()

	if floatPtr(nullFloat(nil)) != nil {
		t.Fatalf("nil should stay nil")
	}
	v := 2.5
	got := floatPtr(nullFloat(&v))
	if got == nil || *got != 2.5 {
		t.Fatalf("unexpected round trip: %v", got)
	}
}

func TestMatchRowMapping(t *testing.T) {
	t.Parallel()

	row := matchTableModel{
		ID:         "m1",
		Team1Goals: sql.NullInt64{Int64: 2, Valid: true},
		Team2Goals: sql.NullInt64{Int64: 0, Valid: true},
		OddsDraw:   sql.NullFloat64{Float64: 3.2, Valid: true},
	}
	m := row.toDomain()
	if m.Result == nil || m.Result.Team1Goals != 2 || m.Result.Team2Goals != 0 {
		t.Fatalf("unexpected result mapping: %+v", m.Result)
	}
	if m.Odds == nil || m.Odds.HomeWin != nil || m.Odds.Draw == nil || *m.Odds.Draw != 3.2 {
		t.Fatalf("unexpected odds mapping: %+v", m.Odds)
	}

	half := matchTableModel{ID: "m2", Team1Goals: sql.NullInt64{Int64: 1, Valid: true}}
	if half.toDomain().Result != nil {
		t.Fatalf("partial result must map to no result")
	}
}

func TestRefreshTotalQuerySumsInOneStatement(t *testing.T) {
	t.Parallel()

	query, args, err := refreshTotalQuery("u1")
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	want := "UPDATE scores SET total_score = (SELECT ROUND(COALESCE(SUM(s.weekly_score), 0)::numeric, 1) FROM scores s WHERE s.user_id = $1), updated_at = NOW() WHERE user_id = $2 RETURNING total_score"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 || args[0] != "u1" || args[1] != "u1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
