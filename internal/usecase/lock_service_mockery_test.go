package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/week"
	weekmock "github.com/riskibarqy/score-predictor/internal/mocks/domain/week"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestLockService_CheckAndMaybeLock_PersistsExpiredLockUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := weekmock.NewRepository(t)
	service := NewLockService(repo, logging.NewNop())
	service.now = func() time.Time { return testNow }

	past := testNow.Add(-time.Minute)
	repo.
		On("GetByID", mock.Anything, "w1").
		Return(week.Week{ID: "w1", Active: true, LockTime: &past}, true, nil).
		Once()
	repo.
		On("MarkLocked", mock.Anything, "w1").
		Return(nil).
		Once()

	got, err := service.CheckAndMaybeLock(ctx, "w1", false)
	if err != nil {
		t.Fatalf("check lock: %v", err)
	}
	if got.Allowed || got.Reason != week.ReasonExpired {
		t.Fatalf("unexpected check: %+v", got)
	}
}

func TestLockService_CheckAndMaybeLock_PersistFailureIsNotFatalUsingMockery(t *testing.T) {
	t.Parallel()

	repo := weekmock.NewRepository(t)
	service := NewLockService(repo, logging.NewNop())
	service.now = func() time.Time { return testNow }

	past := testNow.Add(-time.Hour)
	repo.On("GetByID", mock.Anything, "w1").Return(week.Week{ID: "w1", Active: true, LockTime: &past}, true, nil).Once()
	repo.On("MarkLocked", mock.Anything, "w1").Return(errors.New("db down")).Once()

	got, err := service.CheckAndMaybeLock(context.Background(), "w1", false)
	if err != nil {
		t.Fatalf("expected lock persistence failure to be swallowed, got %v", err)
	}
	if got.Reason != week.ReasonExpired {
		t.Fatalf("unexpected reason %q", got.Reason)
	}
}

func TestLockService_CheckAndMaybeLock_ExplicitLockSkipsPersistUsingMockery(t *testing.T) {
	t.Parallel()

	repo := weekmock.NewRepository(t)
	service := NewLockService(repo, logging.NewNop())
	service.now = func() time.Time { return testNow }

	future := testNow.Add(time.Hour)
	repo.On("GetByID", mock.Anything, "w1").Return(week.Week{ID: "w1", Active: true, Locked: true, LockTime: &future}, true, nil).Once()

	got, err := service.CheckAndMaybeLock(context.Background(), "w1", false)
	if err != nil {
		t.Fatalf("check lock: %v", err)
	}
	if got.Allowed || got.Reason != week.ReasonLocked {
		t.Fatalf("unexpected check: %+v", got)
	}
}

func TestLockService_CheckAndMaybeLock_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	repo := weekmock.NewRepository(t)
	service := NewLockService(repo, logging.NewNop())

	repo.On("GetByID", mock.Anything, "missing").Return(week.Week{}, false, nil).Once()

	got, err := service.CheckAndMaybeLock(context.Background(), "missing", false)
	if err != nil {
		t.Fatalf("check lock: %v", err)
	}
	if got.Allowed || got.Reason != week.ReasonNotFound {
		t.Fatalf("unexpected check: %+v", got)
	}

	repo.On("GetByID", mock.Anything, "missing").Return(week.Week{}, false, nil).Once()
	if _, err := service.RequireBettingOpen(context.Background(), "missing", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLockService_ExpiredWeekReadsBackLocked(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	w := env.openWeek(t, "Week 11")

	past := testNow.Add(-time.Minute)
	if _, err := env.weeks.Unlock(ctx, w.ID, &past); err != nil {
		t.Fatalf("unlock with past lock time: %v", err)
	}

	got, err := env.lock.CheckAndMaybeLock(ctx, w.ID, false)
	if err != nil {
		t.Fatalf("check lock: %v", err)
	}
	if got.Allowed || got.Reason != week.ReasonExpired {
		t.Fatalf("unexpected check: %+v", got)
	}

	stored, err := env.weeks.Get(ctx, w.ID)
	if err != nil {
		t.Fatalf("get week: %v", err)
	}
	if !stored.Locked {
		t.Fatalf("expected lazy lock to be persisted")
	}

	again, _ := env.lock.CheckAndMaybeLock(ctx, w.ID, false)
	if again.Reason != week.ReasonLocked {
		t.Fatalf("expected reason locked after persistence, got %q", again.Reason)
	}
}
