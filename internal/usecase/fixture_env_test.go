package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/notification"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/score-predictor/internal/platform/id"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type recordingGateway struct {
	mu     sync.Mutex
	calls  []notification.Audience
	msgs   []notification.Message
	result notification.DeliveryResult
	err    error
}

func (g *recordingGateway) Send(_ context.Context, audience notification.Audience, msg notification.Message) (notification.DeliveryResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, audience)
	g.msgs = append(g.msgs, msg)
	return g.result, g.err
}

type testEnv struct {
	store       *memory.Store
	ids         *idgen.Sequence
	gateway     *recordingGateway
	lock        *LockService
	bets        *BetService
	aggregation *AggregationService
	leaderboard *LeaderboardService
	weeks       *WeekService
	matches     *MatchService
	leagues     *LeagueService
	users       *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	store.Seed(memory.SeedLeagues(testNow))
	ids := &idgen.Sequence{Prefix: "id-"}
	gateway := &recordingGateway{}
	logger := logging.NewNop()
	clock := func() time.Time { return testNow }

	lock := NewLockService(store.Weeks(), logger)
	lock.now = clock
	aggregation := NewAggregationService(store.Weeks(), store.Matches(), store.Bets(), store.Scores(), store.Users(), ids, logger, 3)
	bets := NewBetService(store.Bets(), store.Matches(), store.Weeks(), store.Users(), lock, aggregation, ids)
	bets.now = clock
	weeks := NewWeekService(store.Weeks(), store.Matches(), store.Scores(), aggregation, gateway, ids, logger, time.UTC)
	weeks.now = clock
	matches := NewMatchService(store.Matches(), store.Weeks(), store.Leagues(), store.Bets(), aggregation, ids)
	matches.now = clock
	leagues := NewLeagueService(store.Leagues(), store.Matches(), ids)
	leagues.now = clock
	users := NewUserService(store.Users())
	users.now = clock

	return &testEnv{
		store:       store,
		ids:         ids,
		gateway:     gateway,
		lock:        lock,
		bets:        bets,
		aggregation: aggregation,
		leaderboard: NewLeaderboardService(store.Scores(), store.Users()),
		weeks:       weeks,
		matches:     matches,
		leagues:     leagues,
		users:       users,
	}
}

func (e *testEnv) addUser(t *testing.T, id string, role user.Role) {
	t.Helper()
	if _, err := e.users.EnsureUser(context.Background(), EnsureUserInput{UserID: id, Username: id, Role: role}); err != nil {
		t.Fatalf("ensure user %s: %v", id, err)
	}
}

// openWeek creates an active week locking one day after testNow.
func (e *testEnv) openWeek(t *testing.T, name string) week.Week {
	t.Helper()
	ctx := context.Background()
	w, err := e.weeks.Create(ctx, WeekInput{Name: name, Month: 3, Season: "2025/26"})
	if err != nil {
		t.Fatalf("create week: %v", err)
	}
	lockTime := testNow.Add(24 * time.Hour)
	res, err := e.weeks.Activate(ctx, ActivateWeekInput{WeekID: w.ID, LockTime: &lockTime})
	if err != nil {
		t.Fatalf("activate week: %v", err)
	}
	return res.Week
}

func (e *testEnv) addMatch(t *testing.T, weekID string, odds *match.Odds) match.Match {
	t.Helper()
	m, err := e.matches.Create(context.Background(), weekID, MatchInput{
		LeagueID: "lg-bundesliga-at",
		Team1:    "Rapid",
		Team2:    "Sturm",
		Date:     "15.3",
		Time:     "17:00",
		Odds:     odds,
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return m
}

func (e *testEnv) bet(t *testing.T, userID, matchID string, team1, team2 int) bet.Bet {
	t.Helper()
	b, err := e.bets.Submit(context.Background(), SubmitBetInput{
		UserID:     userID,
		MatchID:    matchID,
		Prediction: bet.Prediction{Team1Goals: team1, Team2Goals: team2},
	})
	if err != nil {
		t.Fatalf("submit bet %s/%s: %v", userID, matchID, err)
	}
	return b
}

func odd(v float64) *float64 { return &v }
