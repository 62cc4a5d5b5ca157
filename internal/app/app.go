package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/score-predictor/internal/config"
	"github.com/riskibarqy/score-predictor/internal/domain/bet"
	"github.com/riskibarqy/score-predictor/internal/domain/league"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/notification"
	"github.com/riskibarqy/score-predictor/internal/domain/score"
	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/domain/week"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/auth"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/push"
	cacherepo "github.com/riskibarqy/score-predictor/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/score-predictor/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/score-predictor/internal/platform/cache"
	idgen "github.com/riskibarqy/score-predictor/internal/platform/id"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

// App is the wired API process. Reminders is nil when reminders are off.
type App struct {
	Server    *http.Server
	Reminders *usecase.ReminderService

	closers []func() error
}

type repositories struct {
	leagues league.Repository
	weeks   week.Repository
	matches match.Repository
	bets    bet.Repository
	scores  score.Repository
	users   user.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app := &App{}
	repos, err := app.openRepositories(ctx, cfg, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if cfg.CacheEnabled {
		repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, basecache.NewStore[any](cfg.CacheTTL))
	}

	gateway, err := newNotificationGateway(cfg, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	verifier, err := auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("build token verifier: %w", err)
	}

	ids := idgen.NewUUIDGenerator()
	lock := usecase.NewLockService(repos.weeks, logger)
	aggregation := usecase.NewAggregationService(repos.weeks, repos.matches, repos.bets, repos.scores, repos.users, ids, logger, cfg.AggregationWorkers)
	users := usecase.NewUserService(repos.users)

	handler := httpapi.NewHandler(httpapi.Services{
		Leagues:     usecase.NewLeagueService(repos.leagues, repos.matches, ids),
		Weeks:       usecase.NewWeekService(repos.weeks, repos.matches, repos.scores, aggregation, gateway, ids, logger, cfg.Location),
		Matches:     usecase.NewMatchService(repos.matches, repos.weeks, repos.leagues, repos.bets, aggregation, ids),
		Bets:        usecase.NewBetService(repos.bets, repos.matches, repos.weeks, repos.users, lock, aggregation, ids),
		Lock:        lock,
		Aggregation: aggregation,
		Leaderboard: usecase.NewLeaderboardService(repos.scores, repos.users),
		Users:       users,
	}, logger)
	router := httpapi.NewRouter(handler, verifier, users, logger, cfg.CORSAllowedOrigins)

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.ReminderEnabled {
		app.Reminders = usecase.NewReminderService(
			repos.weeks, repos.matches, repos.bets, repos.users,
			gateway, nil,
			usecase.ReminderConfig{Lead: cfg.ReminderLead, Interval: cfg.ReminderInterval},
			logger,
		)
	}

	return app, nil
}

// Close releases storage handles in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, target, err := openPostgres(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, db.Close)

		if cfg.SeedDefaultLeagues {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				return repositories{}, fmt.Errorf("seed leagues: %w", err)
			}
		}
		logger.Info("storage ready", "driver", config.StoragePostgres, "db_name", target.Name, "db_host", target.Host)

		return repositories{
			leagues: postgres.NewLeagueRepository(db),
			weeks:   postgres.NewWeekRepository(db),
			matches: postgres.NewMatchRepository(db),
			bets:    postgres.NewBetRepository(db),
			scores:  postgres.NewScoreRepository(db),
			users:   postgres.NewUserRepository(db),
		}, nil
	default:
		store := memory.NewStore()
		if cfg.SeedDefaultLeagues {
			store.Seed(memory.SeedLeagues(time.Now().UTC()))
		}
		logger.Warn("storage ready", "driver", config.StorageMemory, "note", "data is lost on restart")

		return repositories{
			leagues: store.Leagues(),
			weeks:   store.Weeks(),
			matches: store.Matches(),
			bets:    store.Bets(),
			scores:  store.Scores(),
			users:   store.Users(),
		}, nil
	}
}

func newNotificationGateway(cfg config.Config, logger *logging.Logger) (notification.Gateway, error) {
	if !cfg.PushEnabled {
		return push.NewLogGateway(logger), nil
	}

	gateway, err := push.NewRelayGateway(push.RelayConfig{
		BaseURL:        cfg.PushRelayURL,
		Token:          cfg.PushRelayToken,
		Timeout:        cfg.PushTimeout,
		CircuitBreaker: cfg.PushCircuit,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build push relay gateway: %w", err)
	}
	return gateway, nil
}
