package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/score-predictor/internal/config"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/push"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		Location:           time.UTC,
		StorageDriver:      config.StorageMemory,
		SeedDefaultLeagues: true,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		CORSAllowedOrigins: []string{"*"},
		JWTSecret:          "test-secret",
		AggregationWorkers: 2,
		ReminderEnabled:    true,
		ReminderInterval:   time.Minute,
		ReminderLead:       time.Hour,
	}
}

func TestNew_MemoryStorageServesSeededLeagues(t *testing.T) {
	app, err := New(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })

	require.NotNil(t, app.Reminders)

	rec := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "premier-league")
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNew_RequiresJWTSecret(t *testing.T) {
	cfg := memoryConfig()
	cfg.JWTSecret = ""

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNewNotificationGateway(t *testing.T) {
	cfg := memoryConfig()

	gw, err := newNotificationGateway(cfg, logging.NewNop())
	require.NoError(t, err)
	require.IsType(t, &push.LogGateway{}, gw)

	cfg.PushEnabled = true
	cfg.PushRelayURL = "https://push.example.com"
	cfg.PushTimeout = time.Second
	gw, err = newNotificationGateway(cfg, logging.NewNop())
	require.NoError(t, err)
	require.IsType(t, &push.RelayGateway{}, gw)

	cfg.PushRelayURL = "::not a url"
	_, err = newNotificationGateway(cfg, logging.NewNop())
	require.Error(t, err)
}
