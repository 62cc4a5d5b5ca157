package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("PUSH_ENABLED", "")
	t.Setenv("REMINDER_ENABLED", "")
	t.Setenv("UPTRACE_ENABLED", "")
	t.Setenv("TRACE_SAMPLE_RATIO", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.StorageDriver)
	}
	if cfg.Location == nil || cfg.Location.String() != "Europe/Vienna" {
		t.Fatalf("unexpected default location: %v", cfg.Location)
	}
	if cfg.JWTSecret != devJWTSecret {
		t.Fatalf("expected dev jwt secret fallback")
	}
	if cfg.ReminderLead != 2*time.Hour || cfg.ReminderInterval != 5*time.Minute {
		t.Fatalf("unexpected reminder defaults: lead=%s interval=%s", cfg.ReminderLead, cfg.ReminderInterval)
	}
	if cfg.AggregationWorkers != 8 {
		t.Fatalf("unexpected aggregation workers: %d", cfg.AggregationWorkers)
	}
	if !cfg.PushCircuit.Enabled || cfg.PushCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected push circuit defaults: %+v", cfg.PushCircuit)
	}
	if cfg.TraceSampleRatio != 1 {
		t.Fatalf("expected full sampling in dev, got %v", cfg.TraceSampleRatio)
	}
}

func TestLoad_JWTSecretRequiredOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing in prod")
	}

	t.Setenv("JWT_SECRET", "prod-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.JWTSecret != "prod-secret" {
		t.Fatalf("unexpected JWTSecret")
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown storage driver", env: map[string]string{"STORAGE_DRIVER": "mongo"}},
		{name: "unknown timezone", env: map[string]string{"APP_TIMEZONE": "Mars/Olympus"}},
		{name: "push without relay url", env: map[string]string{"PUSH_ENABLED": "true", "PUSH_RELAY_URL": ""}},
		{name: "zero reminder lead", env: map[string]string{"REMINDER_LEAD": "0s"}},
		{name: "bad reminder interval", env: map[string]string{"REMINDER_INTERVAL": "often"}},
		{name: "zero aggregation workers", env: map[string]string{"AGGREGATION_WORKERS": "0"}},
		{name: "bad push circuit count", env: map[string]string{"PUSH_CIRCUIT_FAILURE_COUNT": "0"}},
		{name: "uptrace without dsn", env: map[string]string{"UPTRACE_ENABLED": "true", "UPTRACE_DSN": "", "OTEL_EXPORTER_OTLP_HEADERS": ""}},
		{name: "pyroscope without server", env: map[string]string{"PYROSCOPE_ENABLED": "true", "PYROSCOPE_SERVER_ADDRESS": ""}},
		{name: "sample ratio above one", env: map[string]string{"TRACE_SAMPLE_RATIO": "1.5"}},
		{name: "bad sample ratio", env: map[string]string{"TRACE_SAMPLE_RATIO": "most"}},
		{name: "empty cors", env: map[string]string{"CORS_ALLOWED_ORIGINS": " , "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("JWT_SECRET", "stage-secret")
	t.Setenv("JWT_ISSUER", "predictor-auth")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PUSH_ENABLED", "true")
	t.Setenv("PUSH_RELAY_URL", "https://relay.example")
	t.Setenv("PUSH_TIMEOUT", "3s")
	t.Setenv("REMINDER_ENABLED", "true")
	t.Setenv("REMINDER_LEAD", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("unexpected log level: %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins: %+v", cfg.CORSAllowedOrigins)
	}
	if !cfg.PushEnabled || cfg.PushTimeout != 3*time.Second {
		t.Fatalf("unexpected push config: enabled=%v timeout=%s", cfg.PushEnabled, cfg.PushTimeout)
	}
	if !cfg.ReminderEnabled || cfg.ReminderLead != 90*time.Minute {
		t.Fatalf("unexpected reminder config: enabled=%v lead=%s", cfg.ReminderEnabled, cfg.ReminderLead)
	}
	if cfg.JWTIssuer != "predictor-auth" {
		t.Fatalf("unexpected JWTIssuer: %q", cfg.JWTIssuer)
	}
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Parallel()

	got := parseUptraceDSNFromOTLPHeaders(`foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)
	if got != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected dsn: %q", got)
	}
	if parseUptraceDSNFromOTLPHeaders("") != "" {
		t.Fatalf("expected empty dsn for empty headers")
	}
}
