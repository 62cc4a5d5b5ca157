package observability

import (
	"context"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/riskibarqy/score-predictor/internal/config"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

const serviceNamespace = "score-predictor"

func noopShutdown(context.Context) error { return nil }

// InitUptrace installs the global tracer provider. Sampling follows the
// parent when there is one and TRACE_SAMPLE_RATIO otherwise.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.UptraceEnabled || cfg.UptraceDSN == "" {
		logger.Info("tracing export off", "uptrace_enabled", cfg.UptraceEnabled, "dsn_set", cfg.UptraceDSN != "")
		return noopShutdown, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(
			attribute.String("service.namespace", serviceNamespace),
			attribute.String("predictor.storage", cfg.StorageDriver),
		),
		uptrace.WithTraceSampler(traceSampler(cfg.TraceSampleRatio)),
	)

	logger.Info("tracing export on",
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
		"sample_ratio", cfg.TraceSampleRatio,
	)
	return uptrace.Shutdown, nil
}

func traceSampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}
