package httpapi

import (
	"net/http"

	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	accounts AccountResolver,
	logger *logging.Logger,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicRoutes(mux, handler)

	auth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, accounts, h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, accounts, RequireAdmin(h))
	}
	registerPlayerRoutes(mux, handler, auth)
	registerAdminRoutes(mux, handler, admin)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
