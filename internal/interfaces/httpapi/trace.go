package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var (
	apiTracer = otel.Tracer("score-predictor/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// pathAttributes maps route wildcards to the span attribute they populate.
var pathAttributes = []struct {
	wildcard string
	key      attribute.Key
}{
	{wildcard: "leagueID", key: "predictor.league_id"},
	{wildcard: "weekID", key: "predictor.week_id"},
	{wildcard: "matchID", key: "predictor.match_id"},
	{wildcard: "betID", key: "predictor.bet_id"},
	{wildcard: "userID", key: "predictor.user_id"},
}

// startSpan only opens handler spans, and only under an existing request
// span. Middleware and helpers share the request span.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// startHandlerSpan opens the handler span tagged with the entity ids the
// route carries.
func startHandlerSpan(r *http.Request, name string) (context.Context, trace.Span) {
	return startSpan(r.Context(), name, routeAttributes(r)...)
}

func routeAttributes(r *http.Request) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for _, p := range pathAttributes {
		if v := r.PathValue(p.wildcard); v != "" {
			attrs = append(attrs, p.key.String(v))
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("week_id")); v != "" {
		attrs = append(attrs, attribute.String("predictor.week_id", v))
	}
	return attrs
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}
