package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/score-predictor/internal/config"
)

const (
	dbPingTimeout     = 5 * time.Second
	maxTracedQueryLen = 512
)

// placeholderList matches the expanded IN lists the bet and score queries
// produce, e.g. "IN ($3, $4, $5)".
var placeholderList = regexp.MustCompile(`IN \(\$\d+(?:, \$\d+)+\)`)

// dbTarget is the parsed form of DB_URL.
type dbTarget struct {
	DSN  string
	Name string
	Host string
}

// parseDBTarget accepts both URL and key=value DSNs. With disableBinary set,
// URL DSNs get disable_prepared_binary_result=yes unless already present.
func parseDBTarget(raw string, disableBinary bool) dbTarget {
	raw = strings.TrimSpace(raw)
	target := dbTarget{DSN: raw}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		target.Name = strings.TrimPrefix(parsed.Path, "/")
		target.Host = parsed.Hostname()
		if disableBinary {
			query := parsed.Query()
			if query.Get("disable_prepared_binary_result") == "" {
				query.Set("disable_prepared_binary_result", "yes")
				parsed.RawQuery = query.Encode()
				target.DSN = parsed.String()
			}
		}
		return target
	}

	for _, field := range strings.Fields(raw) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "dbname":
			target.Name = value
		case "host":
			target.Host = value
		}
	}
	return target
}

// traceQuery squeezes whitespace and folds long IN lists so spans for the
// same statement group together.
func traceQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	query = placeholderList.ReplaceAllString(query, "IN (...)")
	if len(query) > maxTracedQueryLen {
		return query[:maxTracedQueryLen] + "..."
	}
	return query
}

// openPostgres opens a traced sqlx handle and checks connectivity.
func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, dbTarget, error) {
	target := parseDBTarget(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithDBName(target.Name),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(traceQuery),
	}
	if target.Host != "" {
		opts = append(opts, otelsql.WithAttributes(attribute.String("server.address", target.Host)))
	}

	db, err := otelsqlx.Open("postgres", target.DSN, opts...)
	if err != nil {
		return nil, target, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, target, fmt.Errorf("ping postgres %s/%s: %w", target.Host, target.Name, err)
	}
	return db, target, nil
}
