package httpapi

import (
	"context"

	"github.com/riskibarqy/score-predictor/internal/domain/user"
)

type contextKey string

const accountContextKey contextKey = "auth_account"

// withAccount stores the stored user record of the authenticated caller.
func withAccount(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, accountContextKey, u)
}

func accountFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(accountContextKey).(user.User)
	return u, ok
}
