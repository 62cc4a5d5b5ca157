package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

const clockSkew = 30 * time.Second

// Claims is the token payload issued by the identity provider.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 bearer tokens signed with a shared secret.
type JWTVerifier struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

func NewJWTVerifier(secret, issuer string) (*JWTVerifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, crerr.New("jwt secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(clockSkew),
		jwt.WithExpirationRequired(),
	}
	issuer = strings.TrimSpace(issuer)
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &JWTVerifier{
		secret: []byte(secret),
		issuer: issuer,
		parser: jwt.NewParser(opts...),
	}, nil
}

func (v *JWTVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	var claims Claims
	parsed, err := v.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %s", usecase.ErrUnauthorized, describeParseError(err))
	}
	if !parsed.Valid {
		return user.Principal{}, fmt.Errorf("%w: invalid token", usecase.ErrUnauthorized)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return user.Principal{}, fmt.Errorf("%w: token subject is empty", usecase.ErrUnauthorized)
	}

	role := user.Role(strings.ToLower(strings.TrimSpace(claims.Role)))
	switch role {
	case "", user.RoleAdmin, user.RolePlayer:
	default:
		return user.Principal{}, fmt.Errorf("%w: unknown role %q", usecase.ErrUnauthorized, claims.Role)
	}

	return user.Principal{
		UserID:   subject,
		Username: strings.TrimSpace(claims.Name),
		Role:     role,
	}, nil
}

// Sign issues a token for the principal. It backs local tooling and tests.
func (v *JWTVerifier) Sign(p user.Principal, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Name: p.Username,
		Role: string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", crerr.Wrap(err, "sign access token")
	}
	return signed, nil
}

func describeParseError(err error) string {
	switch {
	case crerr.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	case crerr.Is(err, jwt.ErrTokenSignatureInvalid):
		return "invalid signature"
	case crerr.Is(err, jwt.ErrTokenInvalidIssuer):
		return "invalid issuer"
	case crerr.Is(err, jwt.ErrTokenMalformed):
		return "malformed token"
	default:
		return "invalid token"
	}
}
