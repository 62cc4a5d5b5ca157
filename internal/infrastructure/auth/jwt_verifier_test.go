package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/riskibarqy/score-predictor/internal/domain/user"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

func TestJWTVerifierRoundTrip(t *testing.T) {
	t.Parallel()

	v, err := NewJWTVerifier("s3cret", "predictor")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token, err := v.Sign(user.Principal{UserID: "u1", Username: "Ana", Role: user.RoleAdmin}, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	p, err := v.VerifyAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.UserID != "u1" || p.Username != "Ana" || p.Role != user.RoleAdmin {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestJWTVerifierRejects(t *testing.T) {
	t.Parallel()

	v, err := NewJWTVerifier("s3cret", "predictor")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	other, _ := NewJWTVerifier("other", "predictor")
	foreignIssuer, _ := NewJWTVerifier("s3cret", "someone-else")

	now := time.Now()
	expired, _ := v.Sign(user.Principal{UserID: "u1"}, now.Add(-2*time.Hour), time.Hour)
	wrongKey, _ := other.Sign(user.Principal{UserID: "u1"}, now, time.Hour)
	wrongIssuer, _ := foreignIssuer.Sign(user.Principal{UserID: "u1"}, now, time.Hour)
	noSubject, _ := v.Sign(user.Principal{}, now, time.Hour)
	badRole, _ := v.Sign(user.Principal{UserID: "u1", Role: "owner"}, now, time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"expired":      expired,
		"wrong key":    wrongKey,
		"wrong issuer": wrongIssuer,
		"no subject":   noSubject,
		"bad role":     badRole,
		"alg none":     none,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := v.VerifyAccessToken(context.Background(), token)
			if !errors.Is(err, usecase.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestNewJWTVerifierRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewJWTVerifier("  ", ""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
