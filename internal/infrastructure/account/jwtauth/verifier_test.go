package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/riskibarqy/padel-league/internal/domain/user"
	"github.com/riskibarqy/padel-league/internal/usecase"
)

func mustVerifier(t *testing.T, cfg Config) *Verifier {
	t.Helper()

	v, err := NewVerifier(cfg)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return v
}

func TestVerifier_RoundTrip(t *testing.T) {
	t.Parallel()

	v := mustVerifier(t, Config{Secret: "s3cret", Issuer: "padel-auth", Audience: "padel-api"})
	token, err := v.Sign(user.Principal{UserID: 42, Email: "ana@example.com"}, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	principal, err := v.VerifyAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.UserID != 42 || principal.Email != "ana@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestVerifier_FallsBackToSubject(t *testing.T) {
	t.Parallel()

	v := mustVerifier(t, Config{Secret: "s3cret"})
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "9",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	principal, err := v.VerifyAccessToken(context.Background(), signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.UserID != 9 {
		t.Fatalf("unexpected user id: %d", principal.UserID)
	}
}

func TestVerifier_Rejections(t *testing.T) {
	t.Parallel()

	v := mustVerifier(t, Config{Secret: "s3cret", Leeway: time.Second})
	other := mustVerifier(t, Config{Secret: "other"})

	wrongKey, err := other.Sign(user.Principal{UserID: 1}, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	expired, err := v.Sign(user.Principal{UserID: 1}, time.Minute, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1}).SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "anonymous",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := map[string]string{
		"empty":      "",
		"garbage":    "not-a-token",
		"wrong key":  wrongKey,
		"expired":    expired,
		"no expiry":  noExpiry,
		"wrong alg":  hs512,
		"no user id": noUser,
	}
	for name, token := range cases {
		if _, err := v.VerifyAccessToken(context.Background(), token); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("%s: expected unauthorized, got %v", name, err)
		}
	}
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewVerifier(Config{Secret: " "}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
