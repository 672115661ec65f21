package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T, passcode string, expiration time.Duration) AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return NewAuthService(string(hash), "secret", expiration)
}

func TestLoginIssuesValidToken(t *testing.T) {
	t.Parallel()
	auth := newTestAuth(t, "4321", time.Hour)

	if !auth.Enabled() {
		t.Fatal("auth disabled with a passcode hash")
	}
	token, expiresAt, err := auth.Login(context.Background(), "4321")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expiresAt = %v, want in the future", expiresAt)
	}
	if err := auth.ValidateToken(token); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoginRejectsWrongPasscode(t *testing.T) {
	t.Parallel()
	auth := newTestAuth(t, "4321", time.Hour)

	for _, passcode := range []string{"", "1234"} {
		if _, _, err := auth.Login(context.Background(), passcode); !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("login(%q) err = %v, want ErrAuthenticationFailed", passcode, err)
		}
	}
}

func TestLoginDisabled(t *testing.T) {
	t.Parallel()
	auth := NewAuthService("", "", 0)

	if auth.Enabled() {
		t.Fatal("auth enabled without a passcode")
	}
	if _, _, err := auth.Login(context.Background(), "x"); !errors.Is(err, ErrAuthDisabled) {
		t.Fatalf("err = %v, want ErrAuthDisabled", err)
	}
}

func TestValidateTokenRejectsForeignTokens(t *testing.T) {
	t.Parallel()
	auth := newTestAuth(t, "4321", time.Hour)

	sign := func(claims jwt.RegisteredClaims, secret string) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return token
	}
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": sign(jwt.RegisteredClaims{Issuer: tokenIssuer, ExpiresAt: future}, "other"),
		"expired":      sign(jwt.RegisteredClaims{Issuer: tokenIssuer, ExpiresAt: past}, "secret"),
		"wrong issuer": sign(jwt.RegisteredClaims{Issuer: "someone-else", ExpiresAt: future}, "secret"),
	}
	for name, token := range tests {
		if err := auth.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestHashPasscode(t *testing.T) {
	t.Parallel()

	if _, err := HashPasscode(""); err == nil {
		t.Fatal("expected error for empty passcode")
	}
	hash, err := HashPasscode("2468")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("2468")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}
