package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrAuthDisabled         = errors.New("authentication is not enabled")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid passcode")
	ErrHashingFailed        = errors.New("failed to hash passcode")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

const tokenIssuer = "runrep"

// --- Service Interface ---
type AuthService interface {
	// Enabled reports whether a passcode is configured. Without one the API is open.
	Enabled() bool
	Login(ctx context.Context, passcode string) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) error
}

// --- Service Implementation ---

// authService guards the API with a single passcode. The installation has one
// user, so a token only proves the passcode was known.
type authService struct {
	passcodeHash  []byte
	jwtSecret     []byte
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService. An empty passcodeHash
// disables authentication.
func NewAuthService(passcodeHash, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if passcodeHash != "" && jwtSecret == "" {
		panic("JWT secret cannot be empty when a passcode is set") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 30 * 24 * time.Hour
	}
	return &authService{
		passcodeHash:  []byte(passcodeHash),
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
	}
}

// HashPasscode produces the value for auth.passcode_hash.
func HashPasscode(passcode string) (string, error) {
	if passcode == "" {
		return "", errors.New("passcode cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hash), nil
}

func (s *authService) Enabled() bool {
	return len(s.passcodeHash) > 0
}

// Login checks the passcode and issues a signed token.
func (s *authService) Login(ctx context.Context, passcode string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrAuthDisabled
	}
	if passcode == "" {
		return "", time.Time{}, ErrAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(passcode)); err != nil {
		return "", time.Time{}, ErrAuthenticationFailed
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtExpiration)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "owner",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, ErrTokenGeneration
	}
	return token, expiresAt, nil
}

// ValidateToken verifies signature, algorithm, issuer and expiry.
func (s *authService) ValidateToken(tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	if !claims.VerifyIssuer(tokenIssuer, true) {
		return ErrInvalidToken
	}
	return nil
}
