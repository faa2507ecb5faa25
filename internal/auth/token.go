package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "healthwise-api"

var (
	ErrTokenMissing          = errors.New("token is missing")
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenInvalidSignature = errors.New("token signature is invalid")
)

// Claims is the identity embedded in every access token.
type Claims struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens. There is no
// server-side session table: rotating the secret invalidates every token.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of m that reads time from now.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

func (m *TokenManager) Secret() []byte { return m.secret }

// Issue signs a token for user and returns it with the expiry encoded in it,
// which is truncated to whole seconds.
func (m *TokenManager) Issue(user *models.User) (string, time.Time, error) {
	now := m.now()

	claims := Claims{
		UserID:    user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify parses and validates tokenString. Failures are always one of
// ErrTokenMissing, ErrTokenMalformed, ErrTokenExpired or ErrTokenInvalidSignature.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, ClassifyTokenError(err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// OptionalVerify never fails: any problem with the token yields Anonymous.
func (m *TokenManager) OptionalVerify(tokenString string) Identity {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return Anonymous{}
	}
	return Authenticated{Claims: *claims}
}

// ClassifyTokenError maps a jwt parse error onto the verifier's error set.
func ClassifyTokenError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTokenMissing), errors.Is(err, ErrTokenMalformed),
		errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenInvalidSignature):
		return err
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenInvalidSignature
	default:
		return ErrTokenMalformed
	}
}
