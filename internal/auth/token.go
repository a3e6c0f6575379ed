// Package auth turns a handshake token into an identity.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "huddle"

type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 tokens signed with a shared secret.
type Authenticator struct {
	secret []byte
	now    func() time.Time
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret), now: time.Now}
}

// Mint signs a token for id. Used by tooling and tests; production tokens
// come from the identity provider sharing the secret.
func (a *Authenticator) Mint(id, username string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := Claims{
		UserID:   id,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify returns the identity carried by token, or ErrUnauthenticated.
func (a *Authenticator) Verify(token string) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", domain.ErrUnauthenticated)
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token expired: %w", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid claims: %w", domain.ErrUnauthenticated)
	}
	u, err := domain.NewUser(claims.UserID, claims.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, domain.ErrUnauthenticated)
	}
	return u, nil
}
