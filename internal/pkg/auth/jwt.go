// Package auth validates the HS256 bearer tokens issued by the identity
// subsystem. The subject is the party id and the role claim its marketplace role.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/party"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken  = errors.New("missing bearer token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrEmptySecret   = errors.New("jwt secret is empty")
	errUnexpectedAlg = errors.New("unexpected signing method")
)

// Principal is the authenticated caller.
type Principal struct {
	ID   kernel.UUID
	Role party.Role
}

type principalKey struct{}

// WithPrincipal stores p in ctx for the use cases behind the HTTP layer.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// claims is the token payload: the subject is the party id.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// ParseToken validates tokenStr and returns its principal. Expired tokens are
// rejected; tokens without an expiry are accepted.
func ParseToken(tokenStr, secret string) (Principal, error) {
	if secret == "" {
		return Principal{}, ErrEmptySecret
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errUnexpectedAlg
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}

	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid {
		return Principal{}, ErrInvalidToken
	}

	id, err := kernel.UUIDFromString(c.Subject)
	if err != nil {
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}

	role, err := party.ParseRole(strings.ToLower(c.Role))
	if err != nil {
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}

	return Principal{ID: id, Role: role}, nil
}

// IssueToken signs a token for p. The service only verifies tokens; issuing
// exists for tooling and tests.
func IssueToken(p Principal, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	now := time.Now()
	c := claims{
		Role: p.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  p.ID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}
