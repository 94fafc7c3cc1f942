package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhub/taskhub/internal/model"
)

// DefaultTokenTTL is how long an issued session token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// claims is the JWT payload carried by a session token.
type claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens mints and verifies signed session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens returns a Tokens signing with secret. A zero ttl falls back
// to DefaultTokenTTL.
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: secret, ttl: ttl}
}

// TTL returns the lifetime of tokens issued by this instance.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a session token for the given identity.
func (t *Tokens) Issue(ident model.Identity) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name:  ident.Name,
		Email: ident.Email,
		Role:  string(ident.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})

	signed, err := tok.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning the identity
// it asserts. The identity is the token's claim, not a store lookup;
// Resolver re-checks the user still exists.
func (t *Tokens) Verify(token string) (model.Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return model.Identity{}, errors.New("invalid token")
	}

	return model.Identity{
		ID:    c.Subject,
		Name:  c.Name,
		Email: c.Email,
		Role:  model.Role(c.Role),
	}, nil
}
