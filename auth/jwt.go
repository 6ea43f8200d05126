// Package auth guards the HTTP transport with HS256 bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	issuer   = "grok-mcp"
	tokenTTL = 24 * time.Hour
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// T creates and verifies tokens for one signing key. It is not modified
// by Create or Verify, so one T can be shared by concurrent requests.
type T struct {
	secret []byte
	ttl    time.Duration
}

// NewT uses GROK_MCP_SECRET, or a random key when it is unset.
func NewT() *T {
	secret := GetSecret()
	if len(secret) == 0 {
		secret = randomSecret()
	}
	return NewTWithSecret(secret)
}

func NewTWithSecret(secret []byte) *T {
	return &T{secret: secret, ttl: tokenTTL}
}

// WithTTL changes how long created tokens stay valid.
func (t *T) WithTTL(ttl time.Duration) *T {
	t.ttl = ttl
	return t
}

// Create signs a token whose subject is subject.
func (t *T) Create(subject string) (string, error) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(t.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns its
// subject.
func (t *T) Verify(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Extract pulls the token out of an Authorization header value.
func (t *T) Extract(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(parts[1]), nil
}
