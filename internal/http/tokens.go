package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/hostel-dashboard/internal/application"
)

const tokenIssuerName = "hostel-dashboard"

var errInvalidToken = errors.New("invalid session token")

// SessionClaims is the payload of a client token. The subject is the client
// id that scopes the client's session slots.
type SessionClaims struct {
	Role application.Role `json:"role"`
	jwt.RegisteredClaims
}

// ClientID returns the client id carried in the subject.
func (c SessionClaims) ClientID() string {
	return c.Subject
}

// TokenIssuer signs and verifies HS256 client tokens.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenIssuer returns an issuer signing with secret. A non-positive ttl
// defaults to 24 hours.
func NewTokenIssuer(secret string, ttl time.Duration, now func() time.Time) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{key: []byte(secret), ttl: ttl, now: now}
}

// Issue signs a token for clientID holding role.
func (i *TokenIssuer) Issue(clientID string, role application.Role) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuerName,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse verifies signature, issuer and expiry and returns the claims.
func (i *TokenIssuer) Parse(token string) (SessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SessionClaims{}, errInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	},
		jwt.WithIssuer(tokenIssuerName),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return SessionClaims{}, errInvalidToken
	}
	return *claims, nil
}
