package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the authenticated subject bound into a token.
type Identity struct {
	Username string
}

// Token is a signed bearer token together with its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenManager issues and validates HS256 JWTs.  It holds only the
// immutable secret, TTL and issuer, so a single instance is safe for
// concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenManager builds a manager signing with secret; tokens expire ttl
// after issuance.
func NewTokenManager(secret string, ttl time.Duration, issuer string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs a token whose subject is id.Username.
func (m *TokenManager) Issue(id Identity) (Token, error) {
	if id.Username == "" {
		return Token{}, errors.New("issue token: empty subject")
	}
	now := m.now().UTC()
	exp := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   id.Username,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

// Validate checks structure, signature and expiry, in that order, and
// returns the bound identity.  Failures are one of ErrMalformedToken,
// ErrInvalidSignature or ErrExpired.
func (m *TokenManager) Validate(raw string) (Identity, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Identity{}, classify(err)
	}
	if claims.Subject == "" {
		return Identity{}, ErrMalformedToken
	}
	return Identity{Username: claims.Subject}, nil
}

// classify maps jwt parser errors onto the package taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		// Missing exp, bad nbf/iat and similar claim problems.
		return ErrMalformedToken
	}
}
