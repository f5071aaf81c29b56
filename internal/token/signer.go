// Package token issues and verifies the signed bearer credentials that prove
// subject identity between login and expiry. There is no revocation: a signed
// token stays valid for its whole TTL even if the subject's roles change, so
// the configured TTL is the outer bound on staleness.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/granohq/accessd/internal/entity"
	"github.com/granohq/accessd/pkg/config"
)

type Claims struct {
	Email string            `json:"email"`
	Extra map[string]string `json:"extra,omitempty"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewSigner(cfg config.JWTConfig) (*Signer, error) {
	if cfg.Secret == "" {
		return nil, entity.ErrMissingSecret
	}

	return &Signer{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
	}, nil
}

// Issue signs a credential for the subject. A non-positive ttl falls back to
// the configured default.
func (s *Signer) Issue(subjectID uuid.UUID, email string, extra map[string]string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := time.Now()

	claims := Claims{
		Email: email,
		Extra: extra,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.Must(uuid.NewV4()).String(),
			Subject:   subjectID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks the credential. Failures keep their class
// (malformed vs bad signature vs expired) so the caller can log it; the HTTP
// layer must still collapse them into one generic response.
func (s *Signer) Verify(tokenStr string) (*Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		_, ok := t.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("parse token: %w", entity.ErrTokenExpired)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("parse token: %w", entity.ErrTokenMalformed)
		default:
			return nil, fmt.Errorf("parse token: %w", entity.ErrTokenInvalid)
		}
	}

	if !parsed.Valid {
		return nil, entity.ErrTokenInvalid
	}

	return &claims, nil
}
