// Package auth validates bearer tokens issued by the external identity
// service and resolves them to an actor identity. Token issuance and session
// management live outside this service.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/assetbase/backend/pkg/ctxutil"
)

// TokenValidator verifies HS256 access tokens against a shared secret.
type TokenValidator struct {
	secret []byte
	issuer string
}

// NewTokenValidator creates a TokenValidator.
// secret must be at least 32 characters for HS256 security.
func NewTokenValidator(secret, issuer string) *TokenValidator {
	return &TokenValidator{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// accessClaims extends standard JWT claims with the actor's display name.
type accessClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// ValidateToken parses and validates an access token and returns the actor
// it identifies. The subject claim carries the actor UUID.
func (v *TokenValidator) ValidateToken(_ context.Context, tokenString string) (ctxutil.Actor, error) {
	if tokenString == "" {
		return ctxutil.Actor{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return ctxutil.Actor{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return ctxutil.Actor{}, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != v.issuer {
		return ctxutil.Actor{}, fmt.Errorf("invalid issuer: expected %s, got %s", v.issuer, claims.Issuer)
	}

	actorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctxutil.Actor{}, fmt.Errorf("invalid subject UUID: %w", err)
	}

	return ctxutil.Actor{ID: actorID, DisplayName: claims.Name}, nil
}

// SignToken mints a signed HS256 token for the given actor. Used by tests and
// local tooling; production tokens come from the identity service.
func (v *TokenValidator) SignToken(actorID uuid.UUID, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID.String(),
			Issuer:    v.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Name: name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
