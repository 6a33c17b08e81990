// Package auth provides JWT-based authentication: token issuance and
// verification for locally registered users, password hashing, and the HTTP
// middleware that places the authenticated caller in the request context.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ClaimsKey is the context key for storing JWT claims.
const ClaimsKey contextKey = "claims"

// Claims represents the JWT claims issued at registration and login. It
// embeds RegisteredClaims for the standard fields (sub, exp, iat) and adds
// the username for display purposes.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// WithClaims returns a context carrying the given claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// UserIDFromContext extracts the caller's user ID from JWT claims in the
// context. Returns uuid.Nil if not authenticated or the subject is not a
// valid UUID.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return uuid.Nil
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil
	}
	return userID
}
