// Package authz provides session token minting and verification.
// Tokens carry the user id, role and district so handlers can scope
// queries without a profile lookup per request.
package authz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fixitnow/fixitnow-server/internal/models"
)

// ErrUnauthorized is returned when a token is missing, expired or malformed.
var ErrUnauthorized = errors.New("unauthorized")

// Claims is the JWT payload for a signed-in user.
type Claims struct {
	Role     models.UserRole `json:"role"`
	District string          `json:"district,omitempty"`
	Name     string          `json:"name"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a parsed uuid.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID   uuid.UUID
	Name     string
	Role     models.UserRole
	District *string
}

// Sign mints a token for the given profile.
func Sign(secret string, profile *models.UserProfile, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: profile.Role,
		Name: profile.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	if profile.District != nil {
		claims.District = *profile.District
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse verifies a token string and returns the caller identity.
func Parse(secret, tokenStr string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	uid, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthorized
	}

	ident := &Identity{UserID: uid, Name: claims.Name, Role: claims.Role}
	if claims.District != "" {
		d := claims.District
		ident.District = &d
	}
	return ident, nil
}

type ctxKey struct{}

// WithIdentity attaches the caller identity to a context.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, ident)
}

// FromContext returns the caller identity, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(ctxKey{}).(*Identity)
	return ident, ok
}
