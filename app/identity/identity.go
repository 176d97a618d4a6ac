// Package identity verifies the bearer tokens issued by the identity provider
// and carries the resolved caller through request contexts.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"modboard/app/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Metadata is the public metadata block the provider attaches to a session.
// Role is lowercase there: user, moderator or admin.
type Metadata struct {
	Role string `json:"role,omitempty"`
}

// Claims are the token claims. The subject is the clerk id.
type Claims struct {
	Metadata Metadata `json:"metadata"`
	jwt.RegisteredClaims
}

// Role returns the typed role carried by the token, if any.
func (c *Claims) Role() (models.Role, bool) {
	if c.Metadata.Role == "" {
		return "", false
	}
	return models.ParseRole(c.Metadata.Role)
}

// Sign issues an HS256 token for clerkID. An empty role leaves the claim out.
func Sign(secret []byte, clerkID string, role models.Role, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("signing secret is empty")
	}
	now := time.Now()
	claims := &Claims{
		Metadata: Metadata{Role: strings.ToLower(string(role))},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clerkID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Parse verifies tokenString against secret and returns its claims.
func Parse(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: subject is empty", ErrInvalidToken)
	}
	if claims.Metadata.Role != "" {
		if _, ok := claims.Role(); !ok {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Metadata.Role)
		}
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("%w: format should be \"Bearer <token>\"", ErrInvalidToken)
	}
	return parts[1], nil
}

// ResolveRole picks the role for a request: the token role wins, the stored
// role is the fallback.
func ResolveRole(claims *Claims, stored models.Role) models.Role {
	if role, ok := claims.Role(); ok {
		return role
	}
	if stored == "" {
		return models.RoleUser
	}
	return stored
}

// Caller is the authenticated user of a request with the role resolved once.
type Caller struct {
	User  models.User
	Actor models.Actor
}

type contextKey struct{}

// WithCaller stores the caller on ctx.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// CallerFrom returns the caller stored on ctx.
func CallerFrom(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(contextKey{}).(Caller)
	return caller, ok
}
