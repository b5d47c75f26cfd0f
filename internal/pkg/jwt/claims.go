// internal/pkg/jwt/claims.go
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Claims represents the storefront bearer token payload.
type Claims struct {
	Role     string `json:"role,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	jwt.RegisteredClaims
}

// HasRole checks if the claims carry a specific role
func (c *Claims) HasRole(role string) bool {
	return c.Role == role
}

// IsAdmin is a display hint only. The backend re-checks every admin call.
func (c *Claims) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}

// Expiry returns the expiration time, or the zero time when the token has none.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// ExpiredAt reports whether the token is expired relative to now.
// Tokens without an exp claim never expire on the client.
func (c *Claims) ExpiredAt(now time.Time) bool {
	exp := c.Expiry()
	if exp.IsZero() {
		return false
	}
	return exp.Before(now)
}
