// internal/domain/auth/entity.go
package auth

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Identity is what the client learns about the shopper from the bearer token.
// It is never verified locally and must not gate anything the server does not
// re-check.
type Identity struct {
	Subject   string    `json:"subject"`
	Role      string    `json:"role"`
	ImageURL  string    `json:"image_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Profile is the server's view of the logged-in user (GET /users/me).
type Profile struct {
	ID                int64  `json:"id"`
	Username          string `json:"username"`
	Role              string `json:"role"`
	Provider          string `json:"provider,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}
