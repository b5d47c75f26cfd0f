// internal/domain/auth/dto.go
package auth

// Credentials is the body of the remote register and login calls.
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ExternalLoginRequest carries a token handed back by a federated login redirect.
type ExternalLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// SessionView is the local surface's rendering of the session state.
type SessionView struct {
	Authenticated bool      `json:"authenticated"`
	Identity      *Identity `json:"identity,omitempty"`
	Loading       bool      `json:"loading"`
	Error         string    `json:"error,omitempty"`
}
