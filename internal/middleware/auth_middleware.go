// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"storefront-agent/internal/domain/auth"
	"storefront-agent/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// SessionReader is what the gates need from the session manager.
type SessionReader interface {
	IsAuthenticated() bool
	Identity() *auth.Identity
}

// AuthMiddleware gates local routes on the agent's own session. There is one
// shopper per agent, so there is no token on the local request to check.
type AuthMiddleware struct {
	session SessionReader
}

func NewAuthMiddleware(session SessionReader) *AuthMiddleware {
	return &AuthMiddleware{session: session}
}

// Auth rejects requests while nobody is logged in.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.session.IsAuthenticated() {
			response.Unauthorized(c, "log in first")
			return
		}
		c.Next()
	}
}

// RequireRole requires the decoded identity to carry one of roles.
// MUST be used after Auth()
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := m.session.Identity()
		if identity == nil {
			response.Forbidden(c, "no identity in session")
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "insufficient permissions", nil, map[string]any{
			"required_roles": roles,
			"role":           identity.Role,
		})
	}
}

// AdminOnly returns middlewares for back-office routes (Auth + RequireRole)
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(auth.RoleAdmin),
	}
}
