// internal/handlers/session/session_handler.go
package session

import (
	"context"
	"net/http"

	"storefront-agent/internal/domain/auth"
	"storefront-agent/internal/pkg/response"
	authsvc "storefront-agent/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Manager is the session manager as the handlers use it.
type Manager interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, password string) error
	LoginWithExternalToken(ctx context.Context, token string) error
	Logout(ctx context.Context)
	State() authsvc.State
}

type SessionHandler struct {
	manager Manager
	logger  *zap.Logger
}

func NewSessionHandler(manager Manager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{manager: manager, logger: logger}
}

// ========== Login ==========

func (h *SessionHandler) Login(c *gin.Context) {
	var req auth.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.manager.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		response.Fail(c, "login failed", err, h.manager.State().View())
		return
	}

	response.Success(c, http.StatusOK, "logged in", h.manager.State().View())
}

func (h *SessionHandler) Register(c *gin.Context) {
	var req auth.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.manager.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		response.Fail(c, "registration failed", err, h.manager.State().View())
		return
	}

	response.Success(c, http.StatusCreated, "registration successful", h.manager.State().View())
}

// External finishes a federated login: the UI hands over the token it got
// back from the provider redirect.
func (h *SessionHandler) External(c *gin.Context) {
	var req auth.ExternalLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.manager.LoginWithExternalToken(c.Request.Context(), req.Token); err != nil {
		h.logger.Warn("external login rejected", zap.Error(err))
		response.Fail(c, "login failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logged in", h.manager.State().View())
}

// ========== Logout / State ==========

func (h *SessionHandler) Logout(c *gin.Context) {
	h.manager.Logout(c.Request.Context())
	response.Success(c, http.StatusOK, "logged out", h.manager.State().View())
}

func (h *SessionHandler) Get(c *gin.Context) {
	response.Success(c, http.StatusOK, "session", h.manager.State().View())
}
