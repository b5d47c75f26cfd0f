package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-agent/internal/domain/auth"
	xerrors "storefront-agent/internal/pkg/errors"
	"storefront-agent/internal/pkg/response"
	authsvc "storefront-agent/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeManager struct {
	state    authsvc.State
	loginErr error
	lastUser string
}

func (f *fakeManager) Login(_ context.Context, username, _ string) error {
	f.lastUser = username
	if f.loginErr != nil {
		f.state = authsvc.State{Err: f.loginErr.Error()}
		return f.loginErr
	}
	f.state = authsvc.State{Authenticated: true, Identity: &auth.Identity{Subject: username, Role: auth.RoleUser}}
	return nil
}

func (f *fakeManager) Register(ctx context.Context, username, password string) error {
	return f.Login(ctx, username, password)
}

func (f *fakeManager) LoginWithExternalToken(context.Context, string) error {
	return xerrors.ErrInvalidToken
}

func (f *fakeManager) Logout(context.Context) { f.state = authsvc.State{} }
func (f *fakeManager) State() authsvc.State   { return f.state }

func router(m Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSessionHandler(m, zap.NewNop())
	r.POST("/session/login", h.Login)
	r.POST("/session/register", h.Register)
	r.POST("/session/external", h.External)
	r.POST("/session/logout", h.Logout)
	r.GET("/session", h.Get)
	return r
}

func do(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestLogin(t *testing.T) {
	m := &fakeManager{}
	r := router(m)

	w, resp := do(r, http.MethodPost, "/session/login", `{"username":"ana","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "ana", m.lastUser)

	w, resp = do(r, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	view, _ := json.Marshal(resp.Data)
	assert.Contains(t, string(view), `"authenticated":true`)
}

func TestLogin_Failures(t *testing.T) {
	r := router(&fakeManager{loginErr: xerrors.ErrInvalidCredentials})

	w, _ := do(r, http.MethodPost, "/session/login", `{"username":"ana"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := do(r, http.MethodPost, "/session/login", `{"username":"ana","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, xerrors.ErrInvalidCredentials.Error(), resp.Error)

	w, _ = do(r, http.MethodPost, "/session/external", `{"token":"garbage"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterAndLogout(t *testing.T) {
	m := &fakeManager{}
	r := router(m)

	w, _ := do(r, http.MethodPost, "/session/register", `{"username":"bea","password":"secret"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = do(r, http.MethodPost, "/session/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, m.state.Authenticated)
}
