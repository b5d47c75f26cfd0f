// internal/service/auth/manager.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront-agent/internal/api"
	"storefront-agent/internal/domain/auth"
	xerrors "storefront-agent/internal/pkg/errors"
	"storefront-agent/internal/pkg/jwt"
	"storefront-agent/internal/pkg/session"

	"go.uber.org/zap"
)

// Remote is the part of the backend the session manager needs.
type Remote interface {
	Login(ctx context.Context, creds auth.Credentials) (string, error)
	Register(ctx context.Context, creds auth.Credentials) (string, error)
}

// Navigator sends the UI somewhere, e.g. the login page after logout.
type Navigator interface {
	Navigate(path string)
}

// State is a snapshot of the session as observers see it.
type State struct {
	Authenticated bool
	Identity      *auth.Identity
	Loading       bool
	Err           string
}

// View renders s for the local surface.
func (s State) View() auth.SessionView {
	return auth.SessionView{
		Authenticated: s.Authenticated,
		Identity:      s.Identity,
		Loading:       s.Loading,
		Error:         s.Err,
	}
}

// Manager is the single source of truth for who is logged in. It is the only
// writer of the stored token, so the in-memory copy mirrors storage.
type Manager struct {
	remote    Remote
	store     session.Store
	decoder   *jwt.Decoder
	navigator Navigator
	loginPath string
	logger    *zap.Logger
	now       func() time.Time

	mu        sync.RWMutex
	token     string
	identity  *auth.Identity
	loading   bool
	errMsg    string
	observers []func(State)
}

func NewManager(
	remote Remote,
	store session.Store,
	navigator Navigator,
	loginPath string,
	logger *zap.Logger,
) *Manager {
	if loginPath == "" {
		loginPath = "/login"
	}
	return &Manager{
		remote:    remote,
		store:     store,
		decoder:   jwt.NewDecoder(),
		navigator: navigator,
		loginPath: loginPath,
		logger:    logger,
		now:       time.Now,
	}
}

// OnChange registers fn to run after every session replacement. Observers run
// synchronously, in registration order, on the goroutine that replaced the session.
func (m *Manager) OnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// ========== Login / Registration ==========

// Login exchanges credentials for a token. The returned error is safe to show.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	return m.authenticate(ctx, "login", username, password, m.remote.Login)
}

// Register creates the account and logs it in.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	return m.authenticate(ctx, "register", username, password, m.remote.Register)
}

func (m *Manager) authenticate(
	ctx context.Context,
	op, username, password string,
	call func(context.Context, auth.Credentials) (string, error),
) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		m.fail(xerrors.ErrInvalidInput)
		return xerrors.ErrInvalidInput
	}

	m.mu.Lock()
	m.loading = true
	m.errMsg = ""
	m.mu.Unlock()

	token, err := call(ctx, auth.Credentials{Username: username, Password: password})
	if err == nil && strings.TrimSpace(token) == "" {
		err = errors.New("backend returned an empty token")
	}
	if err != nil {
		display := displayError(op, err)
		m.logger.Warn("authentication failed",
			zap.String("op", op),
			zap.String("username", username),
			zap.Error(err),
		)
		m.fail(display)
		return display
	}

	m.establish(ctx, token, m.decoder.TryDecode(token))
	m.logger.Info("session established", zap.String("op", op), zap.String("username", username))
	return nil
}

// LoginWithExternalToken accepts a token handed back by a federated login.
// A token whose claims cannot be read, or that has already expired, is refused.
func (m *Manager) LoginWithExternalToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	claims, err := m.decoder.Decode(token)
	if err != nil {
		m.logger.Warn("external token rejected", zap.Error(err))
		m.fail(xerrors.ErrInvalidToken)
		return xerrors.ErrInvalidToken
	}
	if claims.ExpiredAt(m.now()) {
		m.logger.Warn("external token rejected",
			zap.String("subject", claims.Subject),
			zap.Time("expired_at", claims.Expiry()),
		)
		m.fail(xerrors.ErrInvalidToken)
		return xerrors.ErrInvalidToken
	}

	m.establish(ctx, token, claims)
	m.logger.Info("session established", zap.String("op", "external"), zap.String("subject", claims.Subject))
	return nil
}

func displayError(op string, err error) error {
	code := api.StatusCode(err)
	if code >= http.StatusBadRequest && code < http.StatusInternalServerError {
		if op == "register" {
			return xerrors.ErrRegistration
		}
		return xerrors.ErrInvalidCredentials
	}
	return xerrors.ErrRemote
}

func (m *Manager) fail(err error) {
	m.mu.Lock()
	m.loading = false
	m.errMsg = err.Error()
	m.mu.Unlock()
}

// establish replaces the session with token and tells the observers.
func (m *Manager) establish(ctx context.Context, token string, claims *jwt.Claims) {
	var expiresAt time.Time
	if claims != nil && !claims.ExpiredAt(m.now()) {
		expiresAt = claims.Expiry()
	}
	if err := m.store.Set(ctx, session.TokenKey, token, expiresAt); err != nil {
		// the session still works for the life of the process
		m.logger.Error("failed to persist session token", zap.Error(err))
	}

	m.mu.Lock()
	m.token = token
	m.identity = identityFrom(claims)
	m.loading = false
	m.errMsg = ""
	m.mu.Unlock()

	m.publish()
}

func identityFrom(claims *jwt.Claims) *auth.Identity {
	if claims == nil {
		return nil
	}
	return &auth.Identity{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ImageURL:  claims.ImageURL,
		ExpiresAt: claims.Expiry(),
	}
}

// ========== Logout / Restore ==========

// Logout clears the token and identity, then sends the UI to the login page.
func (m *Manager) Logout(ctx context.Context) {
	m.clear(ctx)
	m.publish()

	if m.navigator != nil {
		m.navigator.Navigate(m.loginPath)
	}
}

func (m *Manager) clear(ctx context.Context) {
	m.mu.Lock()
	m.token = ""
	m.identity = nil
	m.loading = false
	m.errMsg = ""
	m.mu.Unlock()

	if err := m.store.Delete(ctx, session.TokenKey); err != nil {
		m.logger.Error("failed to delete session token", zap.Error(err))
	}
}

// Restore loads the stored token at startup. An expired token logs the user out.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.store.Get(ctx, session.TokenKey)
	if errors.Is(err, session.ErrNotFound) {
		m.mu.Lock()
		m.token, m.identity = "", nil
		m.mu.Unlock()
		m.publish()
		return nil
	}
	if err != nil {
		m.logger.Error("failed to read session token", zap.Error(err))
		return xerrors.Wrap(err, "failed to restore session")
	}

	claims := m.decoder.TryDecode(token)
	if claims != nil && claims.ExpiredAt(m.now()) {
		m.logger.Info("stored session expired", zap.String("subject", claims.Subject), zap.Time("expired_at", claims.Expiry()))
		m.Logout(ctx)
		return nil
	}
	if claims == nil {
		m.logger.Warn("stored session token could not be decoded, treating as anonymous")
	}

	m.mu.Lock()
	m.token = token
	m.identity = identityFrom(claims)
	m.mu.Unlock()

	m.publish()
	return nil
}

// ========== Queries ==========

// IsAuthenticated reports whether a token is held. It does not check expiry.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Token implements api.TokenSource.
func (m *Manager) Token(context.Context) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Identity returns the decoded claims, or nil when logged out, undecodable or
// expired.
func (m *Manager) Identity() *auth.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identityLocked()
}

func (m *Manager) identityLocked() *auth.Identity {
	if m.token == "" || m.identity == nil {
		return nil
	}
	if !m.identity.ExpiresAt.IsZero() && !m.now().Before(m.identity.ExpiresAt) {
		return nil
	}
	id := *m.identity
	return &id
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() State {
	return State{
		Authenticated: m.token != "",
		Identity:      m.identityLocked(),
		Loading:       m.loading,
		Err:           m.errMsg,
	}
}

func (m *Manager) publish() {
	m.mu.RLock()
	state := m.stateLocked()
	observers := make([]func(State), len(m.observers))
	copy(observers, m.observers)
	m.mu.RUnlock()

	for _, fn := range observers {
		fn(state)
	}
}
