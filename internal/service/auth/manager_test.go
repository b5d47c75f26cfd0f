package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront-agent/internal/api"
	"storefront-agent/internal/domain/auth"
	xerrors "storefront-agent/internal/pkg/errors"
	storejwt "storefront-agent/internal/pkg/jwt"
	"storefront-agent/internal/pkg/jwt/jwttest"
	"storefront-agent/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRemote struct {
	token string
	err   error
	calls []auth.Credentials
}

func (f *fakeRemote) Login(_ context.Context, creds auth.Credentials) (string, error) {
	f.calls = append(f.calls, creds)
	return f.token, f.err
}

func (f *fakeRemote) Register(_ context.Context, creds auth.Credentials) (string, error) {
	f.calls = append(f.calls, creds)
	return f.token, f.err
}

type fakeNavigator struct{ paths []string }

func (f *fakeNavigator) Navigate(path string) { f.paths = append(f.paths, path) }

func newTestManager(t *testing.T, remote *fakeRemote) (*Manager, *session.MemoryStore, *fakeNavigator) {
	t.Helper()
	store := session.NewMemoryStore()
	nav := &fakeNavigator{}
	return NewManager(remote, store, nav, "", zap.NewNop()), store, nav
}

func TestManager_Login(t *testing.T) {
	token := jwttest.TokenWithImage(t, "ana", storejwt.RoleAdmin, "https://cdn.example.com/ana.png", time.Hour)
	remote := &fakeRemote{token: token}
	m, store, _ := newTestManager(t, remote)

	var seen []State
	m.OnChange(func(s State) { seen = append(seen, s) })

	require.NoError(t, m.Login(context.Background(), " ana ", "secret"))

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, token, m.Token(context.Background()))
	require.Len(t, remote.calls, 1)
	assert.Equal(t, "ana", remote.calls[0].Username)

	id := m.Identity()
	require.NotNil(t, id)
	assert.Equal(t, "ana", id.Subject)
	assert.True(t, id.IsAdmin())
	assert.Equal(t, "https://cdn.example.com/ana.png", id.ImageURL)

	stored, err := store.Get(context.Background(), session.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	require.Len(t, seen, 1)
	assert.True(t, seen[0].Authenticated)
	assert.False(t, seen[0].Loading)
}

func TestManager_LoginFailures(t *testing.T) {
	cases := map[string]struct {
		err  error
		want error
	}{
		"rejected credentials": {err: &api.StatusError{Code: http.StatusUnauthorized}, want: xerrors.ErrInvalidCredentials},
		"server error":         {err: &api.StatusError{Code: http.StatusInternalServerError}, want: xerrors.ErrRemote},
		"transport":            {err: errors.New("connection refused"), want: xerrors.ErrRemote},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			m, _, _ := newTestManager(t, &fakeRemote{err: tc.err})

			err := m.Login(context.Background(), "ana", "secret")
			assert.ErrorIs(t, err, tc.want)

			state := m.State()
			assert.False(t, state.Authenticated)
			assert.False(t, state.Loading)
			assert.Equal(t, tc.want.Error(), state.Err)
			assert.Nil(t, m.Identity())
		})
	}
}

func TestManager_LoginValidatesInputLocally(t *testing.T) {
	remote := &fakeRemote{}
	m, _, _ := newTestManager(t, remote)

	assert.ErrorIs(t, m.Login(context.Background(), "  ", "secret"), xerrors.ErrInvalidInput)
	assert.Empty(t, remote.calls)
}

func TestManager_RegisterRejected(t *testing.T) {
	m, _, _ := newTestManager(t, &fakeRemote{err: &api.StatusError{Code: http.StatusBadRequest}})

	err := m.Register(context.Background(), "ana", "secret")
	assert.ErrorIs(t, err, xerrors.ErrRegistration)
	assert.False(t, m.IsAuthenticated())
}

func TestManager_Register(t *testing.T) {
	m, _, _ := newTestManager(t, &fakeRemote{token: jwttest.Token(t, "new", storejwt.RoleUser, time.Hour)})

	require.NoError(t, m.Register(context.Background(), "new", "secret"))
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "new", m.Identity().Subject)
}

func TestManager_LoginWithExternalToken(t *testing.T) {
	m, _, _ := newTestManager(t, &fakeRemote{})

	require.NoError(t, m.LoginWithExternalToken(context.Background(), jwttest.Token(t, "google-user", storejwt.RoleUser, time.Hour)))
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "google-user", m.Identity().Subject)
	assert.False(t, m.Identity().IsAdmin())
}

func TestManager_LoginWithExternalTokenRejectsGarbage(t *testing.T) {
	m, _, _ := newTestManager(t, &fakeRemote{})

	err := m.LoginWithExternalToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, xerrors.ErrInvalidToken)
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, xerrors.ErrInvalidToken.Error(), m.State().Err)
}

func TestManager_LoginWithExternalTokenRejectsExpired(t *testing.T) {
	m, store, _ := newTestManager(t, &fakeRemote{})

	var seen int
	m.OnChange(func(State) { seen++ })

	err := m.LoginWithExternalToken(context.Background(), jwttest.Token(t, "google-user", storejwt.RoleUser, -time.Minute))
	assert.ErrorIs(t, err, xerrors.ErrInvalidToken)
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.Identity())
	assert.Zero(t, seen)

	_, err = store.Get(context.Background(), session.TokenKey)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_Logout(t *testing.T) {
	m, store, nav := newTestManager(t, &fakeRemote{token: jwttest.Token(t, "ana", storejwt.RoleUser, time.Hour)})
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "ana", "secret"))

	var last State
	m.OnChange(func(s State) { last = s })

	m.Logout(ctx)

	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.Identity())
	assert.False(t, last.Authenticated)
	assert.Equal(t, []string{"/login"}, nav.paths)

	_, err := store.Get(ctx, session.TokenKey)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_RestoreValidToken(t *testing.T) {
	m, store, nav := newTestManager(t, &fakeRemote{})
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, session.TokenKey, jwttest.Token(t, "ana", storejwt.RoleUser, time.Hour), time.Time{}))

	var seen []State
	m.OnChange(func(s State) { seen = append(seen, s) })

	require.NoError(t, m.Restore(ctx))
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "ana", m.Identity().Subject)
	assert.Empty(t, nav.paths)
	require.Len(t, seen, 1)
	assert.True(t, seen[0].Authenticated)
}

func TestManager_RestoreExpiredTokenLogsOut(t *testing.T) {
	m, store, nav := newTestManager(t, &fakeRemote{})
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, session.TokenKey, jwttest.Token(t, "ana", storejwt.RoleUser, -time.Minute), time.Time{}))

	require.NoError(t, m.Restore(ctx))

	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.Identity())
	assert.Equal(t, []string{"/login"}, nav.paths)

	_, err := store.Get(ctx, session.TokenKey)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_RestoreEmptyStorage(t *testing.T) {
	m, _, _ := newTestManager(t, &fakeRemote{})

	var seen []State
	m.OnChange(func(s State) { seen = append(seen, s) })

	require.NoError(t, m.Restore(context.Background()))
	assert.False(t, m.IsAuthenticated())
	require.Len(t, seen, 1)
	assert.False(t, seen[0].Authenticated)
}

func TestManager_UndecodableTokenIsAnonymousButPresent(t *testing.T) {
	m, store, _ := newTestManager(t, &fakeRemote{})
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, session.TokenKey, "garbage", time.Time{}))

	require.NoError(t, m.Restore(ctx))
	assert.True(t, m.IsAuthenticated())
	assert.Nil(t, m.Identity())
}

func TestManager_IdentityExpiresWithClock(t *testing.T) {
	m, _, _ := newTestManager(t, &fakeRemote{token: jwttest.Token(t, "ana", storejwt.RoleUser, time.Hour)})
	require.NoError(t, m.Login(context.Background(), "ana", "secret"))
	require.NotNil(t, m.Identity())

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Nil(t, m.Identity())
	assert.True(t, m.IsAuthenticated())
}

func TestManager_ObserversRunInOrder(t *testing.T) {
	m, _, _ := newTestManager(t, &fakeRemote{token: jwttest.Token(t, "ana", storejwt.RoleUser, time.Hour)})

	var order []int
	m.OnChange(func(State) { order = append(order, 1) })
	m.OnChange(func(State) { order = append(order, 2) })

	require.NoError(t, m.Login(context.Background(), "ana", "secret"))
	assert.Equal(t, []int{1, 2}, order)
}
