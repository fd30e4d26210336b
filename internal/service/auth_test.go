package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sareehouse/storefront/internal/catalog"
	"github.com/sareehouse/storefront/internal/kvstore/memory"
	apperrors "github.com/sareehouse/storefront/pkg/errors"
)

type mockLoginAPI struct {
	mock.Mock
}

func (m *mockLoginAPI) Login(ctx context.Context, username, password string) (catalog.LoginResult, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(catalog.LoginResult), args.Error(1)
}

func newSessionFixture(api LoginAPI) (*Session, *memory.Store) {
	kv := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSession(api, kv, []byte("test-secret-32-bytes-long-enough"), "static-admin-key", time.Hour, log), kv
}

func TestLoginPersistsSessionAndIssuesToken(t *testing.T) {
	api := &mockLoginAPI{}
	api.On("Login", mock.Anything, "admin", "secret").
		Return(catalog.LoginResult{Success: true, AdminKey: "issued-key"}, nil)
	s, kv := newSessionFixture(api)
	ctx := context.Background()

	token, err := s.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.True(t, claims.Admin)

	flag, err := kv.Get(ctx, "adminAuth")
	require.NoError(t, err)
	assert.Equal(t, "true", string(flag))

	key, err := s.AdminKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "issued-key", key)

	isAdmin, err := s.IsAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestLoginFallsBackToStaticKey(t *testing.T) {
	api := &mockLoginAPI{}
	api.On("Login", mock.Anything, "admin", "secret").
		Return(catalog.LoginResult{Success: true}, nil)
	s, _ := newSessionFixture(api)

	_, err := s.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	key, err := s.AdminKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "static-admin-key", key)
}

func TestLoginRejectsEmptyCredentialsLocally(t *testing.T) {
	api := &mockLoginAPI{}
	s, _ := newSessionFixture(api)

	_, err := s.Login(context.Background(), "", "secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	api := &mockLoginAPI{}
	api.On("Login", mock.Anything, "admin", "wrong").
		Return(catalog.LoginResult{}, apperrors.Unauthorized("invalid credentials"))
	s, _ := newSessionFixture(api)
	ctx := context.Background()

	_, err := s.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	isAdmin, err := s.IsAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	key, err := s.AdminKey(ctx)
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestLogoutClearsSession(t *testing.T) {
	api := &mockLoginAPI{}
	api.On("Login", mock.Anything, "admin", "secret").
		Return(catalog.LoginResult{Success: true, AdminKey: "k"}, nil)
	s, _ := newSessionFixture(api)
	ctx := context.Background()

	_, err := s.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx))

	isAdmin, err := s.IsAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	key, err := s.AdminKey(ctx)
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	s, _ := newSessionFixture(&mockLoginAPI{})

	_, err := s.VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	api := &mockLoginAPI{}
	api.On("Login", mock.Anything, "admin", "secret").
		Return(catalog.LoginResult{Success: true, AdminKey: "k"}, nil)
	s, _ := newSessionFixture(api)

	token, err := s.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	other, _ := newSessionFixture(&mockLoginAPI{})
	other.secret = []byte("a-completely-different-secret-key")

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	api := &mockLoginAPI{}
	api.On("Login", mock.Anything, "admin", "secret").
		Return(catalog.LoginResult{Success: true, AdminKey: "k"}, nil)
	s, _ := newSessionFixture(api)
	s.nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := s.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	_, err = s.VerifyToken(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
