package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/uplyft/shopchat-client/internal/gateway"
	"github.com/uplyft/shopchat-client/internal/mocks"
	"github.com/uplyft/shopchat-client/internal/model"
	"github.com/uplyft/shopchat-client/internal/testutil"
)

func TestSession_Bootstrap_NoCredential(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	creds := &mocks.CredentialStore{}

	creds.On("Get", mock.Anything).Return("", model.ErrNotFound)

	s := NewSession(gw, creds, testutil.MakeNoopLogger())
	require.NoError(t, s.Bootstrap(ctx))

	assert.Equal(t, model.SessionAnonymous, s.State())
	assert.False(t, s.IsAuthenticated())
	gw.AssertNotCalled(t, "Get", mock.Anything, "/auth/me", mock.Anything, mock.Anything)
}

func TestSession_Bootstrap_ValidCredential(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	creds := &mocks.CredentialStore{}

	creds.On("Get", mock.Anything).Return("stored-token", nil)
	gw.On("Get", mock.Anything, "/auth/me", url.Values(nil), mock.Anything).
		Run(func(args mock.Arguments) {
			*(args.Get(3).(*model.User)) = model.User{ID: 1, Email: "a@b.c", FirstName: "Ada"}
		}).
		Return(nil)

	s := NewSession(gw, creds, testutil.MakeNoopLogger())
	require.NoError(t, s.Bootstrap(ctx))

	assert.Equal(t, model.SessionAuthenticated, s.State())
	assert.True(t, s.IsAuthenticated())

	user, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "a@b.c", user.Email)
}

func TestSession_Bootstrap_RejectedCredential(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	creds := &mocks.CredentialStore{}

	creds.On("Get", mock.Anything).Return("stale-token", nil)
	creds.On("Clear", mock.Anything).Return(nil)
	gw.On("Get", mock.Anything, "/auth/me", url.Values(nil), mock.Anything).
		Return(&gateway.Error{Status: 401, Detail: "Could not validate credentials"})

	s := NewSession(gw, creds, testutil.MakeNoopLogger())
	require.NoError(t, s.Bootstrap(ctx))

	assert.Equal(t, model.SessionAnonymous, s.State())
	assert.False(t, s.IsAuthenticated())
	creds.AssertCalled(t, "Clear", mock.Anything)
}

func TestSession_Login_Success(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	creds := &mocks.CredentialStore{}

	gw.On("PostForm", mock.Anything, "/auth/login", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			form := args.Get(2).(url.Values)
			assert.Equal(t, "a@b.c", form.Get("username"))
			assert.Equal(t, "pw", form.Get("password"))
			*(args.Get(3).(*struct {
				AccessToken string `json:"access_token"`
			})) = struct {
				AccessToken string `json:"access_token"`
			}{AccessToken: "fresh-token"}
		}).
		Return(nil)
	creds.On("Set", mock.Anything, "fresh-token").Return(nil)
	gw.On("Get", mock.Anything, "/auth/me", url.Values(nil), mock.Anything).
		Run(func(args mock.Arguments) {
			*(args.Get(3).(*model.User)) = model.User{ID: 7, Email: "a@b.c", FirstName: "Ada", LastName: "Lovelace"}
		}).
		Return(nil)

	s := NewSession(gw, creds, testutil.MakeNoopLogger())

	user, err := s.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.DisplayName())
	assert.True(t, s.IsAuthenticated())
	creds.AssertCalled(t, "Set", mock.Anything, "fresh-token")
}

func TestSession_Login_BadCredentials(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	creds := &mocks.CredentialStore{}

	gw.On("PostForm", mock.Anything, "/auth/login", mock.Anything, mock.Anything).
		Return(&gateway.Error{Status: 400, Detail: "Incorrect email or password"})

	s := NewSession(gw, creds, testutil.MakeNoopLogger())

	_, err := s.Login(ctx, "bad@user.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", err.Error())
	assert.False(t, s.IsAuthenticated())
	creds.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestSession_Login_NetworkFailureUsesFallback(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	creds := &mocks.CredentialStore{}

	gw.On("PostForm", mock.Anything, "/auth/login", mock.Anything, mock.Anything).
		Return(errors.New("request failed: connection refused"))

	s := NewSession(gw, creds, testutil.MakeNoopLogger())

	_, err := s.Login(ctx, "a@b.c", "pw")
	require.Error(t, err)
	assert.Equal(t, "Login failed", err.Error())
}

func TestSession_Register_Success(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	creds := &mocks.CredentialStore{}

	params := model.RegisterParams{Email: "new@user.com", Password: "pw", FirstName: "New", LastName: "User"}
	gw.On("PostJSON", mock.Anything, "/auth/register", params, mock.Anything).Return(nil)

	s := NewSession(gw, creds, testutil.MakeNoopLogger())

	require.NoError(t, s.Register(ctx, params))
	// Registration does not log the user in.
	assert.False(t, s.IsAuthenticated())
	creds.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestSession_Register_FailureUsesFallback(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	creds := &mocks.CredentialStore{}

	gw.On("PostJSON", mock.Anything, "/auth/register", mock.Anything, mock.Anything).
		Return(errors.New("request failed: timeout"))

	s := NewSession(gw, creds, testutil.MakeNoopLogger())

	err := s.Register(ctx, model.RegisterParams{Email: "x"})
	require.Error(t, err)
	assert.Equal(t, "Registration failed. Please check your input and try again.", err.Error())
}

func TestSession_Register_SurfacesBackendDetail(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	creds := &mocks.CredentialStore{}

	gw.On("PostJSON", mock.Anything, "/auth/register", mock.Anything, mock.Anything).
		Return(&gateway.Error{Status: 400, Detail: "Email already registered"})

	s := NewSession(gw, creds, testutil.MakeNoopLogger())

	err := s.Register(ctx, model.RegisterParams{Email: "dup@user.com"})
	require.Error(t, err)
	assert.Equal(t, "Email already registered", err.Error())
}

func TestSession_Logout_Idempotent(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	creds := &mocks.CredentialStore{}

	creds.On("Get", mock.Anything).Return("stored-token", nil)
	creds.On("Clear", mock.Anything).Return(nil)
	gw.On("Get", mock.Anything, "/auth/me", url.Values(nil), mock.Anything).
		Run(func(args mock.Arguments) {
			*(args.Get(3).(*model.User)) = model.User{ID: 1, Email: "a@b.c"}
		}).
		Return(nil)

	s := NewSession(gw, creds, testutil.MakeNoopLogger())
	require.NoError(t, s.Bootstrap(ctx))
	require.True(t, s.IsAuthenticated())

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, model.SessionAnonymous, s.State())

	// A second logout is harmless.
	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.IsAuthenticated())
}

func TestSession_HandleUnauthorized(t *testing.T) {
	ctx := context.Background()
	gw := &mocks.Gateway{}
	creds := &mocks.CredentialStore{}

	creds.On("Get", mock.Anything).Return("stored-token", nil)
	gw.On("Get", mock.Anything, "/auth/me", url.Values(nil), mock.Anything).
		Run(func(args mock.Arguments) {
			*(args.Get(3).(*model.User)) = model.User{ID: 1, Email: "a@b.c"}
		}).
		Return(nil)

	s := NewSession(gw, creds, testutil.MakeNoopLogger())
	require.NoError(t, s.Bootstrap(ctx))
	require.True(t, s.IsAuthenticated())

	// The gateway has already erased the slot; the event drops the
	// derived identity.
	s.HandleUnauthorized()

	assert.False(t, s.IsAuthenticated())
	_, ok := s.CurrentUser()
	assert.False(t, ok)
}
