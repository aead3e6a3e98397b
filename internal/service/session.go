package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/uplyft/shopchat-client/internal/logger"
	"github.com/uplyft/shopchat-client/internal/model"
	"github.com/uplyft/shopchat-client/internal/token"
)

const (
	loginFallback    = "Login failed"
	registerFallback = "Registration failed. Please check your input and try again."
)

// Session owns the authentication credential and the identity derived
// from it. It moves through unknown → checking → authenticated or
// anonymous, and never calls the other stores.
type Session struct {
	gateway     model.Gateway
	credentials model.CredentialStore
	logger      *logger.Logger

	mu        sync.RWMutex
	state     model.SessionState
	user      *model.User
	expiresAt time.Time
}

func NewSession(gateway model.Gateway, credentials model.CredentialStore, logger *logger.Logger) *Session {
	return &Session{
		gateway:     gateway,
		credentials: credentials,
		logger:      logger,
		state:       model.SessionUnknown,
	}
}

// Bootstrap resolves a credential left over from a previous run. With
// no stored credential the session settles anonymous without touching
// the network; otherwise the backend decides whether the token is
// still good.
func (s *Session) Bootstrap(ctx context.Context) error {
	stored, err := s.credentials.Get(ctx)
	if errors.Is(err, model.ErrNotFound) {
		s.setAnonymous()
		return nil
	}
	if err != nil {
		s.setAnonymous()
		return fmt.Errorf("failed to read credential slot: %w", err)
	}

	s.logTokenClaims(stored)

	s.mu.Lock()
	s.state = model.SessionChecking
	s.mu.Unlock()

	var user model.User
	if err := s.gateway.Get(ctx, "/auth/me", nil, &user); err != nil {
		s.logger.Info("Session store: stored credential rejected",
			"error", err.Error())
		if err := s.credentials.Clear(ctx); err != nil {
			s.logger.Error("Session store: failed to erase credential slot",
				"error", err.Error())
		}
		s.setAnonymous()
		return nil
	}

	s.mu.Lock()
	s.state = model.SessionAuthenticated
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("Session store: session restored",
		"email", user.Email)

	return nil
}

// Login exchanges credentials for a bearer token and resolves the
// identity behind it. The login endpoint is form-encoded; this is a
// backend contract, not a choice.
func (s *Session) Login(ctx context.Context, email, password string) (model.User, error) {
	s.logger.Debug("Session store: logging in",
		"email", email)

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := s.gateway.PostForm(ctx, "/auth/login", form, &tokenResp); err != nil {
		s.logger.Info("Session store: login rejected",
			"email", email,
			"error", err.Error())
		return model.User{}, wrapOp(err, loginFallback)
	}

	if err := s.credentials.Set(ctx, tokenResp.AccessToken); err != nil {
		return model.User{}, fmt.Errorf("failed to persist credential: %w", err)
	}

	s.logTokenClaims(tokenResp.AccessToken)

	var user model.User
	if err := s.gateway.Get(ctx, "/auth/me", nil, &user); err != nil {
		return model.User{}, wrapOp(err, loginFallback)
	}

	s.mu.Lock()
	s.state = model.SessionAuthenticated
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("Session store: login succeeded",
		"email", user.Email)

	return user, nil
}

// Register creates an account. It does not log the new user in.
func (s *Session) Register(ctx context.Context, params model.RegisterParams) error {
	s.logger.Debug("Session store: registering",
		"email", params.Email)

	if err := s.gateway.PostJSON(ctx, "/auth/register", params, nil); err != nil {
		s.logger.Info("Session store: registration rejected",
			"email", params.Email,
			"error", err.Error())
		return wrapOp(err, registerFallback)
	}

	s.logger.Info("Session store: registration succeeded",
		"email", params.Email)

	return nil
}

// Logout erases the credential and identity locally. No network call
// is made; calling it while anonymous is harmless.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.credentials.Clear(ctx); err != nil {
		return fmt.Errorf("failed to erase credential slot: %w", err)
	}

	s.setAnonymous()
	s.logger.Info("Session store: logged out")

	return nil
}

// HandleUnauthorized is the gateway's unauthorized-event subscriber.
// The gateway has already erased the credential slot; here the derived
// identity is dropped so isAuthenticated flips immediately.
func (s *Session) HandleUnauthorized() {
	s.setAnonymous()
}

// IsAuthenticated reports whether a resolved identity is present.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == model.SessionAuthenticated && s.user != nil
}

// CurrentUser returns the resolved identity, if any.
func (s *Session) CurrentUser() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// State returns the current lifecycle state.
func (s *Session) State() model.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ExpiresAt returns the token expiry claim, zero when unknown.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) setAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = model.SessionAnonymous
	s.user = nil
	s.expiresAt = time.Time{}
}

// logTokenClaims records the unverified expiry claim for diagnostics
// and for the view layer's session display. The backend remains the
// authority on token validity.
func (s *Session) logTokenClaims(tokenString string) {
	claims, err := token.Inspect(tokenString)
	if err != nil {
		s.logger.Debug("Session store: token claims unreadable",
			"error", err.Error())
		return
	}

	s.mu.Lock()
	s.expiresAt = claims.ExpiresAt
	s.mu.Unlock()

	s.logger.Debug("Session store: token claims",
		"subject", claims.Subject,
		"expires_at", claims.ExpiresAt,
		"expired", claims.Expired(time.Now()))
}
