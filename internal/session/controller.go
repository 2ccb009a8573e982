// Package session owns the authentication token lifecycle. The controller is
// the single mutator of the token; every other component reads it through
// Token() per request and never caches it.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smartpark/parking-terminal/internal/api"
	"github.com/smartpark/parking-terminal/internal/models"
)

// State is the controller's position in the auth lifecycle
type State int

const (
	// Anonymous means no token is held
	Anonymous State = iota
	// Resolving means a token is held but the profile fetch is in flight
	Resolving
	// Authenticated means token and user are both present
	Authenticated
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// TokenStore is the durable storage the token survives restarts in
type TokenStore interface {
	Token() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// Controller maintains the single source of truth for "is the user
// authenticated and who are they". A non-nil user never outlives an empty
// token: both are cleared under one lock acquisition.
type Controller struct {
	auth   api.AuthClient
	store  TokenStore
	logger zerolog.Logger

	mu    sync.Mutex
	token string
	user  *models.User
}

// New creates a controller. The token is not re-hydrated until Resume.
func New(auth api.AuthClient, store TokenStore, logger zerolog.Logger) *Controller {
	return &Controller{
		auth:   auth,
		store:  store,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Token returns the current bearer token, or "" when anonymous. Passed to
// api clients as their TokenSource.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// User returns the current profile, or nil when not authenticated
func (c *Controller) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// State derives the lifecycle state from what the controller holds
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.token == "":
		return Anonymous
	case c.user == nil:
		return Resolving
	default:
		return Authenticated
	}
}

// HasPersistedToken reports whether durable storage holds a token, i.e.
// whether a cold start should begin in the Resolving state.
func (c *Controller) HasPersistedToken() bool {
	token, err := c.store.Token()
	return err == nil && token != ""
}

// Login exchanges credentials for a token and resolves the profile. The
// token is persisted only after the profile resolves: a token that cannot
// resolve a profile is never retained as authoritative.
func (c *Controller) Login(ctx context.Context, username, password string) (*models.User, error) {
	token, err := c.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.adopt(ctx, token)
}

// Register creates an account and logs straight in with the same credentials
func (c *Controller) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	if _, err := c.auth.Register(ctx, reg); err != nil {
		return nil, err
	}
	return c.Login(ctx, reg.Email, reg.Password)
}

// GoogleLogin exchanges a federated credential for a token and resolves the
// profile, with the same persist-after-verify ordering as Login
func (c *Controller) GoogleLogin(ctx context.Context, assertion string) (*models.User, error) {
	token, err := c.auth.GoogleLogin(ctx, assertion)
	if err != nil {
		return nil, err
	}
	return c.adopt(ctx, token)
}

// Resume re-hydrates a persisted token from durable storage and resolves its
// profile. Returns nil, nil when there is no persisted session.
func (c *Controller) Resume(ctx context.Context) (*models.User, error) {
	token, err := c.store.Token()
	if err != nil {
		return nil, fmt.Errorf("reading persisted token: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	c.mu.Lock()
	c.token = token
	c.user = nil
	c.mu.Unlock()

	return c.ResolveProfile(ctx)
}

// adopt verifies a freshly issued token by resolving its profile, then
// installs and persists it
func (c *Controller) adopt(ctx context.Context, token string) (*models.User, error) {
	user, err := c.auth.CurrentUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verifying new token: %w", err)
	}

	c.mu.Lock()
	c.token = token
	c.user = user
	c.mu.Unlock()

	if err := c.store.SaveToken(token); err != nil {
		c.logger.Error().Err(err).Msg("persisting token")
	}
	c.logger.Info().Str("user", user.Email).Msg("session established")
	return user, nil
}

// ResolveProfile re-fetches the profile for the current token. A 401/403
// from this call, and only this call, forces logout as a side effect: token,
// user and durable storage are cleared before the error is returned. Any
// other failure leaves the session untouched.
func (c *Controller) ResolveProfile(ctx context.Context) (*models.User, error) {
	token := c.Token()
	if token == "" {
		return nil, nil
	}

	user, err := c.auth.CurrentUser(ctx, token)
	if err != nil {
		if api.IsUnauthorized(err) {
			c.logger.Warn().Msg("profile resolution rejected, forcing logout")
			c.Logout()
		}
		return nil, err
	}

	c.mu.Lock()
	// The token may have been cleared while the fetch was in flight
	if c.token != token {
		c.mu.Unlock()
		return nil, nil
	}
	c.user = user
	c.mu.Unlock()

	return user, nil
}

// Logout clears token and user synchronously and removes the persisted
// token. Idempotent: a no-op with no active session.
func (c *Controller) Logout() {
	c.mu.Lock()
	hadSession := c.token != ""
	c.token = ""
	c.user = nil
	c.mu.Unlock()

	if err := c.store.ClearToken(); err != nil {
		c.logger.Error().Err(err).Msg("clearing persisted token")
	}
	if hadSession {
		c.logger.Info().Msg("session ended")
	}
}
