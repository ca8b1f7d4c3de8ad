// Package admin implements the dashboard controller: a two-state machine
// (logged out / logged in) orchestrating the gateway's auth operations and
// the storefront API's product endpoints.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/spicehaven/storefront/internal/models"
)

// State is the controller's visible state.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged in"
	}
	return "logged out"
}

var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrSessionExpired = errors.New("session expired, please log in again")
)

// Authenticator is the slice of the gateway the controller needs.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, token string) error
	GetUser(ctx context.Context, token string) (*models.User, error)
}

// Controller drives the admin flow. Every mutating action re-validates the
// session against the gateway immediately before use rather than trusting
// previously cached state, so a token that expired mid-session is caught on
// the very next action.
type Controller struct {
	auth     Authenticator
	api      *APIClient
	sessions SessionStore

	state   State
	session *models.Session
}

// NewController creates a controller in the logged-out state.
func NewController(auth Authenticator, api *APIClient, sessions SessionStore) *Controller {
	return &Controller{
		auth:     auth,
		api:      api,
		sessions: sessions,
		state:    LoggedOut,
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	return c.state
}

// Session returns the active session, or nil when logged out.
func (c *Controller) Session() *models.Session {
	if c.state != LoggedIn {
		return nil
	}
	return c.session
}

// Resume silently adopts a previously persisted session if the gateway
// still accepts its token. It reports whether a session was restored; a
// stale session is cleared without error, leaving the controller logged out.
func (c *Controller) Resume(ctx context.Context) (bool, error) {
	session, err := c.sessions.Load()
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	if _, err := c.auth.GetUser(ctx, session.AccessToken); err != nil {
		_ = c.sessions.Clear()
		return false, nil
	}

	c.session = session
	c.state = LoggedIn
	return true, nil
}

// Login signs in with email/password credentials. On success the session
// is persisted and the controller moves to logged in; on failure it stays
// logged out and the gateway's error text is surfaced.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	session, err := c.auth.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := c.sessions.Save(session); err != nil {
		return err
	}

	c.session = session
	c.state = LoggedIn
	return nil
}

// Logout clears the gateway session and returns to logged out. A sign-out
// the gateway rejects keeps the current state, matching the dashboard's
// behavior of surfacing the failure instead of silently dropping state.
func (c *Controller) Logout(ctx context.Context) error {
	if c.state != LoggedIn {
		return ErrNotLoggedIn
	}

	if err := c.auth.SignOut(ctx, c.session.AccessToken); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	if err := c.sessions.Clear(); err != nil {
		return err
	}

	c.session = nil
	c.state = LoggedOut
	return nil
}

// Products fetches the catalog. The list endpoint is public, so this works
// in either state.
func (c *Controller) Products(ctx context.Context) ([]models.Product, error) {
	return c.api.List(ctx)
}

// AddProduct creates a product after re-validating the session.
func (c *Controller) AddProduct(ctx context.Context, in models.NewProduct) (*models.Product, error) {
	token, err := c.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	return c.api.Add(ctx, token, in)
}

// DeleteProduct removes a product after re-validating the session and
// returns the server's confirmation message.
func (c *Controller) DeleteProduct(ctx context.Context, id string) (string, error) {
	token, err := c.requireSession(ctx)
	if err != nil {
		return "", err
	}
	return c.api.Delete(ctx, token, id)
}

// requireSession checks that a session exists and that the gateway still
// resolves its token right now. An invalid token drops the controller back
// to logged out and clears the persisted session.
func (c *Controller) requireSession(ctx context.Context) (string, error) {
	if c.state != LoggedIn || c.session == nil {
		return "", ErrNotLoggedIn
	}

	if _, err := c.auth.GetUser(ctx, c.session.AccessToken); err != nil {
		c.session = nil
		c.state = LoggedOut
		_ = c.sessions.Clear()
		return "", ErrSessionExpired
	}

	return c.session.AccessToken, nil
}
