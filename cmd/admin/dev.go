package main

import (
	"context"
	"time"

	"github.com/spicehaven/storefront/internal/gateway"
	"github.com/spicehaven/storefront/internal/models"
)

// devAuthenticator stands in for the auth gateway when no gateway URL is
// configured, for use against a server running the in-memory store. The
// password entered at login is used directly as the bearer token; the
// server's dev-token list is what actually accepts or rejects it.
type devAuthenticator struct{}

func (devAuthenticator) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if password == "" {
		return nil, gateway.Errf(gateway.KindAuthInvalid, "invalid credentials")
	}
	return &models.Session{
		AccessToken: password,
		ExpiresAt:   time.Now().Add(24 * time.Hour),
		User:        models.User{ID: "dev", Email: email},
	}, nil
}

func (devAuthenticator) SignOut(ctx context.Context, token string) error {
	return nil
}

func (devAuthenticator) GetUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, gateway.Errf(gateway.KindAuthMissing, "no token provided")
	}
	return &models.User{ID: "dev", Email: "dev@local"}, nil
}
