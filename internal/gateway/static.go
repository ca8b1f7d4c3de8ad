package gateway

import (
	"context"

	"github.com/spicehaven/storefront/internal/models"
)

// StaticVerifier resolves bearer tokens against a fixed list. It backs the
// in-memory dev backend and tests, where no hosted auth service exists.
type StaticVerifier struct {
	tokens map[string]models.User
}

// NewStaticVerifier accepts the given tokens, resolving each to a synthetic
// dev user derived from the token itself.
func NewStaticVerifier(tokens []string) *StaticVerifier {
	m := make(map[string]models.User, len(tokens))
	for _, token := range tokens {
		m[token] = models.User{
			ID:    "dev-" + token,
			Email: token + "@dev.local",
		}
	}
	return &StaticVerifier{tokens: m}
}

// GetUser implements the same contract as Client.GetUser.
func (v *StaticVerifier) GetUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, Errf(KindAuthMissing, "no token provided")
	}
	user, ok := v.tokens[token]
	if !ok {
		return nil, Errf(KindAuthInvalid, "invalid token")
	}
	return &user, nil
}
