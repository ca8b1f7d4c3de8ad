package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spicehaven/storefront/internal/models"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// TokenVerifier resolves a bearer token to a user. The gateway client
// implements this in production; tests and the memory backend use a
// static verifier.
type TokenVerifier interface {
	GetUser(ctx context.Context, token string) (*models.User, error)
}

// BearerAuth middleware enforces the authenticate-then-act contract shared
// by all mutating routes: a bearer token must be present and must resolve
// to a valid user at the moment of the call. Resolution is never cached;
// a token that expired mid-session fails the very next request.
func BearerAuth(verifier TokenVerifier, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, "No token provided")
				return
			}

			user, err := verifier.GetUser(r.Context(), token)
			if err != nil || user == nil {
				logger.Warn("token rejected", "path", r.URL.Path, "error", err)
				writeAuthError(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom returns the authenticated user placed on the context by
// BearerAuth, or nil if the request never passed through it.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
