// Package api implements the admin REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/virel/pagesmith/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the authenticated identity stored on the request
// context, if any.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// PassthroughMiddleware lets every request through (disabled mode).
func PassthroughMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return next
	}
}

// TokenMiddleware validates a static Bearer token.
func TokenMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bearerToken(r) != token {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionMiddleware validates a session token issued by the OAuth flow and
// enforces the owner policy. The resolved identity is stored on the request
// context.
func SessionMiddleware(sessions *auth.SessionManager, policy auth.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			id, err := sessions.Verify(raw)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			if !policy.IsAuthorized(id) {
				writeJSON(w, http.StatusForbidden, errorBody("forbidden"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
		})
	}
}
