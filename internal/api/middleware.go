package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/recreate-labs/recreate/internal/auth"
)

// SessionMiddleware resolves an optional bearer token into a session on the
// request context. Resolution is non-fatal here: handlers that require
// authentication also accept the legacy credentials-in-body form, so they
// enforce it themselves.
type SessionMiddleware struct {
	sessions auth.Store
}

// NewSessionMiddleware creates new session middleware
func NewSessionMiddleware(sessions auth.Store) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// Resolve attaches the session for a valid bearer token, if one is present
func (m *SessionMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.sessions.Get(r.Context(), token)
		if err != nil {
			slog.Debug("session token rejected", "key_prefix", maskToken(token), "error", err)
			next.ServeHTTP(w, r)
			return
		}

		slog.Debug("authenticated request", "username", session.Username, "key_prefix", maskToken(token))
		next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
	})
}

// extractToken extracts a session token from request headers.
// Supports "Bearer <token>" or a raw token in the Authorization header.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return authHeader
}

// maskToken returns the first 8 chars of a token for safe logging
func maskToken(token string) string {
	if len(token) < 8 {
		return "***"
	}
	return token[:8] + "..."
}
