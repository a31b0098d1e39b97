package api

import (
	"context"

	"github.com/recreate-labs/recreate/internal/models"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext extracts the authenticated session from context
func SessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(sessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// ContextWithSession adds a session to context
func ContextWithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}
