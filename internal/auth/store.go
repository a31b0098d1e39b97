package auth

import (
	"context"
	"errors"

	"github.com/recreate-labs/recreate/internal/models"
)

// ErrSessionNotFound is returned for unknown or expired session tokens.
var ErrSessionNotFound = errors.New("session not found")

// Store issues and validates opaque session tokens. Sessions replace
// resending the password on every privileged request; the legacy
// credentials-in-body path remains supported at the API layer.
type Store interface {
	// Create issues a new session for the user.
	Create(ctx context.Context, username string) (*models.Session, error)

	// Get resolves a token to its session. Expired sessions are treated
	// as not found.
	Get(ctx context.Context, token string) (*models.Session, error)

	// Delete revokes a session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error

	Close() error
}
