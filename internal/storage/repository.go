package storage

import (
	"context"
	"errors"

	"github.com/recreate-labs/recreate/internal/models"
)

// Common errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrIdeaNotFound = errors.New("idea not found")
)

// Repository defines the interface for user and idea persistence. The
// default backing store is in-memory; a PostgreSQL implementation can be
// substituted without touching handler logic.
type Repository interface {
	// Users
	GetUser(ctx context.Context, username string) (*models.User, error)
	SeedUser(ctx context.Context, user *models.User) error
	RecordCompletion(ctx context.Context, username string, rec models.CompletionRecord) (*models.User, error)

	// Ideas
	AddIdeas(ctx context.Context, ideas []models.RecyclingIdea) error
	GetIdea(ctx context.Context, id string) (*models.RecyclingIdea, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
