package storage

import (
	"context"
	"sync"

	"github.com/recreate-labs/recreate/internal/models"
)

// MemoryRepository implements Repository with process-local maps. Both
// collections are append-only: users are never deleted and ideas are never
// mutated after insertion. Growth is unbounded over the process lifetime.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
	ideas map[string]models.RecyclingIdea
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]*models.User),
		ideas: make(map[string]models.RecyclingIdea),
	}
}

// GetUser retrieves a user by username
func (r *MemoryRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyUser(user), nil
}

// SeedUser inserts a user if no record with the same username exists
func (r *MemoryRepository) SeedUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return nil
	}
	r.users[user.Username] = copyUser(user)
	return nil
}

// RecordCompletion awards the record's points to the user, increments the
// completed-project count and appends the record to the user's history.
// Returns the updated user.
func (r *MemoryRepository) RecordCompletion(ctx context.Context, username string, rec models.CompletionRecord) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}

	user.Points += rec.Points
	user.CompletedProjects++
	user.History = append(user.History, rec)

	return copyUser(user), nil
}

// AddIdeas appends generated ideas to the process-wide collection
func (r *MemoryRepository) AddIdeas(ctx context.Context, ideas []models.RecyclingIdea) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, idea := range ideas {
		r.ideas[idea.ID] = idea
	}
	return nil
}

// GetIdea retrieves an idea by ID
func (r *MemoryRepository) GetIdea(ctx context.Context, id string) (*models.RecyclingIdea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idea, ok := r.ideas[id]
	if !ok {
		return nil, ErrIdeaNotFound
	}
	return &idea, nil
}

// Ping always succeeds for the in-memory store
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store
func (r *MemoryRepository) Close() error {
	return nil
}

// copyUser returns a detached copy so callers never hold references into
// the store's maps.
func copyUser(u *models.User) *models.User {
	cp := *u
	cp.History = make([]models.CompletionRecord, len(u.History))
	copy(cp.History, u.History)
	return &cp
}
