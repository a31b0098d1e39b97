package models

import "time"

// User represents a registered account with its points ledger.
// Users are seeded at process start and mutated only by project completion.
type User struct {
	Username          string             `json:"username"`
	Password          string             `json:"-"` // Never serialize
	Points            int                `json:"points"`
	CompletedProjects int                `json:"completed_projects"`
	History           []CompletionRecord `json:"history"`
}

// CompletionRecord is one completed project in a user's history.
// Append-only, insertion-ordered, immutable once appended.
type CompletionRecord struct {
	IdeaID      string    `json:"idea_id"`
	Title       string    `json:"title"`
	Points      int       `json:"points"`
	CompletedAt time.Time `json:"completed_at"`
}

// PublicProfile is the subset of user data returned by the login endpoint.
type PublicProfile struct {
	Username          string `json:"username"`
	Points            int    `json:"points"`
	CompletedProjects int    `json:"completedProjects"`
}

// Profile returns the serializable view of the user.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		Username:          u.Username,
		Points:            u.Points,
		CompletedProjects: u.CompletedProjects,
	}
}

// UserStats is returned by the user-stats endpoint.
type UserStats struct {
	Points            int                `json:"points"`
	CompletedProjects int                `json:"completedProjects"`
	History           []CompletionRecord `json:"projectHistory"`
}
