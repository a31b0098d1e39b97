package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recreate-labs/recreate/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25 // default
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5 // default
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// GetUser retrieves a user by username, including completion history
func (r *PostgresRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT username, password, points, completed_projects
		FROM users
		WHERE username = $1
	`

	var user models.User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.Username,
		&user.Password,
		&user.Points,
		&user.CompletedProjects,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	history, err := r.getHistory(ctx, username)
	if err != nil {
		return nil, err
	}
	user.History = history

	return &user, nil
}

// SeedUser inserts a user if no record with the same username exists
func (r *PostgresRepository) SeedUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password, points, completed_projects)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, user.Username, user.Password, user.Points, user.CompletedProjects)
	if err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	return nil
}

// RecordCompletion appends a completion record and updates the user's
// totals in a single transaction
func (r *PostgresRepository) RecordCompletion(ctx context.Context, username string, rec models.CompletionRecord) (*models.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE users
		SET points = points + $1, completed_projects = completed_projects + 1
		WHERE username = $2
		RETURNING points, completed_projects
	`

	var points, completed int
	if err := tx.QueryRow(ctx, updateQuery, rec.Points, username).Scan(&points, &completed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user totals: %w", err)
	}

	insertQuery := `
		INSERT INTO completions (username, idea_id, title, points, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := tx.Exec(ctx, insertQuery, username, rec.IdeaID, rec.Title, rec.Points, rec.CompletedAt); err != nil {
		return nil, fmt.Errorf("failed to insert completion record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	history, err := r.getHistory(ctx, username)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Username:          username,
		Points:            points,
		CompletedProjects: completed,
		History:           history,
	}, nil
}

// AddIdeas appends generated ideas to the ideas table
func (r *PostgresRepository) AddIdeas(ctx context.Context, ideas []models.RecyclingIdea) error {
	query := `
		INSERT INTO ideas (id, title, description, difficulty, points, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, idea := range ideas {
		if _, err := r.pool.Exec(ctx, query,
			idea.ID,
			idea.Title,
			idea.Description,
			string(idea.Difficulty),
			idea.Points,
			idea.ImageURL,
		); err != nil {
			return fmt.Errorf("failed to insert idea %s: %w", idea.ID, err)
		}
	}

	return nil
}

// GetIdea retrieves an idea by ID
func (r *PostgresRepository) GetIdea(ctx context.Context, id string) (*models.RecyclingIdea, error) {
	query := `
		SELECT id, title, description, difficulty, points, image_url
		FROM ideas
		WHERE id = $1
	`

	var idea models.RecyclingIdea
	var difficulty string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&idea.ID,
		&idea.Title,
		&idea.Description,
		&difficulty,
		&idea.Points,
		&idea.ImageURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	idea.Difficulty = models.Difficulty(difficulty)

	return &idea, nil
}

// getHistory loads a user's completion records in insertion order
func (r *PostgresRepository) getHistory(ctx context.Context, username string) ([]models.CompletionRecord, error) {
	query := `
		SELECT idea_id, title, points, completed_at
		FROM completions
		WHERE username = $1
		ORDER BY seq ASC
	`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var history []models.CompletionRecord
	for rows.Next() {
		var rec models.CompletionRecord
		if err := rows.Scan(&rec.IdeaID, &rec.Title, &rec.Points, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completion record: %w", err)
		}
		history = append(history, rec)
	}

	return history, rows.Err()
}
