package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recreate-labs/recreate/internal/api"
	"github.com/recreate-labs/recreate/internal/auth"
	"github.com/recreate-labs/recreate/internal/cleanup"
	"github.com/recreate-labs/recreate/internal/config"
	"github.com/recreate-labs/recreate/internal/ideas"
	"github.com/recreate-labs/recreate/internal/media"
	"github.com/recreate-labs/recreate/internal/models"
	"github.com/recreate-labs/recreate/internal/provider"
	"github.com/recreate-labs/recreate/internal/storage"
)

// seedUsers are the accounts created at process start. The demo account
// matches the web client's login hint.
var seedUsers = []models.User{
	{Username: "Test", Password: "Test"},
}

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting recreate-server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"store", cfg.Store.Backend,
		"sessions", cfg.Session.Backend,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Initialize repository
	repo, err := buildRepository(initCtx, cfg)
	if err != nil {
		slog.Error("failed to create repository", "error", err)
		os.Exit(1)
	}

	// Seed static accounts
	for i := range seedUsers {
		if err := repo.SeedUser(initCtx, &seedUsers[i]); err != nil {
			slog.Error("failed to seed user", "error", err, "username", seedUsers[i].Username)
			os.Exit(1)
		}
	}

	// Initialize session store
	sessions, sweeper, err := buildSessions(cfg)
	if err != nil {
		slog.Error("failed to create session store", "error", err)
		os.Exit(1)
	}

	// Initialize media store
	mediaStore, err := media.NewStore(cfg.Media.UploadsDir, cfg.Media.GeneratedDir, cfg.Server.PublicURL)
	if err != nil {
		slog.Error("failed to create media store", "error", err)
		os.Exit(1)
	}

	// Initialize provider client
	aiClient, err := provider.NewOpenAIClient(cfg.Provider)
	if err != nil {
		slog.Error("failed to create provider client", "error", err)
		os.Exit(1)
	}

	// Load fallback idea set
	fallback, err := ideas.LoadFallback(cfg.Ideas.FallbackFile)
	if err != nil {
		slog.Error("failed to load fallback ideas", "error", err)
		os.Exit(1)
	}

	ideaService := ideas.NewService(aiClient, mediaStore, fallback, cfg.Ideas.IllustrationWorkers)

	// Create context with cancellation for background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sweeper != nil {
		sweeper.Start(ctx)
	}

	// Setup HTTP server. Write timeout stays generous: analysis holds the
	// response open for the provider round trips.
	server := api.NewServer(cfg.Server, repo, sessions, ideaService, mediaStore)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if err := sessions.Close(); err != nil {
		slog.Error("session store close error", "error", err)
	}

	if err := repo.Close(); err != nil {
		slog.Error("repository close error", "error", err)
	}

	slog.Info("recreate-server stopped")
}

// buildRepository constructs the configured repository backend
func buildRepository(ctx context.Context, cfg *config.Config) (storage.Repository, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		slog.Info("running database migrations", "dir", cfg.Store.MigrationsDir)
		if err := storage.MigrateFromDSN(ctx, cfg.Store.DSN, cfg.Store.MigrationsDir); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		repo, err := storage.NewPostgresRepository(ctx, storage.PostgresConfig{
			DSN:          cfg.Store.DSN,
			MaxOpenConns: int32(cfg.Store.MaxOpenConns),
			MaxIdleConns: int32(cfg.Store.MaxIdleConns),
		})
		if err != nil {
			return nil, err
		}
		slog.Info("database connected successfully")
		return repo, nil

	default:
		return storage.NewMemoryRepository(), nil
	}
}

// buildSessions constructs the configured session store. The sweeper is
// only needed for the in-memory backend; Redis expires keys natively.
func buildSessions(cfg *config.Config) (auth.Store, *cleanup.Sweeper, error) {
	switch cfg.Session.Backend {
	case config.SessionRedis:
		store, err := auth.NewRedisStore(cfg.Session.RedisAddress, cfg.Session.RedisPassword, cfg.Session.TTL)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	default:
		store := auth.NewMemoryStore(cfg.Session.TTL)
		return store, cleanup.NewSweeper(store, cfg.Session.SweepInterval), nil
	}
}
