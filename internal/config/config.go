package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config holds all configuration for the recreate server
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Media    MediaConfig
	Store    StoreConfig
	Session  SessionConfig
	Ideas    IdeasConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
	// PublicURL is the externally visible origin used to build absolute
	// media URLs, e.g. "http://localhost:3001".
	PublicURL string
}

// ProviderConfig holds generative AI provider configuration
type ProviderConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
}

// MediaConfig holds filesystem media store configuration
type MediaConfig struct {
	UploadsDir   string
	GeneratedDir string
}

// StoreConfig holds repository configuration
type StoreConfig struct {
	Backend       string
	DSN           string
	MigrationsDir string
	MaxOpenConns  int
	MaxIdleConns  int
}

// SessionConfig holds session store configuration
type SessionConfig struct {
	Backend       string
	TTL           time.Duration
	SweepInterval time.Duration
	RedisAddress  string
	RedisPassword string
}

// IdeasConfig holds idea generation configuration
type IdeasConfig struct {
	// FallbackFile optionally overrides the compiled-in fallback idea set.
	FallbackFile string
	// IllustrationWorkers bounds concurrent illustration requests per batch.
	IllustrationWorkers int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "0.0.0.0"),
			Port:      getEnvAsInt("SERVER_PORT", 3001),
			PublicURL: getEnv("PUBLIC_URL", "http://localhost:3001"),
		},
		Provider: ProviderConfig{
			APIKey:     getEnv("PROVIDER_API_KEY", ""),
			BaseURL:    getEnv("PROVIDER_BASE_URL", "https://api.openai.com"),
			TextModel:  getEnv("PROVIDER_TEXT_MODEL", "gpt-4"),
			ImageModel: getEnv("PROVIDER_IMAGE_MODEL", "dall-e-3"),
			Timeout:    getEnvAsDuration("PROVIDER_TIMEOUT", 60*time.Second),
		},
		Media: MediaConfig{
			UploadsDir:   getEnv("MEDIA_UPLOADS_DIR", "./uploads"),
			GeneratedDir: getEnv("MEDIA_GENERATED_DIR", "./generated"),
		},
		Store: StoreConfig{
			Backend:       getEnv("STORE_BACKEND", StoreMemory),
			DSN:           getEnv("DATABASE_DSN", ""),
			MigrationsDir: getEnv("DATABASE_MIGRATIONS_DIR", "./migrations"),
			MaxOpenConns:  getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Session: SessionConfig{
			Backend:       getEnv("SESSION_BACKEND", SessionMemory),
			TTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
			RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
		},
		Ideas: IdeasConfig{
			FallbackFile:        getEnv("FALLBACK_IDEAS_FILE", ""),
			IllustrationWorkers: getEnvAsInt("ILLUSTRATION_WORKERS", 4),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.PublicURL == "" {
		return fmt.Errorf("public URL is required")
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StorePostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("database DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}

	switch c.Session.Backend {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("unknown session backend: %s", c.Session.Backend)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	if c.Ideas.IllustrationWorkers < 1 {
		return fmt.Errorf("illustration workers must be at least 1")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
