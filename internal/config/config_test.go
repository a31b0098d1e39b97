package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "http://localhost:3001", cfg.Server.PublicURL)
	assert.Equal(t, "gpt-4", cfg.Provider.TextModel)
	assert.Equal(t, "dall-e-3", cfg.Provider.ImageModel)
	assert.Equal(t, 60*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, SessionMemory, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 4, cfg.Ideas.IllustrationWorkers)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("PROVIDER_TEXT_MODEL", "gpt-4o")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("ILLUSTRATION_WORKERS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gpt-4o", cfg.Provider.TextModel)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 2, cfg.Ideas.IllustrationWorkers)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Server.Port = 0
	assert.ErrorContains(t, cfg.Validate(), "invalid server port")

	cfg = base()
	cfg.Server.PublicURL = ""
	assert.ErrorContains(t, cfg.Validate(), "public URL")

	cfg = base()
	cfg.Store.Backend = "cassandra"
	assert.ErrorContains(t, cfg.Validate(), "unknown store backend")

	cfg = base()
	cfg.Store.Backend = StorePostgres
	assert.ErrorContains(t, cfg.Validate(), "DSN is required")

	cfg = base()
	cfg.Session.Backend = "memcached"
	assert.ErrorContains(t, cfg.Validate(), "unknown session backend")

	cfg = base()
	cfg.Session.TTL = 0
	assert.ErrorContains(t, cfg.Validate(), "TTL")

	cfg = base()
	cfg.Ideas.IllustrationWorkers = 0
	assert.ErrorContains(t, cfg.Validate(), "illustration workers")
}

func TestEnvHelpersIgnoreMalformedValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
}
