package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recreate-labs/recreate/internal/auth"
	"github.com/recreate-labs/recreate/internal/models"
)

func resolveSession(t *testing.T, store auth.Store, authorization string) *models.Session {
	t.Helper()

	mw := NewSessionMiddleware(store)

	var resolved *models.Session
	handler := mw.Resolve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved = SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return resolved
}

func TestResolveBearerToken(t *testing.T) {
	store := auth.NewMemoryStore(time.Hour)
	session, err := store.Create(context.Background(), "Test")
	require.NoError(t, err)

	resolved := resolveSession(t, store, "Bearer "+session.Token)
	require.NotNil(t, resolved)
	assert.Equal(t, "Test", resolved.Username)
}

func TestResolveRawToken(t *testing.T) {
	store := auth.NewMemoryStore(time.Hour)
	session, err := store.Create(context.Background(), "Test")
	require.NoError(t, err)

	resolved := resolveSession(t, store, session.Token)
	require.NotNil(t, resolved)
	assert.Equal(t, "Test", resolved.Username)
}

func TestResolveIsNonFatal(t *testing.T) {
	store := auth.NewMemoryStore(time.Hour)

	// no header, unknown token and expired token all pass through
	assert.Nil(t, resolveSession(t, store, ""))
	assert.Nil(t, resolveSession(t, store, "Bearer deadbeef"))

	expired := auth.NewMemoryStore(-time.Second)
	session, err := expired.Create(context.Background(), "Test")
	require.NoError(t, err)
	assert.Nil(t, resolveSession(t, expired, "Bearer "+session.Token))
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "12345678...", maskToken("123456789abcdef"))
	assert.Equal(t, "***", maskToken("short"))
}
