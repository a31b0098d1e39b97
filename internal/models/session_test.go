package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		token, err := GenerateSessionToken()
		require.NoError(t, err)
		assert.Len(t, token, 48)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestSessionIsExpired(t *testing.T) {
	live := Session{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, live.IsExpired())

	expired := Session{ExpiresAt: time.Now().Add(-time.Second)}
	assert.True(t, expired.IsExpired())
}

func TestDifficultyValid(t *testing.T) {
	assert.True(t, DifficultyEasy.Valid())
	assert.True(t, DifficultyMedium.Valid())
	assert.True(t, DifficultyHard.Valid())
	assert.False(t, Difficulty("Impossible").Valid())
	assert.False(t, Difficulty("").Valid())
}
