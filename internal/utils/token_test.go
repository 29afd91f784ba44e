package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	tok, err := NewSessionToken(14)
	require.NoError(t, err)

	// 32 random bytes, hex encoded
	assert.Len(t, tok.Raw, 64)
	assert.WithinDuration(t, time.Now().UTC().Add(14*24*time.Hour), tok.Exp, time.Minute)
}

func TestNewSessionTokenIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := NewSessionToken(1)
		require.NoError(t, err)
		assert.False(t, seen[tok.Raw])
		seen[tok.Raw] = true
	}
}

func TestHashSessionToken(t *testing.T) {
	h1 := HashSessionToken("secret-a", "raw-token")
	h2 := HashSessionToken("secret-a", "raw-token")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, "raw-token", h1)

	// a different key invalidates every outstanding hash
	assert.NotEqual(t, h1, HashSessionToken("secret-b", "raw-token"))
	// a different token yields a different hash under the same key
	assert.NotEqual(t, h1, HashSessionToken("secret-a", "other-token"))
}
