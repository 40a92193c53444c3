package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionToken(t *testing.T) {
	token, err := NewSessionToken()
	assert.NoError(t, err)
	// 32 bytes encode to 43 characters without padding.
	assert.Len(t, token, 43)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")
}

func TestNewSessionToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewSessionToken()
		assert.NoError(t, err)
		assert.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}

func TestNewTempPassword(t *testing.T) {
	pw, err := NewTempPassword()
	assert.NoError(t, err)
	assert.Len(t, pw, 10)
	for _, r := range pw {
		assert.True(t, strings.ContainsRune(tempPasswordChars, r), "unexpected character %q", r)
	}
}
