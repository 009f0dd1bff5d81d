package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.NoError(t, VerifyPassword(hash, "correct-horse-battery"))
	assert.Error(t, VerifyPassword(hash, "wrong-password"))
}

func TestHashPasswordRejectsShort(t *testing.T) {
	_, err := HashPassword("short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")
}

func TestIsPasswordValid(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"", false},
		{"1234567", false},
		{"12345678", true},
		{"a much longer passphrase", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsPasswordValid(tt.password), "password %q", tt.password)
	}
}
