package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret: "test-secret-key",
		Issuer: "rent-a-ride-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := newTestManager()

	token, err := manager.GenerateToken(42, "alice", "alice@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "rent-a-ride-test", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := newTestManager()
	other := NewJWTManager(JWTConfig{Secret: "different-secret", Issuer: "rent-a-ride-test"})

	token, err := manager.GenerateToken(1, "bob", "bob@example.com", "user")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	manager := newTestManager()

	_, err := manager.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
