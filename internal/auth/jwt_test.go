package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelscdev/crocheDaRuiva/internal/config"
)

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret"}

	token, err := GenerateToken(cfg, 7, "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(&config.JWTConfig{Secret: "segredo-a"}, 7, "ana@example.com")
	require.NoError(t, err)

	_, err = ParseToken(&config.JWTConfig{Secret: "segredo-b"}, token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(&config.JWTConfig{Secret: "test-secret"}, "nao.e.um.token")
	assert.Error(t, err)
}

func TestRoleAllowed(t *testing.T) {
	admins := map[string]struct{}{"admin": {}}
	assert.True(t, RoleAllowed("admin", admins))
	assert.False(t, RoleAllowed("cliente", admins))
	assert.False(t, RoleAllowed("", admins))
}
