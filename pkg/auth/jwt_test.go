package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hmacService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret",
		Issuer:     "guildbank",
		Expiration: time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := hmacService(t)

	token, err := svc.GenerateToken("entity-7", []string{RoleMember})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "entity-7", claims.EntityID)
	assert.True(t, claims.HasRole(RoleMember))
	assert.False(t, claims.HasRole(RoleAdmin))
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	issuing, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "someone-else", Expiration: time.Hour})
	require.NoError(t, err)
	token, err := issuing.GenerateToken("entity-7", nil)
	require.NoError(t, err)

	svc := hmacService(t)
	_, err = svc.ValidateToken(token)
	assert.ErrorContains(t, err, "invalid issuer")
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := hmacService(t)
	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestNewJWTService_RequiresKeyMaterial(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)
}
