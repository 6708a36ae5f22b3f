package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shimpukka/ecommerce-backend/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := manager.Issue(42, domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestVerify_ExpiredToken(t *testing.T) {
	manager, err := NewTokenManager("test-secret", -time.Minute)
	require.NoError(t, err)

	token, err := manager.Issue(42, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, err := NewTokenManager("secret-one", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenManager("secret-two", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(42, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := manager.Verify(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "token %q", token)
	}
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)
}
