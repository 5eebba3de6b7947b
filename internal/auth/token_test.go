package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("user1", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user1", userID)
}

func TestTokenIssuer_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer("", time.Hour)
	require.Error(t, err)
}

func TestTokenIssuer_ExpiredToken(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("test-secret", time.Minute)
	require.NoError(t, err)

	token, err := issuer.Issue("user1", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("secret-a", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenIssuer("secret-b", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("user1", time.Now())
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestTokenIssuer_DefaultTTL(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("test-secret", 0)
	require.NoError(t, err)
	require.Equal(t, time.Hour, issuer.TTL())
}

func TestTokenIssuer_GarbageToken(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = issuer.Verify("not-a-jwt")
	require.Error(t, err)
}
