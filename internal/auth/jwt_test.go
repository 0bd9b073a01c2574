package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(secret, Claims{UserID: 42, Username: "alice", Role: "customer"}, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "customer", claims.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken(secret, Claims{UserID: 1, Username: "a", Role: "customer"}, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(secret, token)
	require.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := GenerateToken(secret, Claims{UserID: 1, Username: "a", Role: "customer"}, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken([]byte("other-secret"), token)
	require.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := ValidateToken(secret, "not-a-token")
	require.Error(t, err)
}
