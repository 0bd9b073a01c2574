package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/repository"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewUserService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, models.RoleCustomer, u.Role)
	require.NotEqual(t, "s3cret-pass", u.PasswordHash)

	got, err := svc.Authenticate(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewUserService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@example.com", "s3cret-pass")
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestAuthenticateWrongPasswordAndUnknownUser(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewUserService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown users produce the same error as bad passwords.
	_, err = svc.Authenticate(ctx, "nobody", "whatever1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
