package service

import (
	"context"

	"github.com/opaline/storefront/internal/models"
	"github.com/opaline/storefront/internal/repository"
)

type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// Register creates a customer account. Username and email collisions
// surface as repository.ErrDuplicate.
func (s *UserService) Register(ctx context.Context, username, email, plaintext string) (*models.User, error) {
	var pw models.Password
	if err := pw.Set(plaintext); err != nil {
		return nil, err
	}
	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pw.Hash,
		Role:         models.RoleCustomer,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies the password for username and returns the account.
// Unknown usernames and bad passwords both map to ErrInvalidCredentials so
// callers cannot probe which half failed.
func (s *UserService) Authenticate(ctx context.Context, username, plaintext string) (*models.User, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	pw := models.Password{Hash: u.PasswordHash}
	ok, err := pw.Matches(plaintext)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}
