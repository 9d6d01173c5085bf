package core

import (
	"errors"
	"fmt"

	"yogamitra.app/backend/internal/auth"
	"yogamitra.app/backend/internal/store"
)

// ErrInvalidCredentials covers both an unknown username and a wrong
// password so a caller cannot tell registered accounts apart.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserStore is the persistence dependency of the account service.
type UserStore interface {
	CreateUser(username, passwordHash string) (*store.User, error)
	GetUserByUsername(username string) (*store.User, error)
}

// AccountService owns user registration and credential verification.
type AccountService struct {
	users UserStore
}

func NewAccountService(users UserStore) *AccountService {
	return &AccountService{users: users}
}

// Register hashes the password and creates the account. Returns
// store.ErrDuplicateUsername when the username is taken.
func (s *AccountService) Register(username, password string) (*store.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.CreateUser(username, hash)
}

// Authenticate verifies the credentials and returns the account.
func (s *AccountService) Authenticate(username, password string) (*store.User, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
