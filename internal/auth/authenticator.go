package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/secure-user-api/internal/model"
	"github.com/iliyamo/secure-user-api/internal/repository"
	"github.com/iliyamo/secure-user-api/internal/utils"
)

// CredentialStore is the lookup the Authenticator needs from storage.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

// Authenticator verifies a username and plaintext password against the
// stored bcrypt hash.  It holds no per-request state.
type Authenticator struct {
	users CredentialStore
	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
	verify    func(hash, password string) bool
}

// NewAuthenticator builds an Authenticator.  cost should match the cost
// used to provision accounts so the dummy comparison takes as long as a
// real one.
func NewAuthenticator(users CredentialStore, cost int) (*Authenticator, error) {
	dummy, err := utils.HashPassword("dummy-password-for-timing", cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Authenticator{users: users, dummyHash: dummy, verify: utils.VerifyPassword}, nil
}

// Authenticate returns the verified identity, ErrInvalidCredentials for an
// unknown user or wrong password, or a wrapped repository.ErrStorageUnavailable.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (Identity, error) {
	u, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = a.verify(a.dummyHash, password)
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, fmt.Errorf("authenticate: %w", err)
	}
	if !a.verify(u.PasswordHash, password) {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{Username: u.Username}, nil
}
