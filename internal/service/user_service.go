package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/secure-user-api/internal/model"
	"github.com/iliyamo/secure-user-api/internal/sanitize"
)

// UserStore is the read side of the users table.
type UserStore interface {
	FindByID(ctx context.Context, id uint64) (model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
}

// UserService fetches users and escapes every outbound string field.
type UserService struct {
	users     UserStore
	sanitizer *sanitize.Sanitizer
}

func NewUserService(users UserStore, s *sanitize.Sanitizer) *UserService {
	return &UserService{users: users, sanitizer: s}
}

// GetByID returns the sanitized view of one user.  A missing id surfaces
// as repository.ErrNotFound.
func (s *UserService) GetByID(ctx context.Context, id uint64) (model.UserView, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.UserView{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return s.view(u), nil
}

// GetAll returns every user in storage order.
func (s *UserService) GetAll(ctx context.Context) ([]model.UserView, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]model.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, s.view(u))
	}
	return out, nil
}

// view drops the password hash and escapes the text fields.
func (s *UserService) view(u model.User) model.UserView {
	return model.UserView{
		ID:       u.ID,
		Username: s.sanitizer.EscapeString(u.Username),
		Email:    s.sanitizer.Escape(u.Email),
		FullName: s.sanitizer.Escape(u.FullName),
	}
}
