package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/secure-user-api/internal/logger"
	"github.com/iliyamo/secure-user-api/internal/model"
)

// UserProvisioner creates accounts.
type UserProvisioner interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, u model.NewUser, cost int) (uint64, error)
}

func strPtr(s string) *string { return &s }

// demoUsers are the development accounts created on an empty store.
var demoUsers = []model.NewUser{
	{Username: "testuser", Password: "testpass123", Email: strPtr("test@example.com"), FullName: strPtr("Test User")},
	{Username: "admin", Password: "admin123", Email: strPtr("admin@example.com"), FullName: strPtr("Administrator")},
}

// SeedDemoUsers provisions the demo accounts when no user exists yet and
// reports how many were created.  A populated store is left untouched.
func SeedDemoUsers(ctx context.Context, users UserProvisioner, cost int, log *logger.Logger) (int, error) {
	n, err := users.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		log.Debug("seed skipped, users exist", "count", n)
		return 0, nil
	}

	names := make([]string, 0, len(demoUsers))
	for _, u := range demoUsers {
		if _, err := users.Create(ctx, u, cost); err != nil {
			return len(names), fmt.Errorf("create %s: %w", u.Username, err)
		}
		names = append(names, u.Username)
	}
	log.Info("demo users created", "usernames", names)
	return len(names), nil
}
