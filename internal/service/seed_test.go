package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/secure-user-api/internal/model"
	"github.com/iliyamo/secure-user-api/internal/repository"
	"github.com/iliyamo/secure-user-api/internal/sanitize"
	"github.com/iliyamo/secure-user-api/internal/testutil"
	"github.com/iliyamo/secure-user-api/internal/utils"
)

func TestSeedDemoUsers_EmptyStore(t *testing.T) {
	repo := repository.NewUserRepo(testutil.NewSQLiteDB(t))
	ctx := context.Background()

	n, err := SeedDemoUsers(ctx, repo, bcrypt.MinCost, testutil.MakeNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	u, err := repo.FindByUsername(ctx, "testuser")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "testpass123"))
	a, err := repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(a.PasswordHash, "admin123"))

	views, err := NewUserService(repo, sanitize.New()).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "testuser", views[0].Username)
	assert.Equal(t, "Test User", *views[0].FullName)
}

func TestSeedDemoUsers_PopulatedStoreUntouched(t *testing.T) {
	repo := repository.NewUserRepo(testutil.NewSQLiteDB(t))
	ctx := context.Background()
	_, err := repo.Create(ctx, model.NewUser{Username: "existing", Password: "pw"}, bcrypt.MinCost)
	require.NoError(t, err)

	n, err := SeedDemoUsers(ctx, repo, bcrypt.MinCost, testutil.MakeNoopLogger())
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSeedDemoUsers_Twice(t *testing.T) {
	repo := repository.NewUserRepo(testutil.NewSQLiteDB(t))
	ctx := context.Background()

	_, err := SeedDemoUsers(ctx, repo, bcrypt.MinCost, testutil.MakeNoopLogger())
	require.NoError(t, err)
	n, err := SeedDemoUsers(ctx, repo, bcrypt.MinCost, testutil.MakeNoopLogger())
	require.NoError(t, err)
	assert.Zero(t, n)
}
