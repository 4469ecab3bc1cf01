package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/secure-user-api/internal/config"
	"github.com/iliyamo/secure-user-api/internal/middleware"
	"github.com/iliyamo/secure-user-api/internal/model"
	"github.com/iliyamo/secure-user-api/internal/repository"
	"github.com/iliyamo/secure-user-api/internal/service"
	"github.com/iliyamo/secure-user-api/internal/testutil"
)

func newCachedServer(t *testing.T) (*testServer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      []string{http.MethodGet},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
	repo := repository.NewUserRepo(testutil.NewSQLiteDB(t))
	_, err := service.SeedDemoUsers(context.Background(), repo, bcrypt.MinCost, testutil.MakeNoopLogger())
	require.NoError(t, err)
	return newServer(t, repo, middleware.NewRedisCache(cfg, rdb, testutil.MakeNoopLogger())), mr
}

func TestCache_ReplaysAuthenticatedReads(t *testing.T) {
	s, mr := newCachedServer(t)
	tok := s.login(t, "testuser", "testpass123").Token

	first := s.do(http.MethodGet, "/data", "", tok)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := s.do(http.MethodGet, "/data", "", tok)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, first.Header().Get(echo.HeaderContentType), second.Header().Get(echo.HeaderContentType))
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), second.Header().Get(echo.HeaderXRequestID))
	assert.Len(t, mr.Keys(), 1)
}

func TestCache_UnauthenticatedNeverServedFromCache(t *testing.T) {
	s, mr := newCachedServer(t)
	tok := s.login(t, "testuser", "testpass123").Token
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/data", "", tok).Code)
	require.Len(t, mr.Keys(), 1)

	for _, bearer := range []string{"", "garbage"} {
		rec := s.do(http.MethodGet, "/data", "", bearer)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
}

func TestCache_OnlyOKResponsesStored(t *testing.T) {
	s, mr := newCachedServer(t)
	tok := s.login(t, "testuser", "testpass123").Token

	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodGet, "/users/9999", "", tok)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	assert.Empty(t, mr.Keys())

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/users/abc", "", tok).Code)
	assert.Empty(t, mr.Keys())
}

func TestCache_KeyedByPath(t *testing.T) {
	s, mr := newCachedServer(t)
	tok := s.login(t, "testuser", "testpass123").Token
	ctx := context.Background()
	tu, err := s.repo.FindByUsername(ctx, "testuser")
	require.NoError(t, err)
	ad, err := s.repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)

	get := func(id uint64) model.UserView {
		t.Helper()
		rec := s.do(http.MethodGet, fmt.Sprintf("/users/%d", id), "", tok)
		require.Equal(t, http.StatusOK, rec.Code)
		var v model.UserView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
		return v
	}

	assert.Equal(t, "testuser", get(tu.ID).Username)
	assert.Equal(t, "admin", get(ad.ID).Username)
	assert.Len(t, mr.Keys(), 2)

	// Both now come from the cache and must still differ.
	assert.Equal(t, "testuser", get(tu.ID).Username)
	assert.Equal(t, "admin", get(ad.ID).Username)
	assert.Len(t, mr.Keys(), 2)
}
