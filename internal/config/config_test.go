package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.False(t, cfg.SeedDemoUsers)
	assert.Equal(t, "data/users.db", cfg.DB.SQLitePath)
	assert.Equal(t, "auth.login", cfg.Audit.Queue)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Cache.Allows("GET"))
	assert.False(t, cfg.Cache.Allows("POST"))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "users")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("SEED_DEMO_USERS", "true")
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "app", cfg.DB.User)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.SeedDemoUsers)
	assert.True(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Cache.Allows("HEAD"))
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			BcryptCost:     10,
			RequestTimeout: time.Second,
			DB:             Database{Driver: "sqlite", SQLitePath: "x.db"},
			JWT:            JWT{Secret: testSecret, TTL: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "short secret", mutate: func(c *Config) { c.JWT.Secret = "short" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.JWT.TTL = 0 }, wantErr: true},
		{name: "cost too low", mutate: func(c *Config) { c.BcryptCost = 1 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.DB.Driver = "oracle" }, wantErr: true},
		{name: "mysql without user", mutate: func(c *Config) { c.DB.Driver = "mysql" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_ErrorDoesNotEchoSecret(t *testing.T) {
	cfg := Config{
		BcryptCost: 10,
		DB:         Database{Driver: "sqlite", SQLitePath: "x.db"},
		JWT:        JWT{Secret: "tiny-secret", TTL: time.Hour},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "tiny-secret")
}

func TestRedisAddress(t *testing.T) {
	assert.Equal(t, "cache:6380", Redis{Addr: "x:1", Host: "cache", Port: "6380"}.address())
	assert.Equal(t, "x:1", Redis{Addr: "x:1"}.address())
	assert.Equal(t, "localhost:6379", Redis{}.address())
}
