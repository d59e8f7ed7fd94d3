package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "BACKEND_URL", "BACKEND_TIMEOUT", "SESSION_TTL", "DEV", "COOKIE_SECURE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "store-admin.db", cfg.Database.DSN())
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 12*time.Hour, cfg.App.SessionTTL)
	assert.Equal(t, 10, cfg.App.DefaultPageSize)
	assert.False(t, cfg.App.CookieSecure, "plain HTTP keeps the session cookie")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("BACKEND_TIMEOUT", "5")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("MIGRATIONS", "yes")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN(), "host=db port=6543")
	assert.Contains(t, cfg.Database.URL(), "postgres://")
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 90*time.Minute, cfg.App.SessionTTL)
	assert.True(t, cfg.App.Migrations)
	assert.True(t, cfg.App.CookieSecure)
}

func TestValidate(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("DEV", "")
	t.Setenv("DB_DRIVER", "mysql")
	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_URL")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
	assert.Contains(t, err.Error(), "mysql")

	t.Setenv("BACKEND_URL", "http://api")
	t.Setenv("DEV", "1")
	t.Setenv("DB_DRIVER", "")
	assert.NoError(t, Load().Validate())
}
