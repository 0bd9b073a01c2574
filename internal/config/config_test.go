package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[http]
port = 9090

[database]
dsn = "user:pass@tcp(localhost:3306)/storefront?parseTime=true"

[auth]
jwt_secret = "file-secret"
token_ttl_hours = 24
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.HTTP.Port)
	require.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenTTLDuration())

	// Untouched sections keep their defaults.
	require.Equal(t, 25, cfg.Database.MaxOpenConns)
	require.Equal(t, "https://api.stripe.com", cfg.Stripe.BaseURL)
	require.Equal(t, 24, cfg.Orders.OverdueAfterHours)
	require.Equal(t, "./uploads", cfg.Uploads.Dir)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("APP_DATABASE_DSN", "env-dsn")
	t.Setenv("APP_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("APP_HTTP_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "env-dsn", cfg.Database.DSN)
	require.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	require.Equal(t, 7070, cfg.HTTP.Port)
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}
