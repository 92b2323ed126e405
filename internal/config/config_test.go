package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kasir/internal/config"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/kasir",
		"REDIS_URL":    "redis://localhost:6379/0",
		"STORE_ID":     "toko-utama",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(baseEnv())
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "toko-utama", cfg.StoreID)
	require.Equal(t, "migrations", cfg.MigrationsPath)
	require.Equal(t, 256, cfg.QRSize)
	require.Equal(t, 12*time.Hour, cfg.SessionTTL)
	require.Equal(t, 48*time.Hour, cfg.InvoiceSeqTTL)
	require.Equal(t, 300, cfg.RateLimitMax)
	require.False(t, cfg.TracingEnabled)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	env := baseEnv()
	env["DATABASE_URL"] = ""
	_, err := config.LoadForTests(env)
	require.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadRequiresStoreID(t *testing.T) {
	env := baseEnv()
	env["STORE_ID"] = "   "
	_, err := config.LoadForTests(env)
	require.ErrorContains(t, err, "STORE_ID")
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "9090"
	env["SESSION_TTL"] = "30m"
	env["RATE_LIMIT_MAX"] = "50"
	env["TRACING_ENABLED"] = "true"
	env["CORS_ALLOWED_ORIGINS"] = "http://localhost:5173, https://kasir.example.com"

	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, 50, cfg.RateLimitMax)
	require.True(t, cfg.TracingEnabled)
	require.Equal(t, []string{"http://localhost:5173", "https://kasir.example.com"}, cfg.CORSAllowedOrigins)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	env := baseEnv()
	env["LOCK_TTL"] = "soon"
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, cfg.LockTTL)
}
