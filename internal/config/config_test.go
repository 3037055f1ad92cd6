package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seekit/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	// пустая переменная для viper равносильна незаданной
	for _, env := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASS", "DB_NAME", "DB_SSLMODE", "SERVER_ADDRESS", "JWT_TTL", "LOG_LEVEL", "LOG_OUTPUT"} {
		t.Setenv(env, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "seekit", cfg.Database.Name)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Address)
	require.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	require.Equal(t, "stderr", cfg.Log.Output)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_USER", "seek")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DB_NAME", "market")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Server.Address)
	require.Equal(t, "jwt-secret", cfg.JWT.Secret)
	require.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t,
		"host=db.internal port=6432 user=seek password=secret dbname=market sslmode=require",
		cfg.Database.DSN())
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "seekit")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("DB_PORT", "0")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DB_PORT")
}

func TestValidateServerRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Empty(t, cfg.JWT.Secret)

	err = cfg.ValidateServer()
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")

	cfg.JWT.Secret = "short"
	require.Error(t, cfg.ValidateServer())

	cfg.JWT.Secret = "0123456789abcdef"
	require.NoError(t, cfg.ValidateServer())
}
