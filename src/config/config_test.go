// src/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "unit-test-secret-key-0123456789abcdef"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)

	LoadConfig()
	require.NotNil(t, Cfg)

	assert.Equal(t, "8080", Cfg.Port)
	assert.Equal(t, "./biaslens.db", Cfg.DatabasePath)
	assert.Equal(t, "db/migrations", Cfg.MigrationsPath)
	assert.Equal(t, "info", Cfg.LogLevel)
	assert.Equal(t, testJWTSecret, Cfg.JWTSecret)
	assert.Equal(t, 60*time.Minute, Cfg.AccessTokenExpiry)
	assert.Equal(t, 168*time.Hour, Cfg.RefreshTokenExpiry)
	assert.Equal(t, int64(10*1024*1024), Cfg.MaxUploadSizeBytes)
	assert.Equal(t, "google/gemini-3-flash-preview", Cfg.CoachModel)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("MIGRATIONS_PATH", "/opt/biaslens/migrations")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "15m")
	t.Setenv("MAX_UPLOAD_SIZE_BYTES", "1048576")

	LoadConfig()

	assert.Equal(t, "9090", Cfg.Port)
	assert.Equal(t, "/opt/biaslens/migrations", Cfg.MigrationsPath)
	assert.Equal(t, 15*time.Minute, Cfg.AccessTokenExpiry)
	assert.Equal(t, int64(1048576), Cfg.MaxUploadSizeBytes)
}

func TestLoadConfig_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	t.Setenv("ACCESS_TOKEN_EXPIRY", "not-a-duration")

	LoadConfig()

	assert.Equal(t, 60*time.Minute, Cfg.AccessTokenExpiry)
}
