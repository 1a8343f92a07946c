package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CI", "false")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{
		"PORT", "HOST", "DB_DRIVER", "DB_PATH", "DB_HOST", "DB_USER", "DB_PASSWORD",
		"REDIS_URL", "SESSION_SECRET", "SESSION_TTL", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
		"TOMTOM_API_KEY", "IMAGE_STORE", "UPLOADS_DIR", "S3_BUCKET_NAME", "CORS_ALLOWED_ORIGINS",
		"CONTACT_RATE_LIMIT", "SEED_USERS_COMMON_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.ServerHost)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, filepath.Join("data", "foodshare.db"), cfg.DBPath)
	assert.Equal(t, ImageStoreLocal, cfg.ImageStore)
	assert.Equal(t, "secret", cfg.SessionSecret)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "password", cfg.SeedPassword)
	assert.Equal(t, 5, cfg.ContactRateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.GoogleEnabled())
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "foodshare")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "shh")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SESSION_TTL", "90m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "foodshare", cfg.DBUser)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.True(t, cfg.GoogleEnabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
}

func TestSecretsTakePrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("SESSION_SECRET", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session_secret"), []byte("from-secret\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.SessionSecret)
}

func TestLoadConfigRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mongo"}, "DB_DRIVER"},
		{"unknown image store", map[string]string{"IMAGE_STORE": "ftp"}, "IMAGE_STORE"},
		{"half google config", map[string]string{"GOOGLE_CLIENT_ID": "id"}, "GOOGLE_CLIENT_ID"},
		{"bad ttl", map[string]string{"SESSION_TTL": "forever"}, "SESSION_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProductionRequiresStrongSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "short")
	t.Setenv("TOMTOM_API_KEY", "key")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")

	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Production, cfg.Environment)
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "")
	t.Setenv("ENV", "prod")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
}
