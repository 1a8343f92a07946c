package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DriverSQLite stores everything in a single local database file.
	DriverSQLite = "sqlite"
	// DriverPostgres connects to an external PostgreSQL server.
	DriverPostgres = "postgres"

	// ImageStoreLocal writes uploads under UploadsDir and serves them from /uploads.
	ImageStoreLocal = "local"
	// ImageStoreS3 writes uploads to an S3 bucket.
	ImageStoreS3 = "s3"

	defaultSessionSecret = "secret"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string
	LogLevel   string

	// Database configuration
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis is optional; sessions, geocode caching and rate limits fall back
	// to the database or are disabled when RedisURL is empty.
	RedisURL string

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Geocoding
	TomTomAPIKey string

	// Image uploads
	ImageStore   string
	UploadsDir   string
	S3BucketName string
	AWSRegion    string

	CORSAllowedOrigins []string

	// ContactRateLimit caps contact form submissions per client per hour.
	ContactRateLimit int

	// Seed data
	SeedPassword string
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	env := GetEnvironment()
	cfg := &Config{Environment: env}

	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCommon reads the settings that are never secret.
func loadCommon(cfg *Config) error {
	cfg.ServerPort = getEnv("PORT", "3000")
	cfg.ServerHost = getEnv("HOST", "localhost")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", DriverSQLite))
	cfg.DBPath = getEnv("DB_PATH", filepath.Join("data", "foodshare.db"))
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBName = getEnv("DB_NAME", "foodshare")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.GoogleRedirectURL = getEnv("GOOGLE_REDIRECT_URL", "http://localhost:3000/auth/google/callback")

	cfg.ImageStore = strings.ToLower(getEnv("IMAGE_STORE", ImageStoreLocal))
	cfg.UploadsDir = getEnv("UPLOADS_DIR", filepath.Join("public", "uploads"))
	cfg.S3BucketName = getEnv("S3_BUCKET_NAME", "foodshare-uploads")
	cfg.AWSRegion = getEnv("AWS_REGION", "eu-west-2")

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))
	cfg.ContactRateLimit = getEnvInt("CONTACT_RATE_LIMIT", 5)

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	return nil
}

// loadCIConfig loads configuration for CI environment using only environment variables
func loadCIConfig(cfg *Config) error {
	if err := loadCommon(cfg); err != nil {
		return err
	}

	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET environment variable is required in CI environment")
	}
	cfg.TomTomAPIKey = os.Getenv("TOMTOM_API_KEY")
	cfg.SeedPassword = getEnv("SEED_USERS_COMMON_PASSWORD", "password")

	return nil
}

// loadDevConfig loads configuration for development and test. Secrets may come
// from the secrets directory but fall back to environment variables and defaults.
func loadDevConfig(cfg *Config) error {
	if err := loadCommon(cfg); err != nil {
		return err
	}

	cfg.DBUser = secretOrEnv("db_user", "DB_USER", "postgres")
	cfg.DBPassword = secretOrEnv("db_password", "DB_PASSWORD", "postgres")
	cfg.RedisURL = secretOrEnv("redis_url", "REDIS_URL", "")
	cfg.SessionSecret = secretOrEnv("session_secret", "SESSION_SECRET", defaultSessionSecret)
	cfg.GoogleClientID = secretOrEnv("google_client_id", "GOOGLE_CLIENT_ID", "")
	cfg.GoogleClientSecret = secretOrEnv("google_client_secret", "GOOGLE_CLIENT_SECRET", "")
	cfg.TomTomAPIKey = secretOrEnv("tomtom_api_key", "TOMTOM_API_KEY", "")
	cfg.SeedPassword = getEnv("SEED_USERS_COMMON_PASSWORD", "password")

	return nil
}

// loadProdConfig loads configuration for production; secrets come from Docker secrets first
func loadProdConfig(cfg *Config) error {
	if err := loadCommon(cfg); err != nil {
		return err
	}

	cfg.DBUser = secretOrEnv("db_user", "DB_USER", "")
	cfg.DBPassword = secretOrEnv("db_password", "DB_PASSWORD", "")
	cfg.RedisURL = secretOrEnv("redis_url", "REDIS_URL", "")
	cfg.SessionSecret = secretOrEnv("session_secret", "SESSION_SECRET", "")
	cfg.GoogleClientID = secretOrEnv("google_client_id", "GOOGLE_CLIENT_ID", "")
	cfg.GoogleClientSecret = secretOrEnv("google_client_secret", "GOOGLE_CLIENT_SECRET", "")
	cfg.TomTomAPIKey = secretOrEnv("tomtom_api_key", "TOMTOM_API_KEY", "")
	cfg.SeedPassword = os.Getenv("SEED_USERS_COMMON_PASSWORD")

	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func secretOrEnv(secret, envKey, fallback string) string {
	if v := readSecret(secret); v != "" {
		return v
	}
	return getEnv(envKey, fallback)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
