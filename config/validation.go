package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"PORT", "must be set"})
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{"DB_PATH", "is required for the sqlite driver"})
		}
	case DriverPostgres:
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_HOST", "host and database name are required for the postgres driver"})
		}
		if cfg.DBUser == "" {
			errs = append(errs, ValidationError{"DB_USER", "is required for the postgres driver"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	switch cfg.ImageStore {
	case ImageStoreLocal:
		if cfg.UploadsDir == "" {
			errs = append(errs, ValidationError{"UPLOADS_DIR", "is required for the local image store"})
		}
	case ImageStoreS3:
		if cfg.S3BucketName == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "is required for the s3 image store"})
		}
	default:
		errs = append(errs, ValidationError{"IMAGE_STORE", fmt.Sprintf("unsupported image store %q", cfg.ImageStore)})
	}

	if (cfg.GoogleClientID == "") != (cfg.GoogleClientSecret == "") {
		errs = append(errs, ValidationError{"GOOGLE_CLIENT_ID", "client id and secret must be set together"})
	}

	if cfg.SessionSecret == "" {
		errs = append(errs, ValidationError{"SESSION_SECRET", "must be set"})
	}

	if cfg.Environment == Production {
		if cfg.SessionSecret == defaultSessionSecret || len(cfg.SessionSecret) < 32 {
			errs = append(errs, ValidationError{"SESSION_SECRET", "must be at least 32 characters in production"})
		}
		if cfg.TomTomAPIKey == "" {
			errs = append(errs, ValidationError{"TOMTOM_API_KEY", "is required in production"})
		}
	}

	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}
