// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the CRM service.
type Config struct {
	Port string

	// One of the two is required. DatabaseURL selects the PostgreSQL store;
	// SQLitePath selects the embedded store for local and single-box setups.
	DatabaseURL string
	SQLitePath  string

	// Optional. Empty disables event publishing.
	RedisURL string

	// Document storage. BlobDriver is "fs" (default), "s3" or "memory".
	BlobDriver  string
	UploadDir   string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	ReminderIntervalMinutes int
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	sqlitePath := os.Getenv("SQLITE_PATH")
	if dbURL == "" && sqlitePath == "" {
		return nil, fmt.Errorf("DATABASE_URL or SQLITE_PATH is required")
	}
	if dbURL != "" && sqlitePath != "" {
		return nil, fmt.Errorf("DATABASE_URL and SQLITE_PATH are mutually exclusive")
	}

	port := os.Getenv("CRM_PORT")
	if port == "" {
		port = "8080"
	}

	uploadDir := os.Getenv("CRM_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	interval := 15
	if raw := os.Getenv("REMINDER_INTERVAL_MINUTES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("REMINDER_INTERVAL_MINUTES must be a positive integer, got %q", raw)
		}
		interval = n
	}

	return &Config{
		Port:                    port,
		DatabaseURL:             dbURL,
		SQLitePath:              sqlitePath,
		RedisURL:                os.Getenv("REDIS_URL"),
		BlobDriver:              os.Getenv("CRM_BLOB_DRIVER"),
		UploadDir:               uploadDir,
		S3Bucket:                os.Getenv("CRM_BLOB_S3_BUCKET"),
		S3Region:                os.Getenv("CRM_BLOB_S3_REGION"),
		S3Endpoint:              os.Getenv("CRM_BLOB_S3_ENDPOINT"),
		S3PathStyle:             os.Getenv("CRM_BLOB_S3_PATH_STYLE") == "true",
		ReminderIntervalMinutes: interval,
	}, nil
}
