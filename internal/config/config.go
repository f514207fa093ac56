package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all server settings. Values come from the environment, with
// an optional YAML file (CONFIG_FILE) applied first; environment variables
// win over the file.
type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	CORSOrigins string `yaml:"cors_origins"`

	// Password gates every API route; SessionSecret signs session cookies.
	Password      string        `yaml:"password"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`

	// Metadata store: "sqlite" (default) or "postgres".
	KVDriver    string `yaml:"kv_driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	DatabaseURL string `yaml:"database_url"`

	// Object store: "fs" (default) or "s3".
	BlobDriver  string `yaml:"blob_driver"`
	DataDir     string `yaml:"data_dir"`
	S3Region    string `yaml:"s3_region"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
	S3Endpoint  string `yaml:"s3_endpoint"`

	// Retention thresholds and sweep cadence.
	ArchiveDays   int           `yaml:"archive_days"`
	DeleteDays    int           `yaml:"delete_days"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Load builds the configuration from the optional YAML file and the
// environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          "8080",
		Environment:   "dev",
		CORSOrigins:   "http://localhost:3000",
		SessionTTL:    7 * 24 * time.Hour,
		KVDriver:      "sqlite",
		SQLitePath:    "data/mdstash.db",
		BlobDriver:    "fs",
		DataDir:       "data/blobs",
		ArchiveDays:   30,
		DeleteDays:    60,
		SweepInterval: 24 * time.Hour,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.Password = getEnv("STASH_PASSWORD", cfg.Password)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)

	cfg.KVDriver = getEnv("KV_DRIVER", cfg.KVDriver)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)

	cfg.BlobDriver = getEnv("BLOB_DRIVER", cfg.BlobDriver)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.S3Region = getEnv("S3_REGION", cfg.S3Region)
	cfg.S3Bucket = getEnv("S3_BUCKET", cfg.S3Bucket)
	cfg.S3AccessKey = getEnv("S3_ACCESS_KEY", cfg.S3AccessKey)
	cfg.S3SecretKey = getEnv("S3_SECRET_KEY", cfg.S3SecretKey)
	cfg.S3Endpoint = getEnv("S3_ENDPOINT", cfg.S3Endpoint)

	var err error
	if cfg.ArchiveDays, err = getEnvInt("ARCHIVE_DAYS", cfg.ArchiveDays); err != nil {
		return nil, err
	}
	if cfg.DeleteDays, err = getEnvInt("DELETE_DAYS", cfg.DeleteDays); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getEnvDuration("SWEEP_INTERVAL", cfg.SweepInterval); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", cfg.SessionTTL); err != nil {
		return nil, err
	}

	if cfg.Password == "" {
		return nil, fmt.Errorf("STASH_PASSWORD is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}
