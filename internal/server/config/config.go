// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"fmt"
	"time"
)

const (
	BlobBackendS3    = "s3"
	BlobBackendLocal = "local"
)

// Config holds runtime settings for the visittracker server.
//
// An empty DatabaseDSN selects the in-memory store, which is handy for
// local development and demos but loses all data on restart.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR"`
	GRPCAddr string `env:"GRPC_ADDR"`

	DatabaseDSN string `env:"DATABASE_URL"`

	SecretKey                   string        `env:"SECRET_KEY"`
	AccessTokenValidityDuration time.Duration `env:"ACCESS_TOKEN_TTL"`
	// RequireAuth protects write routes with a bearer token.
	RequireAuth bool `env:"REQUIRE_AUTH"`

	BlobBackend string `env:"BLOB_BACKEND"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	LocalMediaPath string `env:"MEDIA_DIR"`
	LocalMediaURL  string `env:"MEDIA_URL"`

	Environment     string `env:"ENVIRONMENT"`
	LogLevel        string `env:"LOG_LEVEL"`
	MaxRequestBytes int64  `env:"MAX_REQUEST_BYTES"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret and the S3 credentials must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 12 * time.Hour
	c.RequireAuth = false
	c.BlobBackend = BlobBackendS3
	c.S3Endpoint = "http://localhost:9000"
	c.S3Region = "us-east-1"
	c.S3AccessKey = "minioadmin"
	c.S3SecretKey = "minioadmin"
	c.S3Bucket = "mchs-tracker"
	c.S3PublicURL = ""
	c.LocalMediaPath = "./media"
	c.LocalMediaURL = "http://localhost:8080/media"
	c.Environment = "development"
	c.LogLevel = "info"
	c.MaxRequestBytes = 64 << 20
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.BlobBackend {
	case BlobBackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 blob backend")
		}
	case BlobBackendLocal:
		if c.LocalMediaPath == "" {
			return fmt.Errorf("MEDIA_DIR is required for the local blob backend")
		}
	default:
		return fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
	if c.RequireAuth && c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required when auth is enabled")
	}
	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("MAX_REQUEST_BYTES must be positive")
	}
	return nil
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (and .env) and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
