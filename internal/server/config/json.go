package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/visittracker/internal/flagx"
	"github.com/dmitrijs2005/visittracker/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON configuration file. Durations
// use timex.Duration so both "12h" and integer nanoseconds are accepted.
// Pointers distinguish "not set" from zero values.
type JsonConfig struct {
	HTTPAddr                    string          `json:"http_addr"`
	GRPCAddr                    string          `json:"grpc_addr"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	RequireAuth                 *bool           `json:"require_auth"`
	BlobBackend                 string          `json:"blob_backend"`
	S3Endpoint                  string          `json:"s3_endpoint"`
	S3Region                    string          `json:"s3_region"`
	S3AccessKey                 string          `json:"s3_access_key"`
	S3SecretKey                 string          `json:"s3_secret_key"`
	S3Bucket                    string          `json:"s3_bucket"`
	S3PublicURL                 string          `json:"s3_public_url"`
	LocalMediaPath              string          `json:"media_dir"`
	LocalMediaURL               string          `json:"media_url"`
	Environment                 string          `json:"environment"`
	LogLevel                    string          `json:"log_level"`
	MaxRequestBytes             int64           `json:"max_request_bytes"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson loads the file named by -c/-config (or the CONFIG variable)
// into config. Fields missing from the file keep their current values.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RequireAuth != nil {
		config.RequireAuth = *c.RequireAuth
	}
	setString(&config.BlobBackend, c.BlobBackend)
	setString(&config.S3Endpoint, c.S3Endpoint)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3PublicURL, c.S3PublicURL)
	setString(&config.LocalMediaPath, c.LocalMediaPath)
	setString(&config.LocalMediaURL, c.LocalMediaURL)
	setString(&config.Environment, c.Environment)
	setString(&config.LogLevel, c.LogLevel)
	if c.MaxRequestBytes > 0 {
		config.MaxRequestBytes = c.MaxRequestBytes
	}
}
