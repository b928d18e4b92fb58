package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 12*time.Hour, c.AccessTokenValidityDuration)
	assert.False(t, c.RequireAuth)
	assert.Equal(t, BlobBackendS3, c.BlobBackend)
	assert.Equal(t, "http://localhost:9000", c.S3Endpoint)
	assert.Equal(t, "mchs-tracker", c.S3Bucket)
	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, int64(64<<20), c.MaxRequestBytes)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Setenv("CONFIG", "")

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, 12*time.Hour, c.AccessTokenValidityDuration)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"http_addr": ":7000",
		"grpc_addr": ":7001",
		"s3_bucket": "from-json",
	})
	t.Setenv("CONFIG", "")
	t.Setenv("GRPC_ADDR", ":8001")
	t.Setenv("S3_BUCKET", "from-env")
	os.Args = []string{"testbin", "-c", path, "-b", "from-flag"}

	c := LoadConfig()

	assert.Equal(t, ":7000", c.HTTPAddr, "json over defaults")
	assert.Equal(t, ":8001", c.GRPCAddr, "env over json")
	assert.Equal(t, "from-flag", c.S3Bucket, "flags over env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "local backend", mutate: func(c *Config) { c.BlobBackend = BlobBackendLocal }},
		{name: "unknown backend", mutate: func(c *Config) { c.BlobBackend = "ftp" }, wantErr: true},
		{name: "s3 without bucket", mutate: func(c *Config) { c.S3Bucket = "" }, wantErr: true},
		{name: "local without dir", mutate: func(c *Config) {
			c.BlobBackend = BlobBackendLocal
			c.LocalMediaPath = ""
		}, wantErr: true},
		{name: "auth without secret", mutate: func(c *Config) {
			c.RequireAuth = true
			c.SecretKey = ""
		}, wantErr: true},
		{name: "zero body limit", mutate: func(c *Config) { c.MaxRequestBytes = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIsProduction(t *testing.T) {
	c := &Config{Environment: "production"}
	assert.True(t, c.IsProduction())
	c.Environment = "development"
	assert.False(t, c.IsProduction())
}
