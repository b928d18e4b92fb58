package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/visittracker/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN; empty keeps data in memory
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r bool     require a bearer token on write routes
//	-m string   blob backend: s3 or local
//	-e string   S3 endpoint (e.g., "http://127.0.0.1:9000")
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-l string   log level
//
// Only the flags above are passed to the flag set (see flagx.FilterArgs), so
// -c/-config never collide with it.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-t", "-r", "-m", "-e", "-u", "-p", "-b", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.BoolVar(&config.RequireAuth, "r", config.RequireAuth, "require auth on write routes")
	fs.StringVar(&config.BlobBackend, "m", config.BlobBackend, "blob backend (s3|local)")
	fs.StringVar(&config.S3Endpoint, "e", config.S3Endpoint, "S3 endpoint")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
