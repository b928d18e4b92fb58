// Package client wraps the visittracker gRPC sync service for command-line
// use: it attaches the access token and maps transport errors onto the
// errors below.
package client
