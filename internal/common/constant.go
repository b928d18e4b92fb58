// Package common contains shared constants and sentinel errors used across
// visittracker components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// SyncAction is the only action accepted by the sync endpoint.
const SyncAction = "sync"

// ServiceName is reported by the root endpoint and the gRPC Ping.
const ServiceName = "visittracker"
