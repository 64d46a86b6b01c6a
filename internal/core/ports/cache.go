package ports

import (
	"context"
	"time"
)

// Cache defines the TTL-capable key-value capability everything persisted in
// this gateway sits on: credential records and generation-cache entries alike.
// Each Get/Set is independently atomic; no multi-key consistency is assumed.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if not found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL (0 or negative means no expiration if supported).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
