// Package cache provides the cache-aside store used for upstream recipe API
// responses. Values are opaque bytes; callers own serialization.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or its TTL has elapsed.
var ErrMiss = errors.New("cache: miss")

// Cache is a key-value store with per-entry TTL. Concurrent Set calls for the
// same key are last-write-wins.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate removes key; removing an absent key is not an error.
	Invalidate(ctx context.Context, key string) error
}
