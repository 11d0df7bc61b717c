// Package cache stores rendered pages for a bounded time.
package cache

import (
	"context"
	"time"
)

// Cache is a keyed byte store with per-entry expiry.
type Cache interface {
	// Get returns the value stored under key if it has not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear drops every entry.
	Clear(ctx context.Context) error
}

// Clock returns the current time. Tests inject a fake to control expiry.
type Clock func() time.Time
