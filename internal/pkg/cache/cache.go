package cache

import (
	"context"
	"time"
)

// Cache stores JSON-serialisable values under string keys.
type Cache interface {
	// Get decodes the value stored at key into dest.
	// It reports false when the key is absent.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value at key for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Noop is used when no cache backend is configured. Every Get misses.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }
