// Package cache defines the read-through cache used for job lookups.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("cache: miss")
	ErrInvalidValue = errors.New("cache: unsupported value type")
	ErrClosed       = errors.New("cache: closed")
)

// Cache holds strings, byte slices and encoding.BinaryMarshaler values. Get decodes into
// a *string or an encoding.BinaryUnmarshaler and returns ErrNotFound on a miss.
// A zero ttl on Set means the default TTL.
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string, dst any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options configures both cache implementations. The Redis fields are
// ignored by the in-process cache.
type Options struct {
	DefaultTTL      time.Duration
	CleanupInterval time.Duration // in-process sweep period, 0 disables it
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
}

// DefaultOptions matches the CACHE_TTL default.
func DefaultOptions() Options {
	return Options{DefaultTTL: 5 * time.Minute, CleanupInterval: time.Minute}
}
