// Package cache provides a small byte-oriented cache interface with
// in-memory (LRU) and Redis-backed implementations. It is used to keep
// parsed worksheets between report runs.
package cache

import (
	"context"
	"errors"
	"time"

	"metricsreport/pkg/config"
)

// Backend types for cache implementations.
const (
	// BackendMemory specifies an in-memory cache backend.
	BackendMemory = "memory"
	// BackendRedis specifies a Redis cache backend.
	BackendRedis = "redis"
)

// Standard errors returned by cache operations.
var (
	// ErrKeyNotFound is returned when a requested key does not exist in the cache.
	ErrKeyNotFound = errors.New("key not found")
	// ErrCacheClosed is returned when an operation is attempted on a closed cache.
	ErrCacheClosed = errors.New("cache is closed")
)

// Cache is an interface that defines common operations for various cache implementations.
type Cache interface {
	// Get retrieves the value associated with the given key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value for the given key. A ttl of zero means the default TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)
	// DeleteByPattern removes all keys matching a glob-like pattern
	// ("sheet:*") and returns how many were removed.
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
	// Stats returns statistics about the cache.
	Stats(ctx context.Context) (*Stats, error)
	// Close shuts down the cache and releases any underlying resources.
	Close() error
}

// Stats holds statistics about a cache's performance and state.
type Stats struct {
	TotalKeys   int64   // Total number of keys currently in the cache.
	Hits        int64   // Number of successful cache retrievals.
	Misses      int64   // Number of failed cache retrievals.
	HitRate     float64 // Ratio of hits to total lookups.
	MemoryBytes int64   // Current size of stored values in bytes (memory backend).
	Backend     string  // The name of the cache backend.
}

// Options contains configuration parameters for creating a Cache instance.
type Options struct {
	Backend    string        // BackendMemory or BackendRedis.
	DefaultTTL time.Duration // TTL used when Set is called with zero.

	// Memory cache specific options
	MaxEntries      int           // Maximum number of entries before LRU eviction.
	CleanupInterval time.Duration // Interval for background removal of expired entries.

	// Redis cache specific options
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
	KeyPrefix     string // namespace prepended to every Redis key
}

// DefaultOptions returns Options with defaults suited to a CLI run.
func DefaultOptions() *Options {
	return &Options{
		Backend:         BackendMemory,
		DefaultTTL:      30 * time.Minute,
		MaxEntries:      256,
		CleanupInterval: 1 * time.Minute,
		RedisAddr:       "localhost:6379",
		RedisPoolSize:   4,
		KeyPrefix:       "metricsreport:",
	}
}

// FromConfig создаёт опции из конфигурации
func FromConfig(cfg *config.CacheConfig) *Options {
	opts := DefaultOptions()
	opts.Backend = cfg.Driver
	if cfg.DefaultTTL > 0 {
		opts.DefaultTTL = cfg.DefaultTTL
	}
	if cfg.MaxEntries > 0 {
		opts.MaxEntries = cfg.MaxEntries
	}
	opts.RedisAddr = cfg.Address()
	opts.RedisPassword = cfg.Password
	opts.RedisDB = cfg.DB
	return opts
}

// New создаёт кэш на основе опций
func New(opts *Options) (Cache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	switch opts.Backend {
	case BackendRedis:
		return NewRedisCache(opts)
	default:
		return NewMemoryCache(opts), nil
	}
}
