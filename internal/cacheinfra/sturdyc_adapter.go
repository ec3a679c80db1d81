package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc fetch-coalescing adapter.
// The adapter only serves the miss path of the lookup caches; the interned
// name<->id pairs themselves live elsewhere and never expire, so these
// settings bound nothing but the short-lived fetch layer.
type Config struct {
	// Capacity defines the maximum number of in-flight or recently fetched
	// keys the layer retains. Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0.
	NumShards int

	// TTL is how long a fetched entry is reused before the next miss goes
	// back to the store. Must be greater than 0. Keep it short: its only job
	// is absorbing miss bursts for keys the intern maps have not committed
	// yet.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict when
	// the layer reaches capacity. Must be between 1-100.
	EvictionPercentage int

	// MissingRecordStorage enables sturdyc's negative caching for keys whose
	// fetch reported no value. The lookup fetch functions create rows rather
	// than report misses, so this is off by default.
	MissingRecordStorage bool

	// EvictionInterval sets how often expired entries are collected.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config sized for small, slow-growing lookup tables.
func DefaultConfig() Config {
	return Config{
		Capacity:             4096,
		NumShards:            64,
		TTL:                  time.Minute,
		EvictionPercentage:   10,
		MissingRecordStorage: false,
		EvictionInterval:     0,
	}
}

// ToSturdycOptions converts the Config to a sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly to
// sturdyc.New() and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// sturdycService wraps a sturdyc client providing miss coalescing: concurrent
// GetOrFetch calls for the same key share one execution of the fetch
// function, and the result is reused until the TTL lapses.
type sturdycService struct {
	client *sturdyc.Client[any]
}

// NewSturdycService creates a new sturdyc fetch-service adapter. It validates
// the configuration and initializes a sturdyc client with the provided
// settings.
func NewSturdycService(cfg Config) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &sturdycService{client: client}, nil
}

// GetOrFetch returns the cached value for key, or runs fetch to obtain it.
// Errors from fetch are returned as-is and are not cached.
func (s *sturdycService) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	return s.client.GetOrFetch(ctx, key, fetch)
}

// Delete removes a single key so the next GetOrFetch goes back to the source.
func (s *sturdycService) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}
