package cacheinfra

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Capacity != 4096 {
		t.Errorf("expected Capacity to be 4096, got %d", cfg.Capacity)
	}
	if cfg.NumShards != 64 {
		t.Errorf("expected NumShards to be 64, got %d", cfg.NumShards)
	}
	if cfg.TTL != time.Minute {
		t.Errorf("expected TTL to be 1 minute, got %v", cfg.TTL)
	}
	if cfg.EvictionPercentage != 10 {
		t.Errorf("expected EvictionPercentage to be 10, got %d", cfg.EvictionPercentage)
	}
	if cfg.MissingRecordStorage {
		t.Error("expected MissingRecordStorage to be disabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero capacity", func(c *Config) { c.Capacity = 0 }, "Capacity"},
		{"negative capacity", func(c *Config) { c.Capacity = -1 }, "Capacity"},
		{"zero shards", func(c *Config) { c.NumShards = 0 }, "NumShards"},
		{"zero ttl", func(c *Config) { c.TTL = 0 }, "TTL"},
		{"eviction percentage too low", func(c *Config) { c.EvictionPercentage = 0 }, "EvictionPercentage"},
		{"eviction percentage too high", func(c *Config) { c.EvictionPercentage = 101 }, "EvictionPercentage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected error on field %s, got %s", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestNewSturdycService_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 0

	if _, err := NewSturdycService(cfg); err == nil {
		t.Error("expected constructor to reject invalid config")
	}
}

func TestSturdycService_GetOrFetchCachesValues(t *testing.T) {
	svc, err := NewSturdycService(DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	ctx := context.Background()
	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := svc.GetOrFetch(ctx, "key", fetch)
		if err != nil {
			t.Fatalf("GetOrFetch failed: %v", err)
		}
		if v != "value" {
			t.Errorf("expected cached value, got %v", v)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("expected a single fetch for repeated gets, got %d", got)
	}
}

func TestSturdycService_ErrorsAreNotCached(t *testing.T) {
	svc, err := NewSturdycService(DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	ctx := context.Background()
	boom := errors.New("store down")
	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return "recovered", nil
	}

	if _, err := svc.GetOrFetch(ctx, "key", fetch); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}

	v, err := svc.GetOrFetch(ctx, "key", fetch)
	if err != nil {
		t.Fatalf("expected retry after error, got %v", err)
	}
	if v != "recovered" {
		t.Errorf("expected recovered value, got %v", v)
	}
}

func TestSturdycService_DeleteForcesRefetch(t *testing.T) {
	svc, err := NewSturdycService(DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	ctx := context.Background()
	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		return calls.Add(1), nil
	}

	if _, err := svc.GetOrFetch(ctx, "key", fetch); err != nil {
		t.Fatalf("GetOrFetch failed: %v", err)
	}
	if err := svc.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.GetOrFetch(ctx, "key", fetch); err != nil {
		t.Fatalf("GetOrFetch after delete failed: %v", err)
	}

	if got := calls.Load(); got != 2 {
		t.Errorf("expected a refetch after delete, got %d fetches", got)
	}
}

func TestSturdycService_CoalescesInFlightFetches(t *testing.T) {
	svc, err := NewSturdycService(DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	ctx := context.Background()
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})

	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		close(started)
		<-release
		return "value", nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.GetOrFetch(ctx, "key", fetch)
	}()
	<-started

	// These callers arrive while the first fetch is in flight and must join
	// it rather than fetch again.
	const joiners = 8
	wg.Add(joiners)
	for i := 0; i < joiners; i++ {
		go func() {
			defer wg.Done()
			v, err := svc.GetOrFetch(ctx, "key", func(ctx context.Context) (any, error) {
				calls.Add(1)
				return "value", nil
			})
			if err != nil || v != "value" {
				t.Errorf("joined fetch returned %v, %v", v, err)
			}
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("expected in-flight fetches to be coalesced into 1, got %d", got)
	}
}
