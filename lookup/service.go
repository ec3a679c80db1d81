package lookup

import (
	"context"
	"fmt"
)

// FetchFn is the function signature FetchService expects when fetching from
// the source of truth. It is an alias so implementations outside this
// package can satisfy FetchService without importing it.
type FetchFn = func(ctx context.Context) (any, error)

// FetchService coalesces cache-miss fetches: concurrent calls for the same
// key share a single in-flight fetch. It sits in front of the store on the
// miss path only; the authoritative name<->id maps live in Cache and never
// expire. A nil FetchService is valid and means every miss goes straight to
// the store.
type FetchService interface {
	GetOrFetch(ctx context.Context, key string, fetch FetchFn) (any, error)
	Delete(ctx context.Context, key string) error
}

// fetchEntry routes a typed entry fetch through an optional FetchService.
func fetchEntry(ctx context.Context, svc FetchService, key string, fn func(ctx context.Context) (Entry, error)) (Entry, error) {
	if svc == nil {
		return fn(ctx)
	}

	v, err := svc.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return Entry{}, err
	}

	entry, ok := v.(Entry)
	if !ok {
		return Entry{}, fmt.Errorf("lookup: fetch service returned %T for key %q, want lookup.Entry", v, key)
	}
	return entry, nil
}
