package lookup

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Cache is the intern cache for one lookup table. It owns a bidirectional
// name<->id mapping derived from the persisted rows and materializes rows for
// unseen names on the fly.
//
// All methods are safe for concurrent use. The cache grows monotonically:
// entries are only removed through explicit invalidation, never evicted.
type Cache struct {
	table Table
	store Store
	fetch FetchService
	log   *zap.Logger

	// mu guards both directions together so a reader can never observe a
	// torn pair (one direction committed, the other not yet).
	mu       sync.RWMutex
	nameToID map[string]int64
	idToName map[int64]string
}

// Option configures optional Cache collaborators.
type Option func(*Cache)

// WithLogger attaches a structured logger. The default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Cache) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates an intern cache for table backed by store. fetch may be nil,
// in which case cache misses go straight to the store with no in-process
// coalescing of concurrent fetches.
func New(table Table, store Store, fetch FetchService, opts ...Option) (*Cache, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("lookup: invalid table config: %w", err)
	}
	if store == nil {
		return nil, errors.New("lookup: store is required")
	}

	c := &Cache{
		table:    table,
		store:    store,
		fetch:    fetch,
		log:      zap.NewNop(),
		nameToID: make(map[string]int64),
		idToName: make(map[int64]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.log = c.log.With(zap.String("lookup_table", table.Name))
	return c, nil
}

// Table returns the table configuration this cache resolves against.
func (c *Cache) Table() Table { return c.table }

// IDFor resolves name to its persisted id, creating the row if the store has
// never seen the name. A cache hit performs no store access. The returned id
// always corresponds to a persisted row whose name equals the input.
func (c *Cache) IDFor(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, ErrEmptyName
	}

	c.mu.RLock()
	id, ok := c.nameToID[name]
	c.mu.RUnlock()
	if ok {
		return id, nil
	}

	entry, err := fetchEntry(ctx, c.fetch, idForKey(c.table, name), func(ctx context.Context) (Entry, error) {
		return c.findOrCreate(ctx, name)
	})
	if err != nil {
		return 0, err
	}

	c.commit(entry)
	return entry.ID, nil
}

// NameFor resolves id to its name. A miss triggers a single store read; an id
// absent from the store fails with *NotFoundError.
func (c *Cache) NameFor(ctx context.Context, id int64) (string, error) {
	c.mu.RLock()
	name, ok := c.idToName[id]
	c.mu.RUnlock()
	if ok {
		return name, nil
	}

	entry, err := fetchEntry(ctx, c.fetch, nameForKey(c.table, id), func(ctx context.Context) (Entry, error) {
		return c.store.FindByID(ctx, c.table, id)
	})
	if err != nil {
		return "", err
	}

	c.commit(entry)
	return entry.Name, nil
}

// InvalidateName drops the pair for name from both directions without
// touching the store. Use it when the table is known to have changed
// out-of-band, e.g. an administrative delete.
func (c *Cache) InvalidateName(ctx context.Context, name string) {
	c.mu.Lock()
	id, ok := c.nameToID[name]
	if ok {
		delete(c.nameToID, name)
		delete(c.idToName, id)
	}
	c.mu.Unlock()

	if c.fetch != nil {
		c.fetch.Delete(ctx, idForKey(c.table, name))
		if ok {
			c.fetch.Delete(ctx, nameForKey(c.table, id))
		}
	}
}

// InvalidateID drops the pair for id from both directions without touching
// the store.
func (c *Cache) InvalidateID(ctx context.Context, id int64) {
	c.mu.Lock()
	name, ok := c.idToName[id]
	if ok {
		delete(c.idToName, id)
		delete(c.nameToID, name)
	}
	c.mu.Unlock()

	if c.fetch != nil {
		c.fetch.Delete(ctx, nameForKey(c.table, id))
		if ok {
			c.fetch.Delete(ctx, idForKey(c.table, name))
		}
	}
}

// Seed commits already-persisted entries in bulk, e.g. rows loaded during a
// warm-up pass. Entries must come from the backing table; Seed does not
// write to the store.
func (c *Cache) Seed(entries []Entry) error {
	for _, e := range entries {
		if e.Name == "" {
			return ErrEmptyName
		}
	}

	c.mu.Lock()
	for _, e := range entries {
		c.nameToID[e.Name] = e.ID
		c.idToName[e.ID] = e.Name
	}
	c.mu.Unlock()
	return nil
}

// Len reports how many pairs are currently interned.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nameToID)
}

// findOrCreate is the miss path for IDFor. It runs inside the fetch service,
// so concurrent misses for the same name within this process collapse into
// one execution; races with other processes are arbitrated by the store's
// uniqueness constraint.
func (c *Cache) findOrCreate(ctx context.Context, name string) (Entry, error) {
	entry, err := c.store.FindByName(ctx, c.table, name)
	if err == nil {
		return entry, nil
	}
	if !IsNotFound(err) {
		return Entry{}, err
	}

	entry, err = c.store.CreateWithUniqueName(ctx, c.table, name)
	if err == nil {
		return entry, nil
	}
	if !IsDuplicateName(err) {
		return Entry{}, err
	}

	// Lost the create race: another writer interned the name first. Read
	// the winner's row instead of surfacing the violation.
	c.log.Debug("create lost uniqueness race, re-reading winner", zap.String("name", name))

	entry, err = c.store.FindByName(ctx, c.table, name)
	if err == nil {
		return entry, nil
	}
	if IsNotFound(err) {
		// The winner's row vanished between the constraint violation and
		// the re-read. That needs an out-of-band delete mid-race, which is
		// outside what this cache arbitrates.
		return Entry{}, &StoreError{
			Table: c.table.Name,
			Op:    "find-or-create",
			Err:   fmt.Errorf("row for %q disappeared after duplicate-name create", name),
		}
	}
	return Entry{}, err
}

// commit inserts both directions of a pair inside one critical section.
func (c *Cache) commit(e Entry) {
	c.mu.Lock()
	c.nameToID[e.Name] = e.ID
	c.idToName[e.ID] = e.Name
	c.mu.Unlock()
}
