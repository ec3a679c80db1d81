// Package testsupport provides shared helpers for this repository's tests:
// an in-memory lookup.Store with real uniqueness semantics and fixture
// loading utilities.
package testsupport

import (
	"context"
	"sync"

	"github.com/abyx/RailsLookup/lookup"
)

// MemoryStore is an in-memory lookup.Store. It enforces name uniqueness the
// way a relational unique constraint would, assigns sequential ids starting
// at 1 per table, and counts calls per method so tests can assert how often
// the cache reached the store.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string]*memTable
	calls  map[string]int
	err    error
}

type memTable struct {
	nextID int64
	byName map[string]lookup.Entry
	byID   map[int64]lookup.Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]*memTable),
		calls:  make(map[string]int),
	}
}

// Calls returns how many times the named method ("FindByName", "FindByID",
// "CreateWithUniqueName") has been invoked.
func (m *MemoryStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// SetError makes every subsequent store call fail with a *lookup.StoreError
// wrapping err. Pass nil to restore normal behavior.
func (m *MemoryStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Insert persists an entry directly, bypassing call counting. Tests use it
// to seed rows that exist in the store but not in any cache.
func (m *MemoryStore) Insert(table lookup.Table, name string) lookup.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table(table.Name).insert(name)
}

// Count returns the number of rows persisted in the named table.
func (m *MemoryStore) Count(table lookup.Table) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.table(table.Name).byName)
}

// Delete removes a row, simulating out-of-band administrative action.
func (m *MemoryStore) Delete(table lookup.Table, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.table(table.Name)
	if e, ok := t.byName[name]; ok {
		delete(t.byName, name)
		delete(t.byID, e.ID)
	}
}

// FindByName implements lookup.Store.
func (m *MemoryStore) FindByName(ctx context.Context, table lookup.Table, name string) (lookup.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["FindByName"]++

	if m.err != nil {
		return lookup.Entry{}, &lookup.StoreError{Table: table.Name, Op: "find-by-name", Err: m.err}
	}

	if e, ok := m.table(table.Name).byName[name]; ok {
		return e, nil
	}
	return lookup.Entry{}, &lookup.NotFoundError{Table: table.Name, Name: name}
}

// FindByID implements lookup.Store.
func (m *MemoryStore) FindByID(ctx context.Context, table lookup.Table, id int64) (lookup.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["FindByID"]++

	if m.err != nil {
		return lookup.Entry{}, &lookup.StoreError{Table: table.Name, Op: "find-by-id", Err: m.err}
	}

	if e, ok := m.table(table.Name).byID[id]; ok {
		return e, nil
	}
	return lookup.Entry{}, &lookup.NotFoundError{Table: table.Name, ID: id}
}

// CreateWithUniqueName implements lookup.Store.
func (m *MemoryStore) CreateWithUniqueName(ctx context.Context, table lookup.Table, name string) (lookup.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CreateWithUniqueName"]++

	if m.err != nil {
		return lookup.Entry{}, &lookup.StoreError{Table: table.Name, Op: "create", Err: m.err}
	}

	t := m.table(table.Name)
	if _, ok := t.byName[name]; ok {
		return lookup.Entry{}, &lookup.DuplicateNameError{Table: table.Name, Name: name}
	}
	return t.insert(name), nil
}

// table returns the state for name, creating it lazily. Callers hold mu.
func (m *MemoryStore) table(name string) *memTable {
	t, ok := m.tables[name]
	if !ok {
		t = &memTable{
			nextID: 1,
			byName: make(map[string]lookup.Entry),
			byID:   make(map[int64]lookup.Entry),
		}
		m.tables[name] = t
	}
	return t
}

// insert persists a new row. Callers hold mu.
func (t *memTable) insert(name string) lookup.Entry {
	e := lookup.Entry{ID: t.nextID, Name: name}
	t.nextID++
	t.byName[name] = e
	t.byID[e.ID] = e
	return e
}
