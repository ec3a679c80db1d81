package lookup

import "context"

// Entry is one row of a lookup table. Entries are immutable after creation;
// renames are not part of this contract.
type Entry struct {
	ID   int64  `json:"id" bun:"id"`
	Name string `json:"name" bun:"name"`
}

// Store is the minimal persistence contract the cache consumes. The backing
// table is assumed to already exist with a uniqueness constraint on the name
// column; schema management belongs to the application.
//
// Implementations must map their failures onto the package error taxonomy:
//
//   - a missing row returns *NotFoundError
//   - a violated name uniqueness constraint returns *DuplicateNameError
//   - any other failure returns *StoreError wrapping the cause
type Store interface {
	// FindByName returns the entry with the given name.
	FindByName(ctx context.Context, table Table, name string) (Entry, error)

	// FindByID returns the entry with the given id.
	FindByID(ctx context.Context, table Table, id int64) (Entry, error)

	// CreateWithUniqueName persists a new entry and returns it with the
	// store-assigned id. A concurrent create that already used the name
	// must surface as *DuplicateNameError so the cache can re-read the
	// winner's row.
	CreateWithUniqueName(ctx context.Context, table Table, name string) (Entry, error)
}
