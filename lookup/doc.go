// Package lookup provides a process-local intern cache that resolves between
// the names and the persisted integer ids of a relational lookup table.
//
// # Overview
//
// A lookup table is a normalized table holding the distinct values of a
// categorical attribute (car types, genres, statuses), referenced by id from
// other tables. This package keeps a bidirectional name<->id mapping for one
// such table in memory and materializes rows on demand:
//
//   - Cache: per-table intern cache with IDFor, NameFor and invalidation
//   - Table: explicit configuration for the backing table and its columns
//   - Store: the minimal persistence contract the cache consumes
//   - FetchService: optional miss-path coalescing so concurrent misses for
//     the same key share one store round-trip
//
// # Basic Usage
//
// Declare the table once at startup, then resolve in either direction:
//
//	table := lookup.NewTable("car_types")
//	cache, err := lookup.New(table, store, fetchService)
//	if err != nil {
//		return err
//	}
//
//	id, err := cache.IDFor(ctx, "Sports")   // creates the row on first sight
//	name, err := cache.NameFor(ctx, id)     // "Sports"
//
// # Find-or-Create Semantics
//
// IDFor follows a fixed resolution order:
//
//  1. Return a cached id without touching the store.
//  2. On a cache miss, query the store by name.
//  3. If the store has no row, create one; the store assigns the id.
//  4. If the create loses a uniqueness race against another process, re-read
//     the winner's row and return its id. The race is never surfaced to the
//     caller.
//
// Every id returned by IDFor corresponds to a persisted row whose name equals
// the input. The cache grows monotonically and never evicts or expires
// entries; lookup tables are assumed small and slow-growing. If names are
// user-supplied without bound, put a limit in front of IDFor.
//
// # Concurrency
//
// Both map directions are committed inside a single critical section, so a
// concurrent reader can never observe one direction updated and the other
// not. The cache introduces no goroutines, timers or retries of its own;
// blocking happens only inside store calls.
//
// Multiple processes sharing one table each discover rows lazily and may race
// to create the same name. Correctness relies on the store enforcing a
// uniqueness constraint on the name column.
//
// # Error Taxonomy
//
//   - NotFoundError: NameFor was asked for an id the store does not have.
//   - StoreError: the underlying store call failed; propagated verbatim,
//     never retried here.
//   - DuplicateNameError: returned by stores when a create loses a
//     uniqueness race; consumed internally by IDFor.
//
// For a production Store implementation over uptrace/bun, see the bunstore
// package. For container-managed cache instances, see pkg/di.
package lookup
