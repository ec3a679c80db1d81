// Package bunstore implements the lookup.Store contract over a relational
// database accessed through uptrace/bun.
//
// Two implementations are provided:
//
//   - Store works directly against a *bun.DB and builds identifier-safe
//     queries from the lookup.Table configuration, so one Store serves any
//     number of tables.
//   - RepositoryStore adapts an existing go-repository-bun
//     repository.Repository[*lookup.Entry] for codebases that already route
//     persistence through that layer. One RepositoryStore serves exactly the
//     table its repository is mapped to.
//
// Both classify driver-level uniqueness violations (sqlite unique-constraint
// codes, Postgres 23505) into *lookup.DuplicateNameError so the cache can
// recover from create races, and wrap every other failure in
// *lookup.StoreError.
//
// The backing table must already exist with an integer primary key and a
// unique name column; this package performs no schema management.
package bunstore
