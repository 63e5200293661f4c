// Package store defines the user record store contract and its in-memory
// implementation.
//
// # Overview
//
// A UserStore owns the set of User records and enforces id uniqueness.
// Two id-assignment policies exist, one per backend:
//
//   - MemoryStore: the caller supplies the id; a duplicate id fails with
//     ErrConflict.
//   - postgres.Store: ids are auto-assigned by the database sequence, so a
//     plain create cannot conflict; explicit-id inserts (backfills) surface
//     the unique-constraint violation as ErrConflict.
//
// A deployment picks exactly one backend via configuration.
//
// # Errors
//
// Store methods return the sentinel errors ErrNotFound, ErrConflict and
// ErrInvalidID. Callers translate them to response outcomes; anything else
// is an infrastructure failure.
//
// # Related Packages
//
//   - pkg/store/postgres: PostgreSQL-backed implementation
//   - pkg/api: HTTP handlers over a UserStore
package store
