package store

import (
	"context"
	"errors"
)

// Sentinel errors returned by UserStore implementations.
var (
	// ErrNotFound indicates the referenced user id does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrConflict indicates a create would violate id uniqueness.
	ErrConflict = errors.New("user already exists")
	// ErrInvalidID indicates a create was missing a usable id under the
	// caller-supplied-id policy.
	ErrInvalidID = errors.New("user id must be a positive integer")
)

// User is a single directory record. The id is immutable after creation.
type User struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Age  int    `json:"age" db:"age"`
}

// UserStore is the record store contract. Implementations must enforce
// at-most-one User per id at any time.
type UserStore interface {
	// Create inserts a user. Depending on the backend policy the id is
	// either caller-supplied (duplicate -> ErrConflict) or assigned by the
	// store and written back to u.ID.
	Create(ctx context.Context, u *User) error

	// Get returns the user with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*User, error)

	// List returns all users. Order is stable: insertion order for the
	// memory backend, primary-key order for SQL backends. An empty store
	// yields an empty, non-nil slice.
	List(ctx context.Context) ([]*User, error)

	// Update replaces name and age of the user with the given id, or
	// returns ErrNotFound. The id itself never changes.
	Update(ctx context.Context, id int64, name string, age int) (*User, error)

	// Delete removes the user with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// HealthCheck reports whether the backing store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
