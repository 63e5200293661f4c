// Package postgres implements the user record store on PostgreSQL with an
// optional Redis read-cache.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kestrelops/userd/pkg/store"
)

// uniqueViolation is the PostgreSQL error code for a unique-constraint
// violation; a duplicate-id race is resolved by the database rejecting the
// second writer.
const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	age  INTEGER NOT NULL
)`

// Store implements store.UserStore using PostgreSQL. Ids are auto-assigned
// by the database sequence; explicit-id inserts are still accepted so a
// unique-constraint violation can be surfaced as store.ErrConflict.
type Store struct {
	db    *sql.DB
	cache *Cache
}

// New connects to PostgreSQL and returns a ready store.
func New(config store.Config) (*Store, error) {
	db, err := sql.Open("postgres", config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.PostgresMaxConns)
	db.SetMaxIdleConns(config.PostgresMinConns)
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), config.PostgresTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	var cache *Cache
	if config.CacheEnabled && config.RedisURL != "" {
		cache, err = NewCache(config.RedisURL, config.CacheTTL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create cache: %w", err)
		}
	}

	return &Store{db: db, cache: cache}, nil
}

// NewWithDB wraps an existing database handle. Used by tests and by
// callers that manage the connection themselves.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the users table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Create inserts a user. With a zero id the database assigns the next id
// and writes it back; with an explicit id a duplicate fails with
// store.ErrConflict.
func (s *Store) Create(ctx context.Context, u *store.User) error {
	var err error
	if u.ID > 0 {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO users (id, name, age) VALUES ($1, $2, $3)`,
			u.ID, u.Name, u.Age,
		)
	} else {
		err = s.db.QueryRowContext(ctx,
			`INSERT INTO users (name, age) VALUES ($1, $2) RETURNING id`,
			u.Name, u.Age,
		).Scan(&u.ID)
	}

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Get returns the user with the given id, consulting the cache first.
func (s *Store) Get(ctx context.Context, id int64) (*store.User, error) {
	if s.cache != nil {
		if u, err := s.cache.GetUser(ctx, id); err == nil && u != nil {
			return u, nil
		}
	}

	var u store.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, age FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Age)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if s.cache != nil {
		s.cache.SetUser(ctx, &u)
	}
	return &u, nil
}

// List returns all users in primary-key order.
func (s *Store) List(ctx context.Context) ([]*store.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, age FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*store.User, 0)
	for rows.Next() {
		var u store.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Age); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Update replaces name and age for the given id.
func (s *Store) Update(ctx context.Context, id int64, name string, age int) (*store.User, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = $1, age = $2 WHERE id = $3`,
		name, age, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	if s.cache != nil {
		s.cache.InvalidateUser(ctx, id)
	}
	return &store.User{ID: id, Name: name, Age: age}, nil
}

// Delete removes the user with the given id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if s.cache != nil {
		s.cache.InvalidateUser(ctx, id)
	}
	return nil
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle and the cache connection.
func (s *Store) Close() error {
	if s.cache != nil {
		s.cache.Close()
	}
	return s.db.Close()
}

// DB exposes the underlying handle for health probes.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Cache returns the cache layer, or nil when caching is disabled.
func (s *Store) Cache() *Cache {
	return s.cache
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
