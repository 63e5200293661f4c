package store

import (
	"context"
	"sync"
)

// MemoryStore is a mutex-guarded in-memory UserStore using the
// caller-supplied-id policy. Insertion order is preserved for List.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64]*User
	order []int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]*User),
	}
}

// Create inserts a user under the caller-supplied id. A non-positive id
// fails with ErrInvalidID, a duplicate id with ErrConflict.
func (s *MemoryStore) Create(ctx context.Context, u *User) error {
	if u.ID <= 0 {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; exists {
		return ErrConflict
	}

	stored := *u
	s.users[u.ID] = &stored
	s.order = append(s.order, u.ID)
	return nil
}

// Get returns a copy of the user with the given id.
func (s *MemoryStore) Get(ctx context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	out := *u
	return &out, nil
}

// List returns all users in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*User, 0, len(s.order))
	for _, id := range s.order {
		u := *s.users[id]
		users = append(users, &u)
	}
	return users, nil
}

// Update replaces name and age in place. The id is immutable.
func (s *MemoryStore) Update(ctx context.Context, id int64, name string, age int) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	u.Name = name
	u.Age = age

	out := *u
	return &out, nil
}

// Delete removes the user and its insertion-order entry.
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}

	delete(s.users, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// HealthCheck always succeeds for the in-memory backend.
func (s *MemoryStore) HealthCheck(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error {
	return nil
}
