package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelops/userd/pkg/store"
)

// setupTestDB opens an in-memory SQLite database with a schema equivalent
// to the PostgreSQL one. SQLite accepts $N placeholders and RETURNING, so
// the store queries run unchanged.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			age  INTEGER NOT NULL
		)`)
	require.NoError(t, err)

	return db
}

func TestStore_CreateAssignsID(t *testing.T) {
	ctx := context.Background()
	s := NewWithDB(setupTestDB(t))

	alice := &store.User{Name: "Alice", Age: 30}
	require.NoError(t, s.Create(ctx, alice))
	assert.Positive(t, alice.ID)

	bob := &store.User{Name: "Bob", Age: 40}
	require.NoError(t, s.Create(ctx, bob))
	assert.NotEqual(t, alice.ID, bob.ID, "auto-assigned ids must be distinct")
}

func TestStore_CreateExplicitID(t *testing.T) {
	ctx := context.Background()
	s := NewWithDB(setupTestDB(t))

	u := &store.User{ID: 99, Name: "Alice", Age: 30}
	require.NoError(t, s.Create(ctx, u))

	got, err := s.Get(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, 30, got.Age)
}

func TestStore_GetNotFound(t *testing.T) {
	s := NewWithDB(setupTestDB(t))

	_, err := s.Get(context.Background(), 12345)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_ListEmpty(t *testing.T) {
	s := NewWithDB(setupTestDB(t))

	users, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestStore_ListPrimaryKeyOrder(t *testing.T) {
	ctx := context.Background()
	s := NewWithDB(setupTestDB(t))

	require.NoError(t, s.Create(ctx, &store.User{ID: 5, Name: "c", Age: 3}))
	require.NoError(t, s.Create(ctx, &store.User{ID: 2, Name: "a", Age: 1}))
	require.NoError(t, s.Create(ctx, &store.User{ID: 3, Name: "b", Age: 2}))

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, int64(2), users[0].ID)
	assert.Equal(t, int64(3), users[1].ID)
	assert.Equal(t, int64(5), users[2].ID)
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	s := NewWithDB(setupTestDB(t))

	u := &store.User{Name: "Alice", Age: 30}
	require.NoError(t, s.Create(ctx, u))

	updated, err := s.Update(ctx, u.ID, "Alice", 31)
	require.NoError(t, err)
	assert.Equal(t, u.ID, updated.ID)
	assert.Equal(t, 31, updated.Age)

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 31, got.Age)
}

func TestStore_UpdateNotFound(t *testing.T) {
	s := NewWithDB(setupTestDB(t))

	_, err := s.Update(context.Background(), 4242, "ghost", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewWithDB(setupTestDB(t))

	u := &store.User{Name: "Alice", Age: 30}
	require.NoError(t, s.Create(ctx, u))

	require.NoError(t, s.Delete(ctx, u.ID))

	_, err := s.Get(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, u.ID), store.ErrNotFound)
}

func TestStore_CreateDuplicateTranslatesToConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	s := NewWithDB(db)
	err = s.Create(context.Background(), &store.User{ID: 1, Name: "Alice", Age: 30})

	assert.ErrorIs(t, err, store.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateOtherPqErrorIsNotConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "57P01"}) // admin_shutdown

	s := NewWithDB(db)
	err = s.Create(context.Background(), &store.User{ID: 1, Name: "Alice", Age: 30})

	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetWrapsDriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, age FROM users").
		WillReturnError(errors.New("connection reset"))

	s := NewWithDB(db)
	_, err = s.Get(context.Background(), 1)

	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewWithDB(db)
	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
