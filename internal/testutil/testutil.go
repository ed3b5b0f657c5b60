package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/db"
	"github.com/vytor/vocabflash/internal/logger"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The pool is pinned to one connection so every query sees the same database.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	sqlxDB, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlxDB.SetMaxOpenConns(1)

	ctx := logger.NewContext(context.Background(), logger.Discard())
	require.NoError(t, db.Migrate(ctx, sqlxDB), "failed to apply migrations")

	return sqlxDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Date returns midnight UTC of the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InsertProfile creates a profile row directly and returns its id.
func InsertProfile(t *testing.T, sqlxDB *sqlx.DB, username, role string) int64 {
	t.Helper()
	res, err := sqlxDB.Exec(`INSERT INTO profiles (username, role) VALUES (?, ?)`, username, role)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
