package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/accredit/internal/dataset"
	"github.com/alexanderramin/accredit/internal/db"
	"github.com/alexanderramin/accredit/internal/repository"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory snapshot database that is closed
// together with the test.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW wraps database in a unit of work whose busy retries do not
// slow tests down.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	uow := db.NewSQLiteUnitOfWork(database)
	uow.Backoff = time.Millisecond
	return uow
}

// NewSeededStore returns a memory store holding the embedded seed dataset.
func NewSeededStore(t testing.TB) *repository.MemoryStore {
	t.Helper()
	ds, err := dataset.Seed()
	require.NoError(t, err, "loading seed dataset")
	return repository.NewMemoryStore(ds)
}
