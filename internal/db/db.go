package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// BusyTimeout is how long a connection waits on a locked database before
// SQLite reports SQLITE_BUSY and WithinTx falls back to retrying.
const BusyTimeout = 5000 // ms

// connPragmas are applied by the driver to every pooled connection, not just
// the first one database/sql happens to hand out.
var connPragmas = []string{
	fmt.Sprintf("busy_timeout(%d)", BusyTimeout),
	"foreign_keys(1)",
	"journal_mode(WAL)",
}

// OpenDB opens the snapshot database at path and brings its schema up to
// date. Parent directories are created on demand. ":memory:" gives a private
// in-memory database.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range connPragmas {
		q.Add("_pragma", p)
	}
	return path + "?" + q.Encode()
}
