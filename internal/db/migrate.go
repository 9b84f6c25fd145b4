package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so the
// whole list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		reason     TEXT NOT NULL DEFAULT '',
		checksum   TEXT NOT NULL,
		payload    BLOB NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_checksum ON snapshots(checksum)`,

	// Record who triggered the snapshot.
	`ALTER TABLE snapshots ADD COLUMN actor TEXT NOT NULL DEFAULT ''`,
}
