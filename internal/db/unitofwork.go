package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBTX is what snapshot repositories query through. Both *sql.DB and *sql.Tx
// satisfy it, so a repository works the same inside and outside WithinTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// UnitOfWork runs fn inside a single transaction. fn must be safe to call
// more than once: a transaction that loses a lock race is replayed.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

const (
	defaultTxAttempts = 4
	defaultTxBackoff  = 25 * time.Millisecond
)

// SQLiteUnitOfWork implements UnitOfWork on database/sql. Transactions that
// fail with SQLITE_BUSY or SQLITE_LOCKED are rolled back and retried with a
// linear backoff, up to Attempts times in total.
type SQLiteUnitOfWork struct {
	db       *sql.DB
	Attempts int
	Backoff  time.Duration

	retryable func(error) bool
}

// NewSQLiteUnitOfWork creates a UnitOfWork backed by db.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{
		db:        db,
		Attempts:  defaultTxAttempts,
		Backoff:   defaultTxBackoff,
		retryable: IsBusy,
	}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	attempts := max(u.Attempts, 1)
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = u.runTx(ctx, fn)
		if err == nil || !u.retryable(err) || attempt == attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retrying transaction: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * u.Backoff):
		}
	}
	return err
}

func (u *SQLiteUnitOfWork) runTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// IsBusy reports whether err is SQLite refusing a lock held by another
// connection. Extended codes such as SQLITE_BUSY_SNAPSHOT count.
func IsBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
