package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/accredit/internal/db"
)

// ExecFaultUoW runs transactions against DB and makes one write fail with
// Err. The failing write is the first ExecContext whose query contains Match,
// or the FailOn-th write (counted from 1) when Match is empty. Reads are
// never intercepted. The transaction is rolled back like a real failure.
type ExecFaultUoW struct {
	DB     *sql.DB
	FailOn int
	Match  string
	Err    error

	mu    sync.Mutex
	execs []string
}

// Execs returns every write statement seen so far, including the failed one.
func (u *ExecFaultUoW) Execs() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.execs...)
}

func (u *ExecFaultUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &faultyTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// record logs query and reports whether it is the write that should fail.
func (u *ExecFaultUoW) record(query string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.execs = append(u.execs, strings.Join(strings.Fields(query), " "))
	if u.Match != "" {
		return strings.Contains(query, u.Match)
	}
	return len(u.execs) == u.FailOn
}

type faultyTx struct {
	db.DBTX
	uow *ExecFaultUoW
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.record(query) {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
