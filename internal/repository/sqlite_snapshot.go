package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/accredit/internal/db"
	"github.com/alexanderramin/accredit/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo on the snapshots table.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

// NewSQLiteSnapshotRepo creates a repo over a *sql.DB or a transaction.
func NewSQLiteSnapshotRepo(db db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: db}
}

func (r *SQLiteSnapshotRepo) Save(ctx context.Context, s *domain.Snapshot) error {
	query := `INSERT INTO snapshots (id, created_at, reason, actor, checksum, payload)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		formatTime(s.CreatedAt),
		s.Reason,
		s.Actor,
		s.Checksum,
		s.Payload,
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Latest(ctx context.Context) (*domain.Snapshot, error) {
	query := `SELECT id, created_at, reason, actor, checksum, payload
		FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1`
	return r.scanSnapshot(r.db.QueryRowContext(ctx, query), "latest")
}

func (r *SQLiteSnapshotRepo) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	query := `SELECT id, created_at, reason, actor, checksum, payload
		FROM snapshots WHERE id = ?`
	return r.scanSnapshot(r.db.QueryRowContext(ctx, query, id), id)
}

// List returns snapshot metadata newest first. limit <= 0 means no limit.
func (r *SQLiteSnapshotRepo) List(ctx context.Context, limit int) ([]domain.SnapshotInfo, error) {
	query := `SELECT id, created_at, reason, actor, checksum, length(payload)
		FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT ?`
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var infos []domain.SnapshotInfo
	for rows.Next() {
		var info domain.SnapshotInfo
		var createdAt string
		if err := rows.Scan(&info.ID, &createdAt, &info.Reason, &info.Actor, &info.Checksum, &info.Size); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		if info.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing snapshot created_at: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return infos, nil
}

func (r *SQLiteSnapshotRepo) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		return 0, domain.NewValidation("keep", "must keep at least one snapshot, got %d", keep)
	}
	query := `DELETE FROM snapshots WHERE id NOT IN (
		SELECT id FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT ?
	)`
	res, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteSnapshotRepo) scanSnapshot(row *sql.Row, id string) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var createdAt string
	err := row.Scan(&s.ID, &createdAt, &s.Reason, &s.Actor, &s.Checksum, &s.Payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("snapshot", id)
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing snapshot created_at: %w", err)
	}
	return &s, nil
}

var _ SnapshotRepo = (*SQLiteSnapshotRepo)(nil)
