package repository

import (
	"context"

	"github.com/alexanderramin/accredit/internal/dataset"
	"github.com/alexanderramin/accredit/internal/domain"
)

// Collection is an ordered set of entities keyed by id. Reads return copies;
// callers write changes back with Update or Modify.
type Collection[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	List(ctx context.Context) ([]*T, error)
	Add(ctx context.Context, v *T) error
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, id string) error
	// Modify runs fn on the stored entity under the write lock and stores
	// the result unless fn returns an error.
	Modify(ctx context.Context, id string, fn func(*T) error) (*T, error)
}

type ProjectRepo = Collection[domain.Project]

type ProgramRepo = Collection[domain.AccreditationProgram]

type StandardRepo interface {
	Collection[domain.Standard]
	// ListByProgram returns the program's standards in repository order.
	ListByProgram(ctx context.Context, programID string) ([]*domain.Standard, error)
}

type UserRepo = Collection[domain.User]

type DocumentRepo = Collection[domain.Document]

type SettingsRepo interface {
	Settings(ctx context.Context) (domain.AppSettings, error)
	SaveSettings(ctx context.Context, s domain.AppSettings) error
}

// DatasetStore exposes the whole working set for export and import.
type DatasetStore interface {
	Snapshot(ctx context.Context) (*dataset.Dataset, error)
	Replace(ctx context.Context, ds *dataset.Dataset) error
}

type SnapshotRepo interface {
	Save(ctx context.Context, s *domain.Snapshot) error
	Latest(ctx context.Context) (*domain.Snapshot, error)
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)
	List(ctx context.Context, limit int) ([]domain.SnapshotInfo, error)
	// Prune deletes all but the newest keep snapshots and returns how many
	// rows were removed.
	Prune(ctx context.Context, keep int) (int, error)
}
