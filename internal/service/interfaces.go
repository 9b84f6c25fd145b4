package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/accredit/internal/app"
	"github.com/alexanderramin/accredit/internal/dataset"
	"github.com/alexanderramin/accredit/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, draft domain.ProjectDraft, programID string) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	UpdateDetails(ctx context.Context, id string, details domain.ProjectDetails) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	Finalize(ctx context.Context, id, signerName string) (*domain.Project, error)
	AddCAPAReport(ctx context.Context, projectID string, report domain.CAPAReport) (*domain.CAPAReport, error)
}

type ChecklistService interface {
	List(ctx context.Context, projectID string) ([]domain.ChecklistItem, error)
	GetItem(ctx context.Context, projectID, itemID string) (*domain.ChecklistItem, error)
	UpdateItem(ctx context.Context, projectID, itemID string, cmds ...domain.ChecklistUpdate) (*domain.ChecklistItem, error)
	AddComment(ctx context.Context, projectID, itemID, text string, author domain.Author) (*domain.Comment, error)
	AttachEvidence(ctx context.Context, projectID, itemID string, file domain.FileDescriptor) (*domain.Document, error)
	Progress(ctx context.Context, projectID string) (domain.ProgressBreakdown, error)
}

// CatalogService is plain CRUD over one reference collection.
type CatalogService[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	List(ctx context.Context) ([]*T, error)
	Add(ctx context.Context, v *T) error
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, id string) error
}

type UserService interface {
	CatalogService[domain.User]
	AssignTraining(ctx context.Context, userID, trainingID string, due time.Time) (*domain.User, error)
	CompleteTraining(ctx context.Context, userID, trainingID string, score *int) (*domain.User, error)
}

type SettingsService interface {
	Get(ctx context.Context) (domain.AppSettings, error)
	Update(ctx context.Context, s domain.AppSettings) error
}

type StatusService interface {
	GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusResponse, error)
}

// ImportResult holds the record counts of an imported dataset.
type ImportResult struct {
	Counts map[string]int
}

type DataService interface {
	Export(ctx context.Context, w io.Writer) error
	ExportFile(ctx context.Context, path string) error
	Import(ctx context.Context, r io.Reader) (*ImportResult, error)
	// Persist stores the current dataset as a snapshot. It reports false
	// when nothing changed since the latest snapshot.
	Persist(ctx context.Context, reason string) (*domain.SnapshotInfo, bool, error)
	LoadLatest(ctx context.Context) (*domain.SnapshotInfo, error)
	Restore(ctx context.Context, snapshotID string) (*domain.SnapshotInfo, error)
	ListSnapshots(ctx context.Context, limit int) ([]domain.SnapshotInfo, error)
	// DiffSnapshots compares two snapshots; an empty toID means the current
	// in-memory dataset.
	DiffSnapshots(ctx context.Context, fromID, toID string) (dataset.Diff, error)
	PruneSnapshots(ctx context.Context, keep int) (int, error)
}

var (
	_ app.StatusUseCase              = (StatusService)(nil)
	_ app.UpdateChecklistItemUseCase = (ChecklistService)(nil)
	_ app.FinalizeProjectUseCase     = (ProjectService)(nil)
	_ app.CreateProjectUseCase       = (ProjectService)(nil)
)
