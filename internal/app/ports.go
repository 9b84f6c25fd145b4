package app

import (
	"context"

	"github.com/alexanderramin/accredit/internal/domain"
)

// The use-case ports below are the narrow surfaces the CLI and HTTP layers
// depend on; the service package implements them.

type StatusUseCase interface {
	GetStatus(ctx context.Context, req StatusRequest) (*StatusResponse, error)
}

type UpdateChecklistItemUseCase interface {
	UpdateItem(ctx context.Context, projectID, itemID string, cmds ...domain.ChecklistUpdate) (*domain.ChecklistItem, error)
}

type FinalizeProjectUseCase interface {
	Finalize(ctx context.Context, projectID, signerName string) (*domain.Project, error)
}

type CreateProjectUseCase interface {
	Create(ctx context.Context, draft domain.ProjectDraft, programID string) (*domain.Project, error)
}
