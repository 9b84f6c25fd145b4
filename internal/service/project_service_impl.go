package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects  repository.ProjectRepo
	programs  repository.ProgramRepo
	standards repository.StandardRepo
	users     repository.UserRepo
	documents repository.DocumentRepo
	observer  UseCaseObserver
}

func NewProjectService(
	projects repository.ProjectRepo,
	programs repository.ProgramRepo,
	standards repository.StandardRepo,
	users repository.UserRepo,
	documents repository.DocumentRepo,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		projects:  projects,
		programs:  programs,
		standards: standards,
		users:     users,
		documents: documents,
		observer:  combineObservers(observers),
	}
}

// Create builds a project whose checklist mirrors the program's standards in
// repository order. A program without standards yields an empty checklist.
func (s *projectService) Create(ctx context.Context, draft domain.ProjectDraft, programID string) (project *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"program": programID, "name": draft.Name}
	defer func() { observe(ctx, s.observer, "create-project", startedAt, fields, err) }()

	if err = draft.Validate(); err != nil {
		return nil, err
	}
	program, err := s.programs.Get(ctx, programID)
	if err != nil {
		return nil, err
	}
	if err = s.checkUser(ctx, "projectLead", draft.ProjectLead); err != nil {
		return nil, err
	}
	standards, err := s.standards.ListByProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("loading standards for %s: %w", programID, err)
	}

	now := time.Now().UTC()
	start := draft.StartDate
	if start.IsZero() {
		start = now
	}
	project = &domain.Project{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(draft.Name),
		Description:    draft.Description,
		ProgramID:      programID,
		Status:         domain.ProjectNotStarted,
		StartDate:      start,
		EndDate:        draft.EndDate,
		ProjectLead:    draft.ProjectLead,
		Checklist:      domain.BuildChecklist(standards, now),
		ActivityLog:    []domain.ActivityLogItem{},
		CAPAReports:    []domain.CAPAReport{},
		MockSurveys:    []domain.MockSurvey{},
		DesignControls: []domain.DesignControlItem{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	project.LogActivity(newActivity(ctx, now, domain.ActionCreated,
		fmt.Sprintf("Project created from %s", program.Name)))
	fields["items"] = len(project.Checklist)

	if err = s.projects.Add(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.Get(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) UpdateDetails(ctx context.Context, id string, details domain.ProjectDetails) (project *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": id}
	defer func() { observe(ctx, s.observer, "update-project", startedAt, fields, err) }()

	if details.Name != nil && strings.TrimSpace(*details.Name) == "" {
		return nil, domain.NewValidation("name", "project name is required")
	}
	if details.Status != nil {
		switch *details.Status {
		case domain.ProjectNotStarted, domain.ProjectInProgress, domain.ProjectCompleted:
		case domain.ProjectFinalized:
			return nil, domain.NewValidation("status", "use finalize to sign a project off")
		default:
			return nil, domain.NewValidation("status", "unknown project status %q", *details.Status)
		}
	}
	if details.ClearEndDate && details.EndDate != nil {
		return nil, domain.NewValidation("endDate", "cannot both set and clear the end date")
	}
	if details.ClearProjectLead && details.ProjectLead != nil {
		return nil, domain.NewValidation("projectLead", "cannot both set and clear the project lead")
	}
	if err = s.checkUser(ctx, "projectLead", details.ProjectLead); err != nil {
		return nil, err
	}

	return s.projects.Modify(ctx, id, func(p *domain.Project) error {
		if details.Name != nil {
			p.Name = strings.TrimSpace(*details.Name)
		}
		if details.Description != nil {
			p.Description = *details.Description
		}
		if details.StartDate != nil {
			p.StartDate = *details.StartDate
		}
		if details.EndDate != nil {
			p.EndDate = details.EndDate
		}
		if details.ClearEndDate {
			p.EndDate = nil
		}
		if details.ProjectLead != nil {
			p.ProjectLead = details.ProjectLead
		}
		if details.ClearProjectLead {
			p.ProjectLead = nil
		}
		if details.Status != nil {
			p.Status = *details.Status
		}
		if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
			return domain.NewValidation("endDate", "end date is before start date")
		}
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// Delete removes the project together with everything it owns, including
// the documents filed under it. A document that another project still cites
// as evidence is kept but no longer filed under the deleted project.
func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": id}
	defer func() { observe(ctx, s.observer, "delete-project", startedAt, fields, err) }()

	if err = s.projects.Delete(ctx, id); err != nil {
		return err
	}
	removed, detached, err := s.releaseDocuments(ctx, id)
	fields["documents_removed"] = removed
	fields["documents_detached"] = detached
	return err
}

func (s *projectService) releaseDocuments(ctx context.Context, projectID string) (removed, detached int, err error) {
	docs, err := s.documents.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	remaining, err := s.projects.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	cited := map[string]bool{}
	for _, p := range remaining {
		for _, item := range p.Checklist {
			for _, docID := range item.EvidenceDocumentIDs {
				cited[docID] = true
			}
		}
	}

	for _, d := range docs {
		if d.ProjectID == nil || *d.ProjectID != projectID {
			continue
		}
		if !cited[d.ID] {
			if err := s.documents.Delete(ctx, d.ID); err != nil {
				return removed, detached, fmt.Errorf("removing document %s: %w", d.ID, err)
			}
			removed++
			continue
		}
		_, err := s.documents.Modify(ctx, d.ID, func(doc *domain.Document) error {
			doc.ProjectID = nil
			return nil
		})
		if err != nil {
			return removed, detached, fmt.Errorf("detaching document %s: %w", d.ID, err)
		}
		detached++
	}
	return removed, detached, nil
}

// Finalize signs the project off regardless of its compliance percentage.
func (s *projectService) Finalize(ctx context.Context, id, signerName string) (project *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": id, "signer": signerName}
	defer func() { observe(ctx, s.observer, "finalize-project", startedAt, fields, err) }()

	project, err = s.projects.Modify(ctx, id, func(p *domain.Project) error {
		now := time.Now().UTC()
		if err := p.Finalize(signerName, now); err != nil {
			return err
		}
		p.LogActivity(newActivity(ctx, now, domain.ActionFinalized,
			fmt.Sprintf("Signed off by %s at %.1f%%", *p.FinalizedBy, p.Progress())))
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["progress"] = project.Progress()
	return project, nil
}

func (s *projectService) AddCAPAReport(ctx context.Context, projectID string, report domain.CAPAReport) (created *domain.CAPAReport, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": projectID}
	defer func() { observe(ctx, s.observer, "add-capa", startedAt, fields, err) }()

	if strings.TrimSpace(report.Title) == "" {
		return nil, domain.NewValidation("title", "CAPA title is required")
	}
	if err = s.checkUser(ctx, "assignedTo", report.AssignedTo); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report.ID = uuid.New().String()
	report.CreatedAt = now
	if report.Status == "" {
		report.Status = domain.CAPAOpen
	}
	fields["capa"] = report.ID

	_, err = s.projects.Modify(ctx, projectID, func(p *domain.Project) error {
		if report.SourceChecklistItemID != "" && p.FindItem(report.SourceChecklistItemID) == nil {
			return domain.NewNotFound("checklist item", report.SourceChecklistItemID)
		}
		p.CAPAReports = append(p.CAPAReports, report)
		p.LogActivity(newActivity(ctx, now, domain.ActionCAPAAdded, report.Title))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// checkUser rejects references to users that do not exist. It must not be
// called from inside a Modify callback since all collections share a lock.
func (s *projectService) checkUser(ctx context.Context, field string, userID *string) error {
	if userID == nil {
		return nil
	}
	if _, err := s.users.Get(ctx, *userID); err != nil {
		if domain.IsNotFound(err) {
			return domain.NewValidation(field, "unknown user %q", *userID)
		}
		return err
	}
	return nil
}
