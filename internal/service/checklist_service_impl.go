package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/repository"
	"github.com/google/uuid"
)

type checklistService struct {
	projects  repository.ProjectRepo
	users     repository.UserRepo
	documents repository.DocumentRepo
	observer  UseCaseObserver
}

func NewChecklistService(
	projects repository.ProjectRepo,
	users repository.UserRepo,
	documents repository.DocumentRepo,
	observers ...UseCaseObserver,
) ChecklistService {
	return &checklistService{
		projects:  projects,
		users:     users,
		documents: documents,
		observer:  combineObservers(observers),
	}
}

func (s *checklistService) List(ctx context.Context, projectID string) ([]domain.ChecklistItem, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return p.Checklist, nil
}

func (s *checklistService) GetItem(ctx context.Context, projectID, itemID string) (*domain.ChecklistItem, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	item := p.FindItem(itemID)
	if item == nil {
		return nil, domain.NewNotFound("checklist item", itemID)
	}
	return item, nil
}

// UpdateItem applies the commands in order as one change. Status, assignee
// and action-plan changes are recorded in the project's activity log.
func (s *checklistService) UpdateItem(ctx context.Context, projectID, itemID string, cmds ...domain.ChecklistUpdate) (updated *domain.ChecklistItem, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": projectID, "item": itemID, "changes": len(cmds)}
	defer func() { observe(ctx, s.observer, "update-checklist-item", startedAt, fields, err) }()

	for _, cmd := range cmds {
		if a, ok := cmd.(domain.SetAssignee); ok && a.UserID != nil {
			if _, lookupErr := s.users.Get(ctx, *a.UserID); lookupErr != nil {
				if domain.IsNotFound(lookupErr) {
					return nil, domain.NewValidation("assignee", "unknown user %q", *a.UserID)
				}
				return nil, lookupErr
			}
		}
	}

	p, err := s.projects.Modify(ctx, projectID, func(p *domain.Project) error {
		item := p.FindItem(itemID)
		if item == nil {
			return domain.NewNotFound("checklist item", itemID)
		}
		now := time.Now().UTC()

		var entries []domain.ActivityLogItem
		for _, cmd := range cmds {
			if action, details := cmd.Describe(item); action != "" {
				entries = append(entries, newActivity(ctx, now, action, details))
			}
		}
		if err := item.Apply(now, cmds...); err != nil {
			return err
		}
		for _, e := range entries {
			p.LogActivity(e)
		}
		if len(cmds) > 0 {
			p.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["progress"] = p.Progress()
	return p.FindItem(itemID), nil
}

func (s *checklistService) AddComment(ctx context.Context, projectID, itemID, text string, author domain.Author) (comment *domain.Comment, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": projectID, "item": itemID}
	defer func() { observe(ctx, s.observer, "add-comment", startedAt, fields, err) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidation("text", "comment text is required")
	}
	name := cmp.Or(author.Name, domain.ActorFrom(ctx))
	c := domain.Comment{
		ID:        uuid.New().String(),
		UserID:    author.UserID,
		UserName:  name,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.projects.Modify(ctx, projectID, func(p *domain.Project) error {
		item := p.FindItem(itemID)
		if item == nil {
			return domain.NewNotFound("checklist item", itemID)
		}
		item.AppendComment(c)
		entry := newActivity(ctx, c.CreatedAt, domain.ActionCommentAdded, itemID+": comment added")
		entry.UserName = name
		p.LogActivity(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AttachEvidence records an uploaded file as an approved document and links
// it to the item. The file content itself is not stored.
func (s *checklistService) AttachEvidence(ctx context.Context, projectID, itemID string, file domain.FileDescriptor) (doc *domain.Document, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": projectID, "item": itemID, "file": file.Name}
	defer func() { observe(ctx, s.observer, "attach-evidence", startedAt, fields, err) }()

	if strings.TrimSpace(file.Name) == "" {
		return nil, domain.NewValidation("file", "file name is required")
	}
	if _, err = s.GetItem(ctx, projectID, itemID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc = &domain.Document{
		ID:         uuid.New().String(),
		Name:       file.Name,
		Type:       cmp.Or(file.Type, "Evidence"),
		Status:     domain.DocumentApproved,
		Content:    "Evidence for " + itemID,
		UploadedAt: now,
		Version:    1,
		ProjectID:  &projectID,
		Size:       file.Size,
	}
	if err = s.documents.Add(ctx, doc); err != nil {
		return nil, fmt.Errorf("storing evidence document: %w", err)
	}
	fields["document"] = doc.ID

	_, err = s.projects.Modify(ctx, projectID, func(p *domain.Project) error {
		item := p.FindItem(itemID)
		if item == nil {
			return domain.NewNotFound("checklist item", itemID)
		}
		item.AttachEvidence(doc.ID, now)
		p.LogActivity(newActivity(ctx, now, domain.ActionEvidenceAttached,
			fmt.Sprintf("%s: %s", itemID, file.Name)))
		return nil
	})
	if err != nil {
		// The project or item vanished between the check and the write.
		if delErr := s.documents.Delete(ctx, doc.ID); delErr != nil {
			return nil, errors.Join(err, delErr)
		}
		return nil, err
	}
	return doc, nil
}

func (s *checklistService) Progress(ctx context.Context, projectID string) (domain.ProgressBreakdown, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return domain.ProgressBreakdown{}, err
	}
	return p.Breakdown(), nil
}
