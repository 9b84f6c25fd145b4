package testutil

import (
	"strconv"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/google/uuid"
)

// Project options
type ProjectOption func(*domain.Project)

func WithProgram(programID string) ProjectOption {
	return func(p *domain.Project) {
		p.ProgramID = programID
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithProjectLead(userID string) ProjectOption {
	return func(p *domain.Project) {
		p.ProjectLead = &userID
	}
}

// WithItems appends checklist items to the project.
func WithItems(items ...domain.ChecklistItem) ProjectOption {
	return func(p *domain.Project) {
		p.Checklist = append(p.Checklist, items...)
	}
}

// WithStatuses appends one item per status, with ids ITEM.1, ITEM.2, ...
func WithStatuses(statuses ...domain.ComplianceStatus) ProjectOption {
	return func(p *domain.Project) {
		for _, st := range statuses {
			id := "ITEM." + strconv.Itoa(len(p.Checklist)+1)
			p.Checklist = append(p.Checklist, NewTestItem(id, WithItemStatus(st)))
		}
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:             uuid.New().String(),
		Name:           name,
		ProgramID:      "prog-test",
		Status:         domain.ProjectInProgress,
		StartDate:      now.AddDate(0, -1, 0),
		Checklist:      []domain.ChecklistItem{},
		ActivityLog:    []domain.ActivityLogItem{},
		CAPAReports:    []domain.CAPAReport{},
		MockSurveys:    []domain.MockSurvey{},
		DesignControls: []domain.DesignControlItem{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Checklist item options
type ItemOption func(*domain.ChecklistItem)

func WithItemStatus(s domain.ComplianceStatus) ItemOption {
	return func(c *domain.ChecklistItem) {
		c.Status = s
	}
}

func WithAssignee(userID string) ItemOption {
	return func(c *domain.ChecklistItem) {
		c.AssigneeID = &userID
	}
}

func WithActionPlan(text string) ItemOption {
	return func(c *domain.ChecklistItem) {
		c.ActionPlan = text
	}
}

func NewTestItem(id string, opts ...ItemOption) domain.ChecklistItem {
	item := domain.NewChecklistItem(id, "Requirement "+id, time.Now().UTC())
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

// Standard options
type StandardOption func(*domain.Standard)

func WithSubStandards(ids ...string) StandardOption {
	return func(s *domain.Standard) {
		for _, id := range ids {
			s.SubStandards = append(s.SubStandards, domain.SubStandard{ID: id, Description: "Sub-standard " + id})
		}
	}
}

func WithCriticality(c domain.Criticality) StandardOption {
	return func(s *domain.Standard) {
		s.Criticality = c
	}
}

func NewTestStandard(id, programID string, opts ...StandardOption) *domain.Standard {
	s := &domain.Standard{
		ID:          id,
		ProgramID:   programID,
		Chapter:     "Test Chapter",
		Section:     "TST",
		Description: "Standard " + id,
		Criticality: domain.CriticalityMedium,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestProgram(id string) *domain.AccreditationProgram {
	return &domain.AccreditationProgram{ID: id, Name: "Program " + id, Description: "Test program"}
}

// User options
type UserOption func(*domain.User)

func WithRole(r domain.UserRole) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithDepartment(id string) UserOption {
	return func(u *domain.User) {
		u.DepartmentID = &id
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:    uuid.New().String(),
		Name:  name,
		Email: "user-" + uuid.New().String()[:8] + "@example.org",
		Role:  domain.RoleTeamMember,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func NewTestDocument(name string) *domain.Document {
	return &domain.Document{
		ID:         uuid.New().String(),
		Name:       name,
		Type:       "Policy",
		Status:     domain.DocumentDraft,
		UploadedAt: time.Now().UTC(),
		Version:    1,
	}
}

func NewTestTraining(id string) *domain.TrainingProgram {
	return &domain.TrainingProgram{ID: id, Title: "Training " + id, DurationHours: 1, PassingScore: 80}
}
