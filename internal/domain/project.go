package domain

import (
	"strings"
	"time"
)

type Project struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	ProgramID      string              `json:"programId"`
	Status         ProjectStatus       `json:"status"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        *time.Time          `json:"endDate,omitempty"`
	ProjectLead    *string             `json:"projectLead,omitempty"`
	Checklist      []ChecklistItem     `json:"checklist"`
	ActivityLog    []ActivityLogItem   `json:"activityLog"`
	CAPAReports    []CAPAReport        `json:"capaReports"`
	MockSurveys    []MockSurvey        `json:"mockSurveys"`
	DesignControls []DesignControlItem `json:"designControls"`
	FinalizedBy    *string             `json:"finalizedBy,omitempty"`
	FinalizedAt    *time.Time          `json:"finalizedAt,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// ActivityLogItem is an append-only audit entry on a project.
type ActivityLogItem struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	UserName  string         `json:"user"`
	Action    ActivityAction `json:"action"`
	Details   string         `json:"details"`
}

type CAPAStatus string

const (
	CAPAOpen   CAPAStatus = "Open"
	CAPAClosed CAPAStatus = "Closed"
)

// CAPAReport is a corrective and preventive action raised against a project.
type CAPAReport struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	RootCause             string     `json:"rootCause"`
	ActionPlan            string     `json:"actionPlan"`
	AssignedTo            *string    `json:"assignedTo,omitempty"`
	DueDate               *time.Time `json:"dueDate,omitempty"`
	Status                CAPAStatus `json:"status"`
	SourceChecklistItemID string     `json:"sourceChecklistItemId,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
}

type MockSurvey struct {
	ID       string             `json:"id"`
	Date     time.Time          `json:"date"`
	Surveyor string             `json:"surveyor"`
	Status   string             `json:"status"`
	Results  []MockSurveyResult `json:"results"`
}

type MockSurveyResult struct {
	StandardID string           `json:"standardId"`
	Result     ComplianceStatus `json:"result"`
	Notes      string           `json:"notes"`
}

type DesignControlItem struct {
	ID                    string `json:"id"`
	FunctionalRequirement string `json:"functionalRequirement"`
	DesignInput           string `json:"designInput"`
	DesignOutput          string `json:"designOutput"`
	Verification          string `json:"verification"`
	Validation            string `json:"validation"`
}

// ProjectDraft holds the user-supplied fields for a new project.
type ProjectDraft struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	ProjectLead *string
}

// Validate checks the fields a form would require.
func (d ProjectDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return NewValidation("name", "project name is required")
	}
	if d.EndDate != nil && d.EndDate.Before(d.StartDate) {
		return NewValidation("endDate", "end date %s is before start date %s",
			d.EndDate.Format("2006-01-02"), d.StartDate.Format("2006-01-02"))
	}
	return nil
}

// ProjectDetails carries the editable header fields of a project. Nil
// pointers leave the field unchanged. The optional fields are removed with
// their Clear flag, which cannot be combined with a new value.
type ProjectDetails struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	ProjectLead *string
	Status      *ProjectStatus

	ClearEndDate     bool
	ClearProjectLead bool
}

// Progress derives the compliance percentage from the current checklist.
func (p *Project) Progress() float64 {
	return ComputeProgress(p.Checklist)
}

// Breakdown returns per-status counts for the current checklist.
func (p *Project) Breakdown() ProgressBreakdown {
	return BreakdownProgress(p.Checklist)
}

// FindItem returns a pointer into the checklist, or nil.
func (p *Project) FindItem(itemID string) *ChecklistItem {
	for i := range p.Checklist {
		if p.Checklist[i].ID == itemID {
			return &p.Checklist[i]
		}
	}
	return nil
}

// Finalize signs the project off. Any progress level is accepted.
func (p *Project) Finalize(signer string, now time.Time) error {
	signer = strings.TrimSpace(signer)
	if signer == "" {
		return NewValidation("signerName", "signer name is required")
	}
	p.Status = ProjectFinalized
	p.FinalizedBy = &signer
	p.FinalizedAt = &now
	p.UpdatedAt = now
	return nil
}

// IsFinalized reports whether the project has been signed off.
func (p *Project) IsFinalized() bool {
	return p.Status == ProjectFinalized
}

// LogActivity appends an entry to the activity log.
func (p *Project) LogActivity(entry ActivityLogItem) {
	p.ActivityLog = append(p.ActivityLog, entry)
	p.UpdatedAt = entry.Timestamp
}

func (p *Project) EntityID() string { return p.ID }

func (p *Project) Clone() *Project {
	out := *p
	out.EndDate = cloneTimePtr(p.EndDate)
	out.ProjectLead = cloneStringPtr(p.ProjectLead)
	out.FinalizedBy = cloneStringPtr(p.FinalizedBy)
	out.FinalizedAt = cloneTimePtr(p.FinalizedAt)
	out.Checklist = make([]ChecklistItem, len(p.Checklist))
	for i, item := range p.Checklist {
		out.Checklist[i] = item.Clone()
	}
	out.ActivityLog = cloneSlice(p.ActivityLog)
	out.CAPAReports = make([]CAPAReport, len(p.CAPAReports))
	for i, r := range p.CAPAReports {
		r.AssignedTo = cloneStringPtr(r.AssignedTo)
		r.DueDate = cloneTimePtr(r.DueDate)
		out.CAPAReports[i] = r
	}
	out.MockSurveys = make([]MockSurvey, len(p.MockSurveys))
	for i, s := range p.MockSurveys {
		s.Results = cloneSlice(s.Results)
		out.MockSurveys[i] = s
	}
	out.DesignControls = cloneSlice(p.DesignControls)
	return &out
}
