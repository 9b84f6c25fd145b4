package app

import (
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
)

type StatusRequest struct {
	Now          *time.Time
	ProjectScope []string
	// IncludeFinalized keeps signed-off projects in the report.
	IncludeFinalized bool
	// DueWithinDays widens the overdue list to items due soon.
	DueWithinDays int
}

func NewStatusRequest() StatusRequest {
	return StatusRequest{IncludeFinalized: true, DueWithinDays: 0}
}

// Readiness buckets a project's compliance percentage.
type Readiness string

const (
	ReadinessReady    Readiness = "ready"
	ReadinessOnTrack  Readiness = "on_track"
	ReadinessAtRisk   Readiness = "at_risk"
	ReadinessCritical Readiness = "critical"
)

// ReadinessFor maps a percentage to a readiness bucket.
func ReadinessFor(pct float64) Readiness {
	switch {
	case pct >= 90:
		return ReadinessReady
	case pct >= 70:
		return ReadinessOnTrack
	case pct >= 40:
		return ReadinessAtRisk
	default:
		return ReadinessCritical
	}
}

type ProjectStatusView struct {
	ProjectID    string                   `json:"projectId"`
	ProjectName  string                   `json:"projectName"`
	ProgramName  string                   `json:"programName"`
	Status       domain.ProjectStatus     `json:"status"`
	Readiness    Readiness                `json:"readiness"`
	Breakdown    domain.ProgressBreakdown `json:"breakdown"`
	EndDate      *time.Time               `json:"endDate,omitempty"`
	DaysLeft     *int                     `json:"daysLeft,omitempty"`
	OpenCAPAs    int                      `json:"openCapas"`
	Unassigned   int                      `json:"unassignedNonCompliant"`
	OverdueItems int                      `json:"overdueItems"`
}

// OverdueItem is a non-compliant or partially compliant item past its due
// date.
type OverdueItem struct {
	ProjectID   string                  `json:"projectId"`
	ProjectName string                  `json:"projectName"`
	ItemID      string                  `json:"itemId"`
	Description string                  `json:"description"`
	Status      domain.ComplianceStatus `json:"status"`
	AssigneeID  *string                 `json:"assignedTo,omitempty"`
	DueDate     time.Time               `json:"dueDate"`
	DaysLate    int                     `json:"daysLate"`
}

type GlobalStatusSummary struct {
	GeneratedAt      time.Time `json:"generatedAt"`
	CountsTotal      int       `json:"projects"`
	CountsReady      int       `json:"ready"`
	CountsOnTrack    int       `json:"onTrack"`
	CountsAtRisk     int       `json:"atRisk"`
	CountsCritical   int       `json:"critical"`
	OpenRisks        int       `json:"openRisks"`
	HighRisks        int       `json:"highRisks"`
	OverdueTrainings int       `json:"overdueTrainings"`
}

type StatusResponse struct {
	Summary  GlobalStatusSummary `json:"summary"`
	Projects []ProjectStatusView `json:"projects"`
	Overdue  []OverdueItem       `json:"overdue"`
	Warnings []string            `json:"warnings,omitempty"`
}
