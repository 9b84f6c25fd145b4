package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ComplianceStatus string

const (
	StatusCompliant          ComplianceStatus = "Compliant"
	StatusPartiallyCompliant ComplianceStatus = "PartiallyCompliant"
	StatusNonCompliant       ComplianceStatus = "NonCompliant"
	StatusNotApplicable      ComplianceStatus = "NotApplicable"
)

// ComplianceStatuses lists every status in display order.
var ComplianceStatuses = []ComplianceStatus{
	StatusCompliant,
	StatusPartiallyCompliant,
	StatusNonCompliant,
	StatusNotApplicable,
}

var complianceAliases = map[string]ComplianceStatus{
	"compliant":           StatusCompliant,
	"c":                   StatusCompliant,
	"partiallycompliant":  StatusPartiallyCompliant,
	"partially-compliant": StatusPartiallyCompliant,
	"partially compliant": StatusPartiallyCompliant,
	"partial":             StatusPartiallyCompliant,
	"pc":                  StatusPartiallyCompliant,
	"noncompliant":        StatusNonCompliant,
	"non-compliant":       StatusNonCompliant,
	"non compliant":       StatusNonCompliant,
	"nc":                  StatusNonCompliant,
	"notapplicable":       StatusNotApplicable,
	"not-applicable":      StatusNotApplicable,
	"not applicable":      StatusNotApplicable,
	"n/a":                 StatusNotApplicable,
	"na":                  StatusNotApplicable,
}

// ParseComplianceStatus accepts the canonical names plus the short and
// hyphenated spellings used in spreadsheets (e.g. "N/A", "Non-Compliant").
func ParseComplianceStatus(s string) (ComplianceStatus, error) {
	if st, ok := complianceAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown compliance status %q", s)}
}

func (s ComplianceStatus) Valid() bool {
	switch s {
	case StatusCompliant, StatusPartiallyCompliant, StatusNonCompliant, StatusNotApplicable:
		return true
	}
	return false
}

// Score is the weight an item contributes to progress. NotApplicable items
// are excluded before scoring, so their score is never read.
func (s ComplianceStatus) Score() float64 {
	switch s {
	case StatusCompliant:
		return 1.0
	case StatusPartiallyCompliant:
		return 0.5
	default:
		return 0
	}
}

func (s *ComplianceStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	st, err := ParseComplianceStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

type ProjectStatus string

const (
	ProjectNotStarted ProjectStatus = "NotStarted"
	ProjectInProgress ProjectStatus = "InProgress"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectFinalized  ProjectStatus = "Finalized"
)

type UserRole string

const (
	RoleAdmin       UserRole = "Admin"
	RoleProjectLead UserRole = "ProjectLead"
	RoleAuditor     UserRole = "Auditor"
	RoleTeamMember  UserRole = "TeamMember"
	RoleViewer      UserRole = "Viewer"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[UserRole]bool{
	RoleAdmin: true, RoleProjectLead: true, RoleAuditor: true,
	RoleTeamMember: true, RoleViewer: true,
}

type DocumentStatus string

const (
	DocumentDraft         DocumentStatus = "Draft"
	DocumentPendingReview DocumentStatus = "PendingReview"
	DocumentApproved      DocumentStatus = "Approved"
	DocumentRejected      DocumentStatus = "Rejected"
	DocumentArchived      DocumentStatus = "Archived"
)

type Criticality string

const (
	CriticalityHigh   Criticality = "High"
	CriticalityMedium Criticality = "Medium"
	CriticalityLow    Criticality = "Low"
)

type ActivityAction string

const (
	ActionCreated           ActivityAction = "created"
	ActionStatusChanged     ActivityAction = "status_changed"
	ActionAssigneeChanged   ActivityAction = "assignee_changed"
	ActionActionPlanChanged ActivityAction = "action_plan_changed"
	ActionCommentAdded      ActivityAction = "comment_added"
	ActionEvidenceAttached  ActivityAction = "evidence_attached"
	ActionFinalized         ActivityAction = "finalized"
	ActionCAPAAdded         ActivityAction = "capa_added"
)
