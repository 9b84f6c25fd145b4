package domain

import "time"

// ChecklistItem is one standard or sub-standard tracked within a project.
type ChecklistItem struct {
	ID                  string           `json:"id"`
	StandardID          string           `json:"standardId"`
	Description         string           `json:"item"`
	Status              ComplianceStatus `json:"status"`
	AssigneeID          *string          `json:"assignedTo,omitempty"`
	DueDate             *time.Time       `json:"dueDate,omitempty"`
	ActionPlan          string           `json:"actionPlan"`
	Notes               string           `json:"notes"`
	Comments            []Comment        `json:"comments"`
	EvidenceDocumentIDs []string         `json:"evidenceDocumentIds"`
	LinkedResourceIDs   []string         `json:"linkedResourceIds,omitempty"`
	LastUpdated         time.Time        `json:"lastUpdated"`
}

// Comment is append-only; nothing edits a comment after creation.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"timestamp"`
}

// Author identifies who wrote a comment or performed an action.
type Author struct {
	UserID string
	Name   string
}

// FileDescriptor describes an uploaded evidence file.
type FileDescriptor struct {
	Name string
	Type string
	Size int64
}

// NewChecklistItem returns an item in its initial state: NonCompliant,
// unassigned, with no action plan, comments or evidence.
func NewChecklistItem(id, description string, now time.Time) ChecklistItem {
	return ChecklistItem{
		ID:                  id,
		StandardID:          id,
		Description:         description,
		Status:              StatusNonCompliant,
		Comments:            []Comment{},
		EvidenceDocumentIDs: []string{},
		LastUpdated:         now,
	}
}

// Apply validates every command before applying any of them, so a rejected
// batch leaves the item untouched.
func (c *ChecklistItem) Apply(now time.Time, cmds ...ChecklistUpdate) error {
	for _, cmd := range cmds {
		if err := cmd.validate(); err != nil {
			return err
		}
	}
	for _, cmd := range cmds {
		cmd.apply(c)
	}
	if len(cmds) > 0 {
		c.LastUpdated = now
	}
	return nil
}

// AppendComment adds a comment at the end of the thread.
func (c *ChecklistItem) AppendComment(cm Comment) {
	c.Comments = append(c.Comments, cm)
	c.LastUpdated = cm.CreatedAt
}

// AttachEvidence records a document id as evidence for this item.
func (c *ChecklistItem) AttachEvidence(documentID string, now time.Time) {
	c.EvidenceDocumentIDs = append(c.EvidenceDocumentIDs, documentID)
	c.LastUpdated = now
}

func (c ChecklistItem) Clone() ChecklistItem {
	out := c
	out.AssigneeID = cloneStringPtr(c.AssigneeID)
	out.DueDate = cloneTimePtr(c.DueDate)
	out.Comments = cloneSlice(c.Comments)
	out.EvidenceDocumentIDs = cloneSlice(c.EvidenceDocumentIDs)
	if c.LinkedResourceIDs != nil {
		out.LinkedResourceIDs = cloneSlice(c.LinkedResourceIDs)
	}
	return out
}

// cloneSlice copies s, keeping an empty result non-nil so it encodes as [].
func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
