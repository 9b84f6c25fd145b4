package domain

import (
	"strings"
	"time"
)

type Document struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Status     DocumentStatus `json:"status"`
	Content    string         `json:"content"`
	UploadedAt time.Time      `json:"uploadedAt"`
	Version    int            `json:"version"`
	ProjectID  *string        `json:"projectId,omitempty"`
	Size       int64          `json:"size,omitempty"`
}

func (d *Document) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return NewValidation("name", "document name is required")
	}
	switch d.Status {
	case DocumentDraft, DocumentPendingReview, DocumentApproved, DocumentRejected, DocumentArchived:
	default:
		return NewValidation("status", "unknown document status %q", d.Status)
	}
	return nil
}

func (d *Document) EntityID() string { return d.ID }

func (d *Document) Clone() *Document {
	out := *d
	out.ProjectID = cloneStringPtr(d.ProjectID)
	return &out
}

type Department struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	HeadID *string `json:"headId,omitempty"`
}

func (d *Department) EntityID() string { return d.ID }

func (d *Department) Clone() *Department {
	out := *d
	out.HeadID = cloneStringPtr(d.HeadID)
	return &out
}

type TrainingProgram struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DurationHours int    `json:"duration"`
	PassingScore  int    `json:"passingScore"`
}

func (t *TrainingProgram) EntityID() string { return t.ID }

func (t *TrainingProgram) Clone() *TrainingProgram {
	out := *t
	return &out
}

type RiskStatus string

const (
	RiskOpen       RiskStatus = "Open"
	RiskMitigating RiskStatus = "Mitigating"
	RiskClosed     RiskStatus = "Closed"
)

type Risk struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Likelihood      int        `json:"likelihood"`
	Impact          int        `json:"impact"`
	Status          RiskStatus `json:"status"`
	OwnerID         *string    `json:"ownerId,omitempty"`
	MitigationPlan  string     `json:"mitigationPlan"`
	IdentifiedAt    time.Time  `json:"identifiedAt"`
	LinkedProjectID *string    `json:"linkedProjectId,omitempty"`
}

// Score is likelihood times impact, each rated 1 to 5.
func (r *Risk) Score() int {
	return r.Likelihood * r.Impact
}

// Level buckets the score the way the risk matrix colors it.
func (r *Risk) Level() Criticality {
	switch s := r.Score(); {
	case s >= 15:
		return CriticalityHigh
	case s >= 6:
		return CriticalityMedium
	default:
		return CriticalityLow
	}
}

func (r *Risk) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return NewValidation("title", "risk title is required")
	}
	if r.Likelihood < 1 || r.Likelihood > 5 {
		return NewValidation("likelihood", "must be between 1 and 5, got %d", r.Likelihood)
	}
	if r.Impact < 1 || r.Impact > 5 {
		return NewValidation("impact", "must be between 1 and 5, got %d", r.Impact)
	}
	return nil
}

func (r *Risk) EntityID() string { return r.ID }

func (r *Risk) Clone() *Risk {
	out := *r
	out.OwnerID = cloneStringPtr(r.OwnerID)
	out.LinkedProjectID = cloneStringPtr(r.LinkedProjectID)
	return &out
}

type Competency struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Level       string     `json:"level"`
	ValidatedAt *time.Time `json:"validatedAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the competency has lapsed at now.
func (c *Competency) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

func (c *Competency) EntityID() string { return c.ID }

func (c *Competency) Clone() *Competency {
	out := *c
	out.ValidatedAt = cloneTimePtr(c.ValidatedAt)
	out.ExpiresAt = cloneTimePtr(c.ExpiresAt)
	return &out
}

type CalendarEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	ProjectID *string   `json:"projectId,omitempty"`
}

func (e *CalendarEvent) EntityID() string { return e.ID }

func (e *CalendarEvent) Clone() *CalendarEvent {
	out := *e
	out.ProjectID = cloneStringPtr(e.ProjectID)
	return &out
}

// AppSettings is the single settings record of a dataset.
type AppSettings struct {
	AppName         string `json:"appName"`
	PrimaryColor    string `json:"primaryColor"`
	DefaultLanguage string `json:"defaultLanguage"`
}

// DefaultSettings is used when a dataset carries no settings record.
func DefaultSettings() AppSettings {
	return AppSettings{AppName: "Accredit", PrimaryColor: "#458588", DefaultLanguage: "en"}
}
