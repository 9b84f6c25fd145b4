package domain

import (
	"net/mail"
	"strings"
	"time"
)

type User struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Email               string               `json:"email"`
	Role                UserRole             `json:"role"`
	DepartmentID        *string              `json:"departmentId,omitempty"`
	JobTitle            string               `json:"jobTitle,omitempty"`
	TrainingAssignments []TrainingAssignment `json:"trainingAssignments,omitempty"`
}

type TrainingAssignment struct {
	TrainingID  string     `json:"trainingId"`
	DueDate     time.Time  `json:"dueDate"`
	CompletedAt *time.Time `json:"completionDate,omitempty"`
	Score       *int       `json:"score,omitempty"`
}

// Validate checks the fields required on every user record.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return NewValidation("name", "user name is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return NewValidation("email", "invalid email %q", u.Email)
	}
	if !ValidRoles[u.Role] {
		return NewValidation("role", "unknown role %q", u.Role)
	}
	return nil
}

// FindAssignment returns the assignment for a training, or nil.
func (u *User) FindAssignment(trainingID string) *TrainingAssignment {
	for i := range u.TrainingAssignments {
		if u.TrainingAssignments[i].TrainingID == trainingID {
			return &u.TrainingAssignments[i]
		}
	}
	return nil
}

// Overdue reports assignments not completed by now.
func (u *User) Overdue(now time.Time) []TrainingAssignment {
	var out []TrainingAssignment
	for _, a := range u.TrainingAssignments {
		if a.CompletedAt == nil && a.DueDate.Before(now) {
			out = append(out, a)
		}
	}
	return out
}

func (u *User) EntityID() string { return u.ID }

func (u *User) Clone() *User {
	out := *u
	out.DepartmentID = cloneStringPtr(u.DepartmentID)
	if u.TrainingAssignments != nil {
		out.TrainingAssignments = make([]TrainingAssignment, len(u.TrainingAssignments))
		for i, a := range u.TrainingAssignments {
			a.CompletedAt = cloneTimePtr(a.CompletedAt)
			if a.Score != nil {
				s := *a.Score
				a.Score = &s
			}
			out.TrainingAssignments[i] = a
		}
	}
	return &out
}
