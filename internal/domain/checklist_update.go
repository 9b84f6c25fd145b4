package domain

import (
	"fmt"
	"strings"
	"time"
)

// ChecklistUpdate is one field change applied to a checklist item. The
// variants below are the only implementations; each touches exactly one
// field, so an update can never carry a half-formed combination.
type ChecklistUpdate interface {
	validate() error
	apply(item *ChecklistItem)
	// Describe returns the activity-log action and a human readable detail.
	Describe(item *ChecklistItem) (ActivityAction, string)
}

// SetStatus moves an item to any status; transitions are unconstrained.
type SetStatus struct {
	Status ComplianceStatus
}

func (u SetStatus) validate() error {
	if !u.Status.Valid() {
		return NewValidation("status", "unknown compliance status %q", u.Status)
	}
	return nil
}

func (u SetStatus) apply(item *ChecklistItem) { item.Status = u.Status }

func (u SetStatus) Describe(item *ChecklistItem) (ActivityAction, string) {
	return ActionStatusChanged, fmt.Sprintf("%s: %s -> %s", item.ID, item.Status, u.Status)
}

// SetAssignee assigns the item to a user; nil clears the assignee.
type SetAssignee struct {
	UserID *string
}

func (u SetAssignee) validate() error {
	if u.UserID != nil && strings.TrimSpace(*u.UserID) == "" {
		return NewValidation("assignee", "user id must not be blank (use none to unassign)")
	}
	return nil
}

func (u SetAssignee) apply(item *ChecklistItem) { item.AssigneeID = cloneStringPtr(u.UserID) }

func (u SetAssignee) Describe(item *ChecklistItem) (ActivityAction, string) {
	if u.UserID == nil {
		return ActionAssigneeChanged, item.ID + ": unassigned"
	}
	return ActionAssigneeChanged, fmt.Sprintf("%s: assigned to %s", item.ID, *u.UserID)
}

// SetActionPlan replaces the item's free-text action plan.
type SetActionPlan struct {
	Text string
}

func (u SetActionPlan) validate() error { return nil }

func (u SetActionPlan) apply(item *ChecklistItem) { item.ActionPlan = u.Text }

func (u SetActionPlan) Describe(item *ChecklistItem) (ActivityAction, string) {
	return ActionActionPlanChanged, item.ID + ": action plan updated"
}

// SetDueDate sets or clears the item's due date.
type SetDueDate struct {
	Date *time.Time
}

func (u SetDueDate) validate() error { return nil }

func (u SetDueDate) apply(item *ChecklistItem) { item.DueDate = cloneTimePtr(u.Date) }

func (u SetDueDate) Describe(item *ChecklistItem) (ActivityAction, string) {
	return "", ""
}

// SetNotes replaces the item's notes.
type SetNotes struct {
	Text string
}

func (u SetNotes) validate() error { return nil }

func (u SetNotes) apply(item *ChecklistItem) { item.Notes = u.Text }

func (u SetNotes) Describe(item *ChecklistItem) (ActivityAction, string) {
	return "", ""
}

// LinkResources replaces the list of linked external resources.
type LinkResources struct {
	IDs []string
}

func (u LinkResources) validate() error {
	for _, id := range u.IDs {
		if strings.TrimSpace(id) == "" {
			return NewValidation("linkedResourceIds", "resource id must not be blank")
		}
	}
	return nil
}

func (u LinkResources) apply(item *ChecklistItem) {
	item.LinkedResourceIDs = cloneSlice(u.IDs)
}

func (u LinkResources) Describe(item *ChecklistItem) (ActivityAction, string) {
	return "", ""
}
