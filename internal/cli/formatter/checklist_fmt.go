package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
)

// FormatChecklist renders checklist items as a table.
func FormatChecklist(items []domain.ChecklistItem, names map[string]string, now time.Time) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		due := Dim("--")
		if item.DueDate != nil {
			due = item.DueDate.Format("2006-01-02")
			if item.Status != domain.StatusCompliant && item.Status != domain.StatusNotApplicable {
				due = DueDateStyled(*item.DueDate, now)
			}
		}
		rows = append(rows, []string{
			Bold(item.ID),
			ComplianceBadge(item.Status),
			NameOrDash(item.AssigneeID, names),
			due,
			countOrDash(len(item.EvidenceDocumentIDs)),
			countOrDash(len(item.Comments)),
			Truncate(item.Description, 56),
		})
	}
	return RenderTable([]string{"ITEM", "STATUS", "ASSIGNEE", "DUE", "EVID", "CMTS", "DESCRIPTION"}, rows)
}

// FormatItemDetail renders one checklist item with its plan, notes and
// comment thread.
func FormatItemDetail(item *domain.ChecklistItem, names map[string]string, now time.Time) string {
	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-8s", label)), value))
	}

	b.WriteString(StyleBold.Render(item.ID) + "  " + item.Description + "\n\n")
	field("STATUS", ComplianceBadge(item.Status)+" "+Dim(string(item.Status)))
	field("ASSIGNEE", NameOrDash(item.AssigneeID, names))
	field("DUE", ShortDate(item.DueDate))
	field("UPDATED", HumanTimestamp(item.LastUpdated, now))
	if len(item.EvidenceDocumentIDs) > 0 {
		field("EVIDENCE", strings.Join(item.EvidenceDocumentIDs, ", "))
	}
	if len(item.LinkedResourceIDs) > 0 {
		field("LINKED", strings.Join(item.LinkedResourceIDs, ", "))
	}

	if item.ActionPlan != "" {
		b.WriteString("\n" + Header("Action plan") + "\n" + item.ActionPlan + "\n")
	}
	if item.Notes != "" {
		b.WriteString("\n" + Header("Notes") + "\n" + item.Notes + "\n")
	}
	if len(item.Comments) > 0 {
		b.WriteString("\n" + Header("Comments") + "\n")
		for _, c := range item.Comments {
			b.WriteString(fmt.Sprintf("%s %s\n  %s\n",
				StyleBlue.Render(c.UserName),
				Dim(HumanTimestamp(c.CreatedAt, now)),
				c.Text))
		}
	}
	return RenderBox("", b.String())
}

func countOrDash(n int) string {
	if n == 0 {
		return Dim("-")
	}
	return fmt.Sprint(n)
}
