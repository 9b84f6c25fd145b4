package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/accredit/internal/app"
)

const statusProgressBarWidth = 10

// FormatStatus formats a StatusResponse into a styled dashboard string.
func FormatStatus(resp *app.StatusResponse) string {
	var b strings.Builder
	now := resp.Summary.GeneratedAt

	headers := []string{"PROJECT", "PROGRAM", "STATUS", "PROGRESS", "READINESS", "DEADLINE", "OVERDUE"}
	rows := make([][]string, 0, len(resp.Projects))
	for _, p := range resp.Projects {
		deadline := Dim("--")
		if p.EndDate != nil {
			deadline = DueDateStyled(*p.EndDate, now)
		}
		overdue := Dim("0")
		if p.OverdueItems > 0 {
			overdue = StyleRed.Render(fmt.Sprint(p.OverdueItems))
		}
		rows = append(rows, []string{
			Bold(p.ProjectName),
			p.ProgramName,
			StatusPill(p.Status),
			RenderProgress(p.Breakdown.Percent, statusProgressBarWidth),
			ReadinessIndicator(p.Readiness),
			deadline,
			overdue,
		})
	}
	if len(rows) == 0 {
		b.WriteString(Dim("No projects in scope.") + "\n")
	} else {
		b.WriteString(RenderTable(headers, rows))
	}

	s := resp.Summary
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s, %s, %s, %s\n",
		StyleRed.Render(fmt.Sprintf("%d Critical", s.CountsCritical)),
		StyleYellow.Render(fmt.Sprintf("%d At Risk", s.CountsAtRisk)),
		StyleBlue.Render(fmt.Sprintf("%d On Track", s.CountsOnTrack)),
		StyleGreen.Render(fmt.Sprintf("%d Ready", s.CountsReady)),
	))
	b.WriteString(Dim(fmt.Sprintf("Risks: %d open (%d high)  Overdue trainings: %d", s.OpenRisks, s.HighRisks, s.OverdueTrainings)) + "\n")

	if len(resp.Overdue) > 0 {
		b.WriteString("\n" + Header("Overdue items") + "\n")
		b.WriteString(formatOverdue(resp.Overdue, now))
	}

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(StyleYellow.Render("  WARNING: "+w) + "\n")
		}
	}

	return RenderBox("Status", b.String())
}

func formatOverdue(items []app.OverdueItem, now time.Time) string {
	rows := make([][]string, 0, len(items))
	for _, o := range items {
		assignee := Dim("unassigned")
		if o.AssigneeID != nil {
			assignee = *o.AssigneeID
		}
		late := DueDateStyled(o.DueDate, now)
		if o.DaysLate > 0 {
			late = StyleRed.Render(fmt.Sprintf("%dd late", o.DaysLate))
		}
		rows = append(rows, []string{o.ItemID, o.ProjectName, ComplianceBadge(o.Status), assignee, late})
	}
	return RenderTable([]string{"ITEM", "PROJECT", "STATUS", "ASSIGNEE", "DUE"}, rows)
}
