package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const activityTail = 5

// ProjectDetailData holds everything needed to render a project card.
type ProjectDetailData struct {
	Project     *domain.Project
	ProgramName string
	Standards   []*domain.Standard
	// UserNames maps user ids to display names.
	UserNames map[string]string
	Now       time.Time
}

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project, programNames map[string]string) string {
	headers := []string{"ID", "NAME", "PROGRAM", "STATUS", "PROGRESS", "END"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		program := programNames[p.ProgramID]
		if program == "" {
			program = Dim(p.ProgramID)
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			program,
			StatusPill(p.Status),
			RenderProgress(p.Progress(), 10),
			ShortDate(p.EndDate),
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectDetail renders a project card with metadata on the left and
// the checklist tree on the right.
func FormatProjectDetail(data ProjectDetailData) string {
	left := buildMetadataPanel(data)
	right := buildChecklistPanel(data)
	combined := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)

	var b strings.Builder
	b.WriteString(combined)
	if capas := formatCAPAs(data.Project.CAPAReports, data.UserNames); capas != "" {
		b.WriteString("\n\n" + capas)
	}
	if log := formatActivity(data.Project.ActivityLog, data.Now); log != "" {
		b.WriteString("\n\n" + log)
	}
	return RenderBox("", b.String())
}

func buildMetadataPanel(data ProjectDetailData) string {
	p := data.Project
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + "\n")
	b.WriteString(StylePurple.Render(valueOr(data.ProgramName, p.ProgramID)) + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value))
	}
	field("STATUS", StatusPill(p.Status))
	field("ID", TruncID(p.ID))
	field("LEAD", NameOrDash(p.ProjectLead, data.UserNames))
	field("START", StyleFg.Render(p.StartDate.Format("Jan 2, 2006")))
	if p.EndDate != nil {
		field("END", DueDateStyled(*p.EndDate, data.Now)+" "+Dim("("+p.EndDate.Format("Jan 2, 2006")+")"))
	}
	if p.FinalizedBy != nil && p.FinalizedAt != nil {
		field("SIGNED", *p.FinalizedBy+" "+Dim(p.FinalizedAt.Format("Jan 2, 2006")))
	}
	field("UPDATED", HumanTimestamp(p.UpdatedAt, data.Now))

	bd := p.Breakdown()
	b.WriteString("\n")
	field("PROGRESS", RenderProgress(bd.Percent, 12))
	b.WriteString(Dim(fmt.Sprintf("%d C · %d PC · %d NC · %d NA of %d",
		bd.Compliant, bd.PartiallyCompliant, bd.NonCompliant, bd.NotApplicable, bd.Total)) + "\n")

	return lipgloss.NewStyle().Width(48).Render(b.String())
}

func buildChecklistPanel(data ProjectDetailData) string {
	items := data.Project.Checklist
	if len(items) == 0 {
		return Dim("No checklist items")
	}
	return Header("Checklist") + "\n" + RenderTree(BuildStandardTree(items, data.Standards))
}

func formatCAPAs(reports []domain.CAPAReport, names map[string]string) string {
	if len(reports) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		status := StyleYellow.Render(string(r.Status))
		if r.Status == domain.CAPAClosed {
			status = Dim(string(r.Status))
		}
		rows = append(rows, []string{
			Bold(Truncate(r.Title, 40)),
			valueOr(r.SourceChecklistItemID, Dim("--")),
			NameOrDash(r.AssignedTo, names),
			ShortDate(r.DueDate),
			status,
		})
	}
	return Header("CAPA reports") + "\n" + RenderTable([]string{"TITLE", "ITEM", "ASSIGNEE", "DUE", "STATUS"}, rows)
}

func formatActivity(log []domain.ActivityLogItem, now time.Time) string {
	if len(log) == 0 {
		return ""
	}
	start := max(len(log)-activityTail, 0)
	var b strings.Builder
	b.WriteString(Header("Recent activity") + "\n")
	for i := len(log) - 1; i >= start; i-- {
		e := log[i]
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			Dim(fmt.Sprintf("%-12s", HumanTimestamp(e.Timestamp, now))),
			StyleBlue.Render(e.UserName),
			e.Details))
	}
	return b.String()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
