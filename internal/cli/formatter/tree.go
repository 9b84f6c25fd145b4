package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display. Status is empty for
// grouping nodes.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Status domain.ComplianceStatus
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders TreeItems as an indented tree using box-drawing
// connectors. Leaf items get a compliance marker and detail badges are
// right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		marker := ""
		switch item.Status {
		case "":
			title = Bold(title)
		case domain.StatusNotApplicable:
			marker = StyleDim.Render("– ")
			title = Dim(title)
		default:
			marker = ComplianceColor(item.Status).Render(statusGlyph(item.Status) + " ")
		}

		lines[idx].content = prefix + marker + title
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}
		maxContentWidth = max(maxContentWidth, lipgloss.Width(lines[idx].content))
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge == "" {
			b.WriteString(li.content + "\n")
			continue
		}
		pad := max(maxContentWidth-lipgloss.Width(li.content), 0)
		b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
	}
	return b.String()
}

func statusGlyph(s domain.ComplianceStatus) string {
	switch s {
	case domain.StatusCompliant:
		return "✔"
	case domain.StatusPartiallyCompliant:
		return "◐"
	case domain.StatusNonCompliant:
		return "✖"
	default:
		return "?"
	}
}

// BuildStandardTree groups checklist items under the standards they came
// from, in checklist order. Items with no matching standard are listed
// under "Other".
func BuildStandardTree(items []domain.ChecklistItem, standards []*domain.Standard) []TreeItem {
	parentOf := map[string]*domain.Standard{}
	for _, std := range standards {
		parentOf[std.ID] = std
		for _, sub := range std.SubStandards {
			parentOf[sub.ID] = std
		}
	}

	type group struct {
		title string
		items []domain.ChecklistItem
	}
	var groups []*group
	byKey := map[string]*group{}
	for _, item := range items {
		key, title := "", "Other"
		if std, ok := parentOf[item.ID]; ok {
			key, title = std.ID, std.ID+" "+std.Section
		}
		g, ok := byKey[key]
		if !ok {
			g = &group{title: title}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.items = append(g.items, item)
	}

	var out []TreeItem
	for _, g := range groups {
		out = append(out, TreeItem{Title: g.title, Level: 0})
		for i, item := range g.items {
			detail := ""
			if item.DueDate != nil {
				detail = "DUE " + item.DueDate.Format("2006-01-02")
			}
			out = append(out, TreeItem{
				Title:  item.ID + "  " + Truncate(item.Description, 48),
				Level:  1,
				IsLast: i == len(g.items)-1,
				Status: item.Status,
				Detail: detail,
			})
		}
	}
	return out
}
