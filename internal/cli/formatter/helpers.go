package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// CalendarDays counts the date boundaries between now and t, negative when
// t is earlier. Both times are read in now's location.
func CalendarDays(t, now time.Time) int {
	midnight := func(x time.Time) time.Time {
		y, m, d := x.In(now.Location()).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return int(midnight(t).Sub(midnight(now)).Hours() / 24)
}

// relativeUnits are tried in order; the first whose limit exceeds the day
// distance is used.
var relativeUnits = []struct {
	limit  int
	per    int
	suffix string
}{
	{14, 1, "d"},
	{60, 7, "w"},
	{math.MaxInt, 30, "mo"},
}

// RelativeDateFrom describes t relative to now in calendar days, e.g.
// "Tomorrow", "In 3w" or "2mo ago".
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := CalendarDays(t, now)
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	case -1:
		return "Yesterday"
	}

	dist := days
	if dist < 0 {
		dist = -dist
	}
	for _, u := range relativeUnits {
		if dist < u.limit {
			n := fmt.Sprintf("%d%s", dist/u.per, u.suffix)
			if days > 0 {
				return "In " + n
			}
			return n + " ago"
		}
	}
	return ""
}

// DueDateStyled renders a due date relative to now: red once overdue or
// within two days, yellow within a week.
func DueDateStyled(due, now time.Time) string {
	text := RelativeDateFrom(due, now)
	switch days := CalendarDays(due, now); {
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// ShortDate formats t as YYYY-MM-DD, or "--" when nil.
func ShortDate(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format("2006-01-02")
}

// HumanTimestamp returns a human-friendly timestamp relative to now.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// StatusPill returns a colored status indicator for project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectNotStarted:
		return StyleBlue.Render("○ Not Started")
	case domain.ProjectInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.ProjectCompleted:
		return StyleYellow.Render("◆ Completed")
	case domain.ProjectFinalized:
		return StyleDim.Render("✔ Finalized")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to max visible runes, adding an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 1 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// NameOrDash returns the looked-up display name for an optional id.
func NameOrDash(id *string, names map[string]string) string {
	if id == nil {
		return Dim("--")
	}
	if n, ok := names[*id]; ok {
		return n
	}
	return *id
}
