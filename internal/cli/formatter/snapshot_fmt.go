package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/accredit/internal/dataset"
	"github.com/alexanderramin/accredit/internal/domain"
)

// FormatSnapshots renders the snapshot history, newest first.
func FormatSnapshots(snaps []domain.SnapshotInfo, now time.Time) string {
	if len(snaps) == 0 {
		return Dim("No snapshots yet.")
	}
	rows := make([][]string, 0, len(snaps))
	for i, s := range snaps {
		id := TruncID(s.ID)
		if i == 0 {
			id += StyleGreen.Render(" *")
		}
		rows = append(rows, []string{
			id,
			HumanTimestamp(s.CreatedAt, now),
			s.Actor,
			Truncate(s.Reason, 48),
			humanSize(s.Size),
			Dim(s.Checksum[:min(len(s.Checksum), 12)]),
		})
	}
	return RenderTable([]string{"ID", "WHEN", "ACTOR", "REASON", "SIZE", "CHECKSUM"}, rows)
}

// FormatDiff colors a line diff and appends a change summary.
func FormatDiff(d dataset.Diff) string {
	if d.Empty() {
		return Dim("No differences.")
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			b.WriteString(StyleGreen.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(StyleRed.Render(line))
		default:
			b.WriteString(Dim(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n%s, %s\n",
		StyleGreen.Render(fmt.Sprintf("%d added", d.Added)),
		StyleRed.Render(fmt.Sprintf("%d removed", d.Removed))))
	return b.String()
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
