package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const colGap = 2

// RenderTable lays rows out under headers with a dim rule below the header
// and no other borders. Styled cells are measured by their visible width.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	last := len(headers) - 1
	cell := lipgloss.NewStyle()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderRow(false).
		BorderHeader(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cell
			if col < last {
				s = s.PaddingRight(colGap)
			}
			if row == table.HeaderRow {
				s = s.Inherit(StyleHeader)
			}
			return s
		})
	return t.Render() + "\n"
}
