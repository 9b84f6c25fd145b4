package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/accredit/internal/assist"
)

// FormatSummary renders an AI project summary.
func FormatSummary(projectName string, s *assist.ProjectSummary) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(s.Headline) + "\n")
	b.WriteString(Dim(fmt.Sprintf("Progress %.1f%%", s.ProgressPercent)) + "\n")

	section := func(title string, items []string, style func(...string) string) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n" + Header(title) + "\n")
		for _, item := range items {
			b.WriteString("  " + style("•") + " " + item + "\n")
		}
	}
	section("Strengths", s.Strengths, StyleGreen.Render)
	section("Gaps", s.Gaps, StyleRed.Render)
	section("Next steps", s.NextSteps, StyleBlue.Render)

	return RenderBox(projectName, b.String())
}

// FormatSuggestion renders a suggested action plan for an item.
func FormatSuggestion(itemID, text string) string {
	return RenderBox("Suggested plan for "+itemID, strings.TrimSpace(text)+"\n\n"+
		Dim("Apply with: checklist action-plan --text \"...\""))
}
