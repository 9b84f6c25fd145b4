package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/accredit/internal/app"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

type statusLook struct {
	style lipgloss.Style
	badge string
}

var complianceLooks = map[domain.ComplianceStatus]statusLook{
	domain.StatusCompliant:          {StyleGreen, "✔ C"},
	domain.StatusPartiallyCompliant: {StyleYellow, "◐ PC"},
	domain.StatusNonCompliant:       {StyleRed, "✖ NC"},
	domain.StatusNotApplicable:      {StyleDim, "– NA"},
}

// ComplianceColor returns the style used for a compliance status.
func ComplianceColor(s domain.ComplianceStatus) lipgloss.Style {
	if look, ok := complianceLooks[s]; ok {
		return look.style
	}
	return StyleDim
}

// ComplianceBadge returns a short colored marker such as "✔ C". Unknown
// statuses are shown verbatim.
func ComplianceBadge(s domain.ComplianceStatus) string {
	look, ok := complianceLooks[s]
	if !ok {
		return StyleDim.Render(string(s))
	}
	return look.style.Render(look.badge)
}

// ReadinessIndicator returns a colored readiness marker such as "● AT RISK".
func ReadinessIndicator(r app.Readiness) string {
	switch r {
	case app.ReadinessReady:
		return StyleGreen.Render("● READY")
	case app.ReadinessOnTrack:
		return StyleBlue.Render("● ON TRACK")
	case app.ReadinessAtRisk:
		return StyleYellow.Render("● AT RISK")
	case app.ReadinessCritical:
		return StyleRed.Render("● CRITICAL")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// CriticalityBadge colors a criticality or risk level.
func CriticalityBadge(c domain.Criticality) string {
	switch c {
	case domain.CriticalityHigh:
		return StyleRed.Render("High")
	case domain.CriticalityMedium:
		return StyleYellow.Render("Medium")
	case domain.CriticalityLow:
		return StyleGreen.Render("Low")
	default:
		return Dim("--")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
