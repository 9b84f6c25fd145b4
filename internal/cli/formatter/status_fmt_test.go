package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/accredit/internal/app"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatStatus_IncludesOverdueAndWarnings(t *testing.T) {
	now := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 2, 0)
	assignee := "user-4"
	resp := &app.StatusResponse{
		Summary: app.GlobalStatusSummary{GeneratedAt: now, CountsTotal: 1, CountsAtRisk: 1, OpenRisks: 2, HighRisks: 1},
		Projects: []app.ProjectStatusView{{
			ProjectName:  "JCI Hospital Accreditation 2026",
			ProgramName:  "JCI",
			Status:       domain.ProjectInProgress,
			Readiness:    app.ReadinessAtRisk,
			Breakdown:    domain.ProgressBreakdown{Percent: 62.5},
			EndDate:      &end,
			OverdueItems: 1,
		}},
		Overdue: []app.OverdueItem{{
			ItemID: "IPSG.2.1", ProjectName: "JCI Hospital Accreditation 2026",
			Status: domain.StatusNonCompliant, AssigneeID: &assignee,
			DueDate: now.AddDate(0, 0, -21), DaysLate: 21,
		}},
		Warnings: []string{`project "x" references unknown program "prog-old"`},
	}

	out := stripANSI(FormatStatus(resp))
	assert.Contains(t, out, "JCI Hospital Accreditation 2026")
	assert.Contains(t, out, "62.5%")
	assert.Contains(t, out, "AT RISK")
	assert.Contains(t, out, "21d late")
	assert.Contains(t, out, "Risks: 2 open (1 high)")
	assert.Contains(t, out, "WARNING: project \"x\"")
}

func TestFormatStatus_Empty(t *testing.T) {
	out := stripANSI(FormatStatus(&app.StatusResponse{}))
	assert.Contains(t, out, "No projects in scope.")
	assert.NotContains(t, out, "OVERDUE ITEMS")
}
