package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testProject(now time.Time) *domain.Project {
	end := now.AddDate(0, 2, 0)
	lead := "user-2"
	return &domain.Project{
		ID:          "abcdef12-3456-7890-abcd-ef1234567890",
		Name:        "JCI 2026",
		ProgramID:   "prog-jci",
		Status:      domain.ProjectInProgress,
		StartDate:   now.AddDate(0, -2, 0),
		EndDate:     &end,
		ProjectLead: &lead,
		Checklist: []domain.ChecklistItem{
			{ID: "IPSG.1.1", Description: "Two identifiers", Status: domain.StatusCompliant},
			{ID: "IPSG.1.2", Description: "Identified before treatment", Status: domain.StatusPartiallyCompliant},
			{ID: "FMS.5", Description: "Fire safety", Status: domain.StatusNonCompliant},
			{ID: "X.9", Description: "Legacy item", Status: domain.StatusNotApplicable},
		},
		CAPAReports: []domain.CAPAReport{{ID: "capa-1", Title: "Read-back failures", Status: domain.CAPAOpen, SourceChecklistItemID: "IPSG.1.2"}},
		ActivityLog: []domain.ActivityLogItem{{Timestamp: now.Add(-time.Hour), UserName: "Sara Mendes", Details: "IPSG.1.2: NonCompliant -> PartiallyCompliant"}},
		UpdatedAt:   now.Add(-time.Hour),
	}
}

func TestFormatProjectList_ShowsProgramAndProgress(t *testing.T) {
	now := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	out := stripANSI(FormatProjectList([]*domain.Project{testProject(now)}, map[string]string{"prog-jci": "JCI"}))

	assert.Contains(t, out, "abcdef12")
	assert.NotContains(t, out, "abcdef12-3456")
	assert.Contains(t, out, "JCI 2026")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "In Progress")
}

func TestFormatProjectList_UnknownProgramFallsBackToID(t *testing.T) {
	now := time.Now().UTC()
	out := stripANSI(FormatProjectList([]*domain.Project{testProject(now)}, nil))
	assert.Contains(t, out, "prog-jci")
}

func TestFormatProjectDetail(t *testing.T) {
	now := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	standards := []*domain.Standard{
		{ID: "IPSG.1", Section: "IPSG", SubStandards: []domain.SubStandard{{ID: "IPSG.1.1"}, {ID: "IPSG.1.2"}}},
		{ID: "FMS.5", Section: "FMS"},
	}

	out := stripANSI(FormatProjectDetail(ProjectDetailData{
		Project:     testProject(now),
		ProgramName: "Joint Commission International",
		Standards:   standards,
		UserNames:   map[string]string{"user-2": "Dr. Layla Hassan"},
		Now:         now,
	}))

	assert.Contains(t, out, "Joint Commission International")
	assert.Contains(t, out, "Dr. Layla Hassan")
	assert.Contains(t, out, "1 C · 1 PC · 1 NC · 1 NA of 4")
	assert.Contains(t, out, "IPSG.1 IPSG")
	assert.Contains(t, out, "Other")
	assert.Contains(t, out, "Read-back failures")
	assert.Contains(t, out, "Sara Mendes")
}

func TestBuildStandardTree_GroupsInChecklistOrder(t *testing.T) {
	items := testProject(time.Now()).Checklist
	standards := []*domain.Standard{
		{ID: "IPSG.1", Section: "IPSG", SubStandards: []domain.SubStandard{{ID: "IPSG.1.1"}, {ID: "IPSG.1.2"}}},
		{ID: "FMS.5", Section: "FMS"},
	}

	tree := BuildStandardTree(items, standards)

	titles := make([]string, len(tree))
	for i, ti := range tree {
		titles[i] = ti.Title
	}
	assert.Equal(t, "IPSG.1 IPSG", titles[0])
	assert.Equal(t, "FMS.5 FMS", titles[3])
	assert.Equal(t, "Other", titles[5])
	assert.True(t, tree[2].IsLast)
	assert.False(t, tree[1].IsLast)
	assert.Equal(t, domain.StatusPartiallyCompliant, tree[2].Status)
}
