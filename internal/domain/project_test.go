package domain

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChecklist_ExpandsSubStandards(t *testing.T) {
	standards := []*Standard{
		{ID: "IPSG.1", Description: "Identify patients", SubStandards: []SubStandard{
			{ID: "IPSG.1.1", Description: "Two identifiers"},
			{ID: "IPSG.1.2", Description: "Wristbands"},
		}},
		{ID: "IPSG.2", Description: "Effective communication"},
	}

	items := BuildChecklist(standards, testNow)
	require.Len(t, items, 3)
	assert.Equal(t, "IPSG.1.1", items[0].ID)
	assert.Equal(t, "IPSG.1.1", items[0].StandardID)
	assert.Equal(t, "Two identifiers", items[0].Description)
	assert.Equal(t, "IPSG.1.2", items[1].ID)
	assert.Equal(t, "IPSG.2", items[2].ID)
	assert.Equal(t, "Effective communication", items[2].Description)
	for _, item := range items {
		assert.Equal(t, StatusNonCompliant, item.Status)
	}
}

func TestBuildChecklist_NoStandards(t *testing.T) {
	items := BuildChecklist(nil, testNow)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestProject_ProgressIsDerived(t *testing.T) {
	p := &Project{Checklist: itemsWith(StatusNonCompliant, StatusNonCompliant)}
	assert.Equal(t, 0.0, p.Progress())

	p.FindItem("A").Status = StatusCompliant
	assert.Equal(t, 50.0, p.Progress())
}

func TestProject_JSONHasNoProgressField(t *testing.T) {
	p := &Project{ID: "p1", Checklist: itemsWith(StatusCompliant)}
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "progress")
}

func TestProject_FinalizeAtAnyProgress(t *testing.T) {
	p := &Project{Status: ProjectInProgress, Checklist: itemsWith(StatusNonCompliant)}
	require.NoError(t, p.Finalize("Dr. Reyes", testNow))
	assert.Equal(t, ProjectFinalized, p.Status)
	assert.Equal(t, "Dr. Reyes", *p.FinalizedBy)
	assert.Equal(t, testNow, *p.FinalizedAt)
	assert.True(t, p.IsFinalized())
}

func TestProject_FinalizeRequiresSigner(t *testing.T) {
	p := &Project{Status: ProjectInProgress}
	err := p.Finalize("   ", testNow)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, ProjectInProgress, p.Status)
	assert.Nil(t, p.FinalizedBy)
}

func TestProject_CloneIsDeep(t *testing.T) {
	p := &Project{ID: "p1", Checklist: itemsWith(StatusCompliant)}
	p.LogActivity(ActivityLogItem{ID: "a1", Timestamp: testNow, Action: ActionCreated})

	cp := p.Clone()
	cp.Checklist[0].Status = StatusNonCompliant
	cp.ActivityLog[0].Details = "edited"

	assert.Equal(t, StatusCompliant, p.Checklist[0].Status)
	assert.Empty(t, p.ActivityLog[0].Details)
}

func TestProjectDraft_Validate(t *testing.T) {
	assert.True(t, IsValidation(ProjectDraft{}.Validate()))

	end := testNow.Add(-24 * time.Hour)
	err := ProjectDraft{Name: "Survey 2025", StartDate: testNow, EndDate: &end}.Validate()
	assert.True(t, IsValidation(err))

	assert.NoError(t, ProjectDraft{Name: "Survey 2025", StartDate: testNow}.Validate())
}

func TestRisk_ScoreAndLevel(t *testing.T) {
	cases := []struct {
		likelihood, impact int
		level              Criticality
	}{
		{1, 1, CriticalityLow},
		{2, 3, CriticalityMedium},
		{3, 5, CriticalityHigh},
		{5, 5, CriticalityHigh},
	}
	for _, tc := range cases {
		r := &Risk{Title: "r", Likelihood: tc.likelihood, Impact: tc.impact}
		assert.Equal(t, tc.likelihood*tc.impact, r.Score())
		assert.Equal(t, tc.level, r.Level())
	}
	assert.True(t, IsValidation((&Risk{Title: "r", Likelihood: 0, Impact: 3}).Validate()))
}

func TestUser_Validate(t *testing.T) {
	u := &User{Name: "Ana", Email: "ana@example.org", Role: RoleAuditor}
	assert.NoError(t, u.Validate())

	u.Email = "not-an-email"
	assert.True(t, IsValidation(u.Validate()))

	u.Email = "ana@example.org"
	u.Role = "Owner"
	assert.True(t, IsValidation(u.Validate()))
}

func TestUser_Overdue(t *testing.T) {
	done := testNow
	u := &User{TrainingAssignments: []TrainingAssignment{
		{TrainingID: "t1", DueDate: testNow.Add(-time.Hour)},
		{TrainingID: "t2", DueDate: testNow.Add(-time.Hour), CompletedAt: &done},
		{TrainingID: "t3", DueDate: testNow.Add(time.Hour)},
	}}
	overdue := u.Overdue(testNow)
	require.Len(t, overdue, 1)
	assert.Equal(t, "t1", overdue[0].TrainingID)
}

func TestActorFrom(t *testing.T) {
	assert.Equal(t, SystemActor, ActorFrom(context.Background()))
	ctx := WithActor(context.Background(), "Dr. Reyes")
	assert.Equal(t, "Dr. Reyes", ActorFrom(ctx))
}
