package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func itemsWith(statuses ...ComplianceStatus) []ChecklistItem {
	items := make([]ChecklistItem, len(statuses))
	for i, st := range statuses {
		items[i] = NewChecklistItem(string(rune('A'+i)), "item", testNow)
		items[i].Status = st
	}
	return items
}

func TestComputeProgress_MixedStatuses(t *testing.T) {
	items := itemsWith(StatusCompliant, StatusPartiallyCompliant, StatusNonCompliant, StatusNotApplicable)
	assert.InDelta(t, 50.0, ComputeProgress(items), 1e-9)
}

func TestComputeProgress_Empty(t *testing.T) {
	assert.Equal(t, 0.0, ComputeProgress(nil))
	assert.Equal(t, 0.0, ComputeProgress([]ChecklistItem{}))
}

func TestComputeProgress_AllNotApplicable(t *testing.T) {
	items := itemsWith(StatusNotApplicable, StatusNotApplicable)
	assert.Equal(t, 0.0, ComputeProgress(items), "all N/A is 0%, not 100%")
}

func TestComputeProgress_AllCompliant(t *testing.T) {
	items := itemsWith(StatusCompliant, StatusCompliant, StatusNotApplicable)
	assert.Equal(t, 100.0, ComputeProgress(items))
}

func TestComputeProgress_NotRounded(t *testing.T) {
	items := itemsWith(StatusCompliant, StatusNonCompliant, StatusNonCompliant)
	assert.InDelta(t, 100.0/3.0, ComputeProgress(items), 1e-9)
}

func TestComputeProgress_Formula(t *testing.T) {
	cases := []struct {
		c, pc, nc, na int
	}{
		{0, 0, 1, 0},
		{1, 1, 0, 0},
		{2, 3, 5, 7},
		{0, 4, 0, 1},
		{9, 0, 1, 3},
	}
	for _, tc := range cases {
		var statuses []ComplianceStatus
		for range tc.c {
			statuses = append(statuses, StatusCompliant)
		}
		for range tc.pc {
			statuses = append(statuses, StatusPartiallyCompliant)
		}
		for range tc.nc {
			statuses = append(statuses, StatusNonCompliant)
		}
		for range tc.na {
			statuses = append(statuses, StatusNotApplicable)
		}
		want := (float64(tc.c) + 0.5*float64(tc.pc)) / float64(tc.c+tc.pc+tc.nc) * 100
		got := ComputeProgress(itemsWith(statuses...))
		assert.InDelta(t, want, got, 1e-9, "case %+v", tc)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
	}
}

func TestComputeProgress_Pure(t *testing.T) {
	items := itemsWith(StatusCompliant, StatusPartiallyCompliant)
	first := ComputeProgress(items)
	assert.Equal(t, first, ComputeProgress(items))
	assert.Equal(t, StatusCompliant, items[0].Status)
}

func TestBreakdownProgress(t *testing.T) {
	items := itemsWith(StatusCompliant, StatusPartiallyCompliant, StatusNonCompliant, StatusNotApplicable, StatusCompliant)
	b := BreakdownProgress(items)
	assert.Equal(t, 5, b.Total)
	assert.Equal(t, 2, b.Compliant)
	assert.Equal(t, 1, b.PartiallyCompliant)
	assert.Equal(t, 1, b.NonCompliant)
	assert.Equal(t, 1, b.NotApplicable)
	assert.Equal(t, 4, b.Applicable())
	require.InDelta(t, 62.5, b.Percent, 1e-9)
}
