package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestCalendarDays(t *testing.T) {
	now := time.Date(2026, 2, 7, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, 0, CalendarDays(now.Add(-23*time.Hour), now))
	assert.Equal(t, 1, CalendarDays(now.Add(time.Hour), now), "past midnight is tomorrow")
	assert.Equal(t, -7, CalendarDays(now.AddDate(0, 0, -7), now))
}

func TestDueDateStyled(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2d ago", stripANSI(DueDateStyled(now.AddDate(0, 0, -2), now)))
	assert.Equal(t, "In 5d", stripANSI(DueDateStyled(now.AddDate(0, 0, 5), now)))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Just now", HumanTimestamp(now, now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Feb 1, 2026", HumanTimestamp(now.AddDate(0, 0, -6), now))
	assert.Equal(t, "Feb 9, 2026", HumanTimestamp(now.AddDate(0, 0, 2), now))
}

func TestStatusPill(t *testing.T) {
	tests := []struct {
		status domain.ProjectStatus
		want   string
	}{
		{domain.ProjectNotStarted, "Not Started"},
		{domain.ProjectInProgress, "In Progress"},
		{domain.ProjectCompleted, "Completed"},
		{domain.ProjectFinalized, "Finalized"},
		{"Paused", "Paused"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Contains(t, stripANSI(StatusPill(tt.status)), tt.want)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Patien…", Truncate("Patients are identified", 7))
	assert.Equal(t, "ééé…", Truncate("éééééé", 4))
}

func TestNameOrDash(t *testing.T) {
	id := "user-2"
	unknown := "user-99"
	names := map[string]string{"user-2": "Dr. Layla Hassan"}

	assert.Equal(t, "Dr. Layla Hassan", NameOrDash(&id, names))
	assert.Equal(t, "user-99", NameOrDash(&unknown, names))
	assert.Equal(t, "--", stripANSI(NameOrDash(nil, names)))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdef12", stripANSI(TruncID("abcdef12-3456")))
	assert.Equal(t, "short", stripANSI(TruncID("short")))
}
