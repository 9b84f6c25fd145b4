package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/accredit/internal/dataset"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatSnapshots(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	snaps := []domain.SnapshotInfo{
		{ID: "0f1e2d3c-aaaa", CreatedAt: now.Add(-5 * time.Minute), Actor: "Sara Mendes", Reason: "checklist set-status IPSG.2.1", Checksum: "9b74c9897bac770ffc029102a200c5de", Size: 2048},
		{ID: "11111111-bbbb", CreatedAt: now.Add(-48 * time.Hour), Actor: "system", Reason: "seed", Checksum: "abc", Size: 300},
	}

	out := stripANSI(FormatSnapshots(snaps, now))

	assert.Contains(t, out, "0f1e2d3c *")
	assert.NotContains(t, out, "11111111 *")
	assert.Contains(t, out, "5m ago")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "300 B")
	assert.Contains(t, out, "9b74c9897bac")
	assert.NotContains(t, out, "9b74c9897bac7")
}

func TestFormatSnapshots_Empty(t *testing.T) {
	assert.Equal(t, "No snapshots yet.", stripANSI(FormatSnapshots(nil, time.Now())))
}

func TestFormatDiff(t *testing.T) {
	d := dataset.DiffLines("a\nb\n", "a\nc\n", 3)
	out := stripANSI(FormatDiff(d))

	assert.Contains(t, out, "- b")
	assert.Contains(t, out, "+ c")
	assert.Contains(t, out, "1 added, 1 removed")
	assert.Equal(t, "No differences.", stripANSI(FormatDiff(dataset.Diff{})))
}
