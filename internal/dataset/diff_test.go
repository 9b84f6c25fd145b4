package dataset

import (
	"testing"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestDiffLines_Identical(t *testing.T) {
	d := DiffLines("a\nb\n", "a\nb\n", 2)
	assert.True(t, d.Empty())
	assert.Empty(t, d.Text)
}

func TestDiffLines_CountsChanges(t *testing.T) {
	before := "one\ntwo\nthree\n"
	after := "one\nTWO\nthree\nfour\n"

	d := DiffLines(before, after, 1)
	assert.Equal(t, 2, d.Added)
	assert.Equal(t, 1, d.Removed)
	assert.Contains(t, d.Text, "- two\n")
	assert.Contains(t, d.Text, "+ TWO\n")
	assert.Contains(t, d.Text, "+ four\n")
}

func TestDiffLines_CollapsesLongUnchangedRuns(t *testing.T) {
	before := "a\nb\nc\nd\ne\nf\ng\nh\n"
	after := "A\nb\nc\nd\ne\nf\ng\nH\n"

	d := DiffLines(before, after, 1)
	assert.Contains(t, d.Text, "... 4 unchanged lines")
	assert.NotContains(t, d.Text, "  d\n")
}

func TestDiffDatasets_ShowsStatusChange(t *testing.T) {
	before, err := Seed()
	require.NoError(t, err)
	after := before.Clone()
	after.Projects[0].Checklist[2].Status = domain.StatusCompliant

	d, err := DiffDatasets(before, after, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Added)
	assert.Equal(t, 1, d.Removed)
	assert.Regexp(t, `(?m)^\+ +"status": "Compliant"$`, d.Text)
	assert.Regexp(t, `(?m)^- +"status": "NonCompliant"$`, d.Text)
}

func TestPatch_AppliesBack(t *testing.T) {
	before := "alpha\nbeta\ngamma\n"
	after := "alpha\nBETA\ngamma\n"

	text := Patch(before, after)
	require.NotEmpty(t, text)

	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(text)
	require.NoError(t, err)
	applied, ok := dmp.PatchApply(patches, before)
	assert.Equal(t, after, applied)
	for _, v := range ok {
		assert.True(t, v)
	}
}
