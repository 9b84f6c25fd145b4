package dataset

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff is a line-level comparison of two pretty-printed datasets.
type Diff struct {
	Added   int
	Removed int
	Text    string
}

// Empty reports whether both sides were identical.
func (d Diff) Empty() bool {
	return d.Added == 0 && d.Removed == 0
}

// DiffLines compares two pretty-printed payloads line by line. Changed lines
// are prefixed with "+" or "-"; unchanged runs are collapsed to at most
// context lines on each side of a change.
func DiffLines(before, after string, context int) Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	var result Diff
	for i, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			result.Added += len(chunk)
			writePrefixed(&out, "+ ", chunk)
		case diffmatchpatch.DiffDelete:
			result.Removed += len(chunk)
			writePrefixed(&out, "- ", chunk)
		case diffmatchpatch.DiffEqual:
			writePrefixed(&out, "  ", trimContext(chunk, context, i > 0, i < len(diffs)-1))
		}
	}
	if result.Empty() {
		return result
	}
	result.Text = out.String()
	return result
}

// DiffDatasets diffs the canonical pretty forms of two datasets.
func DiffDatasets(before, after *Dataset, context int) (Diff, error) {
	a, err := prettyOf(before)
	if err != nil {
		return Diff{}, err
	}
	b, err := prettyOf(after)
	if err != nil {
		return Diff{}, err
	}
	return DiffLines(a, b, context), nil
}

// Patch returns the diff in diff-match-patch text form, which
// diffmatchpatch.PatchFromText can read back.
func Patch(before, after string) string {
	dmp := diffmatchpatch.New()
	return dmp.PatchToText(dmp.PatchMake(before, dmp.DiffMain(before, after, true)))
}

func prettyOf(ds *Dataset) (string, error) {
	canonical, err := ds.Canonical()
	if err != nil {
		return "", err
	}
	pretty, err := Pretty(canonical)
	if err != nil {
		return "", err
	}
	return string(pretty), nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// trimContext keeps the head of an equal run that follows a change and the
// tail of one that precedes a change.
func trimContext(lines []string, context int, afterChange, beforeChange bool) []string {
	if afterChange && beforeChange && len(lines) <= 2*context {
		return lines
	}
	var kept []string
	if afterChange {
		kept = append(kept, lines[:min(context, len(lines))]...)
	}
	if afterChange && beforeChange {
		kept = append(kept, fmt.Sprintf("... %d unchanged lines", len(lines)-2*context))
	}
	if beforeChange {
		kept = append(kept, lines[max(len(lines)-context, 0):]...)
	}
	return kept
}

func writePrefixed(out *strings.Builder, prefix string, lines []string) {
	for _, line := range lines {
		out.WriteString(prefix)
		out.WriteString(line)
		out.WriteByte('\n')
	}
}
