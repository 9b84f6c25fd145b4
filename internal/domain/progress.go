package domain

// ComputeProgress returns the compliance percentage of a checklist.
// NotApplicable items are excluded from the denominator. A checklist with no
// applicable items scores 0, not 100. The result is not rounded.
func ComputeProgress(items []ChecklistItem) float64 {
	var applicable int
	var score float64
	for _, item := range items {
		if item.Status == StatusNotApplicable {
			continue
		}
		applicable++
		score += item.Status.Score()
	}
	if applicable == 0 {
		return 0
	}
	return score / float64(applicable) * 100
}

// ProgressBreakdown holds per-status counts alongside the derived percentage.
type ProgressBreakdown struct {
	Total              int     `json:"total"`
	Compliant          int     `json:"compliant"`
	PartiallyCompliant int     `json:"partiallyCompliant"`
	NonCompliant       int     `json:"nonCompliant"`
	NotApplicable      int     `json:"notApplicable"`
	Percent            float64 `json:"percent"`
}

// Applicable is the number of items counted toward progress.
func (b ProgressBreakdown) Applicable() int {
	return b.Total - b.NotApplicable
}

// BreakdownProgress counts items per status and computes the percentage.
func BreakdownProgress(items []ChecklistItem) ProgressBreakdown {
	b := ProgressBreakdown{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case StatusCompliant:
			b.Compliant++
		case StatusPartiallyCompliant:
			b.PartiallyCompliant++
		case StatusNonCompliant:
			b.NonCompliant++
		case StatusNotApplicable:
			b.NotApplicable++
		}
	}
	b.Percent = ComputeProgress(items)
	return b
}
