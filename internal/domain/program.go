package domain

import "time"

type AccreditationProgram struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Standard struct {
	ID           string        `json:"id"`
	ProgramID    string        `json:"programId"`
	Chapter      string        `json:"chapter"`
	Section      string        `json:"section"`
	Description  string        `json:"description"`
	Criticality  Criticality   `json:"criticality"`
	SubStandards []SubStandard `json:"subStandards,omitempty"`
}

type SubStandard struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// BuildChecklist expands a program's standards into checklist items, one per
// sub-standard when a standard has any and one per standard otherwise. The
// parent description is dropped when sub-standards exist.
func BuildChecklist(standards []*Standard, now time.Time) []ChecklistItem {
	items := make([]ChecklistItem, 0, len(standards))
	for _, std := range standards {
		if len(std.SubStandards) > 0 {
			for _, sub := range std.SubStandards {
				items = append(items, NewChecklistItem(sub.ID, sub.Description, now))
			}
			continue
		}
		items = append(items, NewChecklistItem(std.ID, std.Description, now))
	}
	return items
}

// FindSubStandard returns the sub-standard with the given id, or nil.
func (s *Standard) FindSubStandard(id string) *SubStandard {
	for i := range s.SubStandards {
		if s.SubStandards[i].ID == id {
			return &s.SubStandards[i]
		}
	}
	return nil
}

func (p *AccreditationProgram) EntityID() string { return p.ID }

func (p *AccreditationProgram) Clone() *AccreditationProgram {
	out := *p
	return &out
}

func (s *Standard) EntityID() string { return s.ID }

func (s *Standard) Clone() *Standard {
	out := *s
	if s.SubStandards != nil {
		out.SubStandards = cloneSlice(s.SubStandards)
	}
	return &out
}
