// Package dataset holds the serialized form of the whole working set: the
// embedded seed fixtures, export/import encoding, validation, canonical JSON
// for checksums and textual diffs between two copies.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexanderramin/accredit/internal/domain"
)

// FormatVersion is written into every export and checked on import.
const FormatVersion = 1

// Dataset is every collection of the application in one document. Progress is
// never serialized; it is derived from each project's checklist.
type Dataset struct {
	Version      int                            `json:"version"`
	Settings     domain.AppSettings             `json:"settings"`
	Programs     []*domain.AccreditationProgram `json:"programs"`
	Standards    []*domain.Standard             `json:"standards"`
	Projects     []*domain.Project              `json:"projects"`
	Users        []*domain.User                 `json:"users"`
	Documents    []*domain.Document             `json:"documents"`
	Departments  []*domain.Department           `json:"departments"`
	Trainings    []*domain.TrainingProgram      `json:"trainingPrograms"`
	Risks        []*domain.Risk                 `json:"risks"`
	Competencies []*domain.Competency           `json:"competencies"`
	Events       []*domain.CalendarEvent        `json:"calendarEvents"`
}

// Empty returns a dataset with no records and default settings.
func Empty() *Dataset {
	return &Dataset{Version: FormatVersion, Settings: domain.DefaultSettings()}
}

// Decode reads a dataset document. Unknown fields are rejected so typos in
// hand-edited files surface instead of being dropped.
func Decode(r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	ds := &Dataset{}
	if err := dec.Decode(ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if ds.Version == 0 {
		ds.Version = FormatVersion
	}
	if ds.Version > FormatVersion {
		return nil, domain.NewValidation("version", "dataset version %d is newer than supported version %d", ds.Version, FormatVersion)
	}
	if ds.Settings == (domain.AppSettings{}) {
		ds.Settings = domain.DefaultSettings()
	}
	return ds, nil
}

// DecodeBytes is Decode over an in-memory payload.
func DecodeBytes(data []byte) (*Dataset, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes the dataset as indented JSON.
func (ds *Dataset) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// Clone returns a deep copy.
func (ds *Dataset) Clone() *Dataset {
	out := &Dataset{Version: ds.Version, Settings: ds.Settings}
	out.Programs = cloneAll(ds.Programs, (*domain.AccreditationProgram).Clone)
	out.Standards = cloneAll(ds.Standards, (*domain.Standard).Clone)
	out.Projects = cloneAll(ds.Projects, (*domain.Project).Clone)
	out.Users = cloneAll(ds.Users, (*domain.User).Clone)
	out.Documents = cloneAll(ds.Documents, (*domain.Document).Clone)
	out.Departments = cloneAll(ds.Departments, (*domain.Department).Clone)
	out.Trainings = cloneAll(ds.Trainings, (*domain.TrainingProgram).Clone)
	out.Risks = cloneAll(ds.Risks, (*domain.Risk).Clone)
	out.Competencies = cloneAll(ds.Competencies, (*domain.Competency).Clone)
	out.Events = cloneAll(ds.Events, (*domain.CalendarEvent).Clone)
	return out
}

func cloneAll[T any](in []*T, clone func(*T) *T) []*T {
	out := make([]*T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

// Counts returns the number of records per collection, keyed by JSON name.
func (ds *Dataset) Counts() map[string]int {
	return map[string]int{
		"programs":         len(ds.Programs),
		"standards":        len(ds.Standards),
		"projects":         len(ds.Projects),
		"users":            len(ds.Users),
		"documents":        len(ds.Documents),
		"departments":      len(ds.Departments),
		"trainingPrograms": len(ds.Trainings),
		"risks":            len(ds.Risks),
		"competencies":     len(ds.Competencies),
		"calendarEvents":   len(ds.Events),
	}
}
