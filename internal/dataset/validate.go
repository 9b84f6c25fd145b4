package dataset

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/accredit/internal/domain"
)

// Validate checks a dataset for duplicate ids, dangling references and
// invalid field values. It returns every problem found, not just the first.
func Validate(ds *Dataset) []error {
	var errs []error

	programIDs := collectIDs("programs", ds.Programs, &errs)
	standardIDs := collectIDs("standards", ds.Standards, &errs)
	userIDs := collectIDs("users", ds.Users, &errs)
	documentIDs := collectIDs("documents", ds.Documents, &errs)
	departmentIDs := collectIDs("departments", ds.Departments, &errs)
	trainingIDs := collectIDs("trainingPrograms", ds.Trainings, &errs)
	projectIDs := collectIDs("projects", ds.Projects, &errs)
	collectIDs("risks", ds.Risks, &errs)
	collectIDs("competencies", ds.Competencies, &errs)
	collectIDs("calendarEvents", ds.Events, &errs)

	subIDs := make(map[string]string)
	for _, std := range nonNil(ds.Standards) {
		errs = append(errs, validateStandard(std, programIDs, standardIDs, subIDs)...)
	}
	for _, u := range nonNil(ds.Users) {
		errs = append(errs, validateUser(u, departmentIDs, trainingIDs)...)
	}
	for _, d := range nonNil(ds.Documents) {
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("documents[%s]: %w", d.ID, err))
		}
		if d.ProjectID != nil && !projectIDs[*d.ProjectID] {
			errs = append(errs, fmt.Errorf("documents[%s].projectId: unknown project %q", d.ID, *d.ProjectID))
		}
	}
	for _, r := range nonNil(ds.Risks) {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("risks[%s]: %w", r.ID, err))
		}
	}
	for _, c := range nonNil(ds.Competencies) {
		if !userIDs[c.UserID] {
			errs = append(errs, fmt.Errorf("competencies[%s].userId: unknown user %q", c.ID, c.UserID))
		}
	}
	for _, p := range nonNil(ds.Projects) {
		errs = append(errs, validateProject(p, programIDs, userIDs, documentIDs)...)
	}

	return errs
}

type identified interface {
	EntityID() string
}

// collectIDs reports null entries, blank ids and duplicate ids.
func collectIDs[T any, P interface {
	*T
	identified
}](collection string, items []P, errs *[]error) map[string]bool {
	ids := make(map[string]bool, len(items))
	for i, item := range items {
		if item == nil {
			*errs = append(*errs, fmt.Errorf("%s[%d] is null", collection, i))
			continue
		}
		id := item.EntityID()
		switch {
		case strings.TrimSpace(id) == "":
			*errs = append(*errs, fmt.Errorf("%s[%d].id is required", collection, i))
		case ids[id]:
			*errs = append(*errs, fmt.Errorf("%s[%d]: duplicate id %q", collection, i, id))
		}
		ids[id] = true
	}
	return ids
}

func nonNil[T any](items []*T) []*T {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}
	return out
}

// validateStandard records each sub-standard id in subIDs, keyed to its
// owning standard, so repeats across standards are caught.
func validateStandard(std *domain.Standard, programIDs, standardIDs map[string]bool, subIDs map[string]string) []error {
	var errs []error
	if !programIDs[std.ProgramID] {
		errs = append(errs, fmt.Errorf("standards[%s].programId: unknown program %q", std.ID, std.ProgramID))
	}
	switch std.Criticality {
	case domain.CriticalityHigh, domain.CriticalityMedium, domain.CriticalityLow:
	default:
		errs = append(errs, fmt.Errorf("standards[%s].criticality: invalid value %q", std.ID, std.Criticality))
	}
	for _, sub := range std.SubStandards {
		if strings.TrimSpace(sub.ID) == "" {
			errs = append(errs, fmt.Errorf("standards[%s].subStandards: id is required", std.ID))
			continue
		}
		if standardIDs[sub.ID] {
			errs = append(errs, fmt.Errorf("standards[%s].subStandards: id %q collides with a standard", std.ID, sub.ID))
		}
		if owner, ok := subIDs[sub.ID]; ok {
			errs = append(errs, fmt.Errorf("standards[%s].subStandards: duplicate id %q, already under %s", std.ID, sub.ID, owner))
			continue
		}
		subIDs[sub.ID] = std.ID
	}
	return errs
}

func validateUser(u *domain.User, departmentIDs, trainingIDs map[string]bool) []error {
	var errs []error
	if err := u.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("users[%s]: %w", u.ID, err))
	}
	if u.DepartmentID != nil && !departmentIDs[*u.DepartmentID] {
		errs = append(errs, fmt.Errorf("users[%s].departmentId: unknown department %q", u.ID, *u.DepartmentID))
	}
	for _, a := range u.TrainingAssignments {
		if !trainingIDs[a.TrainingID] {
			errs = append(errs, fmt.Errorf("users[%s].trainingAssignments: unknown training %q", u.ID, a.TrainingID))
		}
	}
	return errs
}

func validateProject(p *domain.Project, programIDs, userIDs, documentIDs map[string]bool) []error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("projects[%s].name is required", p.ID))
	}
	if !programIDs[p.ProgramID] {
		errs = append(errs, fmt.Errorf("projects[%s].programId: unknown program %q", p.ID, p.ProgramID))
	}
	switch p.Status {
	case domain.ProjectNotStarted, domain.ProjectInProgress, domain.ProjectCompleted, domain.ProjectFinalized:
	default:
		errs = append(errs, fmt.Errorf("projects[%s].status: invalid value %q", p.ID, p.Status))
	}
	if p.ProjectLead != nil && !userIDs[*p.ProjectLead] {
		errs = append(errs, fmt.Errorf("projects[%s].projectLead: unknown user %q", p.ID, *p.ProjectLead))
	}

	seen := make(map[string]bool, len(p.Checklist))
	for _, item := range p.Checklist {
		prefix := fmt.Sprintf("projects[%s].checklist[%s]", p.ID, item.ID)
		if seen[item.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate item id", prefix))
		}
		seen[item.ID] = true
		if !item.Status.Valid() {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, item.Status))
		}
		if item.AssigneeID != nil && !userIDs[*item.AssigneeID] {
			errs = append(errs, fmt.Errorf("%s.assignedTo: unknown user %q", prefix, *item.AssigneeID))
		}
		for _, docID := range item.EvidenceDocumentIDs {
			if !documentIDs[docID] {
				errs = append(errs, fmt.Errorf("%s.evidenceDocumentIds: unknown document %q", prefix, docID))
			}
		}
	}
	return errs
}

// ValidationErrors is every problem Validate found, as one error. It matches
// domain.ErrValidation.
type ValidationErrors []error

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return "invalid dataset: " + e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = "  - " + err.Error()
	}
	return fmt.Sprintf("invalid dataset (%d problems):\n%s", len(e), strings.Join(msgs, "\n"))
}

func (e ValidationErrors) Is(target error) bool {
	return target == domain.ErrValidation
}

func (e ValidationErrors) Unwrap() []error {
	return e
}

// Check runs Validate and folds the result into a single error, or nil.
func Check(ds *Dataset) error {
	if errs := Validate(ds); len(errs) > 0 {
		return ValidationErrors(errs)
	}
	return nil
}
