package service

import (
	"context"
	"slices"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/repository"
	"github.com/google/uuid"
)

// CatalogHooks customizes a catalog service for one entity type.
type CatalogHooks[T any] struct {
	// ID returns the entity's id.
	ID func(*T) string
	// SetID assigns a generated id when the caller left it empty.
	SetID func(*T, string)
	// Validate runs before Add and Update.
	Validate func(*T) error
	// BeforeDelete can veto a delete, e.g. while other records refer to it.
	BeforeDelete func(ctx context.Context, id string) error
}

type catalogService[T any] struct {
	kind     string
	repo     repository.Collection[T]
	hooks    CatalogHooks[T]
	observer UseCaseObserver
}

func NewCatalogService[T any](kind string, repo repository.Collection[T], hooks CatalogHooks[T], observers ...UseCaseObserver) CatalogService[T] {
	return &catalogService[T]{
		kind:     kind,
		repo:     repo,
		hooks:    hooks,
		observer: combineObservers(observers),
	}
}

func (s *catalogService[T]) Get(ctx context.Context, id string) (*T, error) {
	return s.repo.Get(ctx, id)
}

func (s *catalogService[T]) List(ctx context.Context) ([]*T, error) {
	return s.repo.List(ctx)
}

func (s *catalogService[T]) Add(ctx context.Context, v *T) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"kind": s.kind}
	defer func() { observe(ctx, s.observer, "add-"+s.kind, startedAt, fields, err) }()

	if s.hooks.ID != nil && s.hooks.SetID != nil && s.hooks.ID(v) == "" {
		s.hooks.SetID(v, uuid.New().String())
	}
	if s.hooks.Validate != nil {
		if err = s.hooks.Validate(v); err != nil {
			return err
		}
	}
	if s.hooks.ID != nil {
		fields["id"] = s.hooks.ID(v)
	}
	return s.repo.Add(ctx, v)
}

func (s *catalogService[T]) Update(ctx context.Context, v *T) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"kind": s.kind}
	defer func() { observe(ctx, s.observer, "update-"+s.kind, startedAt, fields, err) }()

	if s.hooks.Validate != nil {
		if err = s.hooks.Validate(v); err != nil {
			return err
		}
	}
	if s.hooks.ID != nil {
		fields["id"] = s.hooks.ID(v)
	}
	return s.repo.Update(ctx, v)
}

func (s *catalogService[T]) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"kind": s.kind, "id": id}
	defer func() { observe(ctx, s.observer, "delete-"+s.kind, startedAt, fields, err) }()

	if _, err = s.repo.Get(ctx, id); err != nil {
		return err
	}
	if s.hooks.BeforeDelete != nil {
		if err = s.hooks.BeforeDelete(ctx, id); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

// Catalogs bundles the reference-data services.
type Catalogs struct {
	Programs     CatalogService[domain.AccreditationProgram]
	Standards    CatalogService[domain.Standard]
	Documents    CatalogService[domain.Document]
	Departments  CatalogService[domain.Department]
	Trainings    CatalogService[domain.TrainingProgram]
	Risks        CatalogService[domain.Risk]
	Competencies CatalogService[domain.Competency]
	Events       CatalogService[domain.CalendarEvent]
	Users        UserService
	Settings     SettingsService
}

// NewCatalogs wires a catalog service for every reference collection of the
// store.
func NewCatalogs(store *repository.MemoryStore, observers ...UseCaseObserver) *Catalogs {
	obs := combineObservers(observers)
	programInUse := func(ctx context.Context, id string) error {
		projects, err := store.Projects().List(ctx)
		if err != nil {
			return err
		}
		for _, p := range projects {
			if p.ProgramID == id {
				return domain.NewValidation("program", "program %q is used by project %q", id, p.Name)
			}
		}
		standards, err := store.Standards().ListByProgram(ctx, id)
		if err != nil {
			return err
		}
		if len(standards) > 0 {
			return domain.NewValidation("program", "program %q still has %d standards", id, len(standards))
		}
		return nil
	}
	return &Catalogs{
		Programs: NewCatalogService("program", store.Programs(), CatalogHooks[domain.AccreditationProgram]{
			ID:           func(p *domain.AccreditationProgram) string { return p.ID },
			SetID:        func(p *domain.AccreditationProgram, id string) { p.ID = id },
			Validate:     requireName(func(p *domain.AccreditationProgram) string { return p.Name }),
			BeforeDelete: programInUse,
		}, obs),
		Standards: NewCatalogService("standard", repository.Collection[domain.Standard](store.Standards()), CatalogHooks[domain.Standard]{
			ID: func(s *domain.Standard) string { return s.ID },
			BeforeDelete: func(ctx context.Context, id string) error {
				std, err := store.Standards().Get(ctx, id)
				if err != nil {
					return err
				}
				tracked := map[string]bool{std.ID: true}
				for _, sub := range std.SubStandards {
					tracked[sub.ID] = true
				}
				projects, err := store.Projects().List(ctx)
				if err != nil {
					return err
				}
				for _, p := range projects {
					for _, item := range p.Checklist {
						if tracked[item.StandardID] {
							return domain.NewValidation("standard", "standard %q is tracked by project %q", id, p.Name)
						}
					}
				}
				return nil
			},
			Validate: func(s *domain.Standard) error {
				if s.ID == "" {
					return domain.NewValidation("id", "standard id is required")
				}
				switch s.Criticality {
				case domain.CriticalityHigh, domain.CriticalityMedium, domain.CriticalityLow:
				default:
					return domain.NewValidation("criticality", "invalid value %q", s.Criticality)
				}
				ctx := context.Background()
				if _, err := store.Programs().Get(ctx, s.ProgramID); err != nil {
					return domain.NewValidation("programId", "unknown program %q", s.ProgramID)
				}
				existing, err := store.Standards().List(ctx)
				if err != nil {
					return err
				}
				return checkSubStandardIDs(s, existing)
			},
		}, obs),
		Documents: NewCatalogService("document", store.Documents(), CatalogHooks[domain.Document]{
			ID:       func(d *domain.Document) string { return d.ID },
			SetID:    func(d *domain.Document, id string) { d.ID = id },
			Validate: (*domain.Document).Validate,
			BeforeDelete: func(ctx context.Context, id string) error {
				projects, err := store.Projects().List(ctx)
				if err != nil {
					return err
				}
				for _, p := range projects {
					for _, item := range p.Checklist {
						if slices.Contains(item.EvidenceDocumentIDs, id) {
							return domain.NewValidation("document", "document %q is evidence for %s in project %q", id, item.StandardID, p.Name)
						}
					}
				}
				return nil
			},
		}, obs),
		Departments: NewCatalogService("department", store.Departments(), CatalogHooks[domain.Department]{
			ID:       func(d *domain.Department) string { return d.ID },
			SetID:    func(d *domain.Department, id string) { d.ID = id },
			Validate: requireName(func(d *domain.Department) string { return d.Name }),
			BeforeDelete: func(ctx context.Context, id string) error {
				users, err := store.Users().List(ctx)
				if err != nil {
					return err
				}
				for _, u := range users {
					if u.DepartmentID != nil && *u.DepartmentID == id {
						return domain.NewValidation("department", "department %q still has member %q", id, u.Name)
					}
				}
				return nil
			},
		}, obs),
		Trainings: NewCatalogService("training", store.Trainings(), CatalogHooks[domain.TrainingProgram]{
			ID:       func(t *domain.TrainingProgram) string { return t.ID },
			SetID:    func(t *domain.TrainingProgram, id string) { t.ID = id },
			Validate: requireName(func(t *domain.TrainingProgram) string { return t.Title }),
			BeforeDelete: func(ctx context.Context, id string) error {
				users, err := store.Users().List(ctx)
				if err != nil {
					return err
				}
				for _, u := range users {
					if u.FindAssignment(id) != nil {
						return domain.NewValidation("training", "training %q is assigned to %q", id, u.Name)
					}
				}
				return nil
			},
		}, obs),
		Risks: NewCatalogService("risk", store.Risks(), CatalogHooks[domain.Risk]{
			ID:       func(r *domain.Risk) string { return r.ID },
			SetID:    func(r *domain.Risk, id string) { r.ID = id },
			Validate: (*domain.Risk).Validate,
		}, obs),
		Competencies: NewCatalogService("competency", store.Competencies(), CatalogHooks[domain.Competency]{
			ID:       func(c *domain.Competency) string { return c.ID },
			SetID:    func(c *domain.Competency, id string) { c.ID = id },
			Validate: requireName(func(c *domain.Competency) string { return c.Name }),
		}, obs),
		Events: NewCatalogService("event", store.Events(), CatalogHooks[domain.CalendarEvent]{
			ID:       func(e *domain.CalendarEvent) string { return e.ID },
			SetID:    func(e *domain.CalendarEvent, id string) { e.ID = id },
			Validate: requireName(func(e *domain.CalendarEvent) string { return e.Title }),
		}, obs),
		Users:    NewUserService(store.Users(), store.Trainings(), store.Projects(), store.Competencies(), obs),
		Settings: NewSettingsService(store, obs),
	}
}

// checkSubStandardIDs rejects sub-standard ids that repeat within std or
// collide with another stored standard or its sub-standards.
func checkSubStandardIDs(std *domain.Standard, existing []*domain.Standard) error {
	taken := map[string]string{}
	for _, other := range existing {
		if other.ID == std.ID {
			continue
		}
		taken[other.ID] = other.ID
		for _, sub := range other.SubStandards {
			if sub.ID == std.ID {
				return domain.NewValidation("id", "id %q is already a sub-standard of %q", std.ID, other.ID)
			}
			taken[sub.ID] = other.ID
		}
	}
	seen := map[string]bool{std.ID: true}
	for _, sub := range std.SubStandards {
		if seen[sub.ID] {
			return domain.NewValidation("subStandards", "duplicate sub-standard id %q", sub.ID)
		}
		if owner, ok := taken[sub.ID]; ok {
			return domain.NewValidation("subStandards", "sub-standard id %q is already used by standard %q", sub.ID, owner)
		}
		seen[sub.ID] = true
	}
	return nil
}

func requireName[T any](name func(*T) string) func(*T) error {
	return func(v *T) error {
		if name(v) == "" {
			return domain.NewValidation("name", "name is required")
		}
		return nil
	}
}
