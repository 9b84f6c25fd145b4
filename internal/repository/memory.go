package repository

import (
	"context"
	"sync"

	"github.com/alexanderramin/accredit/internal/dataset"
	"github.com/alexanderramin/accredit/internal/domain"
)

// MemoryStore holds the working dataset in memory. It is constructed once at
// start-up and handed to services explicitly; there is no package-level
// instance. All collections share one RWMutex so Snapshot sees a consistent
// view across them.
type MemoryStore struct {
	mu       sync.RWMutex
	settings domain.AppSettings

	programs     *memCollection[domain.AccreditationProgram, *domain.AccreditationProgram]
	standards    *memStandards
	projects     *memCollection[domain.Project, *domain.Project]
	users        *memCollection[domain.User, *domain.User]
	documents    *memCollection[domain.Document, *domain.Document]
	departments  *memCollection[domain.Department, *domain.Department]
	trainings    *memCollection[domain.TrainingProgram, *domain.TrainingProgram]
	risks        *memCollection[domain.Risk, *domain.Risk]
	competencies *memCollection[domain.Competency, *domain.Competency]
	events       *memCollection[domain.CalendarEvent, *domain.CalendarEvent]
}

// NewMemoryStore returns a store loaded with a copy of ds. A nil dataset
// yields an empty store.
func NewMemoryStore(ds *dataset.Dataset) *MemoryStore {
	s := &MemoryStore{}
	s.programs = newMemCollection[domain.AccreditationProgram, *domain.AccreditationProgram](&s.mu, "program")
	s.standards = &memStandards{newMemCollection[domain.Standard, *domain.Standard](&s.mu, "standard")}
	s.projects = newMemCollection[domain.Project, *domain.Project](&s.mu, "project")
	s.users = newMemCollection[domain.User, *domain.User](&s.mu, "user")
	s.documents = newMemCollection[domain.Document, *domain.Document](&s.mu, "document")
	s.departments = newMemCollection[domain.Department, *domain.Department](&s.mu, "department")
	s.trainings = newMemCollection[domain.TrainingProgram, *domain.TrainingProgram](&s.mu, "training program")
	s.risks = newMemCollection[domain.Risk, *domain.Risk](&s.mu, "risk")
	s.competencies = newMemCollection[domain.Competency, *domain.Competency](&s.mu, "competency")
	s.events = newMemCollection[domain.CalendarEvent, *domain.CalendarEvent](&s.mu, "calendar event")

	if ds == nil {
		ds = dataset.Empty()
	}
	s.load(ds)
	return s
}

func (s *MemoryStore) Programs() ProgramRepo  { return s.programs }
func (s *MemoryStore) Standards() StandardRepo { return s.standards }
func (s *MemoryStore) Projects() ProjectRepo   { return s.projects }
func (s *MemoryStore) Users() UserRepo         { return s.users }
func (s *MemoryStore) Documents() DocumentRepo { return s.documents }

func (s *MemoryStore) Departments() Collection[domain.Department] { return s.departments }

func (s *MemoryStore) Trainings() Collection[domain.TrainingProgram] { return s.trainings }

func (s *MemoryStore) Risks() Collection[domain.Risk] { return s.risks }

func (s *MemoryStore) Competencies() Collection[domain.Competency] { return s.competencies }

func (s *MemoryStore) Events() Collection[domain.CalendarEvent] { return s.events }

func (s *MemoryStore) Settings(_ context.Context) (domain.AppSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *MemoryStore) SaveSettings(_ context.Context, settings domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

// Snapshot returns a deep copy of every collection.
func (s *MemoryStore) Snapshot(_ context.Context) (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &dataset.Dataset{
		Version:      dataset.FormatVersion,
		Settings:     s.settings,
		Programs:     s.programs.cloneItems(),
		Standards:    s.standards.cloneItems(),
		Projects:     s.projects.cloneItems(),
		Users:        s.users.cloneItems(),
		Documents:    s.documents.cloneItems(),
		Departments:  s.departments.cloneItems(),
		Trainings:    s.trainings.cloneItems(),
		Risks:        s.risks.cloneItems(),
		Competencies: s.competencies.cloneItems(),
		Events:       s.events.cloneItems(),
	}, nil
}

// Replace swaps the whole dataset atomically. Callers validate first.
func (s *MemoryStore) Replace(_ context.Context, ds *dataset.Dataset) error {
	s.load(ds)
	return nil
}

func (s *MemoryStore) load(ds *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = ds.Settings
	s.programs.replace(ds.Programs)
	s.standards.replace(ds.Standards)
	s.projects.replace(ds.Projects)
	s.users.replace(ds.Users)
	s.documents.replace(ds.Documents)
	s.departments.replace(ds.Departments)
	s.trainings.replace(ds.Trainings)
	s.risks.replace(ds.Risks)
	s.competencies.replace(ds.Competencies)
	s.events.replace(ds.Events)
}

type memStandards struct {
	*memCollection[domain.Standard, *domain.Standard]
}

func (m *memStandards) ListByProgram(_ context.Context, programID string) ([]*domain.Standard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Standard
	for _, std := range m.items {
		if std.ProgramID == programID {
			out = append(out, std.Clone())
		}
	}
	return out, nil
}

var (
	_ SettingsRepo = (*MemoryStore)(nil)
	_ DatasetStore = (*MemoryStore)(nil)
)
