package service

import (
	"github.com/alexanderramin/accredit/internal/db"
	"github.com/alexanderramin/accredit/internal/repository"
)

// Services bundles every use case over one memory store. Data is nil when no
// snapshot database is configured.
type Services struct {
	Projects  ProjectService
	Checklist ChecklistService
	Status    StatusService
	Catalogs  *Catalogs
	Data      DataService
}

// NewServices wires the use cases over store. Pass a nil snapshots repo to
// run without persistence.
func NewServices(
	store *repository.MemoryStore,
	snapshots repository.SnapshotRepo,
	uow db.UnitOfWork,
	keep int,
	observers ...UseCaseObserver,
) *Services {
	obs := combineObservers(observers)
	svc := &Services{
		Projects:  NewProjectService(store.Projects(), store.Programs(), store.Standards(), store.Users(), store.Documents(), obs),
		Checklist: NewChecklistService(store.Projects(), store.Users(), store.Documents(), obs),
		Status:    NewStatusService(store.Projects(), store.Programs(), store.Users(), store.Risks(), obs),
		Catalogs:  NewCatalogs(store, obs),
	}
	if snapshots != nil && uow != nil {
		svc.Data = NewDataService(store, snapshots, uow, keep, obs)
	}
	return svc
}
