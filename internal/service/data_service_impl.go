package service

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/accredit/internal/dataset"
	"github.com/alexanderramin/accredit/internal/db"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/repository"
	"github.com/google/uuid"
)

// DefaultSnapshotKeep is how many snapshots Persist retains.
const DefaultSnapshotKeep = 50

const diffContext = 3

type dataService struct {
	store     repository.DatasetStore
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
	keep      int
	observer  UseCaseObserver
}

// NewDataService wires export, import and snapshot persistence. Writes to the
// snapshot table go through uow; snapshots serves the read side.
func NewDataService(
	store repository.DatasetStore,
	snapshots repository.SnapshotRepo,
	uow db.UnitOfWork,
	keep int,
	observers ...UseCaseObserver,
) DataService {
	if keep < 1 {
		keep = DefaultSnapshotKeep
	}
	return &dataService{
		store:     store,
		snapshots: snapshots,
		uow:       uow,
		keep:      keep,
		observer:  combineObservers(observers),
	}
}

func (s *dataService) Export(ctx context.Context, w io.Writer) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "export", startedAt, nil, err) }()

	ds, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	return ds.Encode(w)
}

func (s *dataService) ExportFile(ctx context.Context, path string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "export-file", startedAt, map[string]any{"path": path}, err) }()

	ds, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	return dataset.WriteFile(path, ds)
}

// Import replaces the whole working set. Nothing is touched unless the
// payload decodes and passes validation.
func (s *dataService) Import(ctx context.Context, r io.Reader) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "import", startedAt, fields, err) }()

	ds, err := dataset.Decode(r)
	if err != nil {
		return nil, domain.NewValidation("dataset", "%v", err)
	}
	if err = dataset.Check(ds); err != nil {
		return nil, err
	}
	if err = s.store.Replace(ctx, ds); err != nil {
		return nil, err
	}
	counts := ds.Counts()
	fields["projects"] = counts["projects"]
	return &ImportResult{Counts: counts}, nil
}

func (s *dataService) Persist(ctx context.Context, reason string) (info *domain.SnapshotInfo, saved bool, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"reason": reason}
	defer func() { observe(ctx, s.observer, "persist", startedAt, fields, err) }()

	ds, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	// A snapshot that fails Check could never be loaded again.
	if err := dataset.Check(ds); err != nil {
		return nil, false, fmt.Errorf("refusing to persist: %w", err)
	}
	payload, err := ds.Canonical()
	if err != nil {
		return nil, false, err
	}
	checksum := dataset.ChecksumBytes(payload)

	latest, err := s.snapshots.Latest(ctx)
	switch {
	case err == nil && latest.Checksum == checksum:
		fields["unchanged"] = true
		out := latest.Info()
		return &out, false, nil
	case err != nil && !domain.IsNotFound(err):
		return nil, false, err
	}

	snap := &domain.Snapshot{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Reason:    reason,
		Actor:     domain.ActorFrom(ctx),
		Checksum:  checksum,
		Payload:   payload,
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSnapshotRepo(tx)
		if err := repo.Save(ctx, snap); err != nil {
			return err
		}
		pruned, err := repo.Prune(ctx, s.keep)
		if err != nil {
			return err
		}
		fields["pruned"] = pruned
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("persisting snapshot: %w", err)
	}
	fields["snapshot"] = snap.ID
	out := snap.Info()
	return &out, true, nil
}

func (s *dataService) LoadLatest(ctx context.Context) (info *domain.SnapshotInfo, err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "load-latest", startedAt, nil, err) }()

	snap, err := s.snapshots.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if err = s.load(ctx, snap); err != nil {
		return nil, err
	}
	out := snap.Info()
	return &out, nil
}

// Restore loads an older snapshot and records the restore as a new snapshot.
func (s *dataService) Restore(ctx context.Context, snapshotID string) (info *domain.SnapshotInfo, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"snapshot": snapshotID}
	defer func() { observe(ctx, s.observer, "restore", startedAt, fields, err) }()

	snap, err := s.snapshots.GetByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	if err = s.load(ctx, snap); err != nil {
		return nil, err
	}
	if _, _, err = s.Persist(ctx, "restore "+snapshotID); err != nil {
		return nil, err
	}
	out := snap.Info()
	return &out, nil
}

func (s *dataService) ListSnapshots(ctx context.Context, limit int) ([]domain.SnapshotInfo, error) {
	return s.snapshots.List(ctx, limit)
}

func (s *dataService) DiffSnapshots(ctx context.Context, fromID, toID string) (diff dataset.Diff, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"from": fromID, "to": cmp.Or(toID, "current")}
	defer func() { observe(ctx, s.observer, "diff-snapshots", startedAt, fields, err) }()

	from, err := s.snapshots.GetByID(ctx, fromID)
	if err != nil {
		return dataset.Diff{}, err
	}
	var toPayload []byte
	if toID == "" {
		ds, err := s.store.Snapshot(ctx)
		if err != nil {
			return dataset.Diff{}, err
		}
		if toPayload, err = ds.Canonical(); err != nil {
			return dataset.Diff{}, err
		}
	} else {
		to, err := s.snapshots.GetByID(ctx, toID)
		if err != nil {
			return dataset.Diff{}, err
		}
		toPayload = to.Payload
	}

	before, err := dataset.Pretty(from.Payload)
	if err != nil {
		return dataset.Diff{}, err
	}
	after, err := dataset.Pretty(toPayload)
	if err != nil {
		return dataset.Diff{}, err
	}
	diff = dataset.DiffLines(string(before), string(after), diffContext)
	fields["added"] = diff.Added
	fields["removed"] = diff.Removed
	return diff, nil
}

func (s *dataService) PruneSnapshots(ctx context.Context, keep int) (removed int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"keep": keep}
	defer func() { observe(ctx, s.observer, "prune-snapshots", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLiteSnapshotRepo(tx).Prune(ctx, keep)
		removed = n
		return err
	})
	fields["removed"] = removed
	return removed, err
}

func (s *dataService) load(ctx context.Context, snap *domain.Snapshot) error {
	if dataset.ChecksumBytes(snap.Payload) != snap.Checksum {
		return fmt.Errorf("snapshot %s: checksum mismatch", snap.ID)
	}
	ds, err := dataset.DecodeBytes(snap.Payload)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	if err := dataset.Check(ds); err != nil {
		return fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	return s.store.Replace(ctx, ds)
}
