package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/accredit/internal/db"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/repository"
	"github.com/alexanderramin/accredit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newSnapshot(id string, at time.Time, payload string) *domain.Snapshot {
	return &domain.Snapshot{
		ID:        id,
		CreatedAt: at,
		Reason:    "test " + id,
		Actor:     "tester",
		Checksum:  "sum-" + id,
		Payload:   []byte(payload),
	}
}

func TestSnapshotRepo_SaveAndGetByID(t *testing.T) {
	repo := repository.NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newSnapshot("s1", baseTime, `{"version":1}`)))

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.True(t, baseTime.Equal(got.CreatedAt))
	assert.Equal(t, "test s1", got.Reason)
	assert.Equal(t, "tester", got.Actor)
	assert.Equal(t, "sum-s1", got.Checksum)
	assert.Equal(t, `{"version":1}`, string(got.Payload))
}

func TestSnapshotRepo_GetByID_NotFound(t *testing.T) {
	repo := repository.NewSQLiteSnapshotRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotRepo_Latest(t *testing.T) {
	repo := repository.NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound, "empty table")

	require.NoError(t, repo.Save(ctx, newSnapshot("old", baseTime, "{}")))
	require.NoError(t, repo.Save(ctx, newSnapshot("new", baseTime.Add(time.Millisecond), "{}")))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.ID)
}

func TestSnapshotRepo_LatestSameTimestampUsesInsertOrder(t *testing.T) {
	repo := repository.NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newSnapshot("first", baseTime, "{}")))
	require.NoError(t, repo.Save(ctx, newSnapshot("second", baseTime, "{}")))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got.ID)
}

func TestSnapshotRepo_List(t *testing.T) {
	repo := repository.NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, newSnapshot(id, baseTime.Add(time.Duration(i)*time.Minute), "12345")))
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID, "newest first")
	assert.Equal(t, 5, all[0].Size)

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSnapshotRepo_Prune(t *testing.T) {
	repo := repository.NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		require.NoError(t, repo.Save(ctx, newSnapshot(id, baseTime.Add(time.Duration(i)*time.Minute), "{}")))
	}

	removed, err := repo.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	left, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, "e", left[0].ID)
	assert.Equal(t, "d", left[1].ID)

	_, err = repo.Prune(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSnapshotRepo_WithinTxRollback(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.ExecFaultUoW{DB: database, FailOn: 2, Err: assert.AnError}
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSnapshotRepo(tx)
		if err := repo.Save(ctx, newSnapshot("s1", baseTime, "{}")); err != nil {
			return err
		}
		return repo.Save(ctx, newSnapshot("s2", baseTime, "{}"))
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Len(t, uow.Execs(), 2)

	_, err = repository.NewSQLiteSnapshotRepo(database).GetByID(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "first insert rolled back")
}
