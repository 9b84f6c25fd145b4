package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/service"
	"github.com/alexanderramin/accredit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataExport_Stdout(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "data", "export")
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Contains(t, payload, "projects")
	assert.Contains(t, payload, "standards")
}

func TestDataExportImport_RoundTrip(t *testing.T) {
	env := testApp(t)
	path := filepath.Join(t.TempDir(), "export.json")

	out, err := executeCmd(t, env.app, "data", "export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported dataset to "+path)

	// Change the live data, then import the export to undo it.
	_, err = executeCmd(t, env.app, "checklist", "set-status", "proj-jci-2026", "IPSG.2.1", "c")
	require.NoError(t, err)

	out, err = executeCmd(t, env.app, "data", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 projects")
	assert.Contains(t, out, "3 programs")
	assert.Equal(t, domain.StatusNonCompliant, env.item(t, "proj-jci-2026", "IPSG.2.1").Status)
	assert.Equal(t, 2, env.snapshotCount(t))
}

func TestDataImport_RejectsInvalidFile(t *testing.T) {
	env := testApp(t)
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"projects": [`), 0o644))

	_, err := executeCmd(t, env.app, "data", "import", path)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, domain.StatusNonCompliant, env.item(t, "proj-jci-2026", "IPSG.2.1").Status)
	assert.Zero(t, env.snapshotCount(t))
}

func TestSnapshotLifecycle(t *testing.T) {
	env := testApp(t)
	ctx := context.Background()

	_, err := executeCmd(t, env.app, "checklist", "set-status", "proj-jci-2026", "IPSG.2.1", "pc")
	require.NoError(t, err)
	_, err = executeCmd(t, env.app, "checklist", "set-status", "proj-jci-2026", "IPSG.2.1", "c")
	require.NoError(t, err)

	snaps, err := env.snapshots.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	newest, oldest := snaps[0], snaps[1]

	out, err := executeCmd(t, env.app, "snapshot", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "checklist set-status IPSG.2.1")
	assert.Contains(t, out, "Test Runner")

	out, err = executeCmd(t, env.app, "snapshot", "diff", oldest.ID, newest.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "added")
	assert.Contains(t, out, "removed")
	assert.Contains(t, out, "Compliant")

	out, err = executeCmd(t, env.app, "snapshot", "diff", newest.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "No differences.")

	out, err = executeCmd(t, env.app, "snapshot", "restore", oldest.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored snapshot "+oldest.ID)
	assert.Equal(t, domain.StatusPartiallyCompliant, env.item(t, "proj-jci-2026", "IPSG.2.1").Status)
	assert.Equal(t, 3, env.snapshotCount(t))

	out, err = executeCmd(t, env.app, "snapshot", "prune", "--keep", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2 snapshots")
	assert.Equal(t, 1, env.snapshotCount(t))
}

func TestSnapshotRestore_Unknown(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "snapshot", "restore", "no-such-snapshot")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestDataCommands_WithoutSnapshotStore(t *testing.T) {
	app := &App{Services: service.NewServices(testutil.NewSeededStore(t), nil, nil, 0)}

	for _, args := range [][]string{
		{"data", "export"},
		{"snapshot", "list"},
		{"snapshot", "prune"},
	} {
		_, err := executeCmd(t, app, args...)
		require.Error(t, err, args)
		assert.ErrorIs(t, err, errNoSnapshotStore)
	}

	// Mutations still work; they just are not persisted.
	out, err := executeCmd(t, app, "checklist", "set-status", "proj-jci-2026", "IPSG.2.1", "na")
	require.NoError(t, err)
	assert.Contains(t, out, "IPSG.2.1 is now NotApplicable")
}

func TestFormatCounts(t *testing.T) {
	assert.Equal(t, "1 projects, 4 users", formatCounts(map[string]int{"users": 4, "projects": 1}))
	assert.Empty(t, formatCounts(nil))
}
