package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/accredit/internal/app"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/repository"
	"github.com/alexanderramin/accredit/internal/service"
	"github.com/alexanderramin/accredit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	server    *Server
	store     *repository.MemoryStore
	snapshots *repository.SQLiteSnapshotRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := testutil.NewSeededStore(t)
	database := testutil.NewTestDB(t)
	snapshots := repository.NewSQLiteSnapshotRepo(database)
	svc := service.NewServices(store, snapshots, testutil.NewTestUoW(database), 10)
	return &testServer{server: NewServer(svc, nil), store: store, snapshots: snapshots}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.server.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListProjects_IncludesProgress(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/v1/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)

	projects := decode[[]struct {
		ID       string  `json:"id"`
		Progress float64 `json:"progress"`
	}](t, w)
	got := map[string]float64{}
	for _, p := range projects {
		got[p.ID] = p.Progress
	}
	assert.InDelta(t, 62.5, got["proj-jci-2026"], 0.001)
	assert.InDelta(t, 83.33, got["proj-cbahi-2025"], 0.01)
}

func TestGetProject(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"Existing", "/api/v1/projects/proj-jci-2026", http.StatusOK},
		{"Unknown", "/api/v1/projects/proj-nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.code, w.Code)
			if tt.code != http.StatusOK {
				resp := decode[ErrorResponse](t, w)
				assert.Equal(t, tt.code, resp.Code)
				assert.Contains(t, resp.Error, "proj-nope")
			}
		})
	}
}

func TestCreateProject(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/projects", map[string]any{
		"name":      "DNV 2027",
		"programId": "prog-dnv",
		"startDate": "2026-11-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Project](t, w)
	require.Len(t, created.Checklist, 1)
	assert.Equal(t, "QM.1", created.Checklist[0].ID)
	assert.Equal(t, domain.StatusNonCompliant, created.Checklist[0].Status)

	snaps, err := ts.snapshots.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Contains(t, snaps[0].Reason, "DNV 2027")
}

func TestCreateProject_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body any
		code int
	}{
		{"Unknown Program", map[string]any{"name": "X", "programId": "prog-nope"}, http.StatusNotFound},
		{"Missing Name", map[string]any{"programId": "prog-jci"}, http.StatusBadRequest},
		{"Unknown Field", map[string]any{"name": "X", "programId": "prog-jci", "owner": "me"}, http.StatusBadRequest},
		{"Malformed", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/v1/projects", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestUpdateItem_AppliesFieldsAndLogsActor(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPatch, "/api/v1/projects/proj-jci-2026/checklist/IPSG.2.1", map[string]any{
		"status":     "Compliant",
		"assignedTo": nil,
		"notes":      "verified on ward 3",
	}, "X-Actor", "Sara Mendes")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	item := decode[domain.ChecklistItem](t, w)
	assert.Equal(t, domain.StatusCompliant, item.Status)
	assert.Nil(t, item.AssigneeID)
	assert.Equal(t, "verified on ward 3", item.Notes)

	p, err := ts.store.Projects().Get(context.Background(), "proj-jci-2026")
	require.NoError(t, err)
	assert.InDelta(t, 75.0, p.Progress(), 0.001)
	last := p.ActivityLog[len(p.ActivityLog)-1]
	assert.Equal(t, "Sara Mendes", last.UserName)
}

func TestUpdateItem_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		path string
		body any
		code int
	}{
		{"Unknown Item", "/api/v1/projects/proj-jci-2026/checklist/NOPE.1", map[string]any{"status": "Compliant"}, http.StatusNotFound},
		{"Unknown Project", "/api/v1/projects/proj-nope/checklist/IPSG.2.1", map[string]any{"status": "Compliant"}, http.StatusNotFound},
		{"Bad Status", "/api/v1/projects/proj-jci-2026/checklist/IPSG.2.1", map[string]any{"status": "Done"}, http.StatusBadRequest},
		{"Unknown Field", "/api/v1/projects/proj-jci-2026/checklist/IPSG.2.1", map[string]any{"owner": "x"}, http.StatusBadRequest},
		{"Empty Body", "/api/v1/projects/proj-jci-2026/checklist/IPSG.2.1", map[string]any{}, http.StatusBadRequest},
		{"Unknown Assignee", "/api/v1/projects/proj-jci-2026/checklist/IPSG.2.1", map[string]any{"assignedTo": "user-999"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}

	item, err := ts.store.Projects().Get(context.Background(), "proj-jci-2026")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNonCompliant, item.FindItem("IPSG.2.1").Status)
}

func TestParseItemUpdate_KeepsFieldOrder(t *testing.T) {
	body := map[string]json.RawMessage{
		"notes":   json.RawMessage(`"n"`),
		"status":  json.RawMessage(`"na"`),
		"dueDate": json.RawMessage(`null`),
	}
	cmds, err := parseItemUpdate(body)
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, domain.SetStatus{Status: domain.StatusNotApplicable}, cmds[0])
	assert.Equal(t, domain.SetDueDate{}, cmds[1])
	assert.Equal(t, domain.SetNotes{Text: "n"}, cmds[2])
}

func TestAddComment(t *testing.T) {
	ts := newTestServer(t)
	path := "/api/v1/projects/proj-jci-2026/checklist/IPSG.4/comments"

	w := ts.do(t, http.MethodPost, path, map[string]any{"text": "Audit booked", "userId": "user-2", "userName": "Dr. Layla Hassan"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c := decode[domain.Comment](t, w)
	assert.Equal(t, "Audit booked", c.Text)
	assert.NotEmpty(t, c.ID)

	w = ts.do(t, http.MethodPost, path, map[string]any{"text": "   ", "userId": "user-2", "userName": "Dr. Layla Hassan"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttachEvidence(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/projects/proj-jci-2026/checklist/IPSG.4/evidence",
		map[string]any{"name": "audit.pdf", "type": "application/pdf", "size": 2048})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	doc := decode[domain.Document](t, w)

	item, err := ts.store.Projects().Get(context.Background(), "proj-jci-2026")
	require.NoError(t, err)
	assert.Contains(t, item.FindItem("IPSG.4").EvidenceDocumentIDs, doc.ID)
}

func TestFinalizeProject(t *testing.T) {
	ts := newTestServer(t)
	path := "/api/v1/projects/proj-jci-2026/finalize"

	w := ts.do(t, http.MethodPost, path, map[string]any{"signerName": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, path, map[string]any{"signerName": "Dr. Layla Hassan"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p := decode[domain.Project](t, w)
	assert.Equal(t, domain.ProjectFinalized, p.Status)
	require.NotNil(t, p.FinalizedBy)
	assert.Equal(t, "Dr. Layla Hassan", *p.FinalizedBy)
}

func TestDeleteProject(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodDelete, "/api/v1/projects/proj-cbahi-2025", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/projects/proj-cbahi-2025", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChecklist_FilterByStatus(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/projects/proj-jci-2026/checklist?status=nc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]domain.ChecklistItem](t, w)
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	assert.Equal(t, []string{"IPSG.2.1", "MMU.4.1"}, ids)

	w = ts.do(t, http.MethodGet, "/api/v1/projects/proj-jci-2026/checklist?status=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProgress(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/projects/proj-jci-2026/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	b := decode[domain.ProgressBreakdown](t, w)
	assert.Equal(t, 9, b.Total)
	assert.Equal(t, 1, b.NotApplicable)
	assert.InDelta(t, 62.5, b.Percent, 0.001)
}

func TestStatus(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/status?project=proj-jci-2026", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[app.StatusResponse](t, w)
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, "proj-jci-2026", resp.Projects[0].ProjectID)

	w = ts.do(t, http.MethodGet, "/api/v1/status?dueWithin=soon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = ts.do(t, http.MethodGet, "/api/v1/status?dueWithin=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStandards_FilterByProgram(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/standards?program=prog-dnv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	standards := decode[[]domain.Standard](t, w)
	require.Len(t, standards, 1)
	assert.Equal(t, "QM.1", standards[0].ID)
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "accredit-export.json")
	assert.Contains(t, w.Body.String(), "proj-jci-2026")
}

func TestExport_WithoutDataService(t *testing.T) {
	store := testutil.NewSeededStore(t)
	srv := NewServer(service.NewServices(store, nil, nil, 0), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
