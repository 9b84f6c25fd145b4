// Package api serves the accreditation dataset as a small JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/accredit/internal/app"
	"github.com/alexanderramin/accredit/internal/assist"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/service"
)

// Server exposes the use cases over HTTP. When svc.Data is nil, writes are
// not persisted and export is unavailable.
type Server struct {
	router *http.ServeMux
	svc    *service.Services
	logger *slog.Logger
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func NewServer(svc *service.Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{router: http.NewServeMux(), svc: svc, logger: logger}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("GET /healthz", s.handleHealthCheck)

	s.router.HandleFunc("GET /api/v1/projects", s.handleListProjects)
	s.router.HandleFunc("POST /api/v1/projects", s.handleCreateProject)
	s.router.HandleFunc("GET /api/v1/projects/{project_id}", s.handleGetProject)
	s.router.HandleFunc("DELETE /api/v1/projects/{project_id}", s.handleDeleteProject)
	s.router.HandleFunc("POST /api/v1/projects/{project_id}/finalize", s.handleFinalizeProject)
	s.router.HandleFunc("GET /api/v1/projects/{project_id}/progress", s.handleGetProgress)

	s.router.HandleFunc("GET /api/v1/projects/{project_id}/checklist", s.handleListChecklist)
	s.router.HandleFunc("GET /api/v1/projects/{project_id}/checklist/{item_id}", s.handleGetItem)
	s.router.HandleFunc("PATCH /api/v1/projects/{project_id}/checklist/{item_id}", s.handleUpdateItem)
	s.router.HandleFunc("POST /api/v1/projects/{project_id}/checklist/{item_id}/comments", s.handleAddComment)
	s.router.HandleFunc("POST /api/v1/projects/{project_id}/checklist/{item_id}/evidence", s.handleAttachEvidence)

	s.router.HandleFunc("GET /api/v1/status", s.handleStatus)
	s.router.HandleFunc("GET /api/v1/programs", listHandler(s, func(ctx context.Context) (any, error) { return s.svc.Catalogs.Programs.List(ctx) }))
	s.router.HandleFunc("GET /api/v1/standards", s.handleListStandards)
	s.router.HandleFunc("GET /api/v1/users", listHandler(s, func(ctx context.Context) (any, error) { return s.svc.Catalogs.Users.List(ctx) }))
	s.router.HandleFunc("GET /api/v1/documents", listHandler(s, func(ctx context.Context) (any, error) { return s.svc.Catalogs.Documents.List(ctx) }))
	s.router.HandleFunc("GET /api/v1/risks", listHandler(s, func(ctx context.Context) (any, error) { return s.svc.Catalogs.Risks.List(ctx) }))
	s.router.HandleFunc("GET /api/v1/export", s.handleExport)
}

// ServeHTTP attaches the X-Actor header to the request context and logs
// each request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if actor := strings.TrimSpace(r.Header.Get("X-Actor")); actor != "" {
		r = r.WithContext(domain.WithActor(r.Context(), actor))
	}
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.router.ServeHTTP(rec, r)
	s.logger.InfoContext(r.Context(), "http_request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: message, Code: statusCode})
}

// writeServiceError maps domain errors onto HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsNotFound(err):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case domain.IsValidation(err):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, assist.ErrExternalService):
		writeJSONError(w, err.Error(), http.StatusBadGateway)
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSONError(w, "internal error", http.StatusInternalServerError)
	}
}

// persist snapshots the dataset after a successful write. Failures are logged
// rather than returned since the change itself already happened.
func (s *Server) persist(r *http.Request, reason string) {
	if s.svc.Data == nil {
		return
	}
	if _, _, err := s.svc.Data.Persist(r.Context(), reason); err != nil {
		s.logger.ErrorContext(r.Context(), "persist failed", "reason", reason, "error", err)
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.NewValidation("body", "invalid request body: %v", err)
	}
	return nil
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func listHandler(s *Server, list func(ctx context.Context) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := list(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) handleListStandards(w http.ResponseWriter, r *http.Request) {
	standards, err := s.svc.Catalogs.Standards.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if program := r.URL.Query().Get("program"); program != "" {
		filtered := standards[:0]
		for _, std := range standards {
			if std.ProgramID == program {
				filtered = append(filtered, std)
			}
		}
		standards = filtered
	}
	writeJSON(w, http.StatusOK, standards)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	req := app.NewStatusRequest()
	q := r.URL.Query()
	if v := q.Get("project"); v != "" {
		req.ProjectScope = strings.Split(v, ",")
	}
	if v := q.Get("dueWithin"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSONError(w, "dueWithin must be an integer", http.StatusBadRequest)
			return
		}
		req.DueWithinDays = n
	}
	if v := q.Get("includeFinalized"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSONError(w, "includeFinalized must be a boolean", http.StatusBadRequest)
			return
		}
		req.IncludeFinalized = b
	}
	resp, err := s.svc.Status.GetStatus(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.svc.Data == nil {
		writeJSONError(w, "export is not configured", http.StatusNotImplemented)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="accredit-export.json"`)
	if err := s.svc.Data.Export(r.Context(), w); err != nil {
		s.logger.ErrorContext(r.Context(), "export failed", "error", err)
	}
}
