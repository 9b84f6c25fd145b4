package api

import (
	"net/http"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
)

// projectResponse adds the derived progress to a project.
type projectResponse struct {
	*domain.Project
	Progress float64 `json:"progress"`
}

func newProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{Project: p, Progress: p.Progress()}
}

type createProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ProgramID   string     `json:"programId"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	ProjectLead *string    `json:"projectLead"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.Projects.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]projectResponse, len(projects))
	for i, p := range projects {
		out[i] = newProjectResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	draft := domain.ProjectDraft{
		Name:        req.Name,
		Description: req.Description,
		EndDate:     req.EndDate,
		ProjectLead: req.ProjectLead,
	}
	if req.StartDate != nil {
		draft.StartDate = *req.StartDate
	}
	p, err := s.svc.Projects.Create(r.Context(), draft, req.ProgramID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.persist(r, "api: create project "+p.Name)
	writeJSON(w, http.StatusCreated, newProjectResponse(p))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.GetByID(r.Context(), r.PathValue("project_id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProjectResponse(p))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("project_id")
	if err := s.svc.Projects.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.persist(r, "api: delete project "+id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFinalizeProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SignerName string `json:"signerName"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	p, err := s.svc.Projects.Finalize(r.Context(), r.PathValue("project_id"), req.SignerName)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.persist(r, "api: finalize "+p.Name)
	writeJSON(w, http.StatusOK, newProjectResponse(p))
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.Checklist.Progress(r.Context(), r.PathValue("project_id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
