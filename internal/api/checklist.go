package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
)

func (s *Server) handleListChecklist(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Checklist.List(r.Context(), r.PathValue("project_id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if status := r.URL.Query().Get("status"); status != "" {
		want, err := domain.ParseComplianceStatus(status)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		filtered := items[:0]
		for _, item := range items {
			if item.Status == want {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.svc.Checklist.GetItem(r.Context(), r.PathValue("project_id"), r.PathValue("item_id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// itemUpdateFields lists the PATCH keys in the order their commands apply.
var itemUpdateFields = []string{"status", "assignedTo", "actionPlan", "dueDate", "notes", "linkedResourceIds"}

// parseItemUpdate turns a PATCH body into update commands. Only keys present
// in the body produce a command; an explicit null clears assignedTo and
// dueDate.
func parseItemUpdate(body map[string]json.RawMessage) ([]domain.ChecklistUpdate, error) {
	known := map[string]bool{}
	for _, f := range itemUpdateFields {
		known[f] = true
	}
	for k := range body {
		if !known[k] {
			return nil, domain.NewValidation(k, "unknown field")
		}
	}

	var cmds []domain.ChecklistUpdate
	for _, field := range itemUpdateFields {
		raw, ok := body[field]
		if !ok {
			continue
		}
		cmd, err := decodeUpdate(field, raw)
		if err != nil {
			return nil, domain.NewValidation(field, "%v", err)
		}
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil, domain.NewValidation("body", "no fields to update")
	}
	return cmds, nil
}

func decodeUpdate(field string, raw json.RawMessage) (domain.ChecklistUpdate, error) {
	switch field {
	case "status":
		var st domain.ComplianceStatus
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, err
		}
		return domain.SetStatus{Status: st}, nil
	case "assignedTo":
		var id *string
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, err
		}
		return domain.SetAssignee{UserID: id}, nil
	case "actionPlan":
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		return domain.SetActionPlan{Text: text}, nil
	case "dueDate":
		var due *time.Time
		if err := json.Unmarshal(raw, &due); err != nil {
			return nil, err
		}
		return domain.SetDueDate{Date: due}, nil
	case "notes":
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		return domain.SetNotes{Text: text}, nil
	case "linkedResourceIds":
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, err
		}
		return domain.LinkResources{IDs: ids}, nil
	}
	return nil, fmt.Errorf("unsupported field %q", field)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	cmds, err := parseItemUpdate(body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	projectID, itemID := r.PathValue("project_id"), r.PathValue("item_id")
	item, err := s.svc.Checklist.UpdateItem(r.Context(), projectID, itemID, cmds...)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.persist(r, "api: update "+itemID)
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		UserID   string `json:"userId"`
		UserName string `json:"userName"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	itemID := r.PathValue("item_id")
	c, err := s.svc.Checklist.AddComment(r.Context(), r.PathValue("project_id"), itemID, req.Text,
		domain.Author{UserID: req.UserID, Name: req.UserName})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.persist(r, "api: comment on "+itemID)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleAttachEvidence(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
		Size int64  `json:"size"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	itemID := r.PathValue("item_id")
	doc, err := s.svc.Checklist.AttachEvidence(r.Context(), r.PathValue("project_id"), itemID,
		domain.FileDescriptor{Name: req.Name, Type: req.Type, Size: req.Size})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.persist(r, "api: evidence for "+itemID)
	writeJSON(w, http.StatusCreated, doc)
}
