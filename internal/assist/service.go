// Package assist drafts text for compliance work with a local language
// model: action plans for checklist items, translations and project
// summaries. Output is advisory text that callers may copy into a field.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/llm"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrExternalService wraps every failure of the model backend. There is no
// deterministic fallback; callers surface the error.
var ErrExternalService = errors.New("assist service unavailable")

// ProjectSummary is the structured answer of SummarizeProject.
type ProjectSummary struct {
	Headline        string   `json:"headline"`
	Strengths       []string `json:"strengths"`
	Gaps            []string `json:"gaps"`
	NextSteps       []string `json:"nextSteps"`
	ProgressPercent float64  `json:"progressPercent"`
}

type Service interface {
	SuggestActionPlan(ctx context.Context, item domain.ChecklistItem, standard *domain.Standard) (string, error)
	Translate(ctx context.Context, text, targetLang string) (string, error)
	SummarizeProject(ctx context.Context, project *domain.Project) (*ProjectSummary, error)
}

type service struct {
	client llm.LLMClient
}

func NewService(client llm.LLMClient) Service {
	return &service{client: client}
}

func (s *service) SuggestActionPlan(ctx context.Context, item domain.ChecklistItem, standard *domain.Standard) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Checklist item %s: %s\n", item.ID, item.Description)
	fmt.Fprintf(&b, "Current status: %s\n", item.Status)
	if standard != nil {
		fmt.Fprintf(&b, "Standard %s (%s, %s criticality): %s\n",
			standard.ID, standard.Chapter, standard.Criticality, standard.Description)
	}
	if item.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", item.Notes)
	}
	if item.ActionPlan != "" {
		fmt.Fprintf(&b, "Existing plan: %s\n", item.ActionPlan)
	}

	text, err := s.generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSuggest,
		SystemPrompt: suggestSystemPrompt,
		UserPrompt:   b.String(),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *service) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.NewValidation("text", "nothing to translate")
	}
	tag, err := language.Parse(targetLang)
	if err != nil {
		return "", domain.NewValidation("lang", "unknown language %q", targetLang)
	}
	name := display.English.Languages().Name(tag)

	out, err := s.generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskTranslate,
		SystemPrompt: fmt.Sprintf(translateSystemPrompt, name),
		UserPrompt:   text,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *service) SummarizeProject(ctx context.Context, project *domain.Project) (*ProjectSummary, error) {
	input := summaryInput{
		Name:      project.Name,
		Status:    project.Status,
		Breakdown: project.Breakdown(),
	}
	for _, item := range project.Checklist {
		if item.Status == domain.StatusCompliant || item.Status == domain.StatusNotApplicable {
			continue
		}
		input.OpenItems = append(input.OpenItems, openItem{
			ID:          item.ID,
			Description: item.Description,
			Status:      item.Status,
			Assigned:    item.AssigneeID != nil,
			ActionPlan:  item.ActionPlan,
		})
	}
	data, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding summary input: %w", err)
	}

	text, err := s.generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSummarize,
		SystemPrompt: summarizeSystemPrompt,
		UserPrompt:   string(data),
		JSON:         true,
	})
	if err != nil {
		return nil, err
	}
	summary, err := llm.ExtractJSON(text, validateSummary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	// The model only narrates; the number always comes from the checklist.
	summary.ProgressPercent = input.Breakdown.Percent
	return &summary, nil
}

func (s *service) generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	resp, err := s.client.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", fmt.Errorf("%w: empty response", ErrExternalService)
	}
	return resp.Text, nil
}

type summaryInput struct {
	Name      string                   `json:"name"`
	Status    domain.ProjectStatus     `json:"status"`
	Breakdown domain.ProgressBreakdown `json:"breakdown"`
	OpenItems []openItem               `json:"openItems"`
}

type openItem struct {
	ID          string                  `json:"id"`
	Description string                  `json:"description"`
	Status      domain.ComplianceStatus `json:"status"`
	Assigned    bool                    `json:"assigned"`
	ActionPlan  string                  `json:"actionPlan,omitempty"`
}

func validateSummary(s ProjectSummary) error {
	if strings.TrimSpace(s.Headline) == "" {
		return errors.New("headline is required")
	}
	return nil
}
