package service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/alexanderramin/accredit/internal/app"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/repository"
)

type statusService struct {
	projects repository.ProjectRepo
	programs repository.ProgramRepo
	users    repository.UserRepo
	risks    repository.Collection[domain.Risk]
	observer UseCaseObserver
}

func NewStatusService(
	projects repository.ProjectRepo,
	programs repository.ProgramRepo,
	users repository.UserRepo,
	risks repository.Collection[domain.Risk],
	observers ...UseCaseObserver,
) StatusService {
	return &statusService{
		projects: projects,
		programs: programs,
		users:    users,
		risks:    risks,
		observer: combineObservers(observers),
	}
}

func (s *statusService) GetStatus(ctx context.Context, req app.StatusRequest) (resp *app.StatusResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"scope": len(req.ProjectScope)}
	defer func() { observe(ctx, s.observer, "status", startedAt, fields, err) }()

	if req.DueWithinDays < 0 {
		return nil, domain.NewValidation("dueWithinDays", "must not be negative, got %d", req.DueWithinDays)
	}
	now := time.Now().UTC()
	if req.Now != nil {
		now = req.Now.UTC()
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	programNames := map[string]string{}
	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading programs: %w", err)
	}
	for _, p := range programs {
		programNames[p.ID] = p.Name
	}

	resp = &app.StatusResponse{
		Summary:  app.GlobalStatusSummary{GeneratedAt: now},
		Projects: []app.ProjectStatusView{},
		Overdue:  []app.OverdueItem{},
	}

	seen := map[string]bool{}
	for _, p := range projects {
		if len(req.ProjectScope) > 0 && !slices.Contains(req.ProjectScope, p.ID) {
			continue
		}
		seen[p.ID] = true
		if p.IsFinalized() && !req.IncludeFinalized {
			continue
		}
		view, overdue := buildProjectView(p, programNames[p.ProgramID], now, req.DueWithinDays)
		if view.ProgramName == "" {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("project %q references unknown program %q", p.Name, p.ProgramID))
		}
		resp.Projects = append(resp.Projects, view)
		resp.Overdue = append(resp.Overdue, overdue...)

		resp.Summary.CountsTotal++
		switch view.Readiness {
		case app.ReadinessReady:
			resp.Summary.CountsReady++
		case app.ReadinessOnTrack:
			resp.Summary.CountsOnTrack++
		case app.ReadinessAtRisk:
			resp.Summary.CountsAtRisk++
		default:
			resp.Summary.CountsCritical++
		}
	}
	for _, id := range req.ProjectScope {
		if !seen[id] {
			return nil, domain.NewNotFound("project", id)
		}
	}

	sort.SliceStable(resp.Projects, func(i, j int) bool {
		return resp.Projects[i].Breakdown.Percent < resp.Projects[j].Breakdown.Percent
	})
	sort.SliceStable(resp.Overdue, func(i, j int) bool {
		return resp.Overdue[i].DueDate.Before(resp.Overdue[j].DueDate)
	})

	risks, err := s.risks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading risks: %w", err)
	}
	for _, r := range risks {
		if r.Status == domain.RiskClosed {
			continue
		}
		resp.Summary.OpenRisks++
		if r.Level() == domain.CriticalityHigh {
			resp.Summary.HighRisks++
		}
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	for _, u := range users {
		resp.Summary.OverdueTrainings += len(u.Overdue(now))
	}

	fields["projects"] = resp.Summary.CountsTotal
	fields["overdue"] = len(resp.Overdue)
	return resp, nil
}

func buildProjectView(p *domain.Project, programName string, now time.Time, dueWithinDays int) (app.ProjectStatusView, []app.OverdueItem) {
	view := app.ProjectStatusView{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		ProgramName: programName,
		Status:      p.Status,
		Breakdown:   p.Breakdown(),
		EndDate:     p.EndDate,
	}
	view.Readiness = app.ReadinessFor(view.Breakdown.Percent)
	if p.EndDate != nil {
		days := daysBetween(now, *p.EndDate)
		view.DaysLeft = &days
	}
	for _, c := range p.CAPAReports {
		if c.Status == domain.CAPAOpen {
			view.OpenCAPAs++
		}
	}

	cutoff := now.AddDate(0, 0, dueWithinDays)
	var overdue []app.OverdueItem
	for _, item := range p.Checklist {
		if item.Status == domain.StatusCompliant || item.Status == domain.StatusNotApplicable {
			continue
		}
		if item.Status == domain.StatusNonCompliant && item.AssigneeID == nil {
			view.Unassigned++
		}
		if item.DueDate == nil || !item.DueDate.Before(cutoff) {
			continue
		}
		view.OverdueItems++
		overdue = append(overdue, app.OverdueItem{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			ItemID:      item.ID,
			Description: item.Description,
			Status:      item.Status,
			AssigneeID:  item.AssigneeID,
			DueDate:     *item.DueDate,
			DaysLate:    max(0, daysBetween(*item.DueDate, now)),
		})
	}
	return view, overdue
}

func daysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}
