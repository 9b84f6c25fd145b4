package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/repository"
)

type userService struct {
	CatalogService[domain.User]
	users        repository.UserRepo
	trainings    repository.Collection[domain.TrainingProgram]
	projects     repository.ProjectRepo
	competencies repository.Collection[domain.Competency]
	observer     UseCaseObserver
}

func NewUserService(
	users repository.UserRepo,
	trainings repository.Collection[domain.TrainingProgram],
	projects repository.ProjectRepo,
	competencies repository.Collection[domain.Competency],
	observers ...UseCaseObserver,
) UserService {
	obs := combineObservers(observers)
	s := &userService{
		users:        users,
		trainings:    trainings,
		projects:     projects,
		competencies: competencies,
		observer:     obs,
	}
	s.CatalogService = NewCatalogService("user", users, CatalogHooks[domain.User]{
		ID:           func(u *domain.User) string { return u.ID },
		SetID:        func(u *domain.User, id string) { u.ID = id },
		Validate:     (*domain.User).Validate,
		BeforeDelete: s.userInUse,
	}, obs)
	return s
}

// userInUse refuses to delete a user who still leads a project, is assigned
// checklist items or holds competencies.
func (s *userService) userInUse(ctx context.Context, id string) error {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if p.ProjectLead != nil && *p.ProjectLead == id {
			return domain.NewValidation("user", "user %q leads project %q", id, p.Name)
		}
		for _, item := range p.Checklist {
			if item.AssigneeID != nil && *item.AssigneeID == id {
				return domain.NewValidation("user", "user %q is assigned to %s in project %q", id, item.StandardID, p.Name)
			}
		}
	}
	competencies, err := s.competencies.List(ctx)
	if err != nil {
		return fmt.Errorf("listing competencies: %w", err)
	}
	for _, c := range competencies {
		if c.UserID == id {
			return domain.NewValidation("user", "user %q still holds competency %q", id, c.Name)
		}
	}
	return nil
}

func (s *userService) AssignTraining(ctx context.Context, userID, trainingID string, due time.Time) (user *domain.User, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user": userID, "training": trainingID}
	defer func() { observe(ctx, s.observer, "assign-training", startedAt, fields, err) }()

	if _, err = s.trainings.Get(ctx, trainingID); err != nil {
		return nil, err
	}
	return s.users.Modify(ctx, userID, func(u *domain.User) error {
		if u.FindAssignment(trainingID) != nil {
			return domain.NewValidation("trainingId", "training %q is already assigned to %s", trainingID, u.Name)
		}
		u.TrainingAssignments = append(u.TrainingAssignments, domain.TrainingAssignment{
			TrainingID: trainingID,
			DueDate:    due,
		})
		return nil
	})
}

func (s *userService) CompleteTraining(ctx context.Context, userID, trainingID string, score *int) (user *domain.User, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user": userID, "training": trainingID}
	defer func() { observe(ctx, s.observer, "complete-training", startedAt, fields, err) }()

	if score != nil && (*score < 0 || *score > 100) {
		return nil, domain.NewValidation("score", "must be between 0 and 100, got %d", *score)
	}
	return s.users.Modify(ctx, userID, func(u *domain.User) error {
		a := u.FindAssignment(trainingID)
		if a == nil {
			return domain.NewNotFound("training assignment", trainingID)
		}
		now := time.Now().UTC()
		a.CompletedAt = &now
		a.Score = score
		return nil
	})
}

type settingsService struct {
	repo     repository.SettingsRepo
	observer UseCaseObserver
}

func NewSettingsService(repo repository.SettingsRepo, observers ...UseCaseObserver) SettingsService {
	return &settingsService{repo: repo, observer: combineObservers(observers)}
}

func (s *settingsService) Get(ctx context.Context) (domain.AppSettings, error) {
	return s.repo.Settings(ctx)
}

func (s *settingsService) Update(ctx context.Context, settings domain.AppSettings) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "update-settings", startedAt, nil, err) }()

	if settings.AppName == "" {
		return domain.NewValidation("appName", "app name is required")
	}
	return s.repo.SaveSettings(ctx, settings)
}
