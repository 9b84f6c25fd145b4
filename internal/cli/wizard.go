package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/accredit/internal/cli/formatter"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// accreditHuhTheme returns a huh theme using the formatter palette.
func accreditHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// projectWizardValues backs the fields of the create-project form.
type projectWizardValues struct {
	Name        string
	Description string
	ProgramID   string
	Start       string
	End         string
	Lead        string
}

// projectWizardForm builds the create-project form. Programs must not be empty.
func projectWizardForm(programs []*domain.AccreditationProgram, users []*domain.User, v *projectWizardValues) *huh.Form {
	programOptions := make([]huh.Option[string], 0, len(programs))
	for _, p := range programs {
		programOptions = append(programOptions, huh.NewOption(p.Name, p.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			requiredInput("Project name", "name", &v.Name),
			huh.NewText().Title("Description").Value(&v.Description),
			huh.NewSelect[string]().
				Title("Accreditation program").
				Options(programOptions...).
				Value(&v.ProgramID),
		),
		huh.NewGroup(
			dateInput("Start date (YYYY-MM-DD, blank for today)", "", &v.Start),
			dateInput("End date (YYYY-MM-DD, blank for none)", "", &v.End).
				Validate(func(s string) error { return validateDateRange(v.Start, s) }),
			userSelect("Project lead", users, &v.Lead),
		),
	).WithTheme(accreditHuhTheme()).WithShowHelp(false)
}

// runProjectWizard fills the create flags interactively. Values already set
// on the command line are used as defaults.
func runProjectWizard(ctx context.Context, app *App, name, description, programID, start, end, lead *string) error {
	programs, err := app.Catalogs.Programs.List(ctx)
	if err != nil {
		return err
	}
	if len(programs) == 0 {
		return errors.New("no accreditation programs defined; add one first")
	}
	users, err := app.Catalogs.Users.List(ctx)
	if err != nil {
		return err
	}

	v := projectWizardValues{
		Name:        *name,
		Description: *description,
		ProgramID:   *programID,
		Start:       *start,
		End:         *end,
		Lead:        *lead,
	}
	if err := projectWizardForm(programs, users, &v).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errCancelled
		}
		return fmt.Errorf("project wizard: %w", err)
	}

	*name, *description, *programID = v.Name, v.Description, v.ProgramID
	*start, *end, *lead = v.Start, v.End, v.Lead
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateDateRange accepts a blank end date. A blank start means today,
// so only an explicit start is compared.
func validateDateRange(start, end string) error {
	if err := validateOptionalDate(end); err != nil || end == "" || start == "" {
		return err
	}
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil
	}
	e, _ := time.Parse(dateLayout, end)
	if e.Before(s) {
		return fmt.Errorf("end date is before the start date")
	}
	return nil
}

var errCancelled = errors.New("cancelled")

// confirmAction asks for a yes/no confirmation on a terminal. Without one it
// proceeds, so scripts are not blocked.
func confirmAction(cmd *cobra.Command, app *App, title string) error {
	if !app.interactive() {
		return nil
	}
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(accreditHuhTheme()).WithShowHelp(false)
	if err := form.RunWithContext(cmd.Context()); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errCancelled
		}
		return fmt.Errorf("confirmation: %w", err)
	}
	if !ok {
		return errCancelled
	}
	return nil
}
