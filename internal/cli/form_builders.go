package cli

import (
	"strings"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/charmbracelet/huh"
)

// dateInput returns a huh.Input for an optional date field with YYYY-MM-DD validation.
func dateInput(title, placeholder string, value *string) *huh.Input {
	if placeholder == "" {
		placeholder = "2026-06-30"
	}
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateOptionalDate)
}

// requiredInput returns a huh.Input that rejects blank values.
func requiredInput(title, field string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Value(value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return domain.NewValidation(field, "%s is required", field)
			}
			return nil
		})
}

// userSelect lists users with a leading "none" option.
func userSelect(title string, users []*domain.User, value *string) *huh.Select[string] {
	options := make([]huh.Option[string], 0, len(users)+1)
	options = append(options, huh.NewOption("(none)", ""))
	for _, u := range users {
		options = append(options, huh.NewOption(u.Name, u.ID))
	}
	return huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(value)
}
