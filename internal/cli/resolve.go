package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/spf13/pflag"
)

// resolveProjectID accepts a full project id, a case-insensitive project
// name, or a unique id prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", domain.NewValidation("project", "project ID is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", domain.NewNotFound("project", input)
	case 1:
		return matches[0], nil
	default:
		return "", domain.NewValidation("project", "ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// userNames maps user ids to display names for rendering.
func userNames(ctx context.Context, app *App) map[string]string {
	users, err := app.Catalogs.Users.List(ctx)
	if err != nil {
		return nil
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}

func programNames(ctx context.Context, app *App) map[string]string {
	programs, err := app.Catalogs.Programs.List(ctx)
	if err != nil {
		return nil
	}
	names := make(map[string]string, len(programs))
	for _, p := range programs {
		names[p.ID] = p.Name
	}
	return names
}

// findStandard returns the standard an item was built from, or nil.
func findStandard(standards []*domain.Standard, itemID string) *domain.Standard {
	for _, s := range standards {
		if s.ID == itemID || s.FindSubStandard(itemID) != nil {
			return s
		}
	}
	return nil
}

const dateLayout = "2006-01-02"

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.NewValidation(field, "invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// parseOptionalDate treats "none" and the empty string as clearing the date.
func parseOptionalDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	t, err := parseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// optionalID treats "none" and the empty string as no reference.
func optionalID(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil
	}
	return &s
}

func requireArg(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}

// complianceFlag parses status aliases such as "pc" while flags are read.
type complianceFlag struct {
	value domain.ComplianceStatus
	set   bool
}

var _ pflag.Value = (*complianceFlag)(nil)

func (f *complianceFlag) String() string { return string(f.value) }

func (f *complianceFlag) Set(s string) error {
	st, err := domain.ParseComplianceStatus(s)
	if err != nil {
		return err
	}
	f.value, f.set = st, true
	return nil
}

func (f *complianceFlag) Type() string { return "status" }
