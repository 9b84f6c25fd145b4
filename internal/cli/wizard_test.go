package cli

import (
	"testing"

	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"Both Blank", "", "", false},
		{"End Only", "", "2026-12-31", false},
		{"Ordered", "2026-01-01", "2026-12-31", false},
		{"Same Day", "2026-01-01", "2026-01-01", false},
		{"End Before Start", "2026-06-01", "2026-05-31", true},
		{"Malformed End", "2026-01-01", "31/12/2026", true},
		{"Malformed Start Ignored", "soon", "2026-12-31", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDateRange(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProjectWizardForm_Builds(t *testing.T) {
	env := testApp(t)
	ctx := t.Context()

	programs, err := env.app.Catalogs.Programs.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, programs)
	users := []*domain.User{testutil.NewTestUser("Sara Mendes")}

	v := &projectWizardValues{Name: "Preset"}
	form := projectWizardForm(programs, users, v)
	assert.NotNil(t, form)
	assert.Equal(t, "Preset", v.Name)
}
